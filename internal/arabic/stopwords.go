package arabic

// stopwords is a closed-class Arabic function-word list: prepositions,
// conjunctions, pronouns, demonstratives and common particles. Entries are
// stored in normalized form (see Normalize); lookups must normalize first.
var stopwords = map[string]bool{
	// prepositions and particles
	"في": true, "من": true, "الى": true, "على": true, "عن": true,
	"مع": true, "حتى": true, "منذ": true, "عند": true, "لدى": true,
	"بين": true, "فوق": true, "تحت": true, "امام": true, "خلف": true,
	"قبل": true, "بعد": true, "ثم": true, "قد": true, "لقد": true,
	"لم": true, "لن": true, "لا": true, "ما": true, "ان": true,
	"اذا": true, "كي": true, "لكي": true, "كما": true, "بل": true,
	"او": true, "ايضا": true, "فقط": true, "كل": true, "بعض": true,
	// pronouns
	"هو": true, "هي": true, "هم": true, "هن": true, "انا": true,
	"انت": true, "نحن": true, "انتم": true, "هما": true,
	// demonstratives and relatives
	"هذا": true, "هذه": true, "ذلك": true, "تلك": true, "هنا": true,
	"هناك": true, "الذي": true, "التي": true, "الذين": true,
	// common copulas and auxiliaries
	"كان": true, "كانت": true, "يكون": true, "تكون": true, "ليس": true,
	"ليست": true, "اصبح": true, "صار": true,
	// vocative and misc
	"يا": true, "نعم": true, "كلا": true, "اي": true, "كيف": true,
	"متى": true, "اين": true, "لماذا": true, "ماذا": true, "لانه": true,
	"لان": true, "لكن": true, "ولكن": true,
}
