package storygen

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/itqanlabs/itqan/internal/selector"
)

// Themes is the fixed list a story theme is drawn from when the caller
// does not pick one.
var Themes = []string{
	"الطبيعة",
	"المغامرات",
	"المدرسة",
	"الحيوانات",
	"العائلة",
	"الصداقة",
	"الرياضة",
}

// RandomTheme returns a uniformly chosen theme.
func RandomTheme() string {
	return Themes[rand.IntN(len(Themes))]
}

const storySystemPrompt = `أنت معلم للغة العربية متخصص في إنشاء قصص تعليمية للأطفال.
سيطلب منك إنشاء قصة قصيرة تتضمن كلمات محددة يجب أن تظهر بشكل طبيعي في السياق.
يجب أن تكون القصة مناسبة للأطفال وجذابة وتعليمية.`

const exercisesSystemPrompt = `أنت معلم للغة العربية متخصص في تعليم النطق الصحيح.
سيطلب منك إنشاء تمارين قصيرة للتدريب على نطق كلمات محددة.
يجب أن تكون التمارين متنوعة وتركز على المشاكل الصوتية المحددة.`

// buildStoryPrompt renders the user message for story generation.
func buildStoryPrompt(words []selector.TargetWord, opts Options) string {
	wordCount := "150"
	if opts.Length == "medium" {
		wordCount = "300"
	}

	names := make([]string, len(words))
	for i, w := range words {
		names[i] = w.Word
	}

	var b strings.Builder
	fmt.Fprintf(&b, "اكتب قصة قصيرة باللغة العربية حوالي %s كلمة عن %s.\n", wordCount, opts.Theme)
	fmt.Fprintf(&b, "يجب أن تتضمن القصة الكلمات التالية بشكل طبيعي في السياق: %s\n\n", strings.Join(names, "، "))
	b.WriteString(`القصة يجب أن تكون:
- مناسبة للفئة العمرية: ` + opts.AgeGroup + `
- بمستوى صعوبة: ` + opts.Difficulty + `
- ذات بداية ووسط ونهاية واضحة
- تحتوي على شخصيات وحبكة بسيطة
- تعليمية وممتعة
- تستخدم لغة فصحى بسيطة

أعد الكلمات المستهدفة في عدة سياقات مختلفة إذا أمكن للتدريب على نطقها.
أضف خمس مفردات من القصة مع معانيها، وثلاثة أسئلة فهم من متعدد، والعبرة من القصة.`)
	return b.String()
}

// buildExercisesPrompt renders the user message for exercise generation.
func buildExercisesPrompt(words []selector.TargetWord, count int) string {
	var info []string
	for _, w := range words {
		category := w.Category
		if category == "" {
			category = "خطأ عام في النطق"
		}
		info = append(info, fmt.Sprintf("الكلمة: %s, فئة الخطأ: %s", w.Word, category))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "أنشئ %d تمارين قصيرة للتدريب على النطق الصحيح للكلمات التالية:\n\n", count)
	b.WriteString(strings.Join(info, "\n"))
	b.WriteString(`

لكل تمرين:
1. اكتب جملة قصيرة (5-10 كلمات) تحتوي على الكلمة المستهدفة
2. قدم نصيحة قصيرة حول كيفية نطق الكلمة بشكل صحيح
3. اقترح تمرينًا صوتيًا بسيطًا للتدريب

التمارين يجب أن تكون متنوعة ومناسبة للأطفال.`)
	return b.String()
}
