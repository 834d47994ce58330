package storygen

import (
	"time"

	"github.com/google/uuid"

	"github.com/itqanlabs/itqan/internal/selector"
)

// Options tunes story generation. Zero values fall back to the
// defaults used by Normalize.
type Options struct {
	Theme      string
	AgeGroup   string // "children" or "youth"
	Difficulty string // "beginner", "intermediate", "advanced"
	Length     string // "short" or "medium"
	Style      string // illustration style hint
}

// Normalize fills unset options with defaults. An empty theme is drawn
// uniformly from the built-in list.
func (o Options) Normalize() Options {
	if o.Theme == "" {
		o.Theme = RandomTheme()
	}
	if o.AgeGroup == "" {
		o.AgeGroup = "children"
	}
	if o.Difficulty == "" {
		o.Difficulty = "intermediate"
	}
	if o.Length == "" {
		o.Length = "short"
	}
	return o
}

// VocabularyItem is one word with its child-friendly meaning.
type VocabularyItem struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
}

// Question is a multiple-choice comprehension question.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

// Story is a generated practice story with its enrichments.
type Story struct {
	ID              uuid.UUID             `json:"id"`
	Text            string                `json:"text"`
	HighlightedText string                `json:"highlighted_text"`
	TargetWords     []selector.TargetWord `json:"target_words"`
	Vocabulary      []VocabularyItem      `json:"vocabulary"`
	Questions       []Question            `json:"questions"`
	Moral           string                `json:"moral"`
	Theme           string                `json:"theme"`
	AgeGroup        string                `json:"age_group"`
	Difficulty      string                `json:"difficulty"`
	Length          string                `json:"length"`
	Repaired        bool                  `json:"repaired"`
	GeneratedAt     time.Time             `json:"generated_at"`
}

// Exercise is one pronunciation drill.
type Exercise struct {
	Sentence string `json:"sentence"`
	Tip      string `json:"tip"`
	Drill    string `json:"drill"`
}

// ExerciseSet is a generated batch of exercises.
type ExerciseSet struct {
	ID          uuid.UUID             `json:"id"`
	Exercises   []Exercise            `json:"exercises"`
	TargetWords []selector.TargetWord `json:"target_words"`
	Repaired    bool                  `json:"repaired"`
	GeneratedAt time.Time             `json:"generated_at"`
}
