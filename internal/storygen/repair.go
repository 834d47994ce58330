package storygen

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/itqanlabs/itqan/internal/arabic"
	"github.com/itqanlabs/itqan/internal/selector"
)

// repairMoral is the moral attached to repaired stories.
const repairMoral = "تحسين مهارات النطق والقراءة"

// genericMeaning is the vocabulary gloss used when no category is known.
const genericMeaning = "كلمة مستهدفة للتدريب"

// extractText digs narrative text out of a malformed reply: a partial
// object with a text field, a bare JSON string, or plain text.
func extractText(raw json.RawMessage) string {
	var out storyOutput
	if err := json.Unmarshal(raw, &out); err == nil && strings.TrimSpace(out.Text) != "" {
		return strings.TrimSpace(out.Text)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	text := strings.TrimSpace(string(raw))
	if json.Valid(raw) {
		// Valid JSON without usable text (a number, array, object).
		return ""
	}
	return text
}

// repairVocabulary builds the vocabulary list for a repaired story: up
// to three target words glossed with their error category, topped up to
// five with the longest valid tokens found in the text.
func repairVocabulary(text string, targets []selector.TargetWord) []VocabularyItem {
	var items []VocabularyItem
	seen := make(map[string]bool)

	for _, t := range targets {
		if len(items) == 3 {
			break
		}
		key := arabic.Normalize(t.Word)
		if seen[key] {
			continue
		}
		seen[key] = true
		meaning := t.Category
		if meaning == "" {
			meaning = genericMeaning
		}
		items = append(items, VocabularyItem{Word: t.Word, Meaning: meaning})
	}

	var candidates []string
	for _, tok := range arabic.Words(text) {
		if !arabic.IsValidTargetWord(tok) {
			continue
		}
		key := arabic.Normalize(tok)
		if seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, tok)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return len([]rune(candidates[i])) > len([]rune(candidates[j]))
	})
	for _, c := range candidates {
		if len(items) == 5 {
			break
		}
		items = append(items, VocabularyItem{Word: c, Meaning: "كلمة من القصة"})
	}

	return items
}

// repairQuestions builds exactly three generic comprehension questions
// around the theme and target words.
func repairQuestions(theme string, targets []selector.TargetWord) []Question {
	first := "لا توجد كلمات"
	if len(targets) > 0 {
		first = targets[0].Word
	}
	second := "كلمات عادية"
	if len(targets) > 1 {
		second = targets[1].Word
	}

	// The resolved theme may itself be one of the stock distractors.
	themeOptions := []string{theme}
	for _, d := range []string{"الصداقة", "المغامرات", "الطبيعة", "المدرسة"} {
		if len(themeOptions) == 4 {
			break
		}
		if d != theme {
			themeOptions = append(themeOptions, d)
		}
	}

	return []Question{
		{
			Question:      "ما هو موضوع القصة؟",
			Options:       themeOptions,
			CorrectAnswer: 0,
		},
		{
			Question:      "ما هي الكلمات المستهدفة في هذه القصة؟",
			Options:       []string{first, second, "جميع الكلمات المميزة بالألوان", "كلمات عشوائية"},
			CorrectAnswer: 2,
		},
		{
			Question:      "ما الهدف من هذه القصة؟",
			Options:       []string{"التسلية فقط", "تعلم معلومات جديدة", "التدريب على نطق الكلمات الصعبة", "حفظ قصة جديدة"},
			CorrectAnswer: 2,
		},
	}
}

// repairExercises fabricates template drills, one per target word,
// cycling through the words until count is reached.
func repairExercises(targets []selector.TargetWord, count int) []Exercise {
	if len(targets) == 0 {
		return nil
	}

	out := make([]Exercise, 0, count)
	for i := range count {
		w := targets[i%len(targets)].Word
		out = append(out, Exercise{
			Sentence: fmt.Sprintf("قرأ الطفل كلمة %s بصوت واضح أمام معلمه.", w),
			Tip:      fmt.Sprintf("انطق كلمة %s ببطء، حرفا حرفا، ثم أعدها بسرعة طبيعية.", w),
			Drill:    fmt.Sprintf("كرر كلمة %s ثلاث مرات بصوت عال.", w),
		})
	}
	return out
}
