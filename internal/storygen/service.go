// Package storygen orchestrates content generation: it turns a user's
// practice words into a story or exercise set via the model provider,
// repairs malformed replies deterministically, and persists the result.
package storygen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/itqanlabs/itqan/internal/highlight"
	"github.com/itqanlabs/itqan/internal/llm"
	"github.com/itqanlabs/itqan/internal/logger"
	"github.com/itqanlabs/itqan/internal/selector"
	"github.com/itqanlabs/itqan/internal/store"
)

// targetWordCount is how many practice words feed one generation.
const targetWordCount = 5

// defaultExerciseCount is used when the caller asks for zero exercises.
const defaultExerciseCount = 5

const (
	maxStoryTokens = 2000
	temperature    = 0.7
)

// Service generates stories and exercises.
type Service struct {
	provider llm.Provider
	store    *store.Store
	selector *selector.Selector
	log      *logger.Logger

	// onBundle, when set, is called after a story bundle is persisted
	// so the illustration worker can pick it up.
	onBundle func(bundleID uuid.UUID, style string)
}

// NewService creates a generation service.
func NewService(provider llm.Provider, st *store.Store, sel *selector.Selector, log *logger.Logger) *Service {
	return &Service{
		provider: provider,
		store:    st,
		selector: sel,
		log:      log.With("service", "storygen"),
	}
}

// OnBundleCreated registers the callback invoked after each persisted
// story bundle. Call before generating; not safe concurrently with it.
func (s *Service) OnBundleCreated(fn func(bundleID uuid.UUID, style string)) {
	s.onBundle = fn
}

// storyOutput is the raw model reply before validation.
type storyOutput struct {
	Text       string           `json:"text"`
	Vocabulary []VocabularyItem `json:"vocabulary"`
	Questions  []Question       `json:"questions"`
	Moral      string           `json:"moral"`
}

// GenerateStory produces a story around the user's practice words. A
// well-formed model reply is used directly; a malformed one that still
// carries narrative text is repaired and flagged; a reply with no
// usable text fails.
func (s *Service) GenerateStory(ctx context.Context, userID uuid.UUID, opts Options) (*Story, error) {
	opts = opts.Normalize()

	words, err := s.selector.SelectWords(ctx, userID, targetWordCount)
	if err != nil {
		return nil, fmt.Errorf("select words: %w", err)
	}

	ctx = llm.WithPurpose(ctx, "story-gen")
	req := llm.Request{
		System: storySystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildStoryPrompt(words, opts)},
		},
		Schema:      StorySchema,
		MaxTokens:   maxStoryTokens,
		Temperature: temperature,
	}

	raw, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	story := &Story{
		TargetWords: words,
		Theme:       opts.Theme,
		AgeGroup:    opts.AgeGroup,
		Difficulty:  opts.Difficulty,
		Length:      opts.Length,
		GeneratedAt: time.Now(),
	}

	out, ok := parseStory(raw)
	if ok {
		story.Text = out.Text
		story.Vocabulary = out.Vocabulary
		story.Questions = out.Questions
		story.Moral = out.Moral
	} else {
		text := extractText(raw)
		if strings.TrimSpace(text) == "" {
			return nil, &llm.ErrInvalidResponse{
				Content: raw,
				Err:     errors.New("story reply carries no narrative text"),
			}
		}
		story.Text = text
		story.Vocabulary = repairVocabulary(text, words)
		story.Questions = repairQuestions(opts.Theme, words)
		story.Moral = repairMoral
		story.Repaired = true
		s.log.Warn("repaired malformed story reply", "user", userID)
	}

	story.HighlightedText = highlight.Apply(story.Text, wordNames(words))

	if err := s.persistStory(ctx, userID, story, opts.Style); err != nil {
		return nil, err
	}
	s.log.Info("story generated", "user", userID, "bundle", story.ID, "repaired", story.Repaired)
	return story, nil
}

// GenerateExercises produces count pronunciation drills for the user's
// practice words, with the same two-tier repair contract as stories.
func (s *Service) GenerateExercises(ctx context.Context, userID uuid.UUID, count int) (*ExerciseSet, error) {
	if count <= 0 {
		count = defaultExerciseCount
	}

	words, err := s.selector.SelectWords(ctx, userID, targetWordCount)
	if err != nil {
		return nil, fmt.Errorf("select words: %w", err)
	}

	ctx = llm.WithPurpose(ctx, "exercise-gen")
	req := llm.Request{
		System: exercisesSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildExercisesPrompt(words, count)},
		},
		Schema:      ExercisesSchema,
		MaxTokens:   maxStoryTokens,
		Temperature: temperature,
	}

	raw, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	set := &ExerciseSet{
		TargetWords: words,
		GeneratedAt: time.Now(),
	}

	exercises, ok := parseExercises(raw)
	if ok {
		if len(exercises) > count {
			exercises = exercises[:count]
		}
		set.Exercises = exercises
	} else {
		set.Exercises = repairExercises(words, count)
		set.Repaired = true
		s.log.Warn("repaired malformed exercise reply", "user", userID)
	}

	if err := s.persistExercises(ctx, userID, set); err != nil {
		return nil, err
	}
	s.log.Info("exercises generated", "user", userID, "bundle", set.ID, "repaired", set.Repaired)
	return set, nil
}

// generate calls the provider and, for schema violations, salvages the
// raw content so the repair path can run.
func (s *Service) generate(ctx context.Context, req llm.Request) (json.RawMessage, error) {
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		var inv *llm.ErrInvalidResponse
		if errors.As(err, &inv) && len(inv.Content) > 0 {
			return inv.Content, nil
		}
		return nil, fmt.Errorf("model generation failed: %w", err)
	}
	return resp.Content, nil
}

// parseStory accepts the reply only when it is structurally complete.
func parseStory(raw json.RawMessage) (*storyOutput, bool) {
	var out storyOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	if strings.TrimSpace(out.Text) == "" || strings.TrimSpace(out.Moral) == "" {
		return nil, false
	}
	if len(out.Vocabulary) == 0 || len(out.Vocabulary) > 5 {
		return nil, false
	}
	if len(out.Questions) != 3 {
		return nil, false
	}
	for _, q := range out.Questions {
		if len(q.Options) != 4 || q.CorrectAnswer < 0 || q.CorrectAnswer > 3 {
			return nil, false
		}
	}
	return &out, true
}

func parseExercises(raw json.RawMessage) ([]Exercise, bool) {
	var out struct {
		Exercises []Exercise `json:"exercises"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	if len(out.Exercises) == 0 {
		return nil, false
	}
	for _, e := range out.Exercises {
		if strings.TrimSpace(e.Sentence) == "" {
			return nil, false
		}
	}
	return out.Exercises, true
}

func (s *Service) persistStory(ctx context.Context, userID uuid.UUID, story *Story, style string) error {
	targets, err := json.Marshal(story.TargetWords)
	if err != nil {
		return fmt.Errorf("encode target words: %w", err)
	}
	vocab, err := json.Marshal(story.Vocabulary)
	if err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}
	questions, err := json.Marshal(story.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	bundle := &store.ContentBundle{
		UserID:          userID,
		Kind:            store.BundleKindStory,
		Text:            story.Text,
		HighlightedText: story.HighlightedText,
		TargetWords:     datatypes.JSON(targets),
		Vocabulary:      datatypes.JSON(vocab),
		Questions:       datatypes.JSON(questions),
		Moral:           story.Moral,
		Theme:           story.Theme,
		AgeGroup:        story.AgeGroup,
		Difficulty:      story.Difficulty,
		Length:          story.Length,
		Repaired:        story.Repaired,
		GeneratedAt:     story.GeneratedAt,
	}
	if err := s.store.Bundles().Create(ctx, bundle); err != nil {
		return fmt.Errorf("persist story: %w", err)
	}
	story.ID = bundle.ID

	if s.onBundle != nil {
		s.onBundle(bundle.ID, style)
	}
	return nil
}

func (s *Service) persistExercises(ctx context.Context, userID uuid.UUID, set *ExerciseSet) error {
	targets, err := json.Marshal(set.TargetWords)
	if err != nil {
		return fmt.Errorf("encode target words: %w", err)
	}
	exercises, err := json.Marshal(set.Exercises)
	if err != nil {
		return fmt.Errorf("encode exercises: %w", err)
	}

	bundle := &store.ContentBundle{
		UserID:      userID,
		Kind:        store.BundleKindExercises,
		TargetWords: datatypes.JSON(targets),
		Questions:   datatypes.JSON(exercises),
		Repaired:    set.Repaired,
		GeneratedAt: set.GeneratedAt,
	}
	if err := s.store.Bundles().Create(ctx, bundle); err != nil {
		return fmt.Errorf("persist exercises: %w", err)
	}
	set.ID = bundle.ID
	return nil
}

func wordNames(words []selector.TargetWord) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Word
	}
	return out
}
