// Package speech ingests reading attempts: it aligns what the child
// said against the text, classifies each mispronunciation, and keeps
// per-user accuracy statistics.
package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/itqanlabs/itqan/internal/arabic"
	"github.com/itqanlabs/itqan/internal/logger"
	"github.com/itqanlabs/itqan/internal/phonics"
	"github.com/itqanlabs/itqan/internal/store"
)

// trendWindow is how many activities feed each end of the improvement
// comparison.
const trendWindow = 5

// Service records and reads speech activity.
type Service struct {
	store *store.Store
	log   *logger.Logger
}

// NewService creates a speech service.
func NewService(st *store.Store, log *logger.Logger) *Service {
	return &Service{
		store: st,
		log:   log.With("service", "speech"),
	}
}

// ActivityInput describes one reading attempt.
type ActivityInput struct {
	UserID         uuid.UUID
	StoryID        string
	OriginalText   string
	RecognizedText string
	AudioRef       string
}

// WordError is one mispronounced word in the attempt summary.
type WordError struct {
	Expected   string           `json:"expected"`
	Spoken     string           `json:"spoken"`
	Similarity float64          `json:"similarity"`
	Severity   phonics.Severity `json:"severity"`
	Category   string           `json:"category"`
}

// ActivityResult summarizes a recorded attempt.
type ActivityResult struct {
	ActivityID uuid.UUID   `json:"activity_id"`
	Accuracy   float64     `json:"accuracy"`
	WordCount  int         `json:"word_count"`
	Errors     []WordError `json:"errors"`
}

// Stats aggregates a user's reading history.
type Stats struct {
	TotalActivities int     `json:"total_activities"`
	AverageAccuracy float64 `json:"average_accuracy"`
	HighestAccuracy float64 `json:"highest_accuracy"`
	RecentAccuracy  float64 `json:"recent_accuracy"`
	Improvement     float64 `json:"improvement"`
	Trend           string  `json:"trend"` // improving, declining, stable
}

// RecordActivity validates the input, aligns the recognized text
// against the original, classifies the mismatches and persists the
// activity with its error records in one transaction. Only minor and
// severe mismatches are stored.
func (s *Service) RecordActivity(ctx context.Context, in ActivityInput) (*ActivityResult, error) {
	if in.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id required", store.ErrValidation)
	}
	if strings.TrimSpace(in.StoryID) == "" {
		return nil, fmt.Errorf("%w: story id required", store.ErrValidation)
	}
	if strings.TrimSpace(in.OriginalText) == "" {
		return nil, fmt.Errorf("%w: original text required", store.ErrValidation)
	}

	exists, err := s.store.Users().Exists(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, in.UserID)
	}

	expected := arabic.Words(in.OriginalText)
	spoken := arabic.Words(in.RecognizedText)

	accuracy, wordErrors := evaluate(expected, spoken)

	activity := &store.SpeechActivity{
		UserID:         in.UserID,
		StoryID:        in.StoryID,
		OriginalText:   in.OriginalText,
		RecognizedText: in.RecognizedText,
		Accuracy:       accuracy,
		AudioRef:       in.AudioRef,
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Speech().CreateActivity(ctx, activity); err != nil {
			return fmt.Errorf("persist activity: %w", err)
		}
		recs := make([]store.SpeechErrorRecord, len(wordErrors))
		for i, we := range wordErrors {
			recs[i] = store.SpeechErrorRecord{
				ActivityID:   activity.ID,
				UserID:       in.UserID,
				ExpectedWord: we.Expected,
				SpokenWord:   we.Spoken,
				Severity:     string(we.Severity),
				Category:     we.Category,
			}
		}
		if err := tx.Speech().CreateErrorRecords(ctx, recs); err != nil {
			return fmt.Errorf("persist error records: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("activity recorded",
		"user", in.UserID, "story", in.StoryID,
		"accuracy", accuracy, "errors", len(wordErrors))

	return &ActivityResult{
		ActivityID: activity.ID,
		Accuracy:   accuracy,
		WordCount:  len(expected),
		Errors:     wordErrors,
	}, nil
}

// History returns the user's activities, newest first. storyID filters
// to one story when non-empty.
func (s *Service) History(ctx context.Context, userID uuid.UUID, storyID string, limit int) ([]store.SpeechActivity, error) {
	exists, err := s.store.Users().Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, userID)
	}
	return s.store.Speech().Activities(ctx, userID, storyID, limit)
}

// UserStats computes the user's accuracy aggregates and the improvement
// trend between their first and most recent activities.
func (s *Service) UserStats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	acts, err := s.store.Speech().Activities(ctx, userID, "", 0)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	if len(acts) == 0 {
		return &Stats{Trend: "stable"}, nil
	}

	st := &Stats{
		TotalActivities: len(acts),
		RecentAccuracy:  acts[0].Accuracy, // newest first
	}
	var sum float64
	for _, a := range acts {
		sum += a.Accuracy
		if a.Accuracy > st.HighestAccuracy {
			st.HighestAccuracy = a.Accuracy
		}
	}
	st.AverageAccuracy = sum / float64(len(acts))

	// Newest-first ordering: the head is recent, the tail is early.
	recent := window(acts[:min(trendWindow, len(acts))])
	early := window(acts[max(0, len(acts)-trendWindow):])
	st.Improvement = recent - early
	switch {
	case st.Improvement > 1:
		st.Trend = "improving"
	case st.Improvement < -1:
		st.Trend = "declining"
	default:
		st.Trend = "stable"
	}
	return st, nil
}

// evaluate aligns the word sequences and derives per-word errors plus
// overall accuracy (mean word similarity). Correctly read words produce
// no record.
func evaluate(expected, spoken []string) (float64, []WordError) {
	if len(expected) == 0 {
		return 0, nil
	}

	var total float64
	var wordErrors []WordError
	for _, p := range align(expected, spoken) {
		sim := phonics.Similarity(p.expected, p.spoken)
		total += sim

		severity := phonics.SeverityFor(sim)
		if severity == phonics.SeverityCorrect {
			continue
		}
		cat := phonics.Classify(p.expected, p.spoken)
		wordErrors = append(wordErrors, WordError{
			Expected:   p.expected,
			Spoken:     p.spoken,
			Similarity: sim,
			Severity:   severity,
			Category:   cat.Label(),
		})
	}

	return total / float64(len(expected)), wordErrors
}

func window(acts []store.SpeechActivity) float64 {
	if len(acts) == 0 {
		return 0
	}
	var sum float64
	for _, a := range acts {
		sum += a.Accuracy
	}
	return sum / float64(len(acts))
}
