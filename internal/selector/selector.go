// Package selector picks the words a user should practice next. It
// prefers the user's own mispronunciation history, falls back to words
// from their recent reading, and bottoms out at a built-in starter list
// so callers always get something to work with.
package selector

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/itqanlabs/itqan/internal/arabic"
	"github.com/itqanlabs/itqan/internal/logger"
	"github.com/itqanlabs/itqan/internal/store"
)

// Source tells where a selected word came from.
type Source string

const (
	FromErrorHistory   Source = "error_history"
	FromRecentActivity Source = "recent_activity"
	FromDefaults       Source = "defaults"
)

// TargetWord is one word chosen for practice. Category and Count are
// populated only for words drawn from the error history.
type TargetWord struct {
	Word     string `json:"word"`
	Category string `json:"category,omitempty"`
	Count    int    `json:"count,omitempty"`
	Source   Source `json:"source"`
}

// backfillThreshold is the history size below which recent-activity
// words are mixed in.
const backfillThreshold = 5

// recentActivityCount is how many recent readings feed the backfill.
const recentActivityCount = 3

// defaultWords is the starter list for users with no history at all.
var defaultWords = []string{"شمس", "قمر", "كتاب", "مدرسة", "بيت", "شجرة", "ماء"}

// Selector chooses practice words from a user's history.
type Selector struct {
	store *store.Store
	log   *logger.Logger
}

// New creates a Selector.
func New(st *store.Store, log *logger.Logger) *Selector {
	return &Selector{
		store: st,
		log:   log.With("service", "selector"),
	}
}

// SelectWords returns up to limit practice words. It over-fetches the
// grouped error counts, drops tokens the word filter rejects, backfills
// thin histories from recent readings and shuffles before truncating.
// The result is never empty for limit > 0.
func (s *Selector) SelectWords(ctx context.Context, userID uuid.UUID, limit int) ([]TargetWord, error) {
	if limit <= 0 {
		limit = backfillThreshold
	}

	counts, err := s.store.Speech().CommonErrors(ctx, userID, 2*limit)
	if err != nil {
		return nil, fmt.Errorf("load error counts: %w", err)
	}

	var words []TargetWord
	seen := make(map[string]bool)
	for _, c := range counts {
		if !arabic.IsValidTargetWord(c.Word) {
			continue
		}
		key := arabic.Normalize(c.Word)
		if seen[key] {
			continue
		}
		seen[key] = true
		words = append(words, TargetWord{
			Word:     c.Word,
			Category: c.Category,
			Count:    c.Count,
			Source:   FromErrorHistory,
		})
	}

	if len(words) < backfillThreshold {
		backfill, err := s.recentWords(ctx, userID, seen)
		if err != nil {
			return nil, err
		}
		words = append(words, backfill...)
	}

	if len(words) == 0 {
		for _, w := range defaultWords {
			words = append(words, TargetWord{Word: w, Source: FromDefaults})
		}
		s.log.Debug("no history, using defaults", "user", userID)
	}

	rand.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	if len(words) > limit {
		words = words[:limit]
	}
	return words, nil
}

// recentWords tokenizes the user's last few readings and keeps valid
// tokens not already selected.
func (s *Selector) recentWords(ctx context.Context, userID uuid.UUID, seen map[string]bool) ([]TargetWord, error) {
	acts, err := s.store.Speech().Activities(ctx, userID, "", recentActivityCount)
	if err != nil {
		return nil, fmt.Errorf("load recent activities: %w", err)
	}

	var out []TargetWord
	for _, act := range acts {
		for _, tok := range arabic.Words(act.OriginalText) {
			if !arabic.IsValidTargetWord(tok) {
				continue
			}
			key := arabic.Normalize(tok)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, TargetWord{Word: tok, Source: FromRecentActivity})
		}
	}
	return out, nil
}
