// Package progress maintains each learner's standing across the
// curriculum: per-level and per-lesson records, star rewards, streaks
// and level unlocking. Records are created lazily on first read, so a
// user always observes a fully-populated curriculum.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/itqanlabs/itqan/internal/logger"
	"github.com/itqanlabs/itqan/internal/store"
)

// CompletionReward is the star bonus granted when a level or lesson is
// completed for the first time.
const CompletionReward = 3

// streakWindow is how long a streak survives between activities.
const streakWindow = 24 * time.Hour

// Service implements the progress state machine on top of the store.
type Service struct {
	store *store.Store
	log   *logger.Logger
}

// NewService creates a progress service.
func NewService(st *store.Store, log *logger.Logger) *Service {
	return &Service{
		store: st,
		log:   log.With("service", "progress"),
	}
}

// LessonProgress is the read model for one lesson record.
type LessonProgress struct {
	LessonID    uint       `json:"lesson_id"`
	Title       string     `json:"title"`
	Fraction    float64    `json:"fraction"`
	Locked      bool       `json:"locked"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CurrentStep int        `json:"current_step"`
	TotalSteps  int        `json:"total_steps"`
}

// LevelProgress is the read model for one level and its lessons.
type LevelProgress struct {
	LevelID     uint             `json:"level_id"`
	Title       string           `json:"title"`
	Fraction    float64          `json:"fraction"`
	Locked      bool             `json:"locked"`
	Completed   bool             `json:"completed"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	Lessons     []LessonProgress `json:"lessons"`
}

// Overview is the full nested progress read model for one user.
type Overview struct {
	UserID           uuid.UUID       `json:"user_id"`
	StreakDays       int             `json:"streak_days"`
	TotalStars       int             `json:"total_stars"`
	CompletedLessons int             `json:"completed_lessons"`
	Levels           []LevelProgress `json:"levels"`
}

// AdvanceLevel sets the user's completion fraction on a level. Crossing
// 100 for the first time stamps the completion time, grants the star
// reward, bumps the streak and unlocks the next level. Everything runs
// in one transaction.
func (s *Service) AdvanceLevel(ctx context.Context, userID uuid.UUID, levelID uint, fraction float64) (*LevelProgress, error) {
	if fraction < 0 || fraction > 100 {
		return nil, fmt.Errorf("%w: fraction %v out of range [0,100]", store.ErrValidation, fraction)
	}

	var out *LevelProgress
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		user, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		level, err := tx.Curriculum().Level(ctx, levelID)
		if err != nil {
			return fmt.Errorf("load level: %w", err)
		}

		rec, err := s.levelRecord(ctx, tx, userID, level)
		if err != nil {
			return err
		}

		if rec.Completed {
			// Completed is terminal: the fraction never moves backwards.
			rec.Fraction = 100
		} else {
			rec.Fraction = fraction
			if fraction >= 100 {
				// Direct advances carry the lesson count too; the lesson
				// path counts each lesson as it completes instead.
				user.CompletedLessons++
				if err := s.complete(ctx, tx, user, rec, level); err != nil {
					return err
				}
			}
		}
		if err := tx.Progress().Save(ctx, rec); err != nil {
			return fmt.Errorf("save level record: %w", err)
		}

		out = &LevelProgress{
			LevelID:     level.ID,
			Title:       level.Title,
			Fraction:    rec.Fraction,
			Locked:      rec.Locked,
			Completed:   rec.Completed,
			CompletedAt: rec.CompletedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("level advanced", "user", userID, "level", levelID, "fraction", fraction)
	return out, nil
}

// AdvanceLesson sets the user's step position on a lesson and rolls the
// level fraction up as completedLessons/totalLessons*100. A lesson
// reaching its last step completes it; a level whose lessons are all
// completed completes too, with the same first-crossing-only semantics
// as AdvanceLevel.
func (s *Service) AdvanceLesson(ctx context.Context, userID uuid.UUID, levelID, lessonID uint, currentStep int) (*LevelProgress, error) {
	if currentStep < 0 {
		return nil, fmt.Errorf("%w: current step %d negative", store.ErrValidation, currentStep)
	}

	var out *LevelProgress
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		user, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		level, err := tx.Curriculum().Level(ctx, levelID)
		if err != nil {
			return fmt.Errorf("load level: %w", err)
		}
		lesson, err := tx.Curriculum().Lesson(ctx, lessonID)
		if err != nil {
			return fmt.Errorf("load lesson: %w", err)
		}
		if lesson.LevelID != levelID {
			return fmt.Errorf("%w: lesson %d not in level %d", store.ErrValidation, lessonID, levelID)
		}

		lessons, err := tx.Curriculum().Lessons(ctx, levelID)
		if err != nil {
			return fmt.Errorf("load lessons: %w", err)
		}

		id := lessonID
		rec, err := tx.Progress().GetOrCreate(ctx, userID, levelID, &id, store.ProgressRecord{
			TotalSteps: lesson.TotalSteps,
		})
		if err != nil {
			return fmt.Errorf("lesson record: %w", err)
		}

		rec.CurrentStep = currentStep
		if rec.TotalSteps == 0 {
			rec.TotalSteps = lesson.TotalSteps
		}
		if rec.Completed {
			// Completed is terminal: replaying earlier steps never
			// lowers the fraction.
			rec.Fraction = 100
		} else if rec.TotalSteps > 0 {
			rec.Fraction = float64(rec.CurrentStep) / float64(rec.TotalSteps) * 100
			if rec.Fraction > 100 {
				rec.Fraction = 100
			}
			if rec.Fraction >= 100 {
				now := time.Now()
				rec.Completed = true
				rec.CompletedAt = &now
				user.CompletedLessons++
				if err := tx.Users().Save(ctx, user); err != nil {
					return fmt.Errorf("save user: %w", err)
				}
			}
		}
		if err := tx.Progress().Save(ctx, rec); err != nil {
			return fmt.Errorf("save lesson record: %w", err)
		}

		// Roll the level fraction up from completed lessons. A level
		// already completed (directly or via roll-up) keeps its
		// terminal state.
		levelRec, err := s.levelRecord(ctx, tx, userID, level)
		if err != nil {
			return err
		}
		if !levelRec.Completed {
			levelRec.Fraction = levelFraction(ctx, tx, userID, levelID, len(lessons))
			if levelRec.Fraction >= 100 {
				if err := s.complete(ctx, tx, user, levelRec, level); err != nil {
					return err
				}
			}
			if err := tx.Progress().Save(ctx, levelRec); err != nil {
				return fmt.Errorf("save level record: %w", err)
			}
		}

		out = &LevelProgress{
			LevelID:     level.ID,
			Title:       level.Title,
			Fraction:    levelRec.Fraction,
			Locked:      levelRec.Locked,
			Completed:   levelRec.Completed,
			CompletedAt: levelRec.CompletedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("lesson advanced", "user", userID, "lesson", lessonID, "step", currentStep)
	return out, nil
}

// UnlockNext unlocks the level ordered after the given one. At the top
// of the curriculum it is a no-op.
func (s *Service) UnlockNext(ctx context.Context, userID uuid.UUID, levelID uint) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		level, err := tx.Curriculum().Level(ctx, levelID)
		if err != nil {
			return fmt.Errorf("load level: %w", err)
		}
		return s.unlockNext(ctx, tx, userID, level)
	})
}

// Overview returns the full nested progress read model, creating any
// missing records along the way.
func (s *Service) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	user, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	levels, err := s.store.Curriculum().Levels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load levels: %w", err)
	}

	ov := &Overview{
		UserID:           user.ID,
		StreakDays:       user.StreakDays,
		TotalStars:       user.TotalStars,
		CompletedLessons: user.CompletedLessons,
	}

	for i := range levels {
		level := &levels[i]
		rec, err := s.levelRecord(ctx, s.store, userID, level)
		if err != nil {
			return nil, err
		}

		lp := LevelProgress{
			LevelID:     level.ID,
			Title:       level.Title,
			Fraction:    rec.Fraction,
			Locked:      rec.Locked,
			Completed:   rec.Completed,
			CompletedAt: rec.CompletedAt,
		}

		lessons, err := s.store.Curriculum().Lessons(ctx, level.ID)
		if err != nil {
			return nil, fmt.Errorf("load lessons: %w", err)
		}
		for _, lesson := range lessons {
			id := lesson.ID
			lrec, err := s.store.Progress().GetOrCreate(ctx, userID, level.ID, &id, store.ProgressRecord{
				Locked:     rec.Locked,
				TotalSteps: lesson.TotalSteps,
			})
			if err != nil {
				return nil, fmt.Errorf("lesson record: %w", err)
			}
			lp.Lessons = append(lp.Lessons, LessonProgress{
				LessonID:    lesson.ID,
				Title:       lesson.Title,
				Fraction:    lrec.Fraction,
				Locked:      lrec.Locked,
				Completed:   lrec.Completed,
				CompletedAt: lrec.CompletedAt,
				CurrentStep: lrec.CurrentStep,
				TotalSteps:  lrec.TotalSteps,
			})
		}

		ov.Levels = append(ov.Levels, lp)
	}

	return ov, nil
}

// SaveLessonPosition stores the learner's last position inside a lesson
// and merges newly learned items into the record's learned set.
func (s *Service) SaveLessonPosition(ctx context.Context, userID uuid.UUID, levelID, lessonID uint, position map[string]any, learned []string) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		id := lessonID
		rec, err := tx.Progress().GetOrCreate(ctx, userID, levelID, &id, store.ProgressRecord{})
		if err != nil {
			return fmt.Errorf("lesson record: %w", err)
		}

		if position != nil {
			blob, err := json.Marshal(position)
			if err != nil {
				return fmt.Errorf("encode position: %w", err)
			}
			rec.LastPosition = datatypes.JSON(blob)
		}

		if len(learned) > 0 {
			merged, err := mergeLearned(rec.LearnedItems, learned)
			if err != nil {
				return err
			}
			rec.LearnedItems = merged
		}

		return tx.Progress().Save(ctx, rec)
	})
}

// levelRecord fetches the level-aggregate row, creating it locked
// unless the level is first in the curriculum.
func (s *Service) levelRecord(ctx context.Context, tx *store.Store, userID uuid.UUID, level *store.Level) (*store.ProgressRecord, error) {
	rec, err := tx.Progress().GetOrCreate(ctx, userID, level.ID, nil, store.ProgressRecord{
		Locked: level.OrderIndex > 0,
	})
	if err != nil {
		return nil, fmt.Errorf("level record: %w", err)
	}
	return rec, nil
}

// complete marks a level record completed: first crossing only. Stamps
// the time, grants stars, bumps the streak and unlocks the next level.
func (s *Service) complete(ctx context.Context, tx *store.Store, user *store.User, rec *store.ProgressRecord, level *store.Level) error {
	now := time.Now()
	rec.Completed = true
	rec.CompletedAt = &now
	rec.Fraction = 100

	user.TotalStars += CompletionReward
	updateStreak(user, now)
	if err := tx.Users().Save(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	if err := s.unlockNext(ctx, tx, user.ID, level); err != nil {
		return err
	}

	s.log.Info("level completed", "user", user.ID, "level", level.ID, "stars", user.TotalStars)
	return nil
}

func (s *Service) unlockNext(ctx context.Context, tx *store.Store, userID uuid.UUID, level *store.Level) error {
	next, err := tx.Curriculum().NextLevel(ctx, level)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil // top of the curriculum
		}
		return fmt.Errorf("next level: %w", err)
	}

	rec, err := tx.Progress().GetOrCreate(ctx, userID, next.ID, nil, store.ProgressRecord{Locked: false})
	if err != nil {
		return fmt.Errorf("next level record: %w", err)
	}
	if rec.Locked {
		rec.Locked = false
		if err := tx.Progress().Save(ctx, rec); err != nil {
			return fmt.Errorf("unlock next level: %w", err)
		}
	}
	return nil
}

// updateStreak applies the 24-hour streak rule: activity within the
// window extends the streak, a longer gap resets it to 1.
func updateStreak(user *store.User, now time.Time) {
	if user.LastActivityAt != nil && now.Sub(*user.LastActivityAt) <= streakWindow {
		user.StreakDays++
	} else {
		user.StreakDays = 1
	}
	user.LastActivityAt = &now
}

// levelFraction computes completed/total*100 over the level's lesson
// records. Total 0 yields 0.
func levelFraction(ctx context.Context, tx *store.Store, userID uuid.UUID, levelID uint, total int) float64 {
	if total == 0 {
		return 0
	}
	recs, err := tx.Progress().LessonRecords(ctx, userID, levelID)
	if err != nil {
		return 0
	}
	completed := 0
	for _, r := range recs {
		if r.Completed {
			completed++
		}
	}
	return float64(completed) / float64(total) * 100
}

// mergeLearned unions new items into the stored learned-items array,
// preserving order of first appearance.
func mergeLearned(existing datatypes.JSON, add []string) (datatypes.JSON, error) {
	var items []string
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &items); err != nil {
			return nil, fmt.Errorf("decode learned items: %w", err)
		}
	}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		seen[it] = true
	}
	for _, it := range add {
		if !seen[it] {
			items = append(items, it)
			seen[it] = true
		}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode learned items: %w", err)
	}
	return datatypes.JSON(blob), nil
}
