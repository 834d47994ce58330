package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressRepo manages per-user progress records. A record with a nil
// LessonID is the level-aggregate row.
type ProgressRepo interface {
	// GetOrCreate returns the record for (user, level, lesson), creating
	// it with the given defaults when missing. A lost race against a
	// concurrent creator is resolved by re-reading.
	GetOrCreate(ctx context.Context, userID uuid.UUID, levelID uint, lessonID *uint, defaults ProgressRecord) (*ProgressRecord, error)

	// Get returns the record for (user, level, lesson) or ErrNotFound.
	Get(ctx context.Context, userID uuid.UUID, levelID uint, lessonID *uint) (*ProgressRecord, error)

	// Save persists changes to an existing record.
	Save(ctx context.Context, rec *ProgressRecord) error

	// ForUser returns all of a user's records.
	ForUser(ctx context.Context, userID uuid.UUID) ([]ProgressRecord, error)

	// LessonRecords returns the user's lesson-level records for a level
	// (the aggregate row excluded).
	LessonRecords(ctx context.Context, userID uuid.UUID, levelID uint) ([]ProgressRecord, error)
}

type progressRepo struct {
	db *gorm.DB
}

func (r *progressRepo) GetOrCreate(ctx context.Context, userID uuid.UUID, levelID uint, lessonID *uint, defaults ProgressRecord) (*ProgressRecord, error) {
	rec, err := r.Get(ctx, userID, levelID, lessonID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	fresh := defaults
	fresh.UserID = userID
	fresh.LevelID = levelID
	fresh.LessonID = lessonID
	fresh.CreatedAt = time.Now()
	if err := r.db.WithContext(ctx).Create(&fresh).Error; err != nil {
		if errors.Is(translate(err), ErrConflict) {
			// Lost the race; the winner's row is the truth.
			return r.Get(ctx, userID, levelID, lessonID)
		}
		return nil, translate(err)
	}
	return &fresh, nil
}

func (r *progressRepo) Get(ctx context.Context, userID uuid.UUID, levelID uint, lessonID *uint) (*ProgressRecord, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND level_id = ?", userID, levelID)
	if lessonID == nil {
		q = q.Where("lesson_id IS NULL")
	} else {
		q = q.Where("lesson_id = ?", *lessonID)
	}
	var rec ProgressRecord
	if err := q.First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *progressRepo) Save(ctx context.Context, rec *ProgressRecord) error {
	return translate(r.db.WithContext(ctx).Save(rec).Error)
}

func (r *progressRepo) ForUser(ctx context.Context, userID uuid.UUID) ([]ProgressRecord, error) {
	var out []ProgressRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("level_id, lesson_id").
		Find(&out).Error
	return out, translate(err)
}

func (r *progressRepo) LessonRecords(ctx context.Context, userID uuid.UUID, levelID uint) ([]ProgressRecord, error) {
	var out []ProgressRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND level_id = ? AND lesson_id IS NOT NULL", userID, levelID).
		Order("lesson_id").
		Find(&out).Error
	return out, translate(err)
}
