package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrorCount is one row of the grouped mispronunciation tally used by
// the content selector.
type ErrorCount struct {
	Word     string
	Category string
	Count    int
}

// SpeechRepo persists reading attempts and their word-level errors.
type SpeechRepo interface {
	// CreateActivity inserts an activity, assigning an ID when none is set.
	CreateActivity(ctx context.Context, a *SpeechActivity) error

	// CreateErrorRecords batch-inserts error records for an activity.
	CreateErrorRecords(ctx context.Context, recs []SpeechErrorRecord) error

	// Activities returns a user's activities, newest first. storyID
	// filters to one story when non-empty; limit 0 means no limit.
	Activities(ctx context.Context, userID uuid.UUID, storyID string, limit int) ([]SpeechActivity, error)

	// ErrorsForActivity returns the error records of one activity.
	ErrorsForActivity(ctx context.Context, activityID uuid.UUID) ([]SpeechErrorRecord, error)

	// CommonErrors tallies the user's mispronunciations grouped by
	// (word, category), ordered by descending count.
	CommonErrors(ctx context.Context, userID uuid.UUID, limit int) ([]ErrorCount, error)
}

type speechRepo struct {
	db *gorm.DB
}

func (r *speechRepo) CreateActivity(ctx context.Context, a *SpeechActivity) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *speechRepo) CreateErrorRecords(ctx context.Context, recs []SpeechErrorRecord) error {
	if len(recs) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&recs).Error)
}

func (r *speechRepo) Activities(ctx context.Context, userID uuid.UUID, storyID string, limit int) ([]SpeechActivity, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if storyID != "" {
		q = q.Where("story_id = ?", storyID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []SpeechActivity
	err := q.Find(&out).Error
	return out, translate(err)
}

func (r *speechRepo) ErrorsForActivity(ctx context.Context, activityID uuid.UUID) ([]SpeechErrorRecord, error) {
	var out []SpeechErrorRecord
	err := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("id").
		Find(&out).Error
	return out, translate(err)
}

func (r *speechRepo) CommonErrors(ctx context.Context, userID uuid.UUID, limit int) ([]ErrorCount, error) {
	q := r.db.WithContext(ctx).
		Model(&SpeechErrorRecord{}).
		Select("expected_word AS word, category AS category, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("expected_word, category").
		Order("count DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []ErrorCount
	err := q.Scan(&out).Error
	return out, translate(err)
}
