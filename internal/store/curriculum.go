package store

import (
	"context"

	"gorm.io/gorm"
)

// CurriculumRepo reads the level/lesson reference data and supports the
// one-time seeding done by the seed command.
type CurriculumRepo interface {
	// Levels returns all levels ordered by OrderIndex.
	Levels(ctx context.Context) ([]Level, error)

	// Level loads one level. Returns ErrNotFound if absent.
	Level(ctx context.Context, id uint) (*Level, error)

	// Lessons returns a level's lessons ordered by OrderIndex.
	Lessons(ctx context.Context, levelID uint) ([]Lesson, error)

	// Lesson loads one lesson. Returns ErrNotFound if absent.
	Lesson(ctx context.Context, id uint) (*Lesson, error)

	// NextLevel returns the level ordered immediately after the given
	// one, or ErrNotFound at the top of the curriculum.
	NextLevel(ctx context.Context, after *Level) (*Level, error)

	// CreateLevel and CreateLesson insert reference rows (seeding only).
	CreateLevel(ctx context.Context, l *Level) error
	CreateLesson(ctx context.Context, l *Lesson) error
}

type curriculumRepo struct {
	db *gorm.DB
}

func (r *curriculumRepo) Levels(ctx context.Context) ([]Level, error) {
	var out []Level
	err := r.db.WithContext(ctx).Order("order_index").Find(&out).Error
	return out, translate(err)
}

func (r *curriculumRepo) Level(ctx context.Context, id uint) (*Level, error) {
	var l Level
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (r *curriculumRepo) Lessons(ctx context.Context, levelID uint) ([]Lesson, error) {
	var out []Lesson
	err := r.db.WithContext(ctx).
		Where("level_id = ?", levelID).
		Order("order_index").
		Find(&out).Error
	return out, translate(err)
}

func (r *curriculumRepo) Lesson(ctx context.Context, id uint) (*Lesson, error) {
	var l Lesson
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (r *curriculumRepo) NextLevel(ctx context.Context, after *Level) (*Level, error) {
	var l Level
	err := r.db.WithContext(ctx).
		Where("order_index > ?", after.OrderIndex).
		Order("order_index").
		First(&l).Error
	if err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (r *curriculumRepo) CreateLevel(ctx context.Context, l *Level) error {
	return translate(r.db.WithContext(ctx).Create(l).Error)
}

func (r *curriculumRepo) CreateLesson(ctx context.Context, l *Lesson) error {
	return translate(r.db.WithContext(ctx).Create(l).Error)
}
