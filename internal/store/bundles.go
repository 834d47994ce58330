package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BundleRepo persists generated content bundles and their illustrations.
// Bundles are append-only but deletable as a whole.
type BundleRepo interface {
	// Create inserts a bundle, assigning an ID when none is set.
	Create(ctx context.Context, b *ContentBundle) error

	// Get loads a bundle by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id uuid.UUID) (*ContentBundle, error)

	// ForUser returns a user's bundles, newest first; limit 0 means all.
	ForUser(ctx context.Context, userID uuid.UUID, limit int) ([]ContentBundle, error)

	// Delete removes a bundle and its illustrations.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddIllustration appends one illustration row.
	AddIllustration(ctx context.Context, ill *Illustration) error

	// Illustrations returns a bundle's illustrations in scene order.
	Illustrations(ctx context.Context, bundleID uuid.UUID) ([]Illustration, error)

	// MarkImagesGenerated flips the images_generated flag. It reports
	// whether this call performed the flip, so the worker finalizes a
	// bundle exactly once.
	MarkImagesGenerated(ctx context.Context, bundleID uuid.UUID) (bool, error)
}

type bundleRepo struct {
	db *gorm.DB
}

func (r *bundleRepo) Create(ctx context.Context, b *ContentBundle) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.GeneratedAt.IsZero() {
		b.GeneratedAt = now
	}
	return translate(r.db.WithContext(ctx).Create(b).Error)
}

func (r *bundleRepo) Get(ctx context.Context, id uuid.UUID) (*ContentBundle, error) {
	var b ContentBundle
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *bundleRepo) ForUser(ctx context.Context, userID uuid.UUID, limit int) ([]ContentBundle, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []ContentBundle
	err := q.Find(&out).Error
	return out, translate(err)
}

func (r *bundleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bundle_id = ?", id).Delete(&Illustration{}).Error; err != nil {
			return translate(err)
		}
		return translate(tx.Delete(&ContentBundle{}, "id = ?", id).Error)
	})
}

func (r *bundleRepo) AddIllustration(ctx context.Context, ill *Illustration) error {
	if ill.ID == uuid.Nil {
		ill.ID = uuid.New()
	}
	if ill.CreatedAt.IsZero() {
		ill.CreatedAt = time.Now()
	}
	return translate(r.db.WithContext(ctx).Create(ill).Error)
}

func (r *bundleRepo) Illustrations(ctx context.Context, bundleID uuid.UUID) ([]Illustration, error) {
	var out []Illustration
	err := r.db.WithContext(ctx).
		Where("bundle_id = ?", bundleID).
		Order("scene_index").
		Find(&out).Error
	return out, translate(err)
}

func (r *bundleRepo) MarkImagesGenerated(ctx context.Context, bundleID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&ContentBundle{}).
		Where("id = ? AND images_generated = ?", bundleID, false).
		Update("images_generated", true)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}
