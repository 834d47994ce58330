package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepo manages learner accounts.
type UserRepo interface {
	// Create inserts a new user, assigning an ID when none is set.
	Create(ctx context.Context, u *User) error

	// Get loads a user by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id uuid.UUID) (*User, error)

	// Save persists changes to an existing user.
	Save(ctx context.Context, u *User) error

	// Exists reports whether a user with the given ID exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, u *User) error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrValidation
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepo) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepo) Save(ctx context.Context, u *User) error {
	return translate(r.db.WithContext(ctx).Save(u).Error)
}

func (r *userRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Count(&n).Error
	return n > 0, translate(err)
}
