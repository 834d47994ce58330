package store

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// AuditRepo appends model-call audit rows.
type AuditRepo interface {
	Append(ctx context.Context, row *AICallLog) error
}

type auditRepo struct {
	db *gorm.DB
}

func (r *auditRepo) Append(ctx context.Context, row *AICallLog) error {
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}
	return translate(r.db.WithContext(ctx).Create(row).Error)
}
