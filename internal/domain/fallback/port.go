package fallback

import (
	"context"
)

// Repository defines persistence for fallback records
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Latest(ctx context.Context, tenant string, limit int) ([]*Record, error)
}
