// Package store is the durable persistence layer for in-progress orders.
// Photo records survive process restarts; the working set is rebuilt from
// here on startup.
package store

import (
	"context"

	"photo-print-orders/internal/models"
)

// Store is the durable store contract. Put is an idempotent upsert keyed
// by id; Get reports a missing id with common.ErrNotFound; GetAll returns
// every stored record; Clear and Delete remove records. Every operation
// is transactional at single-item or whole-store granularity.
type Store interface {
	Put(ctx context.Context, item models.PhotoOrderItem) error
	Get(ctx context.Context, id string) (models.PhotoOrderItem, error)
	GetAll(ctx context.Context) ([]models.PhotoOrderItem, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Close() error
}
