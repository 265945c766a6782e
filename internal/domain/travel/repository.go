package travel

import (
	"context"
	"time"
)

type TravelRepository interface {
	// CreateGroup stores all rows of one submission atomically.
	CreateGroup(ctx context.Context, records []TravelRecord) ([]TravelRecord, error)
	GetByID(ctx context.Context, id string) (TravelRecord, error)
	ListByGroup(ctx context.Context, groupID string) ([]TravelRecord, error)
	List(ctx context.Context, filter TravelFilter) ([]TravelRecord, int64, error)
	// ListBetween returns records whose interval intersects [start, end].
	ListBetween(ctx context.Context, start, end time.Time) ([]TravelRecord, error)
	Update(ctx context.Context, record TravelRecord) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, records []TravelRecord) error
}
