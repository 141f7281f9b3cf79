package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	Update(ctx context.Context, h Holiday) error
	Delete(ctx context.Context, id string) error
	// ListActiveBetween returns active holidays that could match any date in
	// the window: exact-dated rows inside it plus every recurring row.
	ListActiveBetween(ctx context.Context, start, end time.Time) ([]Holiday, error)
	List(ctx context.Context, year int) ([]Holiday, error)
}
