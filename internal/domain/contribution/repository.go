package contribution

import "context"

type RateRepository interface {
	Create(ctx context.Context, rate GovernmentRate) (GovernmentRate, error)
	GetByID(ctx context.Context, id string) (GovernmentRate, error)
	Update(ctx context.Context, rate GovernmentRate) error
	Delete(ctx context.Context, id string) error
	ListActiveByType(ctx context.Context, t Type) ([]GovernmentRate, error)
	List(ctx context.Context) ([]GovernmentRate, error)
}
