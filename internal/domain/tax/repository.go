package tax

import "context"

type BracketRepository interface {
	Create(ctx context.Context, b Bracket) (Bracket, error)
	GetByID(ctx context.Context, id string) (Bracket, error)
	Update(ctx context.Context, b Bracket) error
	Delete(ctx context.Context, id string) error
	ListActiveByPeriod(ctx context.Context, period PeriodType) ([]Bracket, error)
	List(ctx context.Context) ([]Bracket, error)
}
