package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access for payroll runs and their items.
// Mutating methods are expected to run inside a transaction carried on the
// context; GetForUpdate locks the payroll row for the transaction's duration.
type PayrollRepository interface {
	Create(ctx context.Context, p Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)
	GetForUpdate(ctx context.Context, id string) (Payroll, error)
	Update(ctx context.Context, p Payroll) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter Filter) ([]Payroll, int64, error)
	HasOverlapping(ctx context.Context, start, end time.Time, excludeID string) (bool, error)

	CreateItem(ctx context.Context, item Item) (Item, error)
	CountItems(ctx context.Context, payrollID string) (int, error)
	ItemExists(ctx context.Context, payrollID, employeeID string) (bool, error)
	ListItems(ctx context.Context, payrollID string) ([]Item, error)
	DeleteItems(ctx context.Context, payrollID string) error
}

type Filter struct {
	Status string
	Year   int
	Page   int
	Limit  int
}
