package allowance

import (
	"context"
	"time"
)

type AllowanceRepository interface {
	CreateAllowance(ctx context.Context, a EmployeeAllowance) (EmployeeAllowance, error)
	UpdateAllowance(ctx context.Context, a EmployeeAllowance) error
	DeleteAllowance(ctx context.Context, id string) error
	ListActiveForEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]EmployeeAllowance, error)

	CreateMealAllowance(ctx context.Context, m MealAllowance) (MealAllowance, error)
	GetMealAllowanceByID(ctx context.Context, id string) (MealAllowance, error)
	UpdateMealAllowance(ctx context.Context, m MealAllowance) error
	ListApprovedMealAllowances(ctx context.Context, employeeID string, start, end time.Time) ([]MealAllowance, error)
}
