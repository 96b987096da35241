package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, employee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	// ListActive returns active employees ordered by employee code.
	ListActive(ctx context.Context) ([]Employee, error)
}
