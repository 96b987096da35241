package employee

import "time"

type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	IsActive     bool
	HireDate     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
