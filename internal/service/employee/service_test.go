package employee

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployees struct {
	byID map[string]employee.Employee
}

func (f *fakeEmployees) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	for _, existing := range f.byID {
		if existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}
	e.ID = "emp-" + e.EmployeeCode
	f.byID[e.ID] = e
	return e, nil
}

func (f *fakeEmployees) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployees) ListActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.byID {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestCreate(t *testing.T) {
	svc := NewEmployeeService(&fakeEmployees{byID: map[string]employee.Employee{}})
	ctx := context.Background()

	created, err := svc.Create(ctx, employee.CreateEmployeeRequest{
		EmployeeCode: "E001",
		FullName:     "Asha Rao",
		HireDate:     "2023-04-01",
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive, "employees are active unless stated otherwise")
	assert.Equal(t, "2023-04-01", created.HireDate)

	_, err = svc.Create(ctx, employee.CreateEmployeeRequest{EmployeeCode: "E001", FullName: "Someone", HireDate: "2024-01-01"})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewEmployeeService(&fakeEmployees{byID: map[string]employee.Employee{}})

	_, err := svc.Create(context.Background(), employee.CreateEmployeeRequest{EmployeeCode: "E002", HireDate: "01/04/2023"})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "full_name")
	assert.Contains(t, fields, "hire_date")
}

func TestListActive_SkipsInactive(t *testing.T) {
	inactive := false
	repo := &fakeEmployees{byID: map[string]employee.Employee{}}
	svc := NewEmployeeService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, employee.CreateEmployeeRequest{EmployeeCode: "E001", FullName: "Active", HireDate: "2023-04-01"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, employee.CreateEmployeeRequest{EmployeeCode: "E002", FullName: "Gone", HireDate: "2023-04-01", IsActive: &inactive})
	require.NoError(t, err)

	list, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "E001", list[0].EmployeeCode)

	got, err := svc.Get(ctx, "emp-E002")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}
