package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
)

type PayrollHandler interface {
	CreateSalaryStructure(w http.ResponseWriter, r *http.Request)
	Run(w http.ResponseWriter, r *http.Request)
	GeneratePayslip(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// CreateSalaryStructure implements PayrollHandler.
func (h *payrollHandlerImpl) CreateSalaryStructure(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateSalaryStructureRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.payrollService.CreateSalaryStructure(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary structure created successfully", resp)
}

// Run implements PayrollHandler.
func (h *payrollHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	var req payroll.RunPayrollRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.payrollService.RunPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run completed", resp)
}

// GeneratePayslip implements PayrollHandler.
func (h *payrollHandlerImpl) GeneratePayslip(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayslipRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.payrollService.GeneratePayslip(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip generated successfully", resp)
}

// GetPayslip implements PayrollHandler.
func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		response.BadRequest(w, "user_id is required", nil)
		return
	}
	values, ok := queryInts(w, r, "month", "year")
	if !ok {
		return
	}

	resp, err := h.payrollService.GetPayslip(r.Context(), userID, values[0], values[1])
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
