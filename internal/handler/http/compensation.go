package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/adjustment"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/allowance"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/loan"
	"github.com/jkgulay/payroll-system-sub001/internal/handler/http/response"
	"github.com/jkgulay/payroll-system-sub001/internal/service/compensation"
)

type CompensationHandler interface {
	CreateLoan(w http.ResponseWriter, r *http.Request)
	GetLoan(w http.ResponseWriter, r *http.Request)
	ListLoans(w http.ResponseWriter, r *http.Request)

	CreateDeduction(w http.ResponseWriter, r *http.Request)
	GetDeduction(w http.ResponseWriter, r *http.Request)

	CreateAdjustment(w http.ResponseWriter, r *http.Request)
	DecideAdjustment(w http.ResponseWriter, r *http.Request)

	CreateAllowance(w http.ResponseWriter, r *http.Request)
	DeleteAllowance(w http.ResponseWriter, r *http.Request)
	CreateMealAllowance(w http.ResponseWriter, r *http.Request)
	DecideMealAllowance(w http.ResponseWriter, r *http.Request)
}

type compensationHandlerImpl struct {
	compensationService *compensation.Service
}

func NewCompensationHandler(svc *compensation.Service) CompensationHandler {
	return &compensationHandlerImpl{compensationService: svc}
}

// ========== LOANS ==========

func (h *compensationHandlerImpl) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req loan.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.compensationService.CreateLoan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Loan created", loan.MapLoanToResponse(result))
}

func (h *compensationHandlerImpl) GetLoan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Loan ID is required", nil)
		return
	}

	result, err := h.compensationService.GetLoan(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, loan.MapLoanToResponse(result))
}

func (h *compensationHandlerImpl) ListLoans(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id is required", nil)
		return
	}

	loans, err := h.compensationService.ListLoans(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data := make([]loan.LoanResponse, 0, len(loans))
	for _, l := range loans {
		data = append(data, loan.MapLoanToResponse(l))
	}
	response.Success(w, data)
}

// ========== DEDUCTIONS ==========

func (h *compensationHandlerImpl) CreateDeduction(w http.ResponseWriter, r *http.Request) {
	var req loan.CreateDeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.compensationService.CreateDeduction(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Deduction created", loan.MapDeductionToResponse(result))
}

func (h *compensationHandlerImpl) GetDeduction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Deduction ID is required", nil)
		return
	}

	result, err := h.compensationService.GetDeduction(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, loan.MapDeductionToResponse(result))
}

// ========== SALARY ADJUSTMENTS ==========

func (h *compensationHandlerImpl) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req adjustment.CreateAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.compensationService.CreateAdjustment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary adjustment created", adjustment.MapToResponse(result))
}

func (h *compensationHandlerImpl) DecideAdjustment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Adjustment ID is required", nil)
		return
	}

	var req struct {
		Decision string `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.compensationService.DecideAdjustment(r.Context(), id, req.Decision)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, adjustment.MapToResponse(result))
}

// ========== ALLOWANCES ==========

func (h *compensationHandlerImpl) CreateAllowance(w http.ResponseWriter, r *http.Request) {
	var req allowance.CreateAllowanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.compensationService.CreateAllowance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Allowance created", allowance.MapAllowanceToResponse(result))
}

func (h *compensationHandlerImpl) DeleteAllowance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Allowance ID is required", nil)
		return
	}

	if err := h.compensationService.DeleteAllowance(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Allowance deleted", nil)
}

func (h *compensationHandlerImpl) CreateMealAllowance(w http.ResponseWriter, r *http.Request) {
	var req allowance.CreateMealAllowanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.compensationService.CreateMealAllowance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Meal allowance created", allowance.MapMealAllowanceToResponse(result))
}

func (h *compensationHandlerImpl) DecideMealAllowance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Meal allowance ID is required", nil)
		return
	}

	var req struct {
		Decision string `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.compensationService.DecideMealAllowance(r.Context(), id, req.Decision)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, allowance.MapMealAllowanceToResponse(result))
}
