package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/contribution"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/holiday"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/tax"
	"github.com/jkgulay/payroll-system-sub001/internal/handler/http/response"
	"github.com/jkgulay/payroll-system-sub001/internal/service/masterdata"
)

type MasterdataHandler interface {
	CreateHoliday(w http.ResponseWriter, r *http.Request)
	UpdateHoliday(w http.ResponseWriter, r *http.Request)
	DeleteHoliday(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)

	CreateRate(w http.ResponseWriter, r *http.Request)
	UpdateRate(w http.ResponseWriter, r *http.Request)
	DeleteRate(w http.ResponseWriter, r *http.Request)
	ListRates(w http.ResponseWriter, r *http.Request)

	CreateBracket(w http.ResponseWriter, r *http.Request)
	UpdateBracket(w http.ResponseWriter, r *http.Request)
	DeleteBracket(w http.ResponseWriter, r *http.Request)
	ListBrackets(w http.ResponseWriter, r *http.Request)
}

type masterdataHandlerImpl struct {
	masterdataService *masterdata.Service
}

func NewMasterdataHandler(svc *masterdata.Service) MasterdataHandler {
	return &masterdataHandlerImpl{masterdataService: svc}
}

// ========== HOLIDAYS ==========

func (h *masterdataHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req holiday.UpsertHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.masterdataService.CreateHoliday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created", holiday.MapToResponse(result))
}

func (h *masterdataHandlerImpl) UpdateHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Holiday ID is required", nil)
		return
	}

	var req holiday.UpsertHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.masterdataService.UpdateHoliday(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, holiday.MapToResponse(result))
}

func (h *masterdataHandlerImpl) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Holiday ID is required", nil)
		return
	}

	if err := h.masterdataService.DeleteHoliday(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted", nil)
}

func (h *masterdataHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))

	holidays, err := h.masterdataService.ListHolidays(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, hol := range holidays {
		data = append(data, holiday.MapToResponse(hol))
	}
	response.Success(w, data)
}

// ========== GOVERNMENT RATES ==========

func (h *masterdataHandlerImpl) CreateRate(w http.ResponseWriter, r *http.Request) {
	var req contribution.UpsertRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.masterdataService.CreateRate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Government rate created", contribution.MapToResponse(result))
}

func (h *masterdataHandlerImpl) UpdateRate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Rate ID is required", nil)
		return
	}

	var req contribution.UpsertRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.masterdataService.UpdateRate(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, contribution.MapToResponse(result))
}

func (h *masterdataHandlerImpl) DeleteRate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Rate ID is required", nil)
		return
	}

	if err := h.masterdataService.DeleteRate(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Government rate deleted", nil)
}

func (h *masterdataHandlerImpl) ListRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.masterdataService.ListRates(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data := make([]contribution.RateResponse, 0, len(rates))
	for _, rate := range rates {
		data = append(data, contribution.MapToResponse(rate))
	}
	response.Success(w, data)
}

// ========== TAX BRACKETS ==========

func (h *masterdataHandlerImpl) CreateBracket(w http.ResponseWriter, r *http.Request) {
	var req tax.UpsertBracketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.masterdataService.CreateBracket(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Tax bracket created", tax.MapToResponse(result))
}

func (h *masterdataHandlerImpl) UpdateBracket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Bracket ID is required", nil)
		return
	}

	var req tax.UpsertBracketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.masterdataService.UpdateBracket(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, tax.MapToResponse(result))
}

func (h *masterdataHandlerImpl) DeleteBracket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Bracket ID is required", nil)
		return
	}

	if err := h.masterdataService.DeleteBracket(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tax bracket deleted", nil)
}

func (h *masterdataHandlerImpl) ListBrackets(w http.ResponseWriter, r *http.Request) {
	brackets, err := h.masterdataService.ListBrackets(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data := make([]tax.BracketResponse, 0, len(brackets))
	for _, b := range brackets {
		data = append(data, tax.MapToResponse(b))
	}
	response.Success(w, data)
}
