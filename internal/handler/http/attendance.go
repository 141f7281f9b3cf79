package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/attendance"
	"github.com/jkgulay/payroll-system-sub001/internal/handler/http/response"
	attendanceService "github.com/jkgulay/payroll-system-sub001/internal/service/attendance"
)

type AttendanceHandler interface {
	Upsert(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ListIncomplete(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService *attendanceService.Service
}

func NewAttendanceHandler(svc *attendanceService.Service) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: svc}
}

func (h *attendanceHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpsertAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.MapToResponse(result))
}

func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Attendance ID is required", nil)
		return
	}

	result, err := h.attendanceService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.MapToResponse(result))
}

func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	filter := attendance.Filter{
		EmployeeID: query.Get("employee_id"),
		Status:     query.Get("status"),
		Approval:   query.Get("approval_status"),
		Page:       page,
		Limit:      limit,
	}
	if start, err := time.Parse("2006-01-02", query.Get("start")); err == nil {
		filter.Start = &start
	}
	if end, err := time.Parse("2006-01-02", query.Get("end")); err == nil {
		filter.End = &end
	}

	records, total, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		data = append(data, attendance.MapToResponse(att))
	}

	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	response.SuccessWithMeta(w, data, &response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	})
}

func (h *attendanceHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Attendance ID is required", nil)
		return
	}

	var req struct {
		Decision string `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.Decide(r.Context(), id, req.Decision)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.MapToResponse(result))
}

func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Attendance ID is required", nil)
		return
	}

	if err := h.attendanceService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted", nil)
}

// ListIncomplete returns the validation report used before a payroll run:
// every record in the window missing a punch pair.
func (h *attendanceHandlerImpl) ListIncomplete(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start, err := time.Parse("2006-01-02", query.Get("start"))
	if err != nil {
		response.BadRequest(w, "start must be YYYY-MM-DD", nil)
		return
	}
	end, err := time.Parse("2006-01-02", query.Get("end"))
	if err != nil {
		response.BadRequest(w, "end must be YYYY-MM-DD", nil)
		return
	}

	records, err := h.attendanceService.ListIncomplete(r.Context(), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	type incompleteRow struct {
		attendance.AttendanceResponse
		Problem string `json:"problem"`
	}
	data := make([]incompleteRow, 0, len(records))
	for _, att := range records {
		data = append(data, incompleteRow{
			AttendanceResponse: attendance.MapToResponse(att),
			Problem:            att.IncompleteReason(),
		})
	}

	response.Success(w, data)
}
