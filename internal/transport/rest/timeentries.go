package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/domain"
	timesheetsvc "github.com/dkoval/fieldops-backend/internal/service/timesheet"
)

// TimeEntryHandler serves /v1/time-entries.
type TimeEntryHandler struct {
	log     *slog.Logger
	entries *timesheetsvc.Service
}

// NewTimeEntryHandler creates a TimeEntryHandler.
func NewTimeEntryHandler(log *slog.Logger, entries *timesheetsvc.Service) *TimeEntryHandler {
	return &TimeEntryHandler{log: log, entries: entries}
}

type timeEntryResponse struct {
	ID               uuid.UUID  `json:"id"`
	WorkerID         uuid.UUID  `json:"worker_id"`
	JobID            *uuid.UUID `json:"job_id,omitempty"`
	EntryType        string     `json:"entry_type"`
	Status           string     `json:"status"`
	StartedAt        time.Time  `json:"started_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	DurationMinutes  *int       `json:"duration_minutes,omitempty"`
	Billable         bool       `json:"billable"`
	Notes            string     `json:"notes,omitempty"`
	ClockOutLocation string     `json:"clock_out_location,omitempty"`
	ApprovedBy       *uuid.UUID `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func toTimeEntryResponse(e domain.TimeEntry) timeEntryResponse {
	return timeEntryResponse{
		ID:               e.ID,
		WorkerID:         e.WorkerID,
		JobID:            e.JobID,
		EntryType:        string(e.EntryType),
		Status:           string(e.Status),
		StartedAt:        e.StartedAt,
		EndedAt:          e.EndedAt,
		DurationMinutes:  e.DurationMinutes,
		Billable:         e.Billable,
		Notes:            e.Notes,
		ClockOutLocation: e.ClockOutLocation,
		ApprovedBy:       e.ApprovedBy,
		ApprovedAt:       e.ApprovedAt,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

type clockInRequest struct {
	WorkerID uuid.UUID  `json:"worker_id"`
	JobID    *uuid.UUID `json:"job_id"`
}

func (h *TimeEntryHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req clockInRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	entry, err := h.entries.ClockIn(r.Context(), req.WorkerID, req.JobID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTimeEntryResponse(entry))
}

type clockOutRequest struct {
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

func (h *TimeEntryHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req clockOutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	entry, err := h.entries.ClockOut(r.Context(), id, req.Location, req.Notes)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTimeEntryResponse(entry))
}

func (h *TimeEntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	entry, err := h.entries.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTimeEntryResponse(entry))
}

// ListByWorker serves GET /v1/workers/{id}/time-entries?from=...&to=...
// with RFC 3339 bounds.
func (h *TimeEntryHandler) ListByWorker(w http.ResponseWriter, r *http.Request) {
	workerID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	from, err := queryTime(r, "from")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	to, err := queryTime(r, "to")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	entries, err := h.entries.ListByWorker(r.Context(), workerID, from, to)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]timeEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = toTimeEntryResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}

type updateTimeEntryRequest struct {
	StartedAt *time.Time `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Billable  *bool      `json:"billable"`
	Notes     *string    `json:"notes"`
}

func (h *TimeEntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req updateTimeEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	entry, err := h.entries.Update(r.Context(), id, timesheetsvc.UpdateInput{
		StartedAt: req.StartedAt,
		EndedAt:   req.EndedAt,
		Billable:  req.Billable,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTimeEntryResponse(entry))
}

func (h *TimeEntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	if err := h.entries.Delete(r.Context(), id); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TimeEntryHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	entry, err := h.entries.Approve(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTimeEntryResponse(entry))
}

type rejectTimeEntryRequest struct {
	Reason string `json:"reason"`
}

func (h *TimeEntryHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req rejectTimeEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	entry, err := h.entries.Reject(r.Context(), id, req.Reason)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTimeEntryResponse(entry))
}
