package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/domain"
	jobsvc "github.com/dkoval/fieldops-backend/internal/service/job"
)

// JobHandler serves /v1/jobs.
type JobHandler struct {
	log  *slog.Logger
	jobs *jobsvc.Service
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(log *slog.Logger, jobs *jobsvc.Service) *JobHandler {
	return &JobHandler{log: log, jobs: jobs}
}

type jobResponse struct {
	ID                  uuid.UUID   `json:"id"`
	ClientID            uuid.UUID   `json:"client_id"`
	QuoteID             *uuid.UUID  `json:"quote_id,omitempty"`
	ParentJobID         *uuid.UUID  `json:"parent_job_id,omitempty"`
	Number              string      `json:"number"`
	Title               string      `json:"title"`
	Description         string      `json:"description,omitempty"`
	Address             string      `json:"address,omitempty"`
	Status              string      `json:"status"`
	Priority            string      `json:"priority"`
	ScheduledStart      *time.Time  `json:"scheduled_start,omitempty"`
	ScheduledEnd        *time.Time  `json:"scheduled_end,omitempty"`
	ActualStart         *time.Time  `json:"actual_start,omitempty"`
	ActualEnd           *time.Time  `json:"actual_end,omitempty"`
	AssigneeIDs         []uuid.UUID `json:"assignee_ids"`
	EstimatedValue      *float64    `json:"estimated_value,omitempty"`
	ActualCost          *float64    `json:"actual_cost,omitempty"`
	CompletionNotes     string      `json:"completion_notes,omitempty"`
	CompletionSignature string      `json:"completion_signature,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

func toJobResponse(j domain.Job) jobResponse {
	assignees := j.AssigneeIDs
	if assignees == nil {
		assignees = []uuid.UUID{}
	}
	return jobResponse{
		ID:                  j.ID,
		ClientID:            j.ClientID,
		QuoteID:             j.QuoteID,
		ParentJobID:         j.ParentJobID,
		Number:              j.Number,
		Title:               j.Title,
		Description:         j.Description,
		Address:             j.Address,
		Status:              j.Status.String(),
		Priority:            string(j.Priority),
		ScheduledStart:      j.ScheduledStart,
		ScheduledEnd:        j.ScheduledEnd,
		ActualStart:         j.ActualStart,
		ActualEnd:           j.ActualEnd,
		AssigneeIDs:         assignees,
		EstimatedValue:      j.EstimatedValue,
		ActualCost:          j.ActualCost,
		CompletionNotes:     j.CompletionNotes,
		CompletionSignature: j.CompletionSignature,
		CreatedAt:           j.CreatedAt,
		UpdatedAt:           j.UpdatedAt,
	}
}

type createJobRequest struct {
	ClientID       uuid.UUID   `json:"client_id"`
	QuoteID        *uuid.UUID  `json:"quote_id"`
	ParentJobID    *uuid.UUID  `json:"parent_job_id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Address        string      `json:"address"`
	Priority       *string     `json:"priority"`
	ScheduledStart *time.Time  `json:"scheduled_start"`
	ScheduledEnd   *time.Time  `json:"scheduled_end"`
	AssigneeIDs    []uuid.UUID `json:"assignee_ids"`
	EstimatedValue *float64    `json:"estimated_value"`
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	input := jobsvc.CreateInput{
		ClientID:       req.ClientID,
		QuoteID:        req.QuoteID,
		ParentJobID:    req.ParentJobID,
		Title:          req.Title,
		Description:    req.Description,
		Address:        req.Address,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		AssigneeIDs:    req.AssigneeIDs,
		EstimatedValue: req.EstimatedValue,
	}
	if req.Priority != nil {
		p := domain.JobPriority(*req.Priority)
		input.Priority = &p
	}

	created, err := h.jobs.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toJobResponse(created))
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	j, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(j))
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *domain.JobStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := domain.JobStatus(raw)
		status = &st
	}

	jobs, err := h.jobs.List(r.Context(), status)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]jobResponse, len(jobs))
	for i, j := range jobs {
		out[i] = toJobResponse(j)
	}
	writeJSON(w, http.StatusOK, out)
}

type updateJobRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Address        *string  `json:"address"`
	Priority       *string  `json:"priority"`
	EstimatedValue *float64 `json:"estimated_value"`
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req updateJobRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	input := jobsvc.UpdateInput{
		Title:          req.Title,
		Description:    req.Description,
		Address:        req.Address,
		EstimatedValue: req.EstimatedValue,
	}
	if req.Priority != nil {
		p := domain.JobPriority(*req.Priority)
		input.Priority = &p
	}

	updated, err := h.jobs.Update(r.Context(), id, input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(updated))
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	if err := h.jobs.Delete(r.Context(), id); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateJobStatusRequest struct {
	Status string `json:"status"`
}

func (h *JobHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req updateJobStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	updated, err := h.jobs.UpdateStatus(r.Context(), id, domain.JobStatus(req.Status))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(updated))
}

type completeJobRequest struct {
	Signature  string   `json:"signature"`
	Notes      string   `json:"notes"`
	ActualCost *float64 `json:"actual_cost"`
}

func (h *JobHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req completeJobRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	completed, err := h.jobs.Complete(r.Context(), id, jobsvc.CompleteInput{
		Signature:  req.Signature,
		Notes:      req.Notes,
		ActualCost: req.ActualCost,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(completed))
}

type scheduleJobRequest struct {
	ScheduledStart *time.Time  `json:"scheduled_start"`
	ScheduledEnd   *time.Time  `json:"scheduled_end"`
	AssigneeIDs    []uuid.UUID `json:"assignee_ids"`
}

func (h *JobHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req scheduleJobRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	updated, err := h.jobs.UpdateSchedule(r.Context(), id, jobsvc.ScheduleInput{
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		AssigneeIDs:    req.AssigneeIDs,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(updated))
}

type assignTeamRequest struct {
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
}

func (h *JobHandler) AssignTeam(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req assignTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	updated, err := h.jobs.AssignTeam(r.Context(), id, req.AssigneeIDs)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(updated))
}

type photoResponse struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption,omitempty"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

func toPhotoResponse(p domain.JobPhoto) photoResponse {
	return photoResponse{
		ID:        p.ID,
		JobID:     p.JobID,
		URL:       p.URL,
		Caption:   p.Caption,
		SortOrder: p.SortOrder,
		CreatedAt: p.CreatedAt,
	}
}

type addPhotoRequest struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

func (h *JobHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req addPhotoRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	photo, err := h.jobs.AddPhoto(r.Context(), id, jobsvc.PhotoInput{
		URL:     req.URL,
		Caption: req.Caption,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPhotoResponse(photo))
}

func (h *JobHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	photos, err := h.jobs.ListPhotos(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]photoResponse, len(photos))
	for i, p := range photos {
		out[i] = toPhotoResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *JobHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	photoID, err := pathUUID(r, "photoID")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	if err := h.jobs.DeletePhoto(r.Context(), jobID, photoID); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
