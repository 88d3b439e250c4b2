package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/domain"
	quotesvc "github.com/dkoval/fieldops-backend/internal/service/quote"
)

// QuoteHandler serves /v1/quotes.
type QuoteHandler struct {
	log    *slog.Logger
	quotes *quotesvc.Service
}

// NewQuoteHandler creates a QuoteHandler.
func NewQuoteHandler(log *slog.Logger, quotes *quotesvc.Service) *QuoteHandler {
	return &QuoteHandler{log: log, quotes: quotes}
}

type lineItemResponse struct {
	ID         uuid.UUID `json:"id"`
	ItemType   string    `json:"item_type,omitempty"`
	Name       string    `json:"name"`
	Quantity   float64   `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	Taxable    bool      `json:"taxable"`
	TotalPrice float64   `json:"total_price"`
	SortOrder  int       `json:"sort_order"`
}

type quoteResponse struct {
	ID                uuid.UUID          `json:"id"`
	ClientID          uuid.UUID          `json:"client_id"`
	Number            string             `json:"number"`
	Title             string             `json:"title"`
	Description       string             `json:"description,omitempty"`
	Address           string             `json:"address,omitempty"`
	Status            string             `json:"status"`
	Items             []lineItemResponse `json:"items"`
	TaxRate           float64            `json:"tax_rate"`
	DiscountAmount    float64            `json:"discount_amount"`
	Subtotal          float64            `json:"subtotal"`
	TaxAmount         float64            `json:"tax_amount"`
	Total             float64            `json:"total"`
	ExpiryDate        *time.Time         `json:"expiry_date,omitempty"`
	ApprovalSignature string             `json:"approval_signature,omitempty"`
	ApprovedAt        *time.Time         `json:"approved_at,omitempty"`
	DeclineReason     string             `json:"decline_reason,omitempty"`
	DeclinedAt        *time.Time         `json:"declined_at,omitempty"`
	ConvertedJobID    *uuid.UUID         `json:"converted_job_id,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

func toQuoteResponse(q domain.Quote) quoteResponse {
	items := make([]lineItemResponse, len(q.Items))
	for i, it := range q.Items {
		items[i] = lineItemResponse{
			ID:         it.ID,
			ItemType:   it.ItemType,
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Taxable:    it.Taxable,
			TotalPrice: it.TotalPrice,
			SortOrder:  it.SortOrder,
		}
	}
	return quoteResponse{
		ID:                q.ID,
		ClientID:          q.ClientID,
		Number:            q.Number,
		Title:             q.Title,
		Description:       q.Description,
		Address:           q.Address,
		Status:            q.Status.String(),
		Items:             items,
		TaxRate:           q.TaxRate,
		DiscountAmount:    q.DiscountAmount,
		Subtotal:          q.Subtotal,
		TaxAmount:         q.TaxAmount,
		Total:             q.Total,
		ExpiryDate:        q.ExpiryDate,
		ApprovalSignature: q.ApprovalSignature,
		ApprovedAt:        q.ApprovedAt,
		DeclineReason:     q.DeclineReason,
		DeclinedAt:        q.DeclinedAt,
		ConvertedJobID:    q.ConvertedJobID,
		CreatedAt:         q.CreatedAt,
		UpdatedAt:         q.UpdatedAt,
	}
}

// lineItemRequest carries one priced line. Taxable is a pointer so an
// omitted flag defaults to taxed rather than tax-free.
type lineItemRequest struct {
	ItemType  string  `json:"item_type"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Taxable   *bool   `json:"taxable"`
}

func toLineItemInputs(items []lineItemRequest) []quotesvc.LineItemInput {
	if items == nil {
		return nil
	}
	out := make([]quotesvc.LineItemInput, len(items))
	for i, it := range items {
		out[i] = quotesvc.LineItemInput{
			ItemType:  it.ItemType,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Taxable:   it.Taxable,
		}
	}
	return out
}

type createQuoteRequest struct {
	ClientID       uuid.UUID         `json:"client_id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Address        string            `json:"address"`
	TaxRate        float64           `json:"tax_rate"`
	DiscountAmount float64           `json:"discount_amount"`
	ExpiryDate     *time.Time        `json:"expiry_date"`
	Items          []lineItemRequest `json:"items"`
}

func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	created, err := h.quotes.Create(r.Context(), quotesvc.CreateInput{
		ClientID:       req.ClientID,
		Title:          req.Title,
		Description:    req.Description,
		Address:        req.Address,
		TaxRate:        req.TaxRate,
		DiscountAmount: req.DiscountAmount,
		ExpiryDate:     req.ExpiryDate,
		Items:          toLineItemInputs(req.Items),
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toQuoteResponse(created))
}

func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	q, err := h.quotes.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuoteResponse(q))
}

func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quotes.List(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]quoteResponse, len(quotes))
	for i, q := range quotes {
		out[i] = toQuoteResponse(q)
	}
	writeJSON(w, http.StatusOK, out)
}

type updateQuoteRequest struct {
	Title          *string           `json:"title"`
	Description    *string           `json:"description"`
	Address        *string           `json:"address"`
	TaxRate        *float64          `json:"tax_rate"`
	DiscountAmount *float64          `json:"discount_amount"`
	ExpiryDate     *time.Time        `json:"expiry_date"`
	Items          []lineItemRequest `json:"items"`
}

func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req updateQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	updated, err := h.quotes.Update(r.Context(), id, quotesvc.UpdateInput{
		Title:          req.Title,
		Description:    req.Description,
		Address:        req.Address,
		TaxRate:        req.TaxRate,
		DiscountAmount: req.DiscountAmount,
		ExpiryDate:     req.ExpiryDate,
		Items:          toLineItemInputs(req.Items),
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuoteResponse(updated))
}

func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	if err := h.quotes.Delete(r.Context(), id); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *QuoteHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	sent, err := h.quotes.Send(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuoteResponse(sent))
}

type approveQuoteRequest struct {
	Signature string `json:"signature"`
}

func (h *QuoteHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req approveQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	approved, err := h.quotes.Approve(r.Context(), id, req.Signature, clientIP(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuoteResponse(approved))
}

type declineQuoteRequest struct {
	Reason string `json:"reason"`
}

func (h *QuoteHandler) Decline(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req declineQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	declined, err := h.quotes.Decline(r.Context(), id, req.Reason)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuoteResponse(declined))
}

func (h *QuoteHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	job, err := h.quotes.ConvertToJob(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toJobResponse(job))
}
