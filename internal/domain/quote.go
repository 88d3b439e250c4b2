package domain

import (
	"time"

	"github.com/google/uuid"
)

// Quote is a priced offer to a client. Line items are owned by the quote
// and replaced as a whole set on edit, never patched individually.
type Quote struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	ClientID    uuid.UUID
	Number      string
	Title       string
	Description string
	Address     string
	Status      QuoteStatus

	Items []QuoteLineItem

	TaxRate        float64
	DiscountAmount float64
	Subtotal       float64
	TaxAmount      float64
	Total          float64

	ExpiryDate *time.Time

	ApprovalSignature string
	ApprovalIP        string
	ApprovedAt        *time.Time
	DeclineReason     string
	DeclinedAt        *time.Time

	// ConvertedJobID is set exactly once, when the quote becomes a job.
	ConvertedJobID *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// QuoteLineItem is a single priced line on a quote.
type QuoteLineItem struct {
	ID        uuid.UUID
	QuoteID   uuid.UUID
	ItemType  string
	Name      string
	Quantity  float64
	UnitPrice float64
	Taxable   bool
	// TotalPrice = Quantity * UnitPrice, never rounded.
	TotalPrice float64
	SortOrder  int
}
