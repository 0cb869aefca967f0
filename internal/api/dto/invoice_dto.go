package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/invoice-service/internal/domain"
)

// Number wraps decimal.Decimal so amounts marshal as bare JSON numbers
// instead of the library's default quoted strings.
type Number struct {
	decimal.Decimal
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// UploadResponse reports an accepted batch.
type UploadResponse struct {
	BatchID  string `json:"batch_id"`
	Inserted int    `json:"inserted"`
}

// DecisionRequest payload for approve/reject.
type DecisionRequest struct {
	Comment *string `json:"comment"`
}

// InvoiceResponse response shape for a single invoice.
type InvoiceResponse struct {
	ID             int64                `json:"id"`
	InvoiceNumber  string               `json:"invoice_number"`
	Date           string               `json:"date"`
	Amount         Number               `json:"amount"`
	Description    *string              `json:"description"`
	Status         domain.InvoiceStatus `json:"status"`
	ManagerComment *string              `json:"manager_comment"`
	UploadedBy     int64                `json:"uploaded_by"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// HistoryEntryResponse is one audit trail entry.
type HistoryEntryResponse struct {
	TS     time.Time            `json:"ts"`
	Actor  *int64               `json:"actor"`
	Action domain.HistoryAction `json:"action"`
}

// MonthlyTotalResponse is one reporting rollup row.
type MonthlyTotalResponse struct {
	Employee string `json:"employee"`
	Month    string `json:"month"`
	Total    Number `json:"total"`
}
