package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus enumerates lifecycle states for invoices.
type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "Pending"
	InvoiceStatusApproved InvoiceStatus = "Approved"
	InvoiceStatusRejected InvoiceStatus = "Rejected"
)

// Terminal reports whether the status permits no further transitions.
func (s InvoiceStatus) Terminal() bool {
	return s == InvoiceStatusApproved || s == InvoiceStatusRejected
}

// MaxInvoiceNumberLength bounds the caller-supplied invoice_number.
const MaxInvoiceNumberLength = 64

// Invoice is the aggregate for reimbursement requests. InvoiceNumber is
// unique across the whole ledger; Amount is always strictly positive.
type Invoice struct {
	ID             int64
	InvoiceNumber  string
	Date           time.Time
	Amount         decimal.Decimal
	Description    *string
	Status         InvoiceStatus
	ManagerComment *string
	UploadedBy     int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
