package repository

import "errors"

// Sentinel errors surfaced by repositories; services translate these into
// caller-facing failures.
var (
	ErrNotFound               = errors.New("record not found")
	ErrDuplicateInvoiceNumber = errors.New("duplicate invoice_number")
	ErrAlreadyProcessed       = errors.New("invoice already processed")
)
