// Package ingest parses and validates CSV invoice batches. The reader is a
// pure streaming validator: it never touches storage directly and learns
// about existing invoice numbers only through the injected DuplicateCheck,
// so callers decide when (and whether) validated rows are persisted.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/invoice-service/internal/domain"
)

// DefaultMaxBatchBytes caps the declared upload size.
const DefaultMaxBatchBytes = 5 * 1024 * 1024

// Header is the canonical schema; uploads must match it exactly, in order.
var Header = []string{"invoice_number", "date", "amount", "description"}

const dateLayout = "2006-01-02"

// Batch-level failures detected before any row is processed.
var (
	ErrPayloadTooLarge = errors.New("batch exceeds size cap")
	ErrSchemaMismatch  = errors.New("csv header does not match canonical schema")
)

// RowReason tags the validation failure of a single data row.
type RowReason string

const (
	ReasonBadInvoiceNumber RowReason = "BadInvoiceNumber"
	ReasonBadDate          RowReason = "BadDate"
	ReasonBadAmount        RowReason = "BadAmount"
	ReasonDuplicateNumber  RowReason = "DuplicateInvoiceNumber"
	ReasonMalformedRow     RowReason = "MalformedRow"
)

// RowError reports a failed data row. Row numbers are 1-based with the
// header counting as row 1. Any RowError rejects the whole batch.
type RowError struct {
	Row    int
	Reason RowReason
	Err    error
}

func (e *RowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row %d: %s: %v", e.Row, e.Reason, e.Err)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// DuplicateCheck reports whether an invoice number already exists in the
// ledger. The check is advisory; the storage layer re-enforces uniqueness.
type DuplicateCheck func(ctx context.Context, invoiceNumber string) (bool, error)

// Record is one validated data row, ready to become a Pending invoice.
type Record struct {
	InvoiceNumber string
	Date          time.Time
	Amount        decimal.Decimal
	Description   string
}

// BatchReader validates a CSV batch one row at a time. It is single-pass and
// not restartable.
type BatchReader struct {
	csv *csv.Reader
	dup DuplicateCheck
	row int
}

// NewBatchReader checks the declared size against maxBytes (a negative size
// means unknown and is not checked) and consumes the header row. maxBytes
// of zero or less applies the default cap.
func NewBatchReader(r io.Reader, size int64, maxBytes int64, dup DuplicateCheck) (*BatchReader, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBatchBytes
	}
	if size > maxBytes {
		return nil, ErrPayloadTooLarge
	}

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, ErrSchemaMismatch
	}
	if len(header) != len(Header) {
		return nil, ErrSchemaMismatch
	}
	for i, field := range Header {
		if header[i] != field {
			return nil, ErrSchemaMismatch
		}
	}

	return &BatchReader{csv: cr, dup: dup, row: 1}, nil
}

// Next returns the next validated record, a *RowError for an invalid row, or
// io.EOF when the batch is exhausted.
func (b *BatchReader) Next(ctx context.Context) (*Record, error) {
	fields, err := b.csv.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	b.row++
	if err != nil {
		return nil, &RowError{Row: b.row, Reason: ReasonMalformedRow, Err: err}
	}

	number := strings.TrimSpace(fields[0])
	if number == "" || len(number) > domain.MaxInvoiceNumberLength {
		return nil, &RowError{Row: b.row, Reason: ReasonBadInvoiceNumber}
	}

	date, err := time.Parse(dateLayout, fields[1])
	if err != nil {
		return nil, &RowError{Row: b.row, Reason: ReasonBadDate, Err: err}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(fields[2]))
	if err != nil || !amount.IsPositive() {
		return nil, &RowError{Row: b.row, Reason: ReasonBadAmount, Err: err}
	}

	if b.dup != nil {
		exists, err := b.dup(ctx, number)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &RowError{Row: b.row, Reason: ReasonDuplicateNumber}
		}
	}

	return &Record{
		InvoiceNumber: number,
		Date:          date,
		Amount:        amount,
		Description:   fields[3],
	}, nil
}
