package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/invoice-service/internal/domain"
	"github.com/spec-kit/invoice-service/internal/events"
	"github.com/spec-kit/invoice-service/internal/ingest"
	"github.com/spec-kit/invoice-service/internal/repository"
	apperrors "github.com/spec-kit/invoice-service/pkg/util"
)

// InvoiceService coordinates the ingestion-and-approval workflow.
type InvoiceService struct {
	invoices   repository.InvoiceRepository
	history    repository.InvoiceHistoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	maxBytes   int64
}

// InvoiceDependencies bundles requirements for the invoice service.
type InvoiceDependencies struct {
	InvoiceRepo repository.InvoiceRepository
	HistoryRepo repository.InvoiceHistoryRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	MaxBytes    int64
}

// UploadResult summarizes an accepted batch.
type UploadResult struct {
	BatchID  string
	Inserted int
}

// NewInvoiceService constructs the service.
func NewInvoiceService(deps InvoiceDependencies) *InvoiceService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoices:   deps.InvoiceRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		maxBytes:   deps.MaxBytes,
	}
}

// UploadBatch validates a CSV batch row by row and, only when every row
// passed, inserts all rows as Pending invoices in a single transaction. Any
// row failure rejects the whole batch with nothing persisted.
func (s *InvoiceService) UploadBatch(ctx context.Context, uploader *domain.User, r io.Reader, size int64) (*UploadResult, error) {
	reader, err := ingest.NewBatchReader(r, size, s.maxBytes, func(ctx context.Context, number string) (bool, error) {
		return s.invoices.ExistsByNumber(ctx, number)
	})
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrPayloadTooLarge):
			return nil, apperrors.NewPayloadTooLarge("file larger than size cap")
		case errors.Is(err, ingest.ErrSchemaMismatch):
			return nil, apperrors.NewSchemaMismatch("csv header must be exactly: invoice_number,date,amount,description")
		default:
			return nil, apperrors.MapError(err)
		}
	}

	var pending []domain.Invoice
	for {
		rec, err := reader.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			var rowErr *ingest.RowError
			if errors.As(err, &rowErr) {
				return nil, apperrors.NewValidationError(
					fmt.Sprintf("row %d: %s", rowErr.Row, rowErr.Reason),
					map[string]any{"row": rowErr.Row, "reason": string(rowErr.Reason)},
				)
			}
			return nil, apperrors.MapError(err)
		}

		inv := domain.Invoice{
			InvoiceNumber: rec.InvoiceNumber,
			Date:          rec.Date,
			Amount:        rec.Amount,
			Status:        domain.InvoiceStatusPending,
			UploadedBy:    uploader.ID,
		}
		if rec.Description != "" {
			desc := rec.Description
			inv.Description = &desc
		}
		pending = append(pending, inv)
	}

	created, err := s.invoices.CreateBatch(ctx, pending)
	if err != nil {
		// The validator's pre-check is advisory; the unique constraint is the
		// real guarantee under concurrent uploads.
		if errors.Is(err, repository.ErrDuplicateInvoiceNumber) {
			return nil, apperrors.NewValidationError("duplicate invoice_number",
				map[string]any{"reason": string(ingest.ReasonDuplicateNumber)})
		}
		return nil, apperrors.MapError(err)
	}

	batchID := uuid.NewString()
	s.logger.Info("batch ingested",
		zap.String("batch_id", batchID),
		zap.Int64("uploader_id", uploader.ID),
		zap.Int("inserted", len(created)),
	)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventBatchIngested,
		ActorID: uploader.ID,
		Payload: events.BatchIngestedPayload{BatchID: batchID, Inserted: len(created)},
	})

	return &UploadResult{BatchID: batchID, Inserted: len(created)}, nil
}

// List returns invoices visible to the caller: employees see their own,
// managers see all. Ordering is stable insertion order.
func (s *InvoiceService) List(ctx context.Context, caller *domain.User) ([]domain.Invoice, error) {
	filter := repository.InvoiceFilter{}
	if caller.Role == domain.RoleEmployee {
		filter.UploadedBy = &caller.ID
	}
	invoices, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return invoices, nil
}

// Decide moves a Pending invoice to Approved or Rejected and records the
// audit entry in the same transaction. A second decision on the same invoice
// fails with ALREADY_PROCESSED and writes nothing.
func (s *InvoiceService) Decide(ctx context.Context, manager *domain.User, invoiceID int64, target domain.InvoiceStatus, comment *string) (*domain.Invoice, error) {
	if !target.Terminal() {
		return nil, apperrors.NewValidationError("target status must be Approved or Rejected", nil)
	}

	inv, err := s.invoices.Transition(ctx, invoiceID, target, comment, &manager.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewNotFound("invoice", map[string]any{"id": invoiceID})
		case errors.Is(err, repository.ErrAlreadyProcessed):
			return nil, apperrors.NewAlreadyProcessed("invoice already processed")
		default:
			return nil, apperrors.MapError(err)
		}
	}

	s.logger.Info("invoice decided",
		zap.Int64("invoice_id", inv.ID),
		zap.String("status", string(inv.Status)),
		zap.Int64("manager_id", manager.ID),
	)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventInvoiceDecided,
		ActorID: manager.ID,
		Payload: events.InvoiceDecidedPayload{InvoiceID: inv.ID, Status: inv.Status, Comment: comment},
	})

	return inv, nil
}

// History returns the audit trail for an invoice in chronological order.
func (s *InvoiceService) History(ctx context.Context, invoiceID int64) ([]domain.InvoiceHistory, error) {
	if _, err := s.invoices.GetByID(ctx, invoiceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("invoice", map[string]any{"id": invoiceID})
		}
		return nil, apperrors.MapError(err)
	}
	entries, err := s.history.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *InvoiceService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
