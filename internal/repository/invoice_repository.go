package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/invoice-service/internal/domain"
)

// InvoiceFilter scopes listings by uploader.
type InvoiceFilter struct {
	UploadedBy *int64
}

// InvoiceRepository encapsulates invoice persistence and the approval state
// machine. Transition and CreateBatch own their transaction boundaries.
type InvoiceRepository interface {
	CreateBatch(ctx context.Context, invoices []domain.Invoice) ([]domain.Invoice, error)
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	ExistsByNumber(ctx context.Context, invoiceNumber string) (bool, error)
	List(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, error)
	Transition(ctx context.Context, id int64, target domain.InvoiceStatus, comment *string, actorID *int64) (*domain.Invoice, error)
}

type invoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository instantiates repository.
func NewInvoiceRepository(pool *pgxpool.Pool) InvoiceRepository {
	return &invoiceRepository{pool: pool}
}

const invoiceColumns = `id, invoice_number, invoice_date, amount, description, status, manager_comment, uploaded_by, created_at, updated_at`

// CreateBatch inserts every invoice in one transaction. Any failure,
// including a unique constraint violation on invoice_number, rolls back the
// whole batch.
func (r *invoiceRepository) CreateBatch(ctx context.Context, invoices []domain.Invoice) ([]domain.Invoice, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO invoices (invoice_number, invoice_date, amount, description, status, uploaded_by)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	created := make([]domain.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		err := tx.QueryRow(ctx, query,
			inv.InvoiceNumber,
			inv.Date,
			inv.Amount,
			inv.Description,
			inv.Status,
			inv.UploadedBy,
		).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrDuplicateInvoiceNumber
			}
			return nil, err
		}
		created = append(created, inv)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	const query = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id=$1`

	var inv domain.Invoice
	if err := r.pool.QueryRow(ctx, query, id).Scan(scanTargets(&inv)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) ExistsByNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM invoices WHERE invoice_number=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, invoiceNumber).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	args := []any{}
	if filter.UploadedBy != nil {
		query += ` WHERE uploaded_by=$1`
		args = append(args, *filter.UploadedBy)
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

// Transition atomically moves a Pending invoice to the target status and
// appends the matching history entry. The conditional UPDATE makes exactly
// one caller win a concurrent race; the loser sees ErrAlreadyProcessed.
func (r *invoiceRepository) Transition(ctx context.Context, id int64, target domain.InvoiceStatus, comment *string, actorID *int64) (*domain.Invoice, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const update = `
        UPDATE invoices SET status=$2, manager_comment=$3, updated_at=NOW()
        WHERE id=$1 AND status='Pending'
        RETURNING ` + invoiceColumns

	var inv domain.Invoice
	err = tx.QueryRow(ctx, update, id, target, comment).Scan(scanTargets(&inv)...)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if checkErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE id=$1)`, id).Scan(&exists); checkErr != nil {
			return nil, checkErr
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, ErrAlreadyProcessed
	}
	if err != nil {
		return nil, err
	}

	const insertHistory = `
        INSERT INTO invoice_history (invoice_id, actor_id, action)
        VALUES ($1,$2,$3)`
	if _, err := tx.Exec(ctx, insertHistory, inv.ID, actorID, domain.HistoryAction(target)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &inv, nil
}

func scanTargets(inv *domain.Invoice) []any {
	return []any{
		&inv.ID,
		&inv.InvoiceNumber,
		&inv.Date,
		&inv.Amount,
		&inv.Description,
		&inv.Status,
		&inv.ManagerComment,
		&inv.UploadedBy,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	}
}

func scanInvoices(rows pgx.Rows) ([]domain.Invoice, error) {
	var result []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(scanTargets(&inv)...); err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	return result, rows.Err()
}
