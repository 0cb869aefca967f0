package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/invoice-service/internal/domain"
)

// InvoiceHistoryRepository reads the append-only audit trail. Entries are
// written only inside the invoice Transition transaction.
type InvoiceHistoryRepository interface {
	ListByInvoice(ctx context.Context, invoiceID int64) ([]domain.InvoiceHistory, error)
}

type invoiceHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceHistoryRepository builds repository.
func NewInvoiceHistoryRepository(pool *pgxpool.Pool) InvoiceHistoryRepository {
	return &invoiceHistoryRepository{pool: pool}
}

func (r *invoiceHistoryRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]domain.InvoiceHistory, error) {
	const query = `
        SELECT id, invoice_id, actor_id, action, ts
        FROM invoice_history WHERE invoice_id=$1 ORDER BY ts ASC`
	rows, err := r.pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.InvoiceHistory
	for rows.Next() {
		var entry domain.InvoiceHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.InvoiceID,
			&entry.ActorID,
			&entry.Action,
			&entry.TS,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
