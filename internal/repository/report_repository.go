package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// MonthlyTotal is one reporting rollup row.
type MonthlyTotal struct {
	Employee string
	Month    string
	Total    decimal.Decimal
}

// ReportRepository runs read-only rollups over committed invoice state.
type ReportRepository interface {
	MonthlyTotals(ctx context.Context, year int) ([]MonthlyTotal, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository builds repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) MonthlyTotals(ctx context.Context, year int) ([]MonthlyTotal, error) {
	const query = `
        SELECT u.username, to_char(i.invoice_date, 'YYYY-MM') AS month, SUM(i.amount)
        FROM invoices i
        JOIN users u ON u.id = i.uploaded_by
        WHERE EXTRACT(YEAR FROM i.invoice_date) = $1
        GROUP BY u.username, month
        ORDER BY u.username, month`

	rows, err := r.pool.Query(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MonthlyTotal
	for rows.Next() {
		var row MonthlyTotal
		if err := rows.Scan(&row.Employee, &row.Month, &row.Total); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
