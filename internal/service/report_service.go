package service

import (
	"context"

	"github.com/spec-kit/invoice-service/internal/repository"
	apperrors "github.com/spec-kit/invoice-service/pkg/util"
)

// Year bounds accepted by the monthly report.
const (
	minReportYear = 1900
	maxReportYear = 2100
)

// ReportService exposes read-only rollups over the ledger.
type ReportService struct {
	reports repository.ReportRepository
}

// NewReportService constructs the service.
func NewReportService(reports repository.ReportRepository) *ReportService {
	return &ReportService{reports: reports}
}

// MonthlyTotals sums invoice amounts per (employee, month) for the given
// year, sorted by employee then month.
func (s *ReportService) MonthlyTotals(ctx context.Context, year int) ([]repository.MonthlyTotal, error) {
	if year < minReportYear || year > maxReportYear {
		return nil, apperrors.NewInvalidRange("year parameter out of range")
	}
	rows, err := s.reports.MonthlyTotals(ctx, year)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rows, nil
}
