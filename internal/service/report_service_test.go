package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/invoice-service/internal/repository"
)

type fakeReportRepo struct {
	rows      []repository.MonthlyTotal
	yearsSeen []int
}

func (f *fakeReportRepo) MonthlyTotals(_ context.Context, year int) ([]repository.MonthlyTotal, error) {
	f.yearsSeen = append(f.yearsSeen, year)
	return f.rows, nil
}

func TestMonthlyTotalsRejectsOutOfRangeYears(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewReportService(repo)

	for _, year := range []int{1899, 2101, -1, 0} {
		_, err := svc.MonthlyTotals(context.Background(), year)
		assert.Equal(t, "INVALID_RANGE", domainCode(t, err), "year %d", year)
	}
	assert.Empty(t, repo.yearsSeen, "out-of-range years must not reach storage")
}

func TestMonthlyTotalsPassesThroughRollup(t *testing.T) {
	repo := &fakeReportRepo{rows: []repository.MonthlyTotal{
		{Employee: "alice", Month: "2025-05", Total: decimal.RequireFromString("150")},
		{Employee: "bob", Month: "2025-06", Total: decimal.RequireFromString("30")},
	}}
	svc := NewReportService(repo)

	rows, err := svc.MonthlyTotals(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, []int{2025}, repo.yearsSeen)
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0].Employee)
	assert.Equal(t, "2025-05", rows[0].Month)
	assert.True(t, rows[0].Total.Equal(decimal.RequireFromString("150")))
}

func TestMonthlyTotalsAcceptsBoundaryYears(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewReportService(repo)

	for _, year := range []int{1900, 2100} {
		_, err := svc.MonthlyTotals(context.Background(), year)
		assert.NoError(t, err, "year %d", year)
	}
}
