package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/invoice-service/internal/api/dto"
	"github.com/spec-kit/invoice-service/internal/service"
	apperrors "github.com/spec-kit/invoice-service/pkg/util"
)

// ReportsHandler exposes manager-only reporting endpoints.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Monthly GET /reports/monthly?year=YYYY.
func (h *ReportsHandler) Monthly(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return apperrors.NewInvalidRange("year parameter required")
	}

	rows, err := h.service.MonthlyTotals(c.Context(), year)
	if err != nil {
		return err
	}
	items := make([]dto.MonthlyTotalResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.MonthlyTotalResponse{
			Employee: row.Employee,
			Month:    row.Month,
			Total:    dto.Number{Decimal: row.Total},
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
