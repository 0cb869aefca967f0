package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/invoice-service/internal/api/dto"
	"github.com/spec-kit/invoice-service/internal/auth"
	"github.com/spec-kit/invoice-service/internal/domain"
	"github.com/spec-kit/invoice-service/internal/service"
	apperrors "github.com/spec-kit/invoice-service/pkg/util"
)

// InvoicesHandler manages invoice endpoints.
type InvoicesHandler struct {
	service *service.InvoiceService
}

// NewInvoicesHandler constructs handler.
func NewInvoicesHandler(invoiceService *service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{service: invoiceService}
}

// Upload POST /invoices/upload. Employee-only; accepts one CSV file under
// the "file" form field.
func (h *InvoicesHandler) Upload(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("csv file required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.MapError(err)
	}
	defer file.Close()

	result, err := h.service.UploadBatch(c.Context(), principal, file, fileHeader.Size)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.UploadResponse{BatchID: result.BatchID, Inserted: result.Inserted},
	})
}

// List GET /invoices.
func (h *InvoicesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	invoices, err := h.service.List(c.Context(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, invoiceResponse(&invoices[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Approve POST /invoices/:id/approve. Manager-only.
func (h *InvoicesHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, domain.InvoiceStatusApproved)
}

// Reject POST /invoices/:id/reject. Manager-only.
func (h *InvoicesHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, domain.InvoiceStatusRejected)
}

func (h *InvoicesHandler) decide(c *fiber.Ctx, target domain.InvoiceStatus) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	invoiceID, err := parseID(c)
	if err != nil {
		return err
	}

	// Body is optional; a missing or empty body means no comment.
	var req dto.DecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	inv, err := h.service.Decide(c.Context(), principal, invoiceID, target, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": invoiceResponse(inv)})
}

// History GET /invoices/:id/history.
func (h *InvoicesHandler) History(c *fiber.Ctx) error {
	invoiceID, err := parseID(c)
	if err != nil {
		return err
	}
	entries, err := h.service.History(c.Context(), invoiceID)
	if err != nil {
		return err
	}
	items := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.HistoryEntryResponse{
			TS:     entry.TS,
			Actor:  entry.ActorID,
			Action: entry.Action,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid invoice id", nil)
	}
	return id, nil
}

func invoiceResponse(inv *domain.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		Date:           inv.Date.Format("2006-01-02"),
		Amount:         dto.Number{Decimal: inv.Amount},
		Description:    inv.Description,
		Status:         inv.Status,
		ManagerComment: inv.ManagerComment,
		UploadedBy:     inv.UploadedBy,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}
