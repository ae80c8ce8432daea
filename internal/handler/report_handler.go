package handler

import (
	"strconv"

	"go-ledger-api/internal/model"
	"go-ledger-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.StatementService
}

func NewReportHandler(s service.StatementService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetStatement returns the chronological account statement of one customer
// or supplier. Query params: entity_type, entity_id.
func (h *ReportHandler) GetStatement(c *fiber.Ctx) error {
	entityType := model.CounterpartyKind(c.Query("entity_type"))
	entityID, err := parseUUID(c.Query("entity_id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid entity ID"})
	}

	statement, err := h.service.GetStatement(entityType, entityID)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(statement)
}

func (h *ReportHandler) GetFinancialSummary(c *fiber.Ctx) error {
	summary, err := h.service.GetFinancialSummary()
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(summary)
}

// GetMonthlyIncomeStatement scopes the income statement to one calendar
// month. Query params: year, month.
func (h *ReportHandler) GetMonthlyIncomeStatement(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid year"})
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid month"})
	}

	statement, err := h.service.GetMonthlyIncomeStatement(year, month)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(statement)
}
