package handler

import (
	"strconv"
	"time"

	"go-ledger-api/internal/repository"
	"go-ledger-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockHandler struct {
	service      service.StockService
	movementRepo repository.StockMovementRepository
}

func NewStockHandler(s service.StockService, movementRepo repository.StockMovementRepository) *StockHandler {
	return &StockHandler{service: s, movementRepo: movementRepo}
}

func (h *StockHandler) CreateMovement(c *fiber.Ctx) error {
	var input service.ManualMovementInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	movement, err := h.service.RecordManualMovement(&input, getUserID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Stock movement recorded", "data": movement})
}

func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	movements, err := h.service.ListMovements(limit)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(movements)
}

// DailyFlow returns inbound/outbound quantities aggregated per day for
// charting. Query params: days (default 7).
func (h *StockHandler) DailyFlow(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	data, err := h.movementRepo.GetDailyFlow(startDate, endDate)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}
