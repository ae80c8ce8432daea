package handler

import (
	"strconv"

	"go-ledger-api/internal/model"
	"go-ledger-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CashHandler struct {
	service service.CashService
}

func NewCashHandler(s service.CashService) *CashHandler {
	return &CashHandler{service: s}
}

type registerCashRequest struct {
	Type           model.CashTransactionType `json:"type"`
	Description    string                    `json:"description"`
	Amount         decimal.Decimal           `json:"amount"`
	ReferenceID    *uuid.UUID                `json:"reference_id"`
	ReferenceTable *model.ReferenceTable     `json:"reference_table"`
}

func (h *CashHandler) Register(c *fiber.Ctx) error {
	var req registerCashRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	entry, err := h.service.Register(req.Type, req.Description, req.Amount, req.ReferenceID, req.ReferenceTable, getUserID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Cash transaction registered", "data": entry})
}

func (h *CashHandler) List(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	entries, err := h.service.Recent(limit)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(entries)
}

func (h *CashHandler) Balance(c *fiber.Ctx) error {
	balance, err := h.service.Balance()
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{"balance": balance})
}
