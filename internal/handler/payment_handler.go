package handler

import (
	"time"

	"go-ledger-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(s service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

type registerPaymentRequest struct {
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
}

func (h *PaymentHandler) Register(c *fiber.Ctx) error {
	var req registerPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	payment, err := h.service.RegisterPayment(req.InvoiceID, req.Amount, req.Date, req.Description, getUserID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Payment registered", "data": payment})
}

type allocatePaymentRequest struct {
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	Amount         decimal.Decimal `json:"amount"`
	InvoiceIDs     []uuid.UUID     `json:"invoice_ids"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
}

func (h *PaymentHandler) Allocate(c *fiber.Ctx) error {
	var req allocatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.AllocateAcrossInvoices(req.CounterpartyID, req.Amount, req.InvoiceIDs, req.Date, req.Description, getUserID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Payment allocated", "data": result})
}
