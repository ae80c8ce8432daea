package handler

import (
	"go-ledger-api/internal/model"
	"go-ledger-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// InvoiceHandler serves one invoice direction; it is instantiated once for
// sales and once for purchases over the same lifecycle service.
type InvoiceHandler struct {
	service   service.InvoiceService
	sequences service.SequenceService
	kind      model.InvoiceKind
}

func NewInvoiceHandler(s service.InvoiceService, sequences service.SequenceService, kind model.InvoiceKind) *InvoiceHandler {
	return &InvoiceHandler{service: s, sequences: sequences, kind: kind}
}

func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var input service.InvoiceInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	invoice, err := h.service.Create(h.kind, &input, getUserID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Invoice created", "data": invoice})
}

func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	var input service.InvoiceInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	invoice, err := h.service.Update(id, &input, getUserID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{"message": "Invoice updated", "data": invoice})
}

func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	if err := h.service.Delete(id, getUserID(c)); err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{"message": "Invoice deleted"})
}

func (h *InvoiceHandler) ApplyDiscount(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	invoice, err := h.service.ApplyDiscount(id, req.Amount, getUserID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{"message": "Discount applied", "data": invoice})
}

func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	invoice, err := h.service.Get(id)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(invoice)
}

func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	invoices, err := h.service.List(h.kind)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(invoices)
}

// NextNumber reserves and returns the next number in this direction's
// series. The number is burned if no invoice follows.
func (h *InvoiceHandler) NextNumber(c *fiber.Ctx) error {
	number, err := h.sequences.Reserve(h.kind.Series())
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{"series": h.kind.Series(), "number": number})
}
