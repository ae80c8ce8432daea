package handler

import (
	"go-ledger-api/internal/model"
	"go-ledger-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ExpenseHandler struct {
	service service.ExpenseService
}

func NewExpenseHandler(s service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: s}
}

func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	var expense model.Expense
	if err := c.BodyParser(&expense); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Create(&expense, getUserID(c)); err != nil {
		return respondErr(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Expense recorded", "data": expense})
}

func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid expense ID"})
	}

	if err := h.service.Delete(id, getUserID(c)); err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{"message": "Expense deleted"})
}

func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	expenses, err := h.service.List()
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(expenses)
}
