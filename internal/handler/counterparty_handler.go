package handler

import (
	"go-ledger-api/internal/model"
	"go-ledger-api/internal/repository"
	"go-ledger-api/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type CounterpartyHandler struct {
	repo repository.CounterpartyRepository
}

func NewCounterpartyHandler(repo repository.CounterpartyRepository) *CounterpartyHandler {
	return &CounterpartyHandler{repo: repo}
}

func (h *CounterpartyHandler) Create(c *fiber.Ctx) error {
	var cp model.Counterparty
	if err := c.BodyParser(&cp); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&cp); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed: " + errs[0].FailedField})
	}

	cp.CreatedBy = getUserID(c)
	cp.UpdatedBy = getUserID(c)
	if err := h.repo.Create(&cp); err != nil {
		return respondErr(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Counterparty created", "data": cp})
}

func (h *CounterpartyHandler) List(c *fiber.Ctx) error {
	kind := model.CounterpartyKind(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		return c.Status(400).JSON(fiber.Map{"error": "kind must be customer or supplier"})
	}

	parties, err := h.repo.FindAll(kind)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(parties)
}
