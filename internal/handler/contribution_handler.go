package handler

import (
	"go-ledger-api/internal/model"
	"go-ledger-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ContributionHandler struct {
	service service.ContributionService
}

func NewContributionHandler(s service.ContributionService) *ContributionHandler {
	return &ContributionHandler{service: s}
}

func (h *ContributionHandler) Create(c *fiber.Ctx) error {
	var contribution model.Contribution
	if err := c.BodyParser(&contribution); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Create(&contribution, getUserID(c)); err != nil {
		return respondErr(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Contribution recorded", "data": contribution})
}

func (h *ContributionHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid contribution ID"})
	}

	if err := h.service.Delete(id, getUserID(c)); err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{"message": "Contribution deleted"})
}

func (h *ContributionHandler) List(c *fiber.Ctx) error {
	contributions, err := h.service.List()
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(contributions)
}
