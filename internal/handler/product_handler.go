package handler

import (
	"errors"

	"go-ledger-api/internal/model"
	"go-ledger-api/internal/repository"
	"go-ledger-api/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductHandler covers the product master data the ledger hangs off.
// On-hand quantity is never writable here; stock movements own it.
type ProductHandler struct {
	repo repository.ProductRepository
}

func NewProductHandler(repo repository.ProductRepository) *ProductHandler {
	return &ProductHandler{repo: repo}
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&product); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed: " + errs[0].FailedField})
	}

	existing, _ := h.repo.FindBySKU(product.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return c.Status(400).JSON(fiber.Map{"error": "SKU already exists"})
	}

	product.OnHand = 0
	product.CreatedBy = getUserID(c)
	product.UpdatedBy = getUserID(c)
	if err := h.repo.Create(&product); err != nil {
		return respondErr(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req model.Product
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	existing, err := h.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		}
		return respondErr(c, err)
	}

	existing.SKU = req.SKU
	existing.Name = req.Name
	existing.Unit = req.Unit
	existing.DefaultCost = req.DefaultCost
	existing.DefaultPrice = req.DefaultPrice
	existing.UpdatedBy = getUserID(c)

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed: " + errs[0].FailedField})
	}
	if err := h.repo.Update(existing); err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": existing})
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.repo.FindAll()
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		}
		return respondErr(c, err)
	}
	return c.JSON(product)
}
