package service

import (
	"errors"
	"fmt"

	"go-ledger-api/internal/model"
	"go-ledger-api/internal/repository"
	"go-ledger-api/internal/ws"
	"go-ledger-api/pkg/logger"
	"go-ledger-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ManualMovementInput is a direct stock adjustment outside any invoice.
type ManualMovementInput struct {
	ProductID   uuid.UUID            `json:"product_id" validate:"uuid_required"`
	Direction   model.StockDirection `json:"direction" validate:"required,oneof=in out"`
	Quantity    int                  `json:"quantity" validate:"required,gt=0"`
	Description string               `json:"description"`
}

type StockService interface {
	// ApplyDelta runs inside the caller's transaction: positive deltas
	// restock, negative deltas consume. A delta that would drive on-hand
	// below zero fails with ErrOutOfStock and aborts the caller.
	ApplyDelta(tx *gorm.DB, productID uuid.UUID, delta int, description, actor string) (*model.StockMovement, error)
	RecordManualMovement(input *ManualMovementInput, actor string) (*model.StockMovement, error)
	ListMovements(limit int) ([]model.StockMovement, error)
}

type stockService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	txr          repository.TxRunner
	hub          *ws.Hub
}

func NewStockService(productRepo repository.ProductRepository, movementRepo repository.StockMovementRepository, txr repository.TxRunner, hub *ws.Hub) StockService {
	return &stockService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		txr:          txr,
		hub:          hub,
	}
}

func (s *stockService) ApplyDelta(tx *gorm.DB, productID uuid.UUID, delta int, description, actor string) (*model.StockMovement, error) {
	if delta == 0 {
		return nil, validationErr("StockMovement.Quantity", "nonzero")
	}

	// Lock the product so two concurrent outbound deltas cannot both
	// pass the non-negative check.
	product, err := s.productRepo.FindForUpdate(tx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("product " + productID.String())
		}
		return nil, err
	}

	newOnHand := product.OnHand + delta
	if newOnHand < 0 {
		return nil, fmt.Errorf("product %s (on hand %d, requested %d): %w",
			product.SKU, product.OnHand, -delta, ErrOutOfStock)
	}

	direction := model.StockIn
	quantity := delta
	if delta < 0 {
		direction = model.StockOut
		quantity = -delta
	}

	movement := &model.StockMovement{
		ProductID:        product.ID,
		Direction:        direction,
		Quantity:         quantity,
		PreviousQuantity: product.OnHand,
		NewQuantity:      newOnHand,
		Description:      description,
	}
	movement.CreatedBy = actor
	movement.UpdatedBy = actor

	if err := s.movementRepo.Create(tx, movement); err != nil {
		return nil, err
	}
	if err := s.productRepo.UpdateOnHand(tx, product.ID, newOnHand, actor); err != nil {
		return nil, err
	}

	return movement, nil
}

func (s *stockService) RecordManualMovement(input *ManualMovementInput, actor string) (*model.StockMovement, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	delta := input.Quantity
	if input.Direction == model.StockOut {
		delta = -delta
	}

	var movement *model.StockMovement
	err := s.txr.Transaction(func(tx *gorm.DB) error {
		var err error
		movement, err = s.ApplyDelta(tx, input.ProductID, delta, input.Description, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.WithModule("stock").WithField("product_id", input.ProductID).
		WithField("delta", delta).Info("manual stock movement recorded")
	s.hub.Publish("stock_movement", movement)

	return movement, nil
}

func (s *stockService) ListMovements(limit int) ([]model.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.movementRepo.FindAll(limit)
}
