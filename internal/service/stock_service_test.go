package service

import (
	"testing"

	"go-ledger-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualMovementAdjustsOnHand(t *testing.T) {
	env := newTestEnv()
	productID := env.seedProduct("SKU-1", 5, "20.00", "35.00")

	movement, err := env.stock.RecordManualMovement(&ManualMovementInput{
		ProductID:   productID,
		Direction:   model.StockIn,
		Quantity:    7,
		Description: "Opening stock count",
	}, "tester")
	require.NoError(t, err)

	assert.Equal(t, model.StockIn, movement.Direction)
	assert.Equal(t, 5, movement.PreviousQuantity)
	assert.Equal(t, 12, movement.NewQuantity)
	assert.Equal(t, 12, env.store.products[productID].OnHand)
}

func TestManualMovementOutCannotGoNegative(t *testing.T) {
	env := newTestEnv()
	productID := env.seedProduct("SKU-1", 3, "20.00", "35.00")

	_, err := env.stock.RecordManualMovement(&ManualMovementInput{
		ProductID: productID,
		Direction: model.StockOut,
		Quantity:  4,
	}, "tester")
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, 3, env.store.products[productID].OnHand)
}

func TestManualMovementValidation(t *testing.T) {
	env := newTestEnv()
	productID := env.seedProduct("SKU-1", 3, "20.00", "35.00")
	var verr *ValidationError

	_, err := env.stock.RecordManualMovement(&ManualMovementInput{
		ProductID: productID,
		Direction: model.StockDirection("sideways"),
		Quantity:  1,
	}, "tester")
	assert.ErrorAs(t, err, &verr)

	_, err = env.stock.RecordManualMovement(&ManualMovementInput{
		ProductID: uuid.New(),
		Direction: model.StockIn,
		Quantity:  1,
	}, "tester")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyDeltaRejectsZero(t *testing.T) {
	env := newTestEnv()
	productID := env.seedProduct("SKU-1", 3, "20.00", "35.00")

	_, err := env.stock.ApplyDelta(nil, productID, 0, "noop", "tester")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestApplyDeltaDrainToExactlyZero(t *testing.T) {
	env := newTestEnv()
	productID := env.seedProduct("SKU-1", 3, "20.00", "35.00")

	movement, err := env.stock.ApplyDelta(nil, productID, -3, "clearance", "tester")
	require.NoError(t, err)
	assert.Equal(t, model.StockOut, movement.Direction)
	assert.Equal(t, 0, movement.NewQuantity)
	assert.Equal(t, 0, env.store.products[productID].OnHand)
}
