package model

import "github.com/google/uuid"

type StockDirection string

const (
	StockIn  StockDirection = "in"
	StockOut StockDirection = "out"
)

// StockMovement records every stock change on a product, with the on-hand
// quantity before and after. Rows are append-only; corrections are new
// movements, never edits.
type StockMovement struct {
	BaseModel
	ProductID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Product          *Product       `json:"product,omitempty" validate:"-"`
	Direction        StockDirection `gorm:"type:varchar(10);not null" json:"direction"`
	Quantity         int            `gorm:"not null" json:"quantity"`
	PreviousQuantity int            `gorm:"not null" json:"previous_quantity"`
	NewQuantity      int            `gorm:"not null" json:"new_quantity"`
	Description      string         `json:"description"`
}
