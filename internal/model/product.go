package model

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	SKU  string `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	// OnHand is mutated exclusively through the stock service so every
	// change leaves a paired StockMovement row.
	OnHand       int             `gorm:"not null;default:0" json:"on_hand"`
	Unit         string          `gorm:"type:varchar(20)" json:"unit"`
	DefaultCost  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"default_cost"`
	DefaultPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"default_price"`

	Movements []StockMovement `json:"movements,omitempty"`
}
