package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an operating expense; every insert mirrors into the cash ledger
// as an outflow-expense entry.
type Expense struct {
	BaseModel
	Category      string          `gorm:"type:varchar(100);not null;index" json:"category" validate:"required"`
	Description   string          `gorm:"not null" json:"description" validate:"required"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount" validate:"decimal_gt0"`
	Date          time.Time       `gorm:"not null" json:"date" validate:"required"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20)" json:"payment_method"`
}
