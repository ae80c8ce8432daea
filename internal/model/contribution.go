package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contribution is capital a partner puts into the business; every insert
// mirrors into the cash ledger as an inflow-contribution entry.
type Contribution struct {
	BaseModel
	PartnerName string          `gorm:"type:varchar(255);not null" json:"partner_name" validate:"required"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount" validate:"decimal_gt0"`
	Date        time.Time       `gorm:"not null" json:"date" validate:"required"`
}
