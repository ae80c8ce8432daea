package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceKind string

const (
	InvoiceSale     InvoiceKind = "sale"
	InvoicePurchase InvoiceKind = "purchase"
)

// Series is the numbering series this kind draws invoice numbers from.
func (k InvoiceKind) Series() string {
	if k == InvoicePurchase {
		return "PUR"
	}
	return "INV"
}

// StockSign is the per-line stock delta direction: sales consume stock,
// purchases replenish it.
func (k InvoiceKind) StockSign() int {
	if k == InvoicePurchase {
		return 1
	}
	return -1
}

func (k InvoiceKind) CounterpartyKind() CounterpartyKind {
	if k == InvoicePurchase {
		return CounterpartySupplier
	}
	return CounterpartyCustomer
}

func (k InvoiceKind) ReferenceTable() ReferenceTable {
	if k == InvoicePurchase {
		return RefPurchaseInvoices
	}
	return RefSalesInvoices
}

// CashCreationType tags the ledger entry written when a cash-method invoice
// settles at creation time.
func (k InvoiceKind) CashCreationType() CashTransactionType {
	if k == InvoicePurchase {
		return CashOutflowPurchaseCash
	}
	return CashInflowSaleCash
}

// PaymentCashType tags the ledger entry for a registered payment: collecting
// a receivable is an inflow, settling a payable is an outflow.
func (k InvoiceKind) PaymentCashType() CashTransactionType {
	if k == InvoicePurchase {
		return CashOutflowPayment
	}
	return CashInflowCollection
}

// DiscountCashType tags the adjustment entry written by apply-discount.
func (k InvoiceKind) DiscountCashType() CashTransactionType {
	if k == InvoicePurchase {
		return CashInflowDiscount
	}
	return CashOutflowDiscount
}

func (k InvoiceKind) Valid() bool {
	return k == InvoiceSale || k == InvoicePurchase
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCredit   PaymentMethod = "credit"
)

type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
)

// Invoice is the header for both sale and purchase documents; Kind selects
// the direction. Invariant: 0 <= PaidAmount <= TotalAmount, and Status is
// paid exactly when PaidAmount >= TotalAmount.
type Invoice struct {
	BaseModel
	Kind           InvoiceKind     `gorm:"type:varchar(10);not null;index" json:"kind"`
	SeriesNumber   string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"series_number"`
	CounterpartyID uuid.UUID       `gorm:"type:uuid;not null;index" json:"counterparty_id"`
	Counterparty   *Counterparty   `json:"counterparty,omitempty" validate:"-"`
	IssueDate      time.Time       `gorm:"not null;index" json:"issue_date"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	Discount       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	Status         InvoiceStatus   `gorm:"type:varchar(10);not null;index" json:"status"`

	LineItems []LineItem `json:"line_items,omitempty"`
	Payments  []Payment  `json:"payments,omitempty"`
}

// PendingBalance is the amount still outstanding on the invoice.
func (i *Invoice) PendingBalance() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// LineItem belongs to exactly one invoice and is replaced wholesale on edit.
// UnitCost freezes the acquisition cost at creation time; COGS is computed
// from it and never recomputed from the current product cost.
type LineItem struct {
	BaseModel
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product        `json:"product,omitempty" validate:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	UnitCost  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_cost"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}

// Payment is an append-only settlement slice against one invoice.
type Payment struct {
	BaseModel
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Description string          `json:"description"`
}
