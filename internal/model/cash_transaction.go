package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashTransactionType tags every cash ledger entry. The vocabulary is open:
// the direction is derived from the "inflow-" / "outflow-" prefix, so new
// tags can be minted without touching the ledger code.
type CashTransactionType string

const (
	CashInflowSaleCash      CashTransactionType = "inflow-sale-cash"
	CashInflowCollection    CashTransactionType = "inflow-collection"
	CashInflowContribution  CashTransactionType = "inflow-contribution"
	CashInflowDiscount      CashTransactionType = "inflow-discount"
	CashOutflowPurchaseCash CashTransactionType = "outflow-purchase-cash"
	CashOutflowPayment      CashTransactionType = "outflow-payment"
	CashOutflowExpense      CashTransactionType = "outflow-expense"
	CashOutflowDiscount     CashTransactionType = "outflow-discount"
)

var ErrUnknownCashType = errors.New("cash transaction type must carry an inflow- or outflow- prefix")

// IsInflow reports whether the tag adds to the cash balance.
func (t CashTransactionType) IsInflow() bool {
	return strings.HasPrefix(string(t), "inflow-")
}

// IsOutflow reports whether the tag subtracts from the cash balance.
func (t CashTransactionType) IsOutflow() bool {
	return strings.HasPrefix(string(t), "outflow-")
}

// Signed converts a positive magnitude into the signed amount this tag
// applies to the running balance.
func (t CashTransactionType) Signed(amount decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case t.IsInflow():
		return amount, nil
	case t.IsOutflow():
		return amount.Neg(), nil
	default:
		return decimal.Zero, ErrUnknownCashType
	}
}

// ReferenceTable is the closed set of parent kinds a cash transaction may
// point back to. Only recognized tags are accepted by the ledger.
type ReferenceTable string

const (
	RefSalesInvoices    ReferenceTable = "sales_invoices"
	RefPurchaseInvoices ReferenceTable = "purchase_invoices"
	RefExpenses         ReferenceTable = "expenses"
	RefContributions    ReferenceTable = "contributions"
)

func (r ReferenceTable) Valid() bool {
	switch r {
	case RefSalesInvoices, RefPurchaseInvoices, RefExpenses, RefContributions:
		return true
	}
	return false
}

// CashTransaction is one immutable event in the cash ledger. Amount is the
// magnitude; the sign comes from Type. ResultingBalance is computed under a
// serialized append (see the cash service), never written independently.
type CashTransaction struct {
	BaseModel
	// Seq is the append position in the ledger. All "latest row" and
	// "rows after" computations order by it; timestamps can collide
	// within one transaction, UUIDs carry no order at all.
	Seq              int64               `gorm:"autoIncrement;uniqueIndex;not null" json:"seq"`
	Type             CashTransactionType `gorm:"type:varchar(40);not null;index" json:"type"`
	Description      string              `gorm:"not null" json:"description"`
	Amount           decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"amount"`
	ReferenceID      *uuid.UUID          `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	ReferenceTable   *ReferenceTable     `gorm:"type:varchar(30)" json:"reference_table,omitempty"`
	ResultingBalance decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"resulting_balance"`
}

// CashLedgerHead is a single-row table used as the serialization point for
// ledger appends. Balance mirrors the latest ResultingBalance; reads still
// derive the balance from the transaction log itself.
type CashLedgerHead struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	Balance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`
}
