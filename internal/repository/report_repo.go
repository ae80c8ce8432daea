package repository

import (
	"time"

	"go-ledger-api/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseCategoryTotal ranks spending per expense category.
type ExpenseCategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// ReportRepository serves the read-only aggregates behind the financial
// summary and the monthly income statement. A zero from/to means unbounded.
type ReportRepository interface {
	SumPaidInvoices(kind model.InvoiceKind, from, to time.Time) (decimal.Decimal, error)
	SumCOGS(from, to time.Time) (decimal.Decimal, error)
	SumExpenses(from, to time.Time) (decimal.Decimal, error)
	SumPendingBalance(kind model.InvoiceKind) (decimal.Decimal, error)
	TopExpenseCategories(limit int) ([]ExpenseCategoryTotal, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func window(q *gorm.DB, column string, from, to time.Time) *gorm.DB {
	if !from.IsZero() {
		q = q.Where(column+" >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where(column+" < ?", to)
	}
	return q
}

func (r *reportRepo) SumPaidInvoices(kind model.InvoiceKind, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	q := r.db.Model(&model.Invoice{}).
		Where("kind = ? AND status = ?", kind, model.InvoicePaid).
		Select("COALESCE(SUM(total_amount), 0)")
	err := window(q, "issue_date", from, to).Scan(&total).Error
	return total, err
}

// SumCOGS folds quantity times the acquisition cost frozen on each sale
// line at creation time, over paid sale invoices (the income basis).
func (r *reportRepo) SumCOGS(from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	q := r.db.Model(&model.LineItem{}).
		Joins("JOIN invoices ON invoices.id = line_items.invoice_id").
		Where("invoices.kind = ? AND invoices.status = ?", model.InvoiceSale, model.InvoicePaid).
		Select("COALESCE(SUM(line_items.quantity * line_items.unit_cost), 0)")
	err := window(q, "invoices.issue_date", from, to).Scan(&total).Error
	return total, err
}

func (r *reportRepo) SumExpenses(from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	q := r.db.Model(&model.Expense{}).
		Select("COALESCE(SUM(amount), 0)")
	err := window(q, "date", from, to).Scan(&total).Error
	return total, err
}

func (r *reportRepo) SumPendingBalance(kind model.InvoiceKind) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.Invoice{}).
		Where("kind = ? AND status = ?", kind, model.InvoicePending).
		Select("COALESCE(SUM(total_amount - paid_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *reportRepo) TopExpenseCategories(limit int) ([]ExpenseCategoryTotal, error) {
	var results []ExpenseCategoryTotal
	err := r.db.Model(&model.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) as total").
		Group("category").
		Order("total DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}
