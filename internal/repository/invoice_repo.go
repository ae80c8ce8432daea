package repository

import (
	"time"

	"go-ledger-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Create(tx *gorm.DB, invoice *model.Invoice) error
	CreateLineItems(tx *gorm.DB, items []model.LineItem) error
	DeleteLineItems(tx *gorm.DB, invoiceID uuid.UUID) error
	LineItemsByInvoice(tx *gorm.DB, invoiceID uuid.UUID) ([]model.LineItem, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Invoice, error)
	FindByID(id uuid.UUID) (*model.Invoice, error)
	FindAll(kind model.InvoiceKind) ([]model.Invoice, error)
	FindByCounterparty(kind model.InvoiceKind, counterpartyID uuid.UUID) ([]model.Invoice, error)
	FindPendingForUpdate(tx *gorm.DB, kind model.InvoiceKind, counterpartyID uuid.UUID, ids []uuid.UUID) ([]model.Invoice, error)
	UpdateHeader(tx *gorm.DB, invoice *model.Invoice) error
	UpdatePayment(tx *gorm.DB, id uuid.UUID, paidAmount decimal.Decimal, status model.InvoiceStatus, updatedBy string) error
	UpdateDiscount(tx *gorm.DB, id uuid.UUID, discount, totalAmount decimal.Decimal, updatedBy string) error
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type invoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepo(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db}
}

func (r *invoiceRepo) Create(tx *gorm.DB, invoice *model.Invoice) error {
	// Line items are persisted separately so stock deltas can interleave.
	return tx.Omit("LineItems", "Payments", "Counterparty").Create(invoice).Error
}

func (r *invoiceRepo) CreateLineItems(tx *gorm.DB, items []model.LineItem) error {
	return tx.Omit("Product").Create(&items).Error
}

func (r *invoiceRepo) DeleteLineItems(tx *gorm.DB, invoiceID uuid.UUID) error {
	return tx.Where("invoice_id = ?", invoiceID).Delete(&model.LineItem{}).Error
}

func (r *invoiceRepo) LineItemsByInvoice(tx *gorm.DB, invoiceID uuid.UUID) ([]model.LineItem, error) {
	var items []model.LineItem
	db := r.db
	if tx != nil {
		db = tx
	}
	err := db.Where("invoice_id = ?", invoiceID).Find(&items).Error
	return items, err
}

func (r *invoiceRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := tx.Set("gorm:query_option", "FOR UPDATE").First(&invoice, "id = ?", id).Error
	return &invoice, err
}

func (r *invoiceRepo) FindByID(id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.
		Preload("LineItems").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC") }).
		Preload("Counterparty").
		First(&invoice, "id = ?", id).Error
	return &invoice, err
}

func (r *invoiceRepo) FindAll(kind model.InvoiceKind) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.
		Preload("Counterparty").
		Where("kind = ?", kind).
		Order("issue_date DESC, created_at DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) FindByCounterparty(kind model.InvoiceKind, counterpartyID uuid.UUID) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC") }).
		Where("kind = ? AND counterparty_id = ?", kind, counterpartyID).
		Order("issue_date ASC, created_at ASC").
		Find(&invoices).Error
	return invoices, err
}

// FindPendingForUpdate loads and locks the allocation candidates, oldest
// debt first. Invoices that are not pending or belong to another
// counterparty are filtered out rather than failing the whole call.
func (r *invoiceRepo) FindPendingForUpdate(tx *gorm.DB, kind model.InvoiceKind, counterpartyID uuid.UUID, ids []uuid.UUID) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := tx.Set("gorm:query_option", "FOR UPDATE").
		Where("kind = ? AND counterparty_id = ? AND status = ? AND id IN ?",
			kind, counterpartyID, model.InvoicePending, ids).
		Order("issue_date ASC, created_at ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) UpdateHeader(tx *gorm.DB, invoice *model.Invoice) error {
	return tx.Model(&model.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"counterparty_id": invoice.CounterpartyID,
			"issue_date":      invoice.IssueDate,
			"due_date":        invoice.DueDate,
			"payment_method":  invoice.PaymentMethod,
			"discount":        invoice.Discount,
			"total_amount":    invoice.TotalAmount,
			"updated_by":      invoice.UpdatedBy,
		}).Error
}

func (r *invoiceRepo) UpdatePayment(tx *gorm.DB, id uuid.UUID, paidAmount decimal.Decimal, status model.InvoiceStatus, updatedBy string) error {
	return tx.Model(&model.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"paid_amount": paidAmount,
			"status":      status,
			"updated_by":  updatedBy,
			"updated_at":  time.Now(),
		}).Error
}

func (r *invoiceRepo) UpdateDiscount(tx *gorm.DB, id uuid.UUID, discount, totalAmount decimal.Decimal, updatedBy string) error {
	return tx.Model(&model.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"discount":     discount,
			"total_amount": totalAmount,
			"updated_by":   updatedBy,
		}).Error
}

func (r *invoiceRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Invoice{}, "id = ?", id).Error
}
