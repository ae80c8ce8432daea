package repository

import (
	"go-ledger-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(tx *gorm.DB, payment *model.Payment) error
	FindByInvoice(invoiceID uuid.UUID) ([]model.Payment, error)
	DeleteByInvoice(tx *gorm.DB, invoiceID uuid.UUID) error
}

type paymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepo(db *gorm.DB) PaymentRepository {
	return &paymentRepo{db}
}

func (r *paymentRepo) Create(tx *gorm.DB, payment *model.Payment) error {
	return tx.Create(payment).Error
}

func (r *paymentRepo) FindByInvoice(invoiceID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.Where("invoice_id = ?", invoiceID).Order("date ASC").Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) DeleteByInvoice(tx *gorm.DB, invoiceID uuid.UUID) error {
	return tx.Where("invoice_id = ?", invoiceID).Delete(&model.Payment{}).Error
}
