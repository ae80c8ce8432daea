package repository

import (
	"go-ledger-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(tx *gorm.DB, expense *model.Expense) error
	FindAll() ([]model.Expense, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Expense, error)
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type expenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepository {
	return &expenseRepo{db}
}

func (r *expenseRepo) Create(tx *gorm.DB, expense *model.Expense) error {
	return tx.Create(expense).Error
}

func (r *expenseRepo) FindAll() ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.Order("date DESC, created_at DESC").Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	err := tx.Set("gorm:query_option", "FOR UPDATE").First(&expense, "id = ?", id).Error
	return &expense, err
}

func (r *expenseRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Expense{}, "id = ?", id).Error
}
