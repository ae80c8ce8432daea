package service

import (
	"errors"

	"go-ledger-api/internal/model"
	"go-ledger-api/internal/repository"
	"go-ledger-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpenseService records operating expenses and keeps their mirrored cash
// ledger entries in lockstep.
type ExpenseService interface {
	Create(expense *model.Expense, actor string) error
	Delete(id uuid.UUID, actor string) error
	List() ([]model.Expense, error)
}

type expenseService struct {
	repo repository.ExpenseRepository
	cash CashService
	txr  repository.TxRunner
}

func NewExpenseService(repo repository.ExpenseRepository, cash CashService, txr repository.TxRunner) ExpenseService {
	return &expenseService{repo: repo, cash: cash, txr: txr}
}

func (s *expenseService) Create(expense *model.Expense, actor string) error {
	if errs := validator.ValidateStruct(expense); len(errs) > 0 {
		return firstValidationError(errs)
	}
	expense.CreatedBy = actor
	expense.UpdatedBy = actor

	return s.txr.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(tx, expense); err != nil {
			return err
		}
		refTable := model.RefExpenses
		_, err := s.cash.Append(tx, model.CashOutflowExpense,
			expense.Category+": "+expense.Description, expense.Amount, &expense.ID, &refTable, actor)
		return err
	})
}

func (s *expenseService) Delete(id uuid.UUID, actor string) error {
	return s.txr.Transaction(func(tx *gorm.DB) error {
		expense, err := s.repo.FindForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("expense " + id.String())
			}
			return err
		}
		if err := s.cash.RemoveByReference(tx, model.RefExpenses, expense.ID); err != nil {
			return err
		}
		return s.repo.Delete(tx, expense.ID)
	})
}

func (s *expenseService) List() ([]model.Expense, error) {
	return s.repo.FindAll()
}
