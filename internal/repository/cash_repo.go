package repository

import (
	"errors"

	"go-ledger-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashRepository interface {
	LockHead(tx *gorm.DB) (*model.CashLedgerHead, error)
	UpdateHeadBalance(tx *gorm.DB, balance decimal.Decimal) error
	Append(tx *gorm.DB, entry *model.CashTransaction) error
	LatestBalance(tx *gorm.DB) (decimal.Decimal, error)
	FindRecent(limit int) ([]model.CashTransaction, error)
	FindByReference(tx *gorm.DB, table model.ReferenceTable, referenceID uuid.UUID) ([]model.CashTransaction, error)
	ShiftBalancesAfter(tx *gorm.DB, seq int64, signed decimal.Decimal) error
	DeleteByReference(tx *gorm.DB, table model.ReferenceTable, referenceID uuid.UUID) error
	EnsureHead() error
}

type cashRepo struct {
	db *gorm.DB
}

func NewCashRepo(db *gorm.DB) CashRepository {
	return &cashRepo{db}
}

// LockHead takes the FOR UPDATE lock every append and cascade delete
// serializes on. The head row is created once at boot via EnsureHead.
func (r *cashRepo) LockHead(tx *gorm.DB) (*model.CashLedgerHead, error) {
	var head model.CashLedgerHead
	err := tx.Set("gorm:query_option", "FOR UPDATE").First(&head, "id = ?", 1).Error
	return &head, err
}

func (r *cashRepo) UpdateHeadBalance(tx *gorm.DB, balance decimal.Decimal) error {
	return tx.Model(&model.CashLedgerHead{}).Where("id = ?", 1).
		Update("balance", balance).Error
}

func (r *cashRepo) Append(tx *gorm.DB, entry *model.CashTransaction) error {
	return tx.Create(entry).Error
}

// LatestBalance folds the log: the running balance is the newest row's
// resulting_balance, zero when the ledger is empty.
func (r *cashRepo) LatestBalance(tx *gorm.DB) (decimal.Decimal, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var latest model.CashTransaction
	err := db.Order("seq DESC").First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return latest.ResultingBalance, nil
}

func (r *cashRepo) FindRecent(limit int) ([]model.CashTransaction, error) {
	var entries []model.CashTransaction
	err := r.db.Order("seq DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *cashRepo) FindByReference(tx *gorm.DB, table model.ReferenceTable, referenceID uuid.UUID) ([]model.CashTransaction, error) {
	var entries []model.CashTransaction
	err := tx.Where("reference_table = ? AND reference_id = ?", table, referenceID).
		Order("seq ASC").Find(&entries).Error
	return entries, err
}

// ShiftBalancesAfter subtracts a signed amount from the resulting balance of
// every row appended after the given ledger position.
func (r *cashRepo) ShiftBalancesAfter(tx *gorm.DB, seq int64, signed decimal.Decimal) error {
	return tx.Model(&model.CashTransaction{}).
		Where("seq > ?", seq).
		Update("resulting_balance", gorm.Expr("resulting_balance - ?", signed)).Error
}

func (r *cashRepo) DeleteByReference(tx *gorm.DB, table model.ReferenceTable, referenceID uuid.UUID) error {
	return tx.Where("reference_table = ? AND reference_id = ?", table, referenceID).
		Delete(&model.CashTransaction{}).Error
}

func (r *cashRepo) EnsureHead() error {
	head := model.CashLedgerHead{ID: 1, Balance: decimal.Zero}
	return r.db.FirstOrCreate(&head, model.CashLedgerHead{ID: 1}).Error
}
