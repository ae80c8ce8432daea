package service

import (
	"go-ledger-api/internal/model"
	"go-ledger-api/internal/repository"
	"go-ledger-api/internal/ws"
	"go-ledger-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashService owns the append-only cash ledger. Every append locks the
// ledger head row first, so resulting balances are computed strictly one
// at a time and never from a stale snapshot.
type CashService interface {
	Append(tx *gorm.DB, typ model.CashTransactionType, description string, amount decimal.Decimal, referenceID *uuid.UUID, referenceTable *model.ReferenceTable, actor string) (*model.CashTransaction, error)
	Register(typ model.CashTransactionType, description string, amount decimal.Decimal, referenceID *uuid.UUID, referenceTable *model.ReferenceTable, actor string) (*model.CashTransaction, error)
	RemoveByReference(tx *gorm.DB, table model.ReferenceTable, referenceID uuid.UUID) error
	Balance() (decimal.Decimal, error)
	Recent(limit int) ([]model.CashTransaction, error)
}

type cashService struct {
	repo repository.CashRepository
	txr  repository.TxRunner
	hub  *ws.Hub
}

func NewCashService(repo repository.CashRepository, txr repository.TxRunner, hub *ws.Hub) CashService {
	return &cashService{repo: repo, txr: txr, hub: hub}
}

func (s *cashService) Append(tx *gorm.DB, typ model.CashTransactionType, description string, amount decimal.Decimal, referenceID *uuid.UUID, referenceTable *model.ReferenceTable, actor string) (*model.CashTransaction, error) {
	if !amount.IsPositive() {
		return nil, validationErr("CashTransaction.Amount", "decimal_gt0")
	}
	if description == "" {
		return nil, validationErr("CashTransaction.Description", "required")
	}
	if referenceTable != nil && !referenceTable.Valid() {
		return nil, validationErr("CashTransaction.ReferenceTable", "oneof")
	}

	signed, err := typ.Signed(amount)
	if err != nil {
		return nil, validationErr("CashTransaction.Type", "prefix")
	}

	// Serialize on the head row; the previous balance is still read off
	// the newest log row so the balance stays a fold of the log.
	if _, err := s.repo.LockHead(tx); err != nil {
		return nil, err
	}
	previous, err := s.repo.LatestBalance(tx)
	if err != nil {
		return nil, err
	}

	entry := &model.CashTransaction{
		Type:             typ,
		Description:      description,
		Amount:           amount,
		ReferenceID:      referenceID,
		ReferenceTable:   referenceTable,
		ResultingBalance: previous.Add(signed),
	}
	entry.CreatedBy = actor
	entry.UpdatedBy = actor

	if err := s.repo.Append(tx, entry); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateHeadBalance(tx, entry.ResultingBalance); err != nil {
		return nil, err
	}

	return entry, nil
}

// Register appends a standalone entry in its own transaction; used for the
// external register_cash_transaction contract.
func (s *cashService) Register(typ model.CashTransactionType, description string, amount decimal.Decimal, referenceID *uuid.UUID, referenceTable *model.ReferenceTable, actor string) (*model.CashTransaction, error) {
	var entry *model.CashTransaction
	err := s.txr.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = s.Append(tx, typ, description, amount, referenceID, referenceTable, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.WithModule("cash").WithField("type", typ).
		WithField("amount", amount.String()).Info("cash transaction registered")
	s.hub.Publish("cash_transaction", entry)

	return entry, nil
}

// RemoveByReference deletes the mirrored entries of a parent row as part of
// its cascading delete. Every row appended after a deleted entry still folds
// that entry into its resulting balance, so the suffix is shifted by the
// deleted signed amounts before the head realigns with the surviving log.
func (s *cashService) RemoveByReference(tx *gorm.DB, table model.ReferenceTable, referenceID uuid.UUID) error {
	if _, err := s.repo.LockHead(tx); err != nil {
		return err
	}

	doomed, err := s.repo.FindByReference(tx, table, referenceID)
	if err != nil {
		return err
	}
	for i := range doomed {
		signed, err := doomed[i].Type.Signed(doomed[i].Amount)
		if err != nil {
			return err
		}
		if err := s.repo.ShiftBalancesAfter(tx, doomed[i].Seq, signed); err != nil {
			return err
		}
	}

	if err := s.repo.DeleteByReference(tx, table, referenceID); err != nil {
		return err
	}
	balance, err := s.repo.LatestBalance(tx)
	if err != nil {
		return err
	}
	return s.repo.UpdateHeadBalance(tx, balance)
}

func (s *cashService) Balance() (decimal.Decimal, error) {
	return s.repo.LatestBalance(nil)
}

func (s *cashService) Recent(limit int) ([]model.CashTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.FindRecent(limit)
}
