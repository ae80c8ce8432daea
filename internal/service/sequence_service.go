package service

import (
	"fmt"

	"go-ledger-api/internal/repository"

	"gorm.io/gorm"
)

// SequenceService hands out human-readable invoice numbers, unique and
// monotonically increasing per series. Numbers reserved by an aborted
// creation are burned, not reused.
type SequenceService interface {
	NextNumber(tx *gorm.DB, series string) (string, error)
	Reserve(series string) (string, error)
}

type sequenceService struct {
	repo repository.SequenceRepository
	txr  repository.TxRunner
}

func NewSequenceService(repo repository.SequenceRepository, txr repository.TxRunner) SequenceService {
	return &sequenceService{repo: repo, txr: txr}
}

// FormatNumber renders a counter value in the series' display format.
func FormatNumber(series string, n int64) string {
	return fmt.Sprintf("%s-%06d", series, n)
}

func (s *sequenceService) NextNumber(tx *gorm.DB, series string) (string, error) {
	n, err := s.repo.NextNumber(tx, series)
	if err != nil {
		return "", err
	}
	return FormatNumber(series, n), nil
}

// Reserve acquires a number in its own transaction, for callers that want
// to show the upcoming number before creating anything.
func (s *sequenceService) Reserve(series string) (string, error) {
	var number string
	err := s.txr.Transaction(func(tx *gorm.DB) error {
		var err error
		number, err = s.NextNumber(tx, series)
		return err
	})
	return number, err
}
