package service

import (
	"errors"

	"go-ledger-api/internal/model"
	"go-ledger-api/internal/repository"
	"go-ledger-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContributionService records partner capital contributions; each insert
// mirrors into the cash ledger as an inflow.
type ContributionService interface {
	Create(contribution *model.Contribution, actor string) error
	Delete(id uuid.UUID, actor string) error
	List() ([]model.Contribution, error)
}

type contributionService struct {
	repo repository.ContributionRepository
	cash CashService
	txr  repository.TxRunner
}

func NewContributionService(repo repository.ContributionRepository, cash CashService, txr repository.TxRunner) ContributionService {
	return &contributionService{repo: repo, cash: cash, txr: txr}
}

func (s *contributionService) Create(contribution *model.Contribution, actor string) error {
	if errs := validator.ValidateStruct(contribution); len(errs) > 0 {
		return firstValidationError(errs)
	}
	contribution.CreatedBy = actor
	contribution.UpdatedBy = actor

	return s.txr.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(tx, contribution); err != nil {
			return err
		}
		refTable := model.RefContributions
		_, err := s.cash.Append(tx, model.CashInflowContribution,
			"Capital contribution from "+contribution.PartnerName, contribution.Amount, &contribution.ID, &refTable, actor)
		return err
	})
}

func (s *contributionService) Delete(id uuid.UUID, actor string) error {
	return s.txr.Transaction(func(tx *gorm.DB) error {
		contribution, err := s.repo.FindForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("contribution " + id.String())
			}
			return err
		}
		if err := s.cash.RemoveByReference(tx, model.RefContributions, contribution.ID); err != nil {
			return err
		}
		return s.repo.Delete(tx, contribution.ID)
	})
}

func (s *contributionService) List() ([]model.Contribution, error) {
	return s.repo.FindAll()
}
