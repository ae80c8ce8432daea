package repository

import (
	"go-ledger-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContributionRepository interface {
	Create(tx *gorm.DB, contribution *model.Contribution) error
	FindAll() ([]model.Contribution, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Contribution, error)
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type contributionRepo struct {
	db *gorm.DB
}

func NewContributionRepo(db *gorm.DB) ContributionRepository {
	return &contributionRepo{db}
}

func (r *contributionRepo) Create(tx *gorm.DB, contribution *model.Contribution) error {
	return tx.Create(contribution).Error
}

func (r *contributionRepo) FindAll() ([]model.Contribution, error) {
	var contributions []model.Contribution
	err := r.db.Order("date DESC, created_at DESC").Find(&contributions).Error
	return contributions, err
}

func (r *contributionRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Contribution, error) {
	var contribution model.Contribution
	err := tx.Set("gorm:query_option", "FOR UPDATE").First(&contribution, "id = ?", id).Error
	return &contribution, err
}

func (r *contributionRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Contribution{}, "id = ?", id).Error
}
