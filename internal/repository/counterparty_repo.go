package repository

import (
	"go-ledger-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CounterpartyRepository interface {
	Create(cp *model.Counterparty) error
	FindAll(kind model.CounterpartyKind) ([]model.Counterparty, error)
	FindByID(id uuid.UUID) (*model.Counterparty, error)
}

type counterpartyRepo struct {
	db *gorm.DB
}

func NewCounterpartyRepo(db *gorm.DB) CounterpartyRepository {
	return &counterpartyRepo{db}
}

func (r *counterpartyRepo) Create(cp *model.Counterparty) error {
	return r.db.Create(cp).Error
}

func (r *counterpartyRepo) FindAll(kind model.CounterpartyKind) ([]model.Counterparty, error) {
	var parties []model.Counterparty
	q := r.db.Order("name ASC")
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	err := q.Find(&parties).Error
	return parties, err
}

func (r *counterpartyRepo) FindByID(id uuid.UUID) (*model.Counterparty, error) {
	var cp model.Counterparty
	err := r.db.First(&cp, "id = ?", id).Error
	return &cp, err
}
