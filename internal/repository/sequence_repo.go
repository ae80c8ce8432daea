package repository

import (
	"go-ledger-api/internal/model"

	"gorm.io/gorm"
)

type SequenceRepository interface {
	NextNumber(tx *gorm.DB, series string) (int64, error)
	Seed(series ...string) error
}

type sequenceRepo struct {
	db *gorm.DB
}

func NewSequenceRepo(db *gorm.DB) SequenceRepository {
	return &sequenceRepo{db}
}

// NextNumber locks the counter row and bumps it inside the caller's
// transaction: concurrent creators serialize here, and an aborted creation
// rolls the bump back with everything else.
func (r *sequenceRepo) NextNumber(tx *gorm.DB, series string) (int64, error) {
	var seq model.InvoiceSequence
	if err := tx.Set("gorm:query_option", "FOR UPDATE").
		First(&seq, "series = ?", series).Error; err != nil {
		return 0, err
	}

	seq.LastNumber++
	if err := tx.Model(&model.InvoiceSequence{}).
		Where("series = ?", series).
		Update("last_number", seq.LastNumber).Error; err != nil {
		return 0, err
	}

	return seq.LastNumber, nil
}

func (r *sequenceRepo) Seed(series ...string) error {
	for _, s := range series {
		seq := model.InvoiceSequence{Series: s}
		if err := r.db.FirstOrCreate(&seq, model.InvoiceSequence{Series: s}).Error; err != nil {
			return err
		}
	}
	return nil
}
