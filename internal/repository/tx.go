package repository

import "gorm.io/gorm"

// TxRunner wraps gorm's transaction entrypoint so services can run
// multi-step writes atomically without holding the *gorm.DB themselves.
// Every repository write method accepts the tx handle it must run on.
type TxRunner interface {
	Transaction(fn func(tx *gorm.DB) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}
