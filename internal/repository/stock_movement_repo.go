package repository

import (
	"time"

	"go-ledger-api/internal/model"

	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindAll(limit int) ([]model.StockMovement, error)
	GetDailyFlow(startDate, endDate time.Time) ([]StockFlowData, error)
}

// StockFlowData aggregates movements per day for the dashboard chart.
type StockFlowData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

func (r *stockMovementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Omit("Product").Create(movement).Error
}

func (r *stockMovementRepo) FindAll(limit int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.Preload("Product").Order("created_at DESC").Limit(limit).Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) GetDailyFlow(startDate, endDate time.Time) ([]StockFlowData, error) {
	var results []StockFlowData

	rows, err := r.db.Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN direction = 'in' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN direction = 'out' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockFlowData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
