package database

import (
	"context"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"tradesift/internal/core"
	"tradesift/internal/engine"
	"tradesift/internal/report"
)

// Service exports run results to a MySQL-compatible database.
type Service struct {
	DB *gorm.DB
}

// NewService opens the database and migrates the result tables.
func NewService(dsn string) (*Service, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, core.WrapError(core.ErrExportFailed, err)
	}

	s := &Service{DB: db}
	if err := s.DB.AutoMigrate(&ThresholdMetric{}, &DrawdownResult{}); err != nil {
		return nil, core.WrapError(core.ErrExportFailed, err)
	}
	return s, nil
}

// SaveThresholdMetrics persists the metrics summary rows of one run.
func (s *Service) SaveThresholdMetrics(ctx context.Context, runID string, rows []report.MetricsRow) error {
	if len(rows) == 0 {
		return nil
	}
	records := thresholdMetrics(runID, rows)
	if err := s.DB.WithContext(ctx).Create(&records).Error; err != nil {
		return core.WrapError(core.ErrExportFailed, err)
	}
	return nil
}

// SaveDrawdownResults persists the drawdown search records of one run.
func (s *Service) SaveDrawdownResults(ctx context.Context, runID string, records []engine.DrawdownRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := drawdownResults(runID, records)
	if err := s.DB.WithContext(ctx).Create(&rows).Error; err != nil {
		return core.WrapError(core.ErrExportFailed, err)
	}
	return nil
}
