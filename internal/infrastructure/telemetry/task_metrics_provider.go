// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTaskMetricsProvider implements TaskMetricsProvider using GORM.
// It queries the weekly_tasks table directly for aggregated metrics.
type GormTaskMetricsProvider struct {
	db *gorm.DB
}

// NewGormTaskMetricsProvider creates a new GormTaskMetricsProvider.
func NewGormTaskMetricsProvider(db *gorm.DB) *GormTaskMetricsProvider {
	return &GormTaskMetricsProvider{db: db}
}

// GetUnclaimedCountBySector returns the number of unclaimed weekly tasks per sector.
func (p *GormTaskMetricsProvider) GetUnclaimedCountBySector(ctx context.Context) (map[uuid.UUID]int64, error) {
	type result struct {
		SectorID uuid.UUID `gorm:"column:sector_id"`
		Count    int64     `gorm:"column:count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("weekly_tasks").
		Select("sector_id, COUNT(*) as count").
		Where("status = ? AND picked_by IS NULL", "unassigned").
		Group("sector_id").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]int64, len(results))
	for _, r := range results {
		m[r.SectorID] = r.Count
	}

	return m, nil
}

// GetOverdueTaskCount returns the number of unclaimed tasks whose ISO week has passed.
func (p *GormTaskMetricsProvider) GetOverdueTaskCount(ctx context.Context) (int64, error) {
	isoYear, isoWeek := time.Now().ISOWeek()

	var count int64
	err := p.db.WithContext(ctx).
		Table("weekly_tasks").
		Where("status = ? AND picked_by IS NULL", "unassigned").
		Where("year < ? OR (year = ? AND week_number < ?)", isoYear, isoYear, isoWeek).
		Count(&count).Error

	return count, err
}
