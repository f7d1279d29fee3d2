// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the organization backend.
// It tracks work creation, weekly task claiming, and task backlog health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	workCreatedTotal      *Counter
	workCostCentsTotal    *Counter
	taskPickTotal         *Counter
	taskExpiredTotal      *Counter
	attachmentUploadBytes *Counter

	// Gauge metrics (point-in-time values)
	taskUnclaimedCount *Gauge
	taskOverdueCount   *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	taskProvider TaskMetricsProvider
}

// TaskMetricsProvider provides weekly task data for periodic metrics collection.
// This interface allows the telemetry layer to query task backlog state without
// depending on the work domain directly.
type TaskMetricsProvider interface {
	// GetUnclaimedCountBySector returns the number of unclaimed weekly tasks per sector
	GetUnclaimedCountBySector(ctx context.Context) (map[uuid.UUID]int64, error)

	// GetOverdueTaskCount returns the number of unclaimed tasks whose target week has passed
	GetOverdueTaskCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	TaskProvider    TaskMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:        cfg.Meter,
		logger:       logger,
		stopChan:     make(chan struct{}),
		taskProvider: cfg.TaskProvider,
	}

	// Initialize counter metrics
	var err error

	// Work metrics
	bm.workCreatedTotal, err = NewCounter(
		cfg.Meter,
		"orgstruct_work_created_total",
		"Total number of work items created",
		"{works}",
	)
	if err != nil {
		return nil, err
	}

	bm.workCostCentsTotal, err = NewCounter(
		cfg.Meter,
		"orgstruct_work_cost_cents_total",
		"Total budgeted cost of created work items in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Weekly task metrics
	bm.taskPickTotal, err = NewCounter(
		cfg.Meter,
		"orgstruct_task_pick_total",
		"Total number of weekly task claim attempts",
		"{attempts}",
	)
	if err != nil {
		return nil, err
	}

	bm.taskExpiredTotal, err = NewCounter(
		cfg.Meter,
		"orgstruct_task_expired_total",
		"Total number of weekly tasks expired by maintenance sweeps",
		"{tasks}",
	)
	if err != nil {
		return nil, err
	}

	// Attachment metrics
	bm.attachmentUploadBytes, err = NewCounter(
		cfg.Meter,
		"orgstruct_attachment_upload_bytes_total",
		"Total bytes of attachment payloads uploaded",
		"By",
	)
	if err != nil {
		return nil, err
	}

	// Task backlog gauge metrics
	bm.taskUnclaimedCount, err = NewGauge(
		cfg.Meter,
		"orgstruct_task_unclaimed_count",
		"Current number of unclaimed weekly tasks",
		"{tasks}",
	)
	if err != nil {
		return nil, err
	}

	bm.taskOverdueCount, err = NewGauge(
		cfg.Meter,
		"orgstruct_task_overdue_count",
		"Number of unclaimed weekly tasks whose target week has passed",
		"{tasks}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Work Metrics
// =============================================================================

// RecordWorkCreated records a work creation event.
// This should be called from the application layer when a work item is created.
func (bm *BusinessMetrics) RecordWorkCreated(ctx context.Context) {
	bm.workCreatedTotal.Inc(ctx)
}

// RecordWorkCost records the budgeted cost of a work item.
// Cost should be in the smallest currency unit (cents).
func (bm *BusinessMetrics) RecordWorkCost(ctx context.Context, costCents int64) {
	bm.workCostCentsTotal.Add(ctx, costCents)
}

// RecordWorkWithCost is a convenience method that records both work count and cost.
func (bm *BusinessMetrics) RecordWorkWithCost(ctx context.Context, cost decimal.Decimal) {
	bm.RecordWorkCreated(ctx)

	// Convert to cents (multiply by 100)
	costCents := cost.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordWorkCost(ctx, costCents)
}

// =============================================================================
// Weekly Task Metrics
// =============================================================================

// PickOutcome represents the result of a weekly task claim attempt for metrics labeling.
type PickOutcome string

const (
	PickOutcomePicked   PickOutcome = "picked"
	PickOutcomeConflict PickOutcome = "conflict"
	PickOutcomeNotFound PickOutcome = "not_found"
)

// RecordTaskPick records a weekly task claim attempt.
// This should be called after every claim attempt, whether it won or lost the race.
func (bm *BusinessMetrics) RecordTaskPick(ctx context.Context, outcome PickOutcome) {
	bm.taskPickTotal.Inc(ctx,
		AttrPickOutcome.String(string(outcome)),
	)
}

// RecordTasksExpired records the number of tasks expired by a maintenance sweep.
func (bm *BusinessMetrics) RecordTasksExpired(ctx context.Context, count int64) {
	if count <= 0 {
		return
	}
	bm.taskExpiredTotal.Add(ctx, count)
}

// =============================================================================
// Attachment Metrics
// =============================================================================

// RecordAttachmentUpload records an attachment upload.
// Content type is a bounded label since uploads pass an allowlist first.
func (bm *BusinessMetrics) RecordAttachmentUpload(ctx context.Context, contentType string, sizeBytes int64) {
	bm.attachmentUploadBytes.Add(ctx, sizeBytes,
		AttrContentType.String(contentType),
	)
}

// =============================================================================
// Task Backlog Gauges
// =============================================================================

// RecordUnclaimedCount records the current unclaimed task count for a sector.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordUnclaimedCount(ctx context.Context, sectorID uuid.UUID, count int64) {
	bm.taskUnclaimedCount.Record(ctx, count,
		AttrSectorID.String(sectorID.String()),
	)
}

// RecordOverdueCount records the number of unclaimed tasks past their target week.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOverdueCount(ctx context.Context, count int64) {
	bm.taskOverdueCount.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects task backlog metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectTaskMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectTaskMetrics(ctx)
		}
	}
}

// collectTaskMetrics collects task backlog gauge metrics.
func (bm *BusinessMetrics) collectTaskMetrics(ctx context.Context) {
	if bm.taskProvider == nil {
		bm.logger.Debug("No task provider configured, skipping task metrics collection")
		return
	}

	// Collect unclaimed count by sector
	unclaimedBySector, err := bm.taskProvider.GetUnclaimedCountBySector(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get unclaimed task counts", zap.Error(err))
	} else {
		for sectorID, count := range unclaimedBySector {
			bm.RecordUnclaimedCount(ctx, sectorID, count)
		}
	}

	// Collect overdue count
	overdueCount, err := bm.taskProvider.GetOverdueTaskCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get overdue task count", zap.Error(err))
	} else {
		bm.RecordOverdueCount(ctx, overdueCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
