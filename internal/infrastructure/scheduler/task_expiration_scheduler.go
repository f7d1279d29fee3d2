package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// cronTickerInterval is the interval at which the cron scheduler checks for execution
const cronTickerInterval = 1 * time.Minute

// TaskExpirer expires weekly tasks whose week has passed without being picked.
// The application layer provides the implementation. The trigger tells the
// implementation what started the sweep, "cron" or "manual".
type TaskExpirer interface {
	ExpireOverdue(ctx context.Context, trigger string) (int, error)
}

// TaskExpirationSchedulerConfig holds configuration for the weekly expiration run
type TaskExpirationSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// CronWeekday is the weekday the run fires on (time.Sunday..time.Saturday)
	CronWeekday time.Weekday
	// CronHour is the hour (0-23) of the run
	CronHour int
	// CronMinute is the minute (0-59) of the run
	CronMinute int
	// WeeklyCronSchedule is the cron expression (parsed to extract minute/hour/weekday)
	WeeklyCronSchedule string
	// JobTimeout is the maximum time a single expiration run can take
	JobTimeout time.Duration
}

// DefaultTaskExpirationSchedulerConfig returns the default configuration.
// Runs Monday at 00:05, right after the ISO week rolls over.
func DefaultTaskExpirationSchedulerConfig() TaskExpirationSchedulerConfig {
	return TaskExpirationSchedulerConfig{
		Enabled:            true,
		CronWeekday:        time.Monday,
		CronHour:           0,
		CronMinute:         5,
		WeeklyCronSchedule: "5 0 * * 1",
		JobTimeout:         5 * time.Minute,
	}
}

// ParseWeeklyCronSchedule parses a cron expression "minute hour * * weekday"
// to extract the run time. Returns defaults (Monday 00:05) if parsing fails
// or the expression is empty.
func ParseWeeklyCronSchedule(cronExpr string) (weekday time.Weekday, hour, minute int, err error) {
	weekday = time.Monday
	hour = 0
	minute = 5

	if cronExpr == "" {
		return weekday, hour, minute, nil
	}

	parts := strings.Fields(cronExpr)
	if len(parts) < 5 {
		return weekday, hour, minute, nil
	}

	if parts[0] != "*" {
		if val, parseErr := parseIntOrDefault(parts[0], 5); parseErr == nil {
			minute = val
		}
	}
	if parts[1] != "*" {
		if val, parseErr := parseIntOrDefault(parts[1], 0); parseErr == nil {
			hour = val
		}
	}
	if parts[4] != "*" {
		if val, parseErr := parseIntOrDefault(parts[4], 1); parseErr == nil {
			if val >= 0 && val <= 6 {
				weekday = time.Weekday(val)
			}
		}
	}

	if minute < 0 || minute > 59 {
		return time.Monday, 0, 5, fmt.Errorf("minute must be 0-59, got %d", minute)
	}
	if hour < 0 || hour > 23 {
		return time.Monday, 0, 5, fmt.Errorf("hour must be 0-23, got %d", hour)
	}

	return weekday, hour, minute, nil
}

// parseIntOrDefault parses an int string or returns default
func parseIntOrDefault(s string, defaultVal int) (int, error) {
	if s == "" || s == "*" {
		return defaultVal, nil
	}
	var val int
	for _, c := range s {
		if c < '0' || c > '9' {
			return defaultVal, ErrInvalidConfig
		}
		val = val*10 + int(c-'0')
	}
	return val, nil
}

// TaskExpirationScheduler runs the weekly task expiration on a cron-like
// schedule. A one minute ticker checks whether the configured slot has been
// reached; the run itself sweeps every overdue unassigned task.
type TaskExpirationScheduler struct {
	config  TaskExpirationSchedulerConfig
	expirer TaskExpirer
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// Last execution tracking
	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewTaskExpirationScheduler creates a new weekly expiration scheduler
func NewTaskExpirationScheduler(
	config TaskExpirationSchedulerConfig,
	expirer TaskExpirer,
	logger *zap.Logger,
) *TaskExpirationScheduler {
	return &TaskExpirationScheduler{
		config:  config,
		expirer: expirer,
		logger:  logger,
	}
}

// Start starts the scheduler
func (s *TaskExpirationScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Task expiration scheduler started",
		zap.String("cron_weekday", s.config.CronWeekday.String()),
		zap.Int("cron_hour", s.config.CronHour),
		zap.Int("cron_minute", s.config.CronMinute),
		zap.Timep("next_run_at", s.nextRunAt),
	)

	return nil
}

// Stop stops the scheduler
func (s *TaskExpirationScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Task expiration scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Task expiration scheduler stop timed out")
		return ctx.Err()
	}
}

// cronLoop runs the main cron loop
func (s *TaskExpirationScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.runExpiration(ctx, "cron")
				s.calculateNextRunTime()
			}
		}
	}
}

// shouldRun checks if the expiration should run at the given time
func (s *TaskExpirationScheduler) shouldRun(now time.Time) bool {
	return now.Weekday() == s.config.CronWeekday &&
		now.Hour() == s.config.CronHour &&
		now.Minute() == s.config.CronMinute
}

// calculateNextRunTime calculates the next occurrence of the configured slot
func (s *TaskExpirationScheduler) calculateNextRunTime() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.config.CronHour, s.config.CronMinute, 0, 0, now.Location())

	daysAhead := (int(s.config.CronWeekday) - int(now.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, daysAhead)

	// Today is the run day but the slot has already passed
	if now.After(next) {
		next = next.AddDate(0, 0, 7)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// runExpiration runs a single expiration sweep
func (s *TaskExpirationScheduler) runExpiration(ctx context.Context, trigger string) {
	s.logger.Info("Starting weekly task expiration sweep", zap.String("trigger", trigger))

	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	expired, err := s.expirer.ExpireOverdue(runCtx, trigger)
	if err != nil {
		s.logger.Error("Weekly task expiration sweep failed", zap.Error(err))
		return
	}

	s.logger.Info("Weekly task expiration sweep finished",
		zap.Int("expired_count", expired),
	)
}

// TriggerManualRun triggers an immediate expiration sweep.
// Note: Uses background context to avoid premature cancellation when the
// HTTP request that triggered it completes.
func (s *TaskExpirationScheduler) TriggerManualRun(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.runExpiration(context.Background(), "manual")
	return nil
}

// GetStatus returns the current status of the scheduler
func (s *TaskExpirationScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":       s.config.Enabled,
		"is_running":    s.isRunning,
		"cron_weekday":  s.config.CronWeekday.String(),
		"cron_hour":     s.config.CronHour,
		"cron_minute":   s.config.CronMinute,
		"cron_schedule": "Weekly",
		"last_run_at":   s.lastRunAt,
		"next_run_at":   s.nextRunAt,
	}
}

// GetNextRunAt returns when the next scheduled run will occur
func (s *TaskExpirationScheduler) GetNextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}

// GetLastRunAt returns when the last run occurred
func (s *TaskExpirationScheduler) GetLastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}
