package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const scanTimeout = time.Minute

// LowStockScanner is implemented by the reservation service.
type LowStockScanner interface {
	ScanLowStock(ctx context.Context) (int, error)
}

// LowStockJob runs the low stock scan on a cron schedule.
type LowStockJob struct {
	scanner  LowStockScanner
	schedule string
	logger   *zap.Logger
	cron     *cron.Cron
}

// NewLowStockJob validates the schedule. Standard five-field expressions and descriptors such as
// "@every 6h" or "@daily" are accepted.
func NewLowStockJob(scanner LowStockScanner, schedule string, logger *zap.Logger) (*LowStockJob, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid low stock schedule %q: %w", schedule, err)
	}
	return &LowStockJob{
		scanner:  scanner,
		schedule: schedule,
		logger:   logger,
	}, nil
}

// RunOnce performs a single scan.
func (j *LowStockJob) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	start := time.Now()
	n, err := j.scanner.ScanLowStock(ctx)
	if err != nil {
		j.logger.Error("low stock scan failed", zap.Error(err))
		return
	}
	j.logger.Info("low stock scan finished",
		zap.Int("products", n),
		zap.Duration("duration", time.Since(start)),
	)
}

// Run starts the scheduler and blocks until ctx is done. Scans still in flight are waited for.
func (j *LowStockJob) Run(ctx context.Context) error {
	j.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule low stock scan: %w", err)
	}

	j.logger.Info("low stock scan scheduled", zap.String("schedule", j.schedule))
	j.cron.Start()

	<-ctx.Done()
	<-j.cron.Stop().Done()
	return nil
}
