package reclaimer

import (
	"context"
	"time"

	"busline/pkg/logger"
)

// JobProcessor runs the reclamation sweeps on a fixed interval in the
// background. Sweep errors are logged and the loop keeps going; a transient
// database error must not kill reclamation for good.
type JobProcessor struct {
	service  Service
	interval time.Duration
	logger   *logger.Logger
	done     chan struct{}
}

func NewJobProcessor(service Service, interval time.Duration, log *logger.Logger) *JobProcessor {
	return &JobProcessor{
		service:  service,
		interval: interval,
		logger:   log,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (jp *JobProcessor) Start(ctx context.Context) {
	go jp.run(ctx)
	jp.logger.Info("reclaimer started", "interval", jp.interval.String())
}

// Stop signals the loop to exit. Safe to call once.
func (jp *JobProcessor) Stop() {
	close(jp.done)
	jp.logger.Info("reclaimer stopped")
}

func (jp *JobProcessor) run(ctx context.Context) {
	ticker := time.NewTicker(jp.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			jp.sweep(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) sweep(ctx context.Context) {
	bookings, err := jp.service.SweepExpiredBookings(ctx)
	jp.logger.LogSweepOutcome(ctx, "bookings", bookings, err)

	seats, err := jp.service.SweepExpiredSeats(ctx)
	jp.logger.LogSweepOutcome(ctx, "seats", seats, err)
}
