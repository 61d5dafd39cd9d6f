package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/TenureBot_Go/internal/logger"
	"github.com/osse101/TenureBot_Go/internal/metrics"
	"github.com/osse101/TenureBot_Go/internal/subscription"
)

// sweepJob runs one of the engine's periodic entry points. A mutex acquired
// with TryLock keeps a slow run from stacking with the next tick: the tick
// is skipped and the records are picked up by the following run instead.
type sweepJob struct {
	name     string
	inFlight sync.Mutex
	sweep    func(ctx context.Context) (int, error)
}

// NewExpirySweepJob returns the hourly job that deletes expired
// subscriptions and revokes their roles.
func NewExpirySweepJob(svc subscription.Service) Job {
	return &sweepJob{name: SweepNameExpiry, sweep: svc.SweepExpired}
}

// NewWarningSweepJob returns the job that sends the 1-day and 30-minute
// pre-expiry warnings. Its interval must not exceed the narrowest warning
// window (5 minutes).
func NewWarningSweepJob(svc subscription.Service) Job {
	return &sweepJob{name: SweepNameWarning, sweep: svc.SweepWarnings}
}

// Process runs one sweep pass.
func (j *sweepJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if !j.inFlight.TryLock() {
		log.Warn(LogMsgSweepStillRunning, "sweep", j.name)
		metrics.SweepSkipped.WithLabelValues(j.name).Inc()
		return nil
	}
	defer j.inFlight.Unlock()

	log.Debug(LogMsgSweepStarting, "sweep", j.name)
	start := time.Now()

	count, err := j.sweep(ctx)
	metrics.SweepDuration.WithLabelValues(j.name).Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error(LogMsgSweepFailed, "sweep", j.name, "error", err)
		return err
	}

	if count > 0 {
		log.Info(LogMsgSweepCompleted, "sweep", j.name, "processed", count)
	} else {
		log.Debug(LogMsgSweepCompleted, "sweep", j.name, "processed", count)
	}
	return nil
}
