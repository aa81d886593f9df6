package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mevdschee/tqdbkit/logger"
)

// periodSchedule fires once immediately and then every period.
// cron.ConstantDelaySchedule rounds to whole seconds, which is too coarse
// for batch timeouts.
type periodSchedule struct {
	period time.Duration
	fired  atomic.Bool
}

func (s *periodSchedule) Next(t time.Time) time.Time {
	if s.fired.CompareAndSwap(false, true) {
		return t
	}
	return t.Add(s.period)
}

// Start arms the periodic flush. The first trigger fires immediately, later
// ones every BatchTimeout plus TriggerGuard.
func (b *Batch) Start() error {
	b.runMu.Lock()
	defer b.runMu.Unlock()

	switch b.State() {
	case Stopped:
	case Draining, Destroyed:
		return ErrBatchDestroyed
	default:
		return ErrAlreadyStarted
	}

	l := logger.Cron(b.log)
	b.sched = cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)
	b.sched.Schedule(&periodSchedule{period: b.config.triggerPeriod()}, cron.FuncJob(b.run))
	b.sched.Start()
	b.setState(Running)

	b.log.Debug("batch started", "size", b.config.BatchSize, "timeout", b.config.batchTimeout(), "period", b.config.triggerPeriod())
	return nil
}

// run is the periodic trigger.
func (b *Batch) run() {
	b.runMu.Lock()
	defer b.runMu.Unlock()

	if b.State() != Running {
		return
	}
	if b.now().Sub(b.LastFlush()) < b.config.batchTimeout() {
		return
	}
	// Failures are already logged and handed to the failure handler.
	_ = b.Flush(context.Background())
}

// Destroy stops the periodic flush and then flushes whatever is still
// buffered. Later calls to Add return ErrBatchDestroyed.
//
// Destroy first takes the run mutex, so a trigger that is already flushing
// is waited for until its flush completes, with no time limit and without
// regard to ctx. MaxAwaitShutdown and ctx bound only the wait for the
// scheduler to stop after that. The final flush always runs, also when ctx
// is cancelled during the wait; it is not cancellable itself.
//
// Destroy returns the final flush error only when PropagateFlushErrors is
// set, and ctx.Err() when the wait was cut short by ctx.
func (b *Batch) Destroy(ctx context.Context) error {
	// Holding runMu guarantees no trigger is mid-flush while the state moves.
	b.runMu.Lock()
	switch b.State() {
	case Draining, Destroyed:
		b.runMu.Unlock()
		return nil
	}
	b.setState(Draining)
	sched := b.sched
	b.runMu.Unlock()

	var waitErr error
	if sched != nil {
		waitErr = b.awaitStop(ctx, sched.Stop())
	}

	err := b.flush(context.WithoutCancel(ctx), true)
	b.setState(Destroyed)
	b.log.Debug("batch destroyed")

	if !b.config.PropagateFlushErrors {
		err = nil
	}
	return errors.Join(err, waitErr)
}

func (b *Batch) awaitStop(ctx context.Context, stopped context.Context) error {
	timer := time.NewTimer(b.config.maxAwaitShutdown())
	defer timer.Stop()

	select {
	case <-stopped.Done():
		return nil
	case <-timer.C:
		b.log.Warn("timed out waiting for running trigger", "wait", b.config.maxAwaitShutdown())
		return nil
	case <-ctx.Done():
		b.log.Debug("interrupted while waiting for running trigger", "error", ctx.Err())
		return ctx.Err()
	}
}
