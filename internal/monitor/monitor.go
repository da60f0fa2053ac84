package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	DefaultInterval = 3 * time.Second
	DefaultBackoff  = 5 * time.Second
)

// Monitor runs the Sampler on a fixed cadence and hands every good sample to
// a callback. The callback runs on the polling goroutine.
type Monitor struct {
	latest   atomic.Pointer[Sample]
	sampler  *Sampler
	interval time.Duration
	backoff  time.Duration
	onSample func(context.Context, Sample)
}

// New creates a Monitor. onSample may be nil; it receives the Run context.
func New(sampler *Sampler, interval, backoff time.Duration, onSample func(context.Context, Sample)) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &Monitor{
		sampler:  sampler,
		interval: interval,
		backoff:  backoff,
		onSample: onSample,
	}
}

// Latest returns the most recent good sample without blocking.
func (m *Monitor) Latest() (Sample, bool) {
	s := m.latest.Load()
	if s == nil {
		return Sample{}, false
	}
	return *s, true
}

// Run polls until the context is cancelled. A failed cycle is logged and
// retried after the backoff; it never ends the loop.
func (m *Monitor) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		timer.Reset(m.cycle(ctx))
	}
}

// cycle samples once and returns how long to wait before the next one.
// A panic anywhere in the cycle counts as a failed sample.
func (m *Monitor) cycle(ctx context.Context) (wait time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: panic: %v", ErrSampling, r)
			slog.Error("monitor: sampling panic", "err", err, "retry_in", m.backoff)
			wait = m.backoff
		}
	}()

	s, err := m.sampler.Sample(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("monitor: sampling error", "err", err, "retry_in", m.backoff)
		}
		return m.backoff
	}

	m.latest.Store(&s)
	if m.onSample != nil {
		m.onSample(ctx, s)
	}
	return m.interval
}
