package refresh

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/darkawower/bingwall/internal/provider"
)

// Poller runs non-forced refresh cycles for one region on a fixed interval
// until stopped.
type Poller struct {
	mode      Mode
	region    provider.Region
	interval  time.Duration
	refresher Refresher
	logger    *slog.Logger

	stopped  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func newPoller(mode Mode, region provider.Region, interval time.Duration, r Refresher, logger *slog.Logger) *Poller {
	return &Poller{
		mode:      mode,
		region:    region,
		interval:  interval,
		refresher: r,
		logger:    logger.With("mode", mode.String()),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (p *Poller) Mode() Mode {
	return p.mode
}

// Stop requests termination and returns immediately. An in-flight cycle is
// allowed to finish.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.stopped.Store(true)
		close(p.stopCh)
	})
}

// Stopped reports whether Stop has been called.
func (p *Poller) Stopped() bool {
	return p.stopped.Load()
}

// Done is closed once the worker goroutine has exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if p.stopped.Load() {
			return
		}

		p.cycle(ctx)
		timer.Reset(p.interval)
	}
}

func (p *Poller) cycle(ctx context.Context) {
	result, err := p.refresher.Refresh(ctx, false, p.region)
	if err != nil {
		p.logger.Warn("scheduled refresh failed", "region", p.region, "error", err)
		return
	}
	p.logger.Info("scheduled refresh", "region", p.region, "identity", result.Identity, "downloaded", result.Downloaded)
}
