package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/darkawower/bingwall/internal/core"
	"github.com/darkawower/bingwall/internal/provider"
)

var ErrClosed = errors.New("refresh controller is shut down")

// Refresher runs one cache-and-apply cycle.
type Refresher interface {
	Refresh(ctx context.Context, force bool, region provider.Region) (*core.WallpaperResult, error)
}

// FailureNotifier is told about forced cycles that failed.
type FailureNotifier interface {
	RefreshFailed(region string, err error)
}

// Controller owns the refresh mode and the poller bound to it. mode and
// poller are guarded by mu together: poller != nil iff mode != Off.
type Controller struct {
	mu       sync.Mutex
	mode     Mode
	poller   *Poller
	poisoned bool
	closed   bool

	refresher Refresher
	interval  time.Duration
	logger    *slog.Logger
	notifier  FailureNotifier

	// pollers run under ctx, not the caller's context, and are joined by wg.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	listenersMu sync.Mutex
	listeners   []func(Mode)
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithNotifier(n FailureNotifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// NewController creates a controller in mode Off. interval is the wait
// between background cycles.
func NewController(r Refresher, interval time.Duration, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		refresher: r,
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// OnChange registers fn to be called after every mode change.
func (c *Controller) OnChange(fn func(Mode)) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Toggle selects requested, or turns refreshing off when requested is
// already active. Activating a mode runs one forced cycle before the new
// poller starts; a failed cycle is logged and does not undo the change.
// The lock is held for the whole transition, including the forced cycle.
func (c *Controller) Toggle(ctx context.Context, requested Mode) (Mode, error) {
	if !requested.valid() {
		return c.Mode(), fmt.Errorf("%w: %s", ErrInvalidMode, requested)
	}

	prev, next, err := c.transition(ctx, requested)
	if err != nil {
		return next, err
	}

	if next != prev {
		c.notifyChange(next)
	}
	return next, nil
}

func (c *Controller) transition(ctx context.Context, requested Mode) (prev, next Mode, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.poisoned {
		return c.mode, c.mode, ErrLockPoisoned
	}
	if c.closed {
		return c.mode, c.mode, ErrClosed
	}

	defer func() {
		if r := recover(); r != nil {
			c.poisoned = true
			if c.poller == nil {
				c.mode = Off
			}
			c.logger.Error("panic during mode transition", "requested", requested.String(), "panic", r)
			next, err = c.mode, fmt.Errorf("%w: %v", ErrLockPoisoned, r)
		}
	}()

	prev = c.mode

	if c.poller != nil {
		c.poller.Stop()
		c.poller = nil
	}

	next = requested
	if prev == requested {
		next = Off
	}
	c.mode = next

	if next == Off {
		c.logger.Info("refresh disabled", "previous", prev.String())
		return prev, next, nil
	}

	region, _ := next.Region()
	c.forcedCycle(ctx, next, region)
	c.poller = c.startPoller(next, region)

	c.logger.Info("refresh mode changed", "previous", prev.String(), "mode", next.String(), "interval", c.interval)
	return prev, next, nil
}

func (c *Controller) forcedCycle(ctx context.Context, mode Mode, region provider.Region) {
	result, err := c.refresher.Refresh(ctx, true, region)
	if err != nil {
		c.logger.Warn("forced refresh failed", "mode", mode.String(), "region", region, "error", err)
		if c.notifier != nil {
			c.notifier.RefreshFailed(region.String(), err)
		}
		return
	}
	c.logger.Info("forced refresh", "mode", mode.String(), "region", region, "identity", result.Identity, "path", result.Path)
}

func (c *Controller) startPoller(mode Mode, region provider.Region) *Poller {
	p := newPoller(mode, region, c.interval, c.refresher, c.logger)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		p.run(c.ctx)
	}()

	return p
}

func (c *Controller) notifyChange(mode Mode) {
	c.listenersMu.Lock()
	listeners := make([]func(Mode), len(c.listeners))
	copy(listeners, c.listeners)
	c.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(mode)
	}
}

// Shutdown stops the active poller, cancels in-flight cycles and waits
// for every poller started so far to exit, bounded by ctx. A poisoned
// controller is joined the same way before ErrLockPoisoned is returned.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	prev := c.mode
	if c.poller != nil {
		c.poller.Stop()
		c.poller = nil
	}
	c.mode = Off
	poisoned := c.poisoned
	c.closed = true
	c.mu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		err := fmt.Errorf("failed to stop pollers: %w", ctx.Err())
		if poisoned {
			return errors.Join(ErrLockPoisoned, err)
		}
		return err
	}

	if poisoned {
		return ErrLockPoisoned
	}
	if prev != Off {
		c.notifyChange(Off)
	}
	c.logger.Debug("refresh controller stopped")
	return nil
}

// state returns mode and poller under the lock.
func (c *Controller) state() (Mode, *Poller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode, c.poller
}
