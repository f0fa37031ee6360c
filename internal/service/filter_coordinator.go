package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrSuperseded is returned to a filter call that lost to a newer call for the same key.
var ErrSuperseded = errors.New("filter request superseded by a newer one")

const (
	// Interval for sweeping idle filter keys
	filterCleanupInterval = 5 * time.Minute

	// How long a key must be idle before it is swept
	filterStaleThreshold = 10 * time.Minute
)

// FilterCoordinator debounces search-as-you-type requests and makes sure only the
// newest request per key (session + scope) produces a result.
//
// For every Run on a key:
// 1. the key's generation is bumped and the in-flight call, if any, is canceled
// 2. the call waits the debounce interval, returning early when superseded
// 3. fn runs, and its result is discarded if a newer call arrived meanwhile
type FilterCoordinator struct {
	debounce time.Duration
	log      *logrus.Logger

	entries sync.Map // map[string]*filterEntry

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

type filterEntry struct {
	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	removed    bool
	lastUsed   atomic.Int64 // Unix timestamp
}

// NewFilterCoordinator starts the background sweep. Call Stop() during shutdown.
func NewFilterCoordinator(debounce time.Duration, log *logrus.Logger) *FilterCoordinator {
	c := &FilterCoordinator{
		debounce: debounce,
		log:      log,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Stop halts the sweep. Safe to call multiple times.
func (c *FilterCoordinator) Stop() {
	if c.stopped.CompareAndSwap(false, true) {
		close(c.stopChan)
		c.wg.Wait()
		c.log.Info("FilterCoordinator stopped")
	}
}

// FilterKey builds the coordination key for one filter box of one session.
func FilterKey(sessionID, scope string) string {
	return sessionID + ":" + scope
}

// Run executes fn as the newest call for key. It returns ErrSuperseded when a later
// Run for the same key made this one stale, before or after fn ran.
func (c *FilterCoordinator) Run(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	entry, gen, runCtx, cancel := c.begin(ctx, key)
	defer c.finish(entry, gen, cancel)

	if c.debounce > 0 {
		timer := time.NewTimer(c.debounce)
		select {
		case <-runCtx.Done():
			timer.Stop()
			if !entry.isCurrent(gen) {
				return ErrSuperseded
			}
			return ctx.Err()
		case <-timer.C:
		}
	}

	if !entry.isCurrent(gen) {
		return ErrSuperseded
	}

	err := fn(runCtx)

	if !entry.isCurrent(gen) {
		return ErrSuperseded
	}
	return err
}

func (c *FilterCoordinator) begin(ctx context.Context, key string) (*filterEntry, uint64, context.Context, context.CancelFunc) {
	for {
		value, _ := c.entries.LoadOrStore(key, &filterEntry{})
		entry := value.(*filterEntry)

		entry.mu.Lock()
		if entry.removed {
			// Swept between load and lock, take the replacement.
			entry.mu.Unlock()
			continue
		}
		entry.generation++
		gen := entry.generation
		if entry.cancel != nil {
			entry.cancel()
		}
		runCtx, cancel := context.WithCancel(ctx)
		entry.cancel = cancel
		entry.lastUsed.Store(time.Now().Unix())
		entry.mu.Unlock()

		return entry, gen, runCtx, cancel
	}
}

func (c *FilterCoordinator) finish(entry *filterEntry, gen uint64, cancel context.CancelFunc) {
	entry.mu.Lock()
	if entry.generation == gen {
		entry.cancel = nil
	}
	entry.mu.Unlock()
	cancel()
}

func (e *filterEntry) isCurrent(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation == gen
}

func (c *FilterCoordinator) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(filterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			c.log.Debug("Filter cleanup goroutine stopping")
			return
		case <-ticker.C:
			c.cleanupStale(time.Now().Add(-filterStaleThreshold))
		}
	}
}

func (c *FilterCoordinator) cleanupStale(cutoff time.Time) int {
	cutoffUnix := cutoff.Unix()
	var cleaned int

	c.entries.Range(func(key, value any) bool {
		entry, ok := value.(*filterEntry)
		if !ok {
			return true
		}

		// Busy entries are skipped, the next sweep gets them.
		if entry.mu.TryLock() {
			if entry.cancel == nil && entry.lastUsed.Load() < cutoffUnix {
				entry.removed = true
				c.entries.Delete(key)
				cleaned++
			}
			entry.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		c.log.Debugf("Cleaned up %d idle filter keys", cleaned)
	}
	return cleaned
}
