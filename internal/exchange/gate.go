package exchange

// gate.go bounds how many imports run at once.
//
// Dedup compares each row against a fresh store listing, so two imports
// running side by side could both create the same email. The service
// therefore admits one import at a time; later callers wait up to maxWait
// before failing with core.ErrBusy.
//
// WaitForDrain blocks until running imports finish, for graceful shutdown.

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/JonMunkholm/contacts/internal/core"
)

// DefaultImportWait is how long an import waits for its turn.
const DefaultImportWait = 30 * time.Second

// Gate is a counting semaphore with a bounded wait.
type Gate struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.RWMutex
	active int
}

// GateStatus is a snapshot of a Gate.
type GateStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// NewGate admits at most maxConcurrent holders. Non-positive arguments
// fall back to one holder and DefaultImportWait.
func NewGate(maxConcurrent int, maxWait time.Duration) *Gate {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if maxWait <= 0 {
		maxWait = DefaultImportWait
	}
	return &Gate{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. It returns ctx's error if ctx ends first and
// core.ErrBusy if no slot frees up within maxWait.
// The caller must call Release after a nil return.
func (g *Gate) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, g.maxWait)
	defer cancel()

	select {
	case g.slots <- struct{}{}:
		g.mu.Lock()
		g.active++
		g.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		// Tell the caller's cancellation apart from our own timeout
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("waited %s: %w", g.maxWait, core.ErrBusy)
	}
}

// Release returns a slot taken by Acquire.
func (g *Gate) Release() {
	g.mu.Lock()
	g.active--
	g.mu.Unlock()

	<-g.slots
}

// Active returns the number of current holders.
func (g *Gate) Active() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

// WaitForDrain blocks until no slot is held or ctx is done.
func (g *Gate) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if g.Active() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Status returns the current gate state for health output.
func (g *Gate) Status() GateStatus {
	g.mu.RLock()
	active := g.active
	g.mu.RUnlock()

	return GateStatus{
		Active:        active,
		Available:     cap(g.slots) - len(g.slots),
		MaxConcurrent: cap(g.slots),
	}
}
