// Package goroutine provides a bounded launcher for background work so the
// application can cap concurrency and drain outstanding tasks on shutdown.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/siswanet/siswanet/internal/pkg/stacktrace"
)

// DefaultLimitPerCPU is multiplied by GOMAXPROCS-visible CPUs when NewManager
// receives a non-positive limit.
const DefaultLimitPerCPU int = 100

// Manager runs functions in goroutines under a fixed concurrency limit and
// collects the errors they return until Wait is called.
type Manager struct {
	errMu   sync.Mutex
	errs    []error
	wg      *sync.WaitGroup
	sema    chan struct{}
	stateMu sync.RWMutex
	closed  bool
}

// NewManager creates a Manager allowing at most limit concurrent tasks.
func NewManager(limit int) *Manager {
	if limit < 1 {
		limit = runtime.NumCPU() * DefaultLimitPerCPU
	}

	return &Manager{
		wg:   &sync.WaitGroup{},
		sema: make(chan struct{}, limit),
	}
}

// Go schedules f to run in a goroutine if a slot is available.
//
// When the manager is at its limit or already closed the task is dropped with
// a warning rather than blocking the caller.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) {
	if g == nil {
		return
	}

	g.stateMu.RLock()
	if g.closed {
		g.stateMu.RUnlock()
		slog.WarnContext(pCtx, "goroutine manager is closed, skipping new goroutine")
		return
	}

	select {
	case g.sema <- struct{}{}:
		g.wg.Go(func() {
			g.stateMu.RUnlock()
			defer func() {
				<-g.sema

				if rvr := recover(); rvr != nil {
					stack := debug.Stack()
					paths := stacktrace.InternalPaths(stack)
					if len(paths) == 0 {
						slog.ErrorContext(pCtx, "panic occurred in goroutine", "stack", string(stack))
					} else {
						slog.ErrorContext(pCtx, "panic occurred in goroutine", "stack", paths)
					}
				}
			}()

			select {
			case <-pCtx.Done():
				slog.WarnContext(pCtx, "goroutine canceled", "because", pCtx.Err())
			default:
				if err := f(pCtx); err != nil {
					g.errMu.Lock()
					g.errs = append(g.errs, err)
					g.errMu.Unlock()
				}
			}
		})

	default:
		g.stateMu.RUnlock()
		slog.WarnContext(pCtx, "maximum goroutine limit reached, failed to start new goroutine")
	}
}

// Wait closes the manager, blocks until all scheduled goroutines finish, and
// returns the joined task errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.stateMu.Lock()
	g.closed = true
	g.stateMu.Unlock()

	g.wg.Wait()

	return errors.Join(g.errs...)
}
