// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/farming/co"
)

// ErrQueueFull is returned when the dispatcher cannot accept more requests.
var ErrQueueFull = errors.New("transfer queue full")

// ErrStopped is returned for requests made after Stop.
var ErrStopped = errors.New("transfer dispatcher stopped")

// Executor performs a transfer and reports its outcome.
type Executor func(ctx context.Context, req Request) Outcome

// Dispatcher is a Port executing requests on background workers and resolving their
// outcomes asynchronously.
type Dispatcher struct {
	exec    Executor
	queue   chan Request
	workers int
	goes    co.Goes
	ctx     context.Context
	cancel  context.CancelFunc
	stopped atomic.Bool
}

func NewDispatcher(exec Executor, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		exec:    exec,
		queue:   make(chan Request, queueSize),
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start runs the workers, delivering every outcome to resolver.
func (d *Dispatcher) Start(resolver Resolver) {
	d.goes.GoN(d.workers, func(int) {
		for {
			select {
			case <-d.ctx.Done():
				return
			case req := <-d.queue:
				outcome := d.exec(d.ctx, req)
				if err := resolver.Resolve(d.ctx, req.Confirm(outcome)); err != nil {
					logger.Warn("failed to resolve transfer", "op", req.OpID, "outcome", outcome.String(), "err", err)
				}
			}
		}
	})
}

// Request enqueues req without blocking.
func (d *Dispatcher) Request(_ context.Context, req Request) error {
	if d.stopped.Load() {
		return ErrStopped
	}
	select {
	case d.queue <- req:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop stops the workers. Requests still queued stay pending in the ledger.
func (d *Dispatcher) Stop(timeout time.Duration) {
	d.stopped.Store(true)
	d.cancel()
	if !d.goes.WaitTimeout(timeout) {
		logger.Warn("transfer workers did not stop in time")
	}
	if n := len(d.queue); n > 0 {
		logger.Info("transfer requests left pending", "count", n)
	}
}
