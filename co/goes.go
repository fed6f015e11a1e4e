// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co manages goroutine lifecycles.
package co

import (
	"context"
	"sync"
	"time"
)

// Goes to run and manage life-cycle of go routines.
type Goes struct {
	wg sync.WaitGroup
}

// Go run f in go routine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// GoN runs n copies of f, each receiving its index.
func (g *Goes) GoN(n int, f func(i int)) {
	for i := range n {
		g.Go(func() { f(i) })
	}
}

// Wait wait for all go routines started by 'Go' done.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Done return the done channel for exiting of all go routines.
func (g *Goes) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}

// WaitContext waits until all go routines are done or ctx ends. It reports whether they finished.
func (g *Goes) WaitContext(ctx context.Context) bool {
	select {
	case <-g.Done():
		return true
	case <-ctx.Done():
		return false
	}
}

// WaitTimeout is WaitContext with a timeout.
func (g *Goes) WaitTimeout(d time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return g.WaitContext(ctx)
}
