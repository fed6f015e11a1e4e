// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farming is the seed farming ledger. Every operation runs under one lock inside one
// store transaction; withdrawals commit optimistically and are confirmed or compensated later
// through Resolve.
package farming

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/vechain/farming/distribution"
	"github.com/vechain/farming/farming/farmer"
	"github.com/vechain/farming/farming/saga"
	"github.com/vechain/farming/farming/seed"
	"github.com/vechain/farming/farming/settlement"
	"github.com/vechain/farming/kv"
	"github.com/vechain/farming/transfer"
)

var logger = log.New("pkg", "farming")

// ErrTransferRejected is returned when the port refused a transfer request.
// The withdrawal has already been reverted.
var ErrTransferRejected = errors.New("transfer request rejected")

// Clock returns the ledger time in seconds.
type Clock func() uint64

// SystemClock is the wall clock.
func SystemClock() uint64 {
	return uint64(time.Now().Unix())
}

type Farming struct {
	db      kv.Store
	engines distribution.Opener
	port    transfer.Port
	clock   Clock
	mu      sync.Mutex
}

// New creates the ledger. A nil clock means the wall clock.
func New(db kv.Store, engines distribution.Opener, port transfer.Port, clock Clock) *Farming {
	if clock == nil {
		clock = SystemClock
	}
	f := &Farming{
		db:      db,
		engines: engines,
		port:    port,
		clock:   clock,
	}
	if n, err := saga.New(db).Count(); err != nil {
		logger.Warn("failed to count pending transfers", "err", err)
	} else {
		metricSagaPending().Set(int64(n))
	}
	return f
}

// txn is the set of services bound to one store transaction.
type txn struct {
	now     uint64
	farmers *farmer.Service
	seeds   *seed.Service
	engine  distribution.Engine
	settler *settlement.Settler
	sagas   *saga.Log
}

func (f *Farming) bind(rw kv.ReadWriter) *txn {
	now := f.clock()
	tx := &txn{
		now:     now,
		farmers: farmer.NewService(rw),
		seeds:   seed.NewService(rw),
		engine:  f.engines.Open(rw, now),
		sagas:   saga.New(rw),
	}
	tx.settler = settlement.New(tx.farmers, tx.seeds, tx.engine)
	return tx
}

// run executes fn in a transaction, committing only if it succeeds.
func (f *Farming) run(op string, fn func(tx *txn) error) (err error) {
	start := time.Now()
	defer func() { observe(op, start, err) }()

	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(f.bind(t)); err != nil {
		t.Discard()
		return err
	}
	if err := t.Commit(); err != nil {
		return errors.Wrapf(err, "commit %s", op)
	}
	return nil
}

// view executes fn in a transaction that is always discarded.
func (f *Farming) view(fn func(tx *txn) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.db.Begin()
	if err != nil {
		return err
	}
	defer t.Discard()
	return fn(f.bind(t))
}

// withdraw runs fn, logs the entries it returns as pending sagas and, once committed,
// requests their transfers. A rejected request is compensated at once.
func (f *Farming) withdraw(ctx context.Context, op string, fn func(tx *txn) ([]*saga.Entry, error)) ([]uint64, error) {
	var entries []*saga.Entry
	err := f.run(op, func(tx *txn) error {
		var err error
		if entries, err = fn(tx); err != nil {
			return err
		}
		for _, e := range entries {
			id, err := tx.sagas.NextID()
			if err != nil {
				return err
			}
			e.Transfer.OpID = id
			e.CreatedAt = tx.now
			if err := tx.sagas.Record(e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metricSagaPending().Add(int64(len(entries)))

	ids := make([]uint64, 0, len(entries))
	var rejected error
	for _, e := range entries {
		ids = append(ids, e.ID())
		if err := f.port.Request(ctx, e.Transfer); err != nil {
			logger.Warn("transfer request rejected", "op", e.ID(), "kind", e.Op.String(), "account", e.Account, "err", err)
			if rerr := f.Resolve(ctx, e.Transfer.Confirm(transfer.Failure)); rerr != nil {
				return ids, errors.Wrapf(rerr, "revert op %d", e.ID())
			}
			rejected = errors.Wrapf(ErrTransferRejected, "op %d: %v", e.ID(), err)
		}
	}
	return ids, rejected
}
