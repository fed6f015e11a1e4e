// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/farming/farmer"
	"github.com/vechain/farming/farming/saga"
	"github.com/vechain/farming/transfer"
)

var _ transfer.Resolver = (*Farming)(nil)

// Resolve completes a pending withdrawal. On success the operation is forgotten; on failure
// the withdrawn quantity is credited back. Each operation resolves at most once.
func (f *Farming) Resolve(_ context.Context, c transfer.Confirmation) error {
	var e *saga.Entry
	err := f.run("resolve", func(tx *txn) error {
		var err error
		if e, err = tx.sagas.Get(c.OpID); err != nil {
			return err
		}
		if err := e.Check(c); err != nil {
			return err
		}
		if c.Outcome == transfer.Failure {
			if err := tx.compensate(e); err != nil {
				return errors.WithMessagef(err, "compensate op %d", e.ID())
			}
		}
		return tx.sagas.Discard(e.ID())
	})
	if err != nil {
		return err
	}

	metricSagaPending().Add(-1)
	metricSagaOutcomes().AddWithLabel(1, map[string]string{"op": e.Op.String(), "outcome": c.Outcome.String()})
	if c.Outcome == transfer.Failure {
		logger.Warn("transfer failed, withdrawal reverted", "op", e.ID(), "kind", e.Op.String(), "account", e.Account, "asset", e.Transfer.Asset)
	} else {
		logger.Debug("transfer confirmed", "op", e.ID(), "kind", e.Op.String(), "account", e.Account)
	}
	return nil
}

// compensate credits a failed withdrawal back, settling the seed first so the restored
// weight does not earn for the time it was away.
func (tx *txn) compensate(e *saga.Entry) error {
	fm, err := tx.farmers.Get(e.Account)
	if err != nil {
		return err
	}
	if fm == nil {
		// unregistered while the transfer was in flight
		fm = farmer.New(e.Account)
	}

	if e.Op == saga.OpReward {
		if err := fm.AddReward(e.Token, e.Amount); err != nil {
			return err
		}
		return tx.farmers.Set(fm)
	}

	seedID, err := asset.ParseSeedID(e.Seed)
	if err != nil {
		return err
	}
	sd, err := tx.seeds.MustGet(seedID)
	if err != nil {
		return err
	}
	if _, err := tx.settler.Seed(fm, sd); err != nil {
		return err
	}

	switch e.Op {
	case saga.OpSeed:
		if err := fm.AddSeed(sd.ID, e.Amount); err != nil {
			return err
		}
		if err := sd.AddAmount(e.Amount); err != nil {
			return err
		}
	case saga.OpNFT:
		nft, err := asset.ParseNFTID(e.NFT)
		if err != nil {
			return err
		}
		if _, err := tx.farmers.AddNFT(fm.Account, sd.ID, nft); err != nil {
			return err
		}
		if err := tx.reweigh(fm, sd); err != nil {
			return err
		}
	case saga.OpBase:
		base, err := amount.Add(fm.Base(sd.ID), e.Amount)
		if err != nil {
			return err
		}
		fm.SetBase(sd.ID, base)
		if err := tx.reweigh(fm, sd); err != nil {
			return err
		}
	default:
		return errors.Errorf("op %d: unknown kind %s", e.ID(), e.Op)
	}
	return tx.save(fm, sd)
}

// Replay re-requests the transfers of pending operations, oldest first. It is meant to run
// at startup, before new withdrawals.
func (f *Farming) Replay(ctx context.Context) (int, error) {
	var pending []*saga.Entry
	if err := f.view(func(tx *txn) error {
		var err error
		pending, err = tx.sagas.Pending(0, 0)
		return err
	}); err != nil {
		return 0, err
	}
	for i, e := range pending {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := f.port.Request(ctx, e.Transfer); err != nil {
			return i, errors.Wrapf(err, "replay op %d", e.ID())
		}
	}
	if len(pending) > 0 {
		logger.Info("pending transfers replayed", "count", len(pending))
	}
	return len(pending), nil
}
