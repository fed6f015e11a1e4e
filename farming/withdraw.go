// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/farming/farmer"
	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/farming/saga"
	"github.com/vechain/farming/transfer"
)

// WithdrawSeed unstakes value of a plain or pool-share seed and requests its transfer.
// It returns the id of the pending operation.
func (f *Farming) WithdrawSeed(ctx context.Context, account string, seedID asset.SeedID, value *uint256.Int) (uint64, error) {
	ids, err := f.withdraw(ctx, "withdraw_seed", func(tx *txn) ([]*saga.Entry, error) {
		fm, sd, err := tx.load(account, seedID, asset.KindPlain, asset.KindPoolShare)
		if err != nil {
			return nil, err
		}
		if amount.IsZero(value) {
			return nil, reverts.Insufficient(reverts.BalanceSeed, "seed %s: zero amount", seedID)
		}
		if _, err := tx.settler.Seed(fm, sd); err != nil {
			return nil, err
		}
		remain, err := tx.farmers.SubSeed(fm, sd.ID, value, tx.now)
		if err != nil {
			return nil, err
		}
		if err := sd.SubAmount(value); err != nil {
			return nil, err
		}
		if remain.IsZero() {
			if err := tx.dropRPS(fm, sd); err != nil {
				return nil, err
			}
		}
		if err := tx.save(fm, sd); err != nil {
			return nil, err
		}
		return []*saga.Entry{{
			Op:       saga.OpSeed,
			Account:  account,
			Seed:     sd.ID.String(),
			Amount:   value.Clone(),
			Transfer: seedTransfer(sd.ID, account, value),
		}}, nil
	})
	return first(ids), err
}

// WithdrawNFT unstakes an NFT and requests its transfer.
func (f *Farming) WithdrawNFT(ctx context.Context, account string, seedID asset.SeedID, nft asset.NFTID) (uint64, error) {
	ids, err := f.withdraw(ctx, "withdraw_nft", func(tx *txn) ([]*saga.Entry, error) {
		fm, sd, err := tx.load(account, seedID, asset.KindNFT)
		if err != nil {
			return nil, err
		}
		if _, err := tx.settler.Seed(fm, sd); err != nil {
			return nil, err
		}
		if err := tx.farmers.SubNFT(account, sd.ID, nft); err != nil {
			return nil, err
		}
		if err := tx.reweigh(fm, sd); err != nil {
			return nil, err
		}
		if err := tx.save(fm, sd); err != nil {
			return nil, err
		}
		return []*saga.Entry{{
			Op:      saga.OpNFT,
			Account: account,
			Seed:    sd.ID.String(),
			NFT:     nft.String(),
			Transfer: transfer.Request{
				Kind:      transfer.KindNFT,
				Asset:     nft.Contract,
				TokenID:   nft.Token,
				Recipient: account,
			},
		}}, nil
	})
	return first(ids), err
}

// WithdrawBase takes value out of the base balance of a boosted seed and requests its transfer.
func (f *Farming) WithdrawBase(ctx context.Context, account string, seedID asset.SeedID, value *uint256.Int) (uint64, error) {
	ids, err := f.withdraw(ctx, "withdraw_base", func(tx *txn) ([]*saga.Entry, error) {
		fm, sd, err := tx.load(account, seedID, asset.KindNFT)
		if err != nil {
			return nil, err
		}
		if !sd.Boosted() {
			return nil, reverts.New(reverts.KindInvalidSeedKind, "seed %s has no multipliers", seedID)
		}
		if amount.IsZero(value) {
			return nil, reverts.Insufficient(reverts.BalanceSeed, "seed %s: zero amount", seedID)
		}
		if _, err := tx.settler.Seed(fm, sd); err != nil {
			return nil, err
		}
		base, err := amount.Sub(fm.Base(sd.ID), value)
		if err != nil {
			return nil, reverts.Insufficient(reverts.BalanceSeed, "seed %s: base %s, requested %s", seedID, fm.Base(sd.ID).Dec(), value.Dec())
		}
		fm.SetBase(sd.ID, base)
		if err := tx.reweigh(fm, sd); err != nil {
			return nil, err
		}
		if err := tx.save(fm, sd); err != nil {
			return nil, err
		}
		return []*saga.Entry{{
			Op:       saga.OpBase,
			Account:  account,
			Seed:     sd.ID.String(),
			Amount:   value.Clone(),
			Transfer: seedTransfer(sd.ID, account, value),
		}}, nil
	})
	return first(ids), err
}

// WithdrawReward withdraws value of the reward balance of token, or the whole balance if value is nil.
func (f *Farming) WithdrawReward(ctx context.Context, account, token string, value *uint256.Int) (uint64, error) {
	ids, err := f.withdraw(ctx, "withdraw_reward", func(tx *txn) ([]*saga.Entry, error) {
		fm, err := tx.farmers.MustGet(account)
		if err != nil {
			return nil, err
		}
		e, err := takeReward(fm, token, value)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, reverts.Insufficient(reverts.BalanceReward, "token %s: nothing to withdraw", token)
		}
		return []*saga.Entry{e}, tx.farmers.Set(fm)
	})
	return first(ids), err
}

// takeReward debits the reward balance and builds its withdrawal, or returns nil if nothing is taken.
func takeReward(fm *farmer.Farmer, token string, value *uint256.Int) (*saga.Entry, error) {
	if value == nil {
		value = fm.DrainReward(token)
	} else if err := fm.SubReward(token, value); err != nil {
		return nil, err
	}
	if value.IsZero() {
		return nil, nil
	}
	return &saga.Entry{
		Op:      saga.OpReward,
		Account: fm.Account,
		Token:   token,
		Amount:  value.Clone(),
		Transfer: transfer.Request{
			Kind:      transfer.KindFT,
			Asset:     token,
			Recipient: fm.Account,
			Amount:    value.Clone(),
		},
	}, nil
}

// Lock locks value of a plain seed for duration seconds.
func (f *Farming) Lock(account string, seedID asset.SeedID, value *uint256.Int, duration uint64) (*farmer.LockedBalance, error) {
	var locked *farmer.LockedBalance
	err := f.run("lock", func(tx *txn) error {
		fm, sd, err := tx.load(account, seedID, asset.KindPlain)
		if err != nil {
			return err
		}
		if amount.IsZero(value) {
			return reverts.Insufficient(reverts.BalanceSeed, "seed %s: zero amount", seedID)
		}
		if locked, err = tx.farmers.Lock(fm, sd.ID, value, duration, tx.now); err != nil {
			return err
		}
		logger.Debug("seed locked", "account", account, "seed", seedID.String(), "balance", locked.Balance.Dec(), "until", locked.EndedAt)
		return nil
	})
	return locked, err
}

// Unlock releases value of an ended lock and returns what stays locked.
func (f *Farming) Unlock(account string, seedID asset.SeedID, value *uint256.Int) (*uint256.Int, error) {
	var remain *uint256.Int
	err := f.run("unlock", func(tx *txn) error {
		fm, sd, err := tx.load(account, seedID, asset.KindPlain)
		if err != nil {
			return err
		}
		if amount.IsZero(value) {
			return reverts.Insufficient(reverts.BalanceLocked, "seed %s: zero amount", seedID)
		}
		if remain, err = tx.farmers.Unlock(fm, sd.ID, value, tx.now); err != nil {
			return err
		}
		logger.Debug("seed unlocked", "account", account, "seed", seedID.String(), "remain", remain.Dec())
		return nil
	})
	if errors.Is(err, reverts.ErrNoActiveLock) {
		// the failed unlock discarded its purge of an expired record
		if perr := f.run("purge_lock", func(tx *txn) error {
			_, err := tx.farmers.Locked(account, seedID, tx.now)
			return err
		}); perr != nil {
			return nil, perr
		}
	}
	return remain, err
}

// seedTransfer sends fungible seed tokens back. Indexed seeds are multi-token balances.
func seedTransfer(id asset.SeedID, recipient string, value *uint256.Int) transfer.Request {
	r := transfer.Request{
		Kind:      transfer.KindFT,
		Asset:     id.Contract,
		Recipient: recipient,
		Amount:    value.Clone(),
	}
	if id.Index != "" {
		r.Kind = transfer.KindMFT
		r.TokenID = id.Index
	}
	return r
}

func first(ids []uint64) uint64 {
	if len(ids) == 0 {
		return 0
	}
	return ids[0]
}
