// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"github.com/holiman/uint256"

	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/farming/farmer"
	"github.com/vechain/farming/farming/multiplier"
	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/farming/seed"
)

// Register creates an empty farmer. It reports false if the account was already registered.
func (f *Farming) Register(account string) (bool, error) {
	var created bool
	err := f.run("register", func(tx *txn) error {
		var err error
		if created, err = tx.farmers.Register(account); err != nil {
			return err
		}
		if created {
			logger.Info("farmer registered", "account", account)
		}
		return nil
	})
	return created, err
}

// Unregister removes a farmer holding no seeds, rewards, staked NFTs or live locks.
func (f *Farming) Unregister(account string) error {
	return f.run("unregister", func(tx *txn) error {
		if err := tx.farmers.Unregister(account, tx.now); err != nil {
			return err
		}
		logger.Info("farmer unregistered", "account", account)
		return nil
	})
}

// DepositSeed stakes value of a plain or pool-share seed.
func (f *Farming) DepositSeed(account string, seedID asset.SeedID, value *uint256.Int) error {
	return f.run("deposit_seed", func(tx *txn) error {
		fm, sd, err := tx.load(account, seedID, asset.KindPlain, asset.KindPoolShare)
		if err != nil {
			return err
		}
		if amount.IsZero(value) || value.Lt(sd.MinDeposit) {
			return reverts.New(reverts.KindBelowMinDeposit, "seed %s: deposit %s, min %s", seedID, amount.OrZero(value).Dec(), sd.MinDeposit.Dec())
		}
		if _, err := tx.settler.Seed(fm, sd); err != nil {
			return err
		}
		if err := fm.AddSeed(sd.ID, value); err != nil {
			return err
		}
		if err := sd.AddAmount(value); err != nil {
			return err
		}
		logger.Debug("seed deposited", "account", account, "seed", seedID.String(), "amount", value.Dec())
		return tx.save(fm, sd)
	})
}

// DepositNFT stakes an NFT into an NFT seed.
func (f *Farming) DepositNFT(account string, seedID asset.SeedID, nft asset.NFTID) error {
	return f.run("deposit_nft", func(tx *txn) error {
		fm, sd, err := tx.load(account, seedID, asset.KindNFT)
		if err != nil {
			return err
		}
		if _, err := tx.settler.Seed(fm, sd); err != nil {
			return err
		}
		added, err := tx.farmers.AddNFT(account, sd.ID, nft)
		if err != nil {
			return err
		}
		if !added {
			return reverts.New(reverts.KindAlreadyRegistered, "%s already staked in seed %s", nft, seedID)
		}
		if err := tx.reweigh(fm, sd); err != nil {
			return err
		}
		logger.Debug("nft deposited", "account", account, "seed", seedID.String(), "nft", nft.String())
		return tx.save(fm, sd)
	})
}

// DepositBase adds to the base balance of a multiplier-boosted seed.
func (f *Farming) DepositBase(account string, seedID asset.SeedID, value *uint256.Int) error {
	return f.run("deposit_base", func(tx *txn) error {
		fm, sd, err := tx.load(account, seedID, asset.KindNFT)
		if err != nil {
			return err
		}
		if !sd.Boosted() {
			return reverts.New(reverts.KindInvalidSeedKind, "seed %s has no multipliers", seedID)
		}
		if amount.IsZero(value) || value.Lt(sd.MinDeposit) {
			return reverts.New(reverts.KindBelowMinDeposit, "seed %s: deposit %s, min %s", seedID, amount.OrZero(value).Dec(), sd.MinDeposit.Dec())
		}
		if _, err := tx.settler.Seed(fm, sd); err != nil {
			return err
		}
		base, err := amount.Add(fm.Base(sd.ID), value)
		if err != nil {
			return err
		}
		fm.SetBase(sd.ID, base)
		if err := tx.reweigh(fm, sd); err != nil {
			return err
		}
		logger.Debug("base deposited", "account", account, "seed", seedID.String(), "amount", value.Dec())
		return tx.save(fm, sd)
	})
}

// load fetches a registered farmer and an existing seed of one of the given kinds.
func (tx *txn) load(account string, seedID asset.SeedID, kinds ...asset.Kind) (*farmer.Farmer, *seed.Seed, error) {
	fm, err := tx.farmers.MustGet(account)
	if err != nil {
		return nil, nil, err
	}
	sd, err := tx.seeds.MustGet(seedID)
	if err != nil {
		return nil, nil, err
	}
	for _, k := range kinds {
		if sd.Kind == k {
			return fm, sd, nil
		}
	}
	return nil, nil, reverts.New(reverts.KindInvalidSeedKind, "seed %s is %s", seedID, sd.Kind)
}

func (tx *txn) save(fm *farmer.Farmer, sd *seed.Seed) error {
	if err := tx.farmers.Set(fm); err != nil {
		return err
	}
	return tx.seeds.Set(sd)
}

// reweigh recomputes the farmer's weight of an NFT seed and moves the seed total by the delta.
// The seed must be settled for the farmer beforehand.
func (tx *txn) reweigh(fm *farmer.Farmer, sd *seed.Seed) error {
	nfts, err := tx.farmers.NFTs(fm.Account, sd.ID)
	if err != nil {
		return err
	}
	w, err := multiplier.Weight(sd, fm.Base(sd.ID), nfts)
	if err != nil {
		return err
	}
	d := multiplier.Diff(fm.Weight(sd.ID), w)
	if d.IsZero() {
		return nil
	}
	if d.Negative {
		remain, err := tx.farmers.SubSeed(fm, sd.ID, d.Value, tx.now)
		if err != nil {
			return err
		}
		if remain.IsZero() {
			if err := tx.dropRPS(fm, sd); err != nil {
				return err
			}
		}
	} else if err := fm.AddSeed(sd.ID, d.Value); err != nil {
		return err
	}
	return d.ApplyTo(sd)
}

// dropRPS removes the farmer's snapshots of every farm of sd.
func (tx *txn) dropRPS(fm *farmer.Farmer, sd *seed.Seed) error {
	for _, farm := range sd.Farms {
		if _, err := tx.farmers.RemoveRPS(fm, farm); err != nil {
			return err
		}
	}
	return nil
}
