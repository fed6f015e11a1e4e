// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"context"
	"errors"

	"github.com/holiman/uint256"

	"github.com/vechain/farming/distribution"
	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/farming/farmer"
	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/farming/saga"
	"github.com/vechain/farming/farming/seed"
	"github.com/vechain/farming/farming/settlement"
)

// ClaimByFarm moves the farmer's share of one farm into the reward balance.
func (f *Farming) ClaimByFarm(account, farmID string) (*settlement.Claim, error) {
	var claim *settlement.Claim
	err := f.run("claim_by_farm", func(tx *txn) error {
		var err error
		claim, err = tx.claimFarm(account, farmID)
		return err
	})
	return claim, err
}

// ClaimBySeed claims every farm of the seed.
func (f *Farming) ClaimBySeed(account string, seedID asset.SeedID) ([]settlement.Claim, error) {
	var claims []settlement.Claim
	err := f.run("claim_by_seed", func(tx *txn) error {
		var err error
		_, claims, err = tx.claimSeed(account, seedID)
		return err
	})
	return claims, err
}

// ClaimByFarmAndWithdraw claims one farm and withdraws the whole balance of its reward token.
// It returns zero if there was nothing to withdraw.
func (f *Farming) ClaimByFarmAndWithdraw(ctx context.Context, account, farmID string) (uint64, error) {
	ids, err := f.withdraw(ctx, "claim_by_farm_and_withdraw", func(tx *txn) ([]*saga.Entry, error) {
		claim, err := tx.claimFarm(account, farmID)
		if err != nil {
			return nil, err
		}
		fm, err := tx.farmers.MustGet(account)
		if err != nil {
			return nil, err
		}
		e, err := takeReward(fm, claim.Token, nil)
		if err != nil || e == nil {
			return nil, err
		}
		return []*saga.Entry{e}, tx.farmers.Set(fm)
	})
	return first(ids), err
}

// ClaimBySeedAndWithdraw claims every farm of the seed and withdraws the balance of each of
// their reward tokens, one operation per token.
func (f *Farming) ClaimBySeedAndWithdraw(ctx context.Context, account string, seedID asset.SeedID) ([]uint64, error) {
	return f.withdraw(ctx, "claim_by_seed_and_withdraw", func(tx *txn) ([]*saga.Entry, error) {
		fm, claims, err := tx.claimSeed(account, seedID)
		if err != nil {
			return nil, err
		}
		var (
			entries []*saga.Entry
			seen    = make(map[string]bool)
		)
		for _, c := range claims {
			if seen[c.Token] {
				continue
			}
			seen[c.Token] = true
			e, err := takeReward(fm, c.Token, nil)
			if err != nil {
				return nil, err
			}
			if e != nil {
				entries = append(entries, e)
			}
		}
		return entries, tx.farmers.Set(fm)
	})
}

// ClaimBySeedAndDeposit claims the running farms of seedID that pay in depositSeed's token and
// stakes the whole balance of that token into depositSeed. The balances of the other reward
// tokens of depositSeed's farms are then withdrawn, one operation per token.
// It returns the amount staked and the withdrawal operations.
func (f *Farming) ClaimBySeedAndDeposit(ctx context.Context, account string, seedID, depositSeed asset.SeedID) (*uint256.Int, []uint64, error) {
	var staked *uint256.Int
	ids, err := f.withdraw(ctx, "claim_by_seed_and_deposit", func(tx *txn) ([]*saga.Entry, error) {
		fm, dsd, err := tx.load(account, depositSeed, asset.KindPlain)
		if err != nil {
			return nil, err
		}
		sd := dsd
		if seedID != depositSeed {
			if sd, err = tx.seeds.MustGet(seedID); err != nil {
				return nil, err
			}
		}
		if err := tx.claimToken(fm, sd, depositSeed.String()); err != nil {
			return nil, err
		}
		if staked, err = tx.restake(fm, dsd); err != nil {
			return nil, err
		}
		return tx.takeSeedRewards(fm, dsd)
	})
	return staked, ids, err
}

// ClaimByAllSeedsAndDeposit is ClaimBySeedAndDeposit over every seed the farmer holds.
func (f *Farming) ClaimByAllSeedsAndDeposit(ctx context.Context, account string, depositSeed asset.SeedID) (*uint256.Int, []uint64, error) {
	var staked *uint256.Int
	ids, err := f.withdraw(ctx, "claim_by_all_seeds_and_deposit", func(tx *txn) ([]*saga.Entry, error) {
		fm, dsd, err := tx.load(account, depositSeed, asset.KindPlain)
		if err != nil {
			return nil, err
		}
		for _, id := range fm.SeedIDs() {
			seedID, err := asset.ParseSeedID(id)
			if err != nil {
				return nil, err
			}
			sd := dsd
			if seedID != depositSeed {
				if sd, err = tx.seeds.Get(seedID); err != nil {
					return nil, err
				}
				if sd == nil {
					continue
				}
			}
			if err := tx.claimToken(fm, sd, depositSeed.String()); err != nil {
				return nil, err
			}
		}
		if staked, err = tx.restake(fm, dsd); err != nil {
			return nil, err
		}
		return tx.takeSeedRewards(fm, dsd)
	})
	return staked, ids, err
}

func (tx *txn) claimFarm(account, farmID string) (*settlement.Claim, error) {
	fm, err := tx.farmers.MustGet(account)
	if err != nil {
		return nil, err
	}
	sd, err := tx.farmSeed(farmID)
	if err != nil {
		return nil, err
	}
	claim, err := tx.settler.Farm(fm, sd, farmID)
	if err != nil {
		return nil, err
	}
	return claim, tx.farmers.Set(fm)
}

func (tx *txn) claimSeed(account string, seedID asset.SeedID) (*farmer.Farmer, []settlement.Claim, error) {
	fm, err := tx.farmers.MustGet(account)
	if err != nil {
		return nil, nil, err
	}
	sd, err := tx.seeds.MustGet(seedID)
	if err != nil {
		return nil, nil, err
	}
	claims, err := tx.settler.Seed(fm, sd)
	if err != nil {
		return nil, nil, err
	}
	return fm, claims, tx.farmers.Set(fm)
}

// claimToken settles the running farms of sd paying in token.
func (tx *txn) claimToken(fm *farmer.Farmer, sd *seed.Seed, token string) error {
	for _, id := range sd.Farms {
		farm, err := tx.engine.Farm(id, sd.Amount)
		if err != nil {
			return err
		}
		if farm == nil || farm.Status != distribution.StatusRunning || farm.Terms.RewardToken != token {
			continue
		}
		if _, err := tx.settler.Farm(fm, sd, id); err != nil {
			if errors.Is(err, reverts.ErrUnknownFarmOrSeed) {
				continue
			}
			return err
		}
	}
	return nil
}

// restake drains the reward balance of sd's token into the farmer's stake of sd.
func (tx *txn) restake(fm *farmer.Farmer, sd *seed.Seed) (*uint256.Int, error) {
	if _, err := tx.settler.Seed(fm, sd); err != nil {
		return nil, err
	}
	v := fm.DrainReward(sd.ID.String())
	if !amount.IsZero(v) {
		if err := fm.AddSeed(sd.ID, v); err != nil {
			return nil, err
		}
		if err := sd.AddAmount(v); err != nil {
			return nil, err
		}
		logger.Debug("reward restaked", "account", fm.Account, "seed", sd.ID.String(), "amount", v.Dec())
	}
	return v, tx.save(fm, sd)
}

// takeSeedRewards drains the balance of every reward token paid by the farms of sd.
func (tx *txn) takeSeedRewards(fm *farmer.Farmer, sd *seed.Seed) ([]*saga.Entry, error) {
	var (
		entries []*saga.Entry
		seen    = make(map[string]bool)
	)
	for _, id := range sd.Farms {
		farm, err := tx.engine.Farm(id, sd.Amount)
		if err != nil {
			return nil, err
		}
		if farm == nil || seen[farm.Terms.RewardToken] {
			continue
		}
		seen[farm.Terms.RewardToken] = true
		e, err := takeReward(fm, farm.Terms.RewardToken, nil)
		if err != nil {
			return nil, err
		}
		if e != nil {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries, tx.farmers.Set(fm)
}
