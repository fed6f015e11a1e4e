// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"github.com/holiman/uint256"

	"github.com/vechain/farming/distribution"
	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/farming/seed"
)

// FarmParams creates a farm, registering its seed on first use.
// The seed fields are ignored when the seed already exists.
type FarmParams struct {
	Seed        asset.SeedID
	MinDeposit  *uint256.Int
	NFTBalance  map[string]*uint256.Int
	Multipliers map[string]uint64
	Title       string
	Media       string

	RewardToken string
	// StartAt of zero starts the farm at creation time.
	StartAt          uint64
	RewardPerSession *uint256.Int
	SessionInterval  uint64
}

// CreateFarm attaches a new farm to the seed and returns its id.
func (f *Farming) CreateFarm(p FarmParams) (string, error) {
	var id string
	err := f.run("create_farm", func(tx *txn) error {
		if err := asset.ValidateAccount(p.RewardToken); err != nil {
			return err
		}
		sd, inserted, err := tx.seeds.Insert(seedOf(p))
		if err != nil {
			return err
		}
		startAt := p.StartAt
		if startAt == 0 {
			startAt = tx.now
		}
		id = sd.AttachFarm()
		if err := tx.engine.Create(id, distribution.Terms{
			Seed:             sd.ID.String(),
			RewardToken:      p.RewardToken,
			StartAt:          startAt,
			RewardPerSession: amount.OrZero(p.RewardPerSession),
			SessionInterval:  p.SessionInterval,
		}); err != nil {
			return err
		}
		if inserted {
			logger.Info("seed registered", "seed", sd.ID.String(), "kind", sd.Kind.String())
		}
		logger.Info("farm created", "farm", id, "token", p.RewardToken, "start", startAt)
		return tx.seeds.Set(sd)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func seedOf(p FarmParams) *seed.Seed {
	s := seed.New(p.Seed, p.MinDeposit, p.NFTBalance, p.Multipliers)
	s.Title, s.Media = p.Title, p.Media
	return s
}

// DepositReward funds a farm, starting it if it was Created.
func (f *Farming) DepositReward(farmID string, value *uint256.Int) (*distribution.Farm, error) {
	var farm *distribution.Farm
	err := f.run("deposit_reward", func(tx *txn) error {
		sd, err := tx.farmSeed(farmID)
		if err != nil {
			return err
		}
		if amount.IsZero(value) {
			return reverts.New(reverts.KindBelowMinDeposit, "farm %s: zero reward", farmID)
		}
		if farm, err = tx.engine.AddReward(farmID, value, sd.Amount); err != nil {
			return err
		}
		logger.Info("farm funded", "farm", farmID, "amount", value.Dec(), "status", farm.Status.String())
		return nil
	})
	return farm, err
}

// ClearFarm clears an Ended farm and detaches it from its seed.
func (f *Farming) ClearFarm(farmID string) error {
	return f.run("clear_farm", func(tx *txn) error {
		sd, err := tx.farmSeed(farmID)
		if err != nil {
			return err
		}
		if err := tx.engine.Clear(farmID, sd.Amount); err != nil {
			return err
		}
		sd.DetachFarm(farmID)
		logger.Info("farm cleared", "farm", farmID)
		return tx.seeds.Set(sd)
	})
}

// RemoveStaleRPS drops the farmer's snapshot of a farm no longer attached to its seed.
// It reports whether a snapshot was removed.
func (f *Farming) RemoveStaleRPS(account, farmID string) (bool, error) {
	var removed bool
	err := f.run("remove_rps", func(tx *txn) error {
		fm, err := tx.farmers.MustGet(account)
		if err != nil {
			return err
		}
		seedID, _, err := asset.ParseFarmID(farmID)
		if err != nil {
			return err
		}
		sd, err := tx.seeds.Get(seedID)
		if err != nil {
			return err
		}
		if sd != nil && sd.HasFarm(farmID) {
			return nil
		}
		if removed, err = tx.farmers.RemoveRPS(fm, farmID); err != nil || !removed {
			return err
		}
		return tx.farmers.Set(fm)
	})
	return removed, err
}

// farmSeed returns the seed a farm is attached to.
func (tx *txn) farmSeed(farmID string) (*seed.Seed, error) {
	seedID, _, err := asset.ParseFarmID(farmID)
	if err != nil {
		return nil, err
	}
	sd, err := tx.seeds.MustGet(seedID)
	if err != nil {
		return nil, err
	}
	if !sd.HasFarm(farmID) {
		return nil, reverts.New(reverts.KindUnknownFarmOrSeed, "farm %s", farmID)
	}
	return sd, nil
}
