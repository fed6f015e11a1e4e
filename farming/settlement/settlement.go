// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package settlement synchronizes a farmer's reward-per-share snapshots with the farms and
// credits what is owed.
package settlement

import (
	"errors"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/vechain/farming/distribution"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/farming/farmer"
	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/farming/seed"
)

var logger = log.New("pkg", "settlement")

// Claim is reward credited by one farm.
type Claim struct {
	Farm   string
	Token  string
	Amount *uint256.Int
}

type Settler struct {
	farmers *farmer.Service
	seeds   *seed.Service
	engine  distribution.Engine
}

func New(farmers *farmer.Service, seeds *seed.Service, engine distribution.Engine) *Settler {
	return &Settler{farmers: farmers, seeds: seeds, engine: engine}
}

func (s *Settler) settle(f *farmer.Farmer, sd *seed.Seed, farm string) (*Claim, error) {
	f0, err := s.engine.Farm(farm, sd.Amount)
	if err != nil {
		return nil, err
	}
	if f0 == nil {
		return nil, reverts.New(reverts.KindUnknownFarmOrSeed, "farm %s", farm)
	}
	prior, err := s.farmers.RPS(f.Account, farm)
	if err != nil {
		return nil, err
	}
	rps, owed, err := s.engine.Settle(farm, prior, f.Weight(sd.ID), sd.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.farmers.SetRPS(f, farm, rps); err != nil {
		return nil, err
	}
	if !owed.IsZero() {
		if err := f.AddReward(f0.Terms.RewardToken, owed); err != nil {
			return nil, err
		}
	}
	return &Claim{Farm: farm, Token: f0.Terms.RewardToken, Amount: owed}, nil
}

// Farm settles a single farm attached to sd.
func (s *Settler) Farm(f *farmer.Farmer, sd *seed.Seed, farm string) (*Claim, error) {
	if !sd.HasFarm(farm) {
		return nil, reverts.New(reverts.KindUnknownFarmOrSeed, "farm %s not attached to %s", farm, sd.ID)
	}
	c, err := s.settle(f, sd, farm)
	if err != nil {
		return nil, err
	}
	if !c.Amount.IsZero() {
		logger.Info("reward claimed", "account", f.Account, "farm", farm, "token", c.Token, "amount", c.Amount.Dec())
	}
	return c, nil
}

// Seed settles every farm of sd, skipping farms the engine no longer knows.
// It must run before any change to the farmer's weight or the seed's total.
func (s *Settler) Seed(f *farmer.Farmer, sd *seed.Seed) ([]Claim, error) {
	var (
		claims   []Claim
		credited int
	)
	for _, farm := range sd.Farms {
		c, err := s.settle(f, sd, farm)
		if err != nil {
			if errors.Is(err, reverts.ErrUnknownFarmOrSeed) {
				continue
			}
			return nil, err
		}
		claims = append(claims, *c)
		if !c.Amount.IsZero() {
			credited++
		}
	}
	if credited > 0 {
		logger.Debug("seed rewards claimed", "account", f.Account, "seed", sd.ID.String(), "farms", credited)
	}
	return claims, nil
}

// AllSeeds settles every seed the farmer holds weight in, skipping unknown seeds.
func (s *Settler) AllSeeds(f *farmer.Farmer) ([]Claim, error) {
	var claims []Claim
	for _, id := range f.SeedIDs() {
		seedID, err := asset.ParseSeedID(id)
		if err != nil {
			return nil, err
		}
		sd, err := s.seeds.Get(seedID)
		if err != nil {
			return nil, err
		}
		if sd == nil {
			continue
		}
		cs, err := s.Seed(f, sd)
		if err != nil {
			return nil, err
		}
		claims = append(claims, cs...)
	}
	return claims, nil
}
