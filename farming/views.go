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
	"github.com/vechain/farming/farming/farmer"
	"github.com/vechain/farming/farming/saga"
	"github.com/vechain/farming/farming/seed"
)

// FarmerInfo is the view of a farmer.
type FarmerInfo struct {
	Account  string
	Seeds    map[string]*uint256.Int
	Rewards  map[string]*uint256.Int
	RPSCount uint64
}

// Lock is the view of a locked balance.
type Lock struct {
	farmer.LockedBalance
	Phase farmer.Phase
}

// GetFarmer returns nil if the account is not registered.
func (f *Farming) GetFarmer(account string) (*FarmerInfo, error) {
	var info *FarmerInfo
	err := f.view(func(tx *txn) error {
		fm, err := tx.farmers.Get(account)
		if err != nil || fm == nil {
			return err
		}
		info = farmerInfo(fm)
		return nil
	})
	return info, err
}

// ListFarmers pages farmers in account order. A non-positive limit lists all.
func (f *Farming) ListFarmers(offset, limit int) ([]*FarmerInfo, error) {
	var infos []*FarmerInfo
	err := f.view(func(tx *txn) error {
		fms, err := tx.farmers.List(offset, limit)
		if err != nil {
			return err
		}
		for _, fm := range fms {
			infos = append(infos, farmerInfo(fm))
		}
		return nil
	})
	return infos, err
}

func farmerInfo(fm *farmer.Farmer) *FarmerInfo {
	info := &FarmerInfo{
		Account:  fm.Account,
		Seeds:    make(map[string]*uint256.Int),
		Rewards:  make(map[string]*uint256.Int),
		RPSCount: fm.RPSCount,
	}
	for _, id := range fm.SeedIDs() {
		info.Seeds[id] = fm.Weight(asset.MustParseSeedID(id))
	}
	for _, token := range fm.RewardTokens() {
		info.Rewards[token] = fm.Reward(token)
	}
	return info
}

// GetSeed returns nil if the seed does not exist.
func (f *Farming) GetSeed(id asset.SeedID) (*seed.Seed, error) {
	var sd *seed.Seed
	err := f.view(func(tx *txn) error {
		var err error
		sd, err = tx.seeds.Get(id)
		return err
	})
	return sd, err
}

func (f *Farming) ListSeeds(offset, limit int) ([]*seed.Seed, error) {
	var seeds []*seed.Seed
	err := f.view(func(tx *txn) error {
		var err error
		seeds, err = tx.seeds.List(offset, limit)
		return err
	})
	return seeds, err
}

// GetFarm returns the farm as distributed up to now, or nil if it does not exist.
func (f *Farming) GetFarm(farmID string) (*distribution.Farm, error) {
	var farm *distribution.Farm
	err := f.view(func(tx *txn) error {
		seedID, _, err := asset.ParseFarmID(farmID)
		if err != nil {
			return err
		}
		sd, err := tx.seeds.Get(seedID)
		if err != nil || sd == nil {
			return err
		}
		farm, err = tx.engine.Farm(farmID, sd.Amount)
		return err
	})
	return farm, err
}

// GetReward returns the claimed balance of token, zero for unknown accounts.
func (f *Farming) GetReward(account, token string) (*uint256.Int, error) {
	reward := amount.Zero()
	err := f.view(func(tx *txn) error {
		fm, err := tx.farmers.Get(account)
		if err != nil || fm == nil {
			return err
		}
		reward = fm.Reward(token)
		return nil
	})
	return reward, err
}

// GetUnclaimedReward returns what ClaimByFarm would credit now.
func (f *Farming) GetUnclaimedReward(account, farmID string) (*uint256.Int, error) {
	unclaimed := amount.Zero()
	err := f.view(func(tx *txn) error {
		fm, err := tx.farmers.Get(account)
		if err != nil || fm == nil {
			return err
		}
		sd, err := tx.farmSeed(farmID)
		if err != nil {
			return err
		}
		snapshot, err := tx.farmers.RPS(account, farmID)
		if err != nil {
			return err
		}
		unclaimed, err = tx.engine.PeekUnclaimed(farmID, snapshot, fm.Weight(sd.ID), sd.Amount)
		return err
	})
	return unclaimed, err
}

// GetLocked returns the stored lock with its phase, or nil if there is none.
// An expired lock is still reported until an operation purges it.
func (f *Farming) GetLocked(account string, seedID asset.SeedID) (*Lock, error) {
	var lock *Lock
	err := f.view(func(tx *txn) error {
		l, err := tx.farmers.LockedRecord(account, seedID)
		if err != nil || l == nil {
			return err
		}
		lock = &Lock{LockedBalance: *l, Phase: l.Phase(tx.now)}
		return nil
	})
	return lock, err
}

// ListNFTs returns the tokens staked by the account in an NFT seed.
func (f *Farming) ListNFTs(account string, seedID asset.SeedID) ([]asset.NFTID, error) {
	var nfts []asset.NFTID
	err := f.view(func(tx *txn) error {
		var err error
		nfts, err = tx.farmers.NFTs(account, seedID)
		return err
	})
	return nfts, err
}

// PendingTransfers pages unresolved withdrawals in operation order.
func (f *Farming) PendingTransfers(offset, limit int) ([]*saga.Entry, error) {
	var entries []*saga.Entry
	err := f.view(func(tx *txn) error {
		var err error
		entries, err = tx.sagas.Pending(offset, limit)
		return err
	})
	return entries, err
}

// PendingTransfer returns the unresolved withdrawal with the given operation id.
func (f *Farming) PendingTransfer(opID uint64) (*saga.Entry, error) {
	var e *saga.Entry
	err := f.view(func(tx *txn) error {
		var err error
		e, err = tx.sagas.Get(opID)
		return err
	})
	return e, err
}
