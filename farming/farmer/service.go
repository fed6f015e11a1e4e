// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farmer is the per-account side of the ledger: staked weight, reward balances,
// reward-per-share snapshots, locks and staked NFTs.
package farmer

import (
	"sort"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/farming/store"
	"github.com/vechain/farming/kv"
)

const (
	farmersBucket = kv.Bucket("farmer:")
	rpsBucket     = kv.Bucket("rps:")
	lockedBucket  = kv.Bucket("locked:")
	nftBucket     = kv.Bucket("nft_seed_set:")
)

type Service struct {
	farmers *store.Mapping[store.StrKey, *Farmer]
	rps     *store.Mapping[store.StrKey, *uint256.Int]
	locked  *store.Mapping[store.StrKey, *LockedBalance]
	nfts    *store.Mapping[store.StrKey, []string]
}

func NewService(rw kv.ReadWriter) *Service {
	return &Service{
		farmers: store.NewMapping[store.StrKey, *Farmer](rw, farmersBucket),
		rps:     store.NewMapping[store.StrKey, *uint256.Int](rw, rpsBucket),
		locked:  store.NewMapping[store.StrKey, *LockedBalance](rw, lockedBucket),
		nfts:    store.NewMapping[store.StrKey, []string](rw, nftBucket),
	}
}

// Get returns the farmer, or nil if the account is not registered.
func (s *Service) Get(account string) (*Farmer, error) {
	return s.farmers.Get(store.StrKey(account))
}

// MustGet returns the farmer or a NotRegistered revert.
func (s *Service) MustGet(account string) (*Farmer, error) {
	f, err := s.Get(account)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, reverts.New(reverts.KindNotRegistered, "account %s", account)
	}
	return f, nil
}

// Register creates an empty farmer. It reports false if the account already exists.
func (s *Service) Register(account string) (bool, error) {
	if err := asset.ValidateAccount(account); err != nil {
		return false, err
	}
	exists, err := s.farmers.Has(store.StrKey(account))
	if err != nil || exists {
		return false, err
	}
	return true, s.Set(New(account))
}

func (s *Service) Set(f *Farmer) error {
	return s.farmers.Set(store.StrKey(f.Account), f)
}

// Unregister removes an empty farmer together with its snapshots and expired locks.
// A farmer still holding staked NFTs or a live lock is not empty, whatever its weight.
func (s *Service) Unregister(account string, now uint64) error {
	f, err := s.MustGet(account)
	if err != nil {
		return err
	}
	if !f.IsEmpty() {
		return reverts.New(reverts.KindNotEmpty, "account %s still holds seeds or rewards", account)
	}
	prefix := store.Prefix(account)
	if err := s.nfts.Iterate(prefix, func(key []byte, _ []string) (bool, error) {
		return false, reverts.New(reverts.KindNotEmpty, "account %s still holds nfts in %s", account, key[len(prefix):])
	}); err != nil {
		return err
	}

	var locks []store.StrKey
	if err := s.locked.Iterate(prefix, func(key []byte, l *LockedBalance) (bool, error) {
		if l.Live(now) {
			return false, reverts.New(reverts.KindNotEmpty, "account %s still holds a lock in %s", account, key[len(prefix):])
		}
		locks = append(locks, store.StrKey(key))
		return true, nil
	}); err != nil {
		return err
	}
	for _, key := range locks {
		if err := s.locked.Delete(key); err != nil {
			return err
		}
	}

	var farms []store.StrKey
	if err := s.rps.Iterate(prefix, func(key []byte, _ *uint256.Int) (bool, error) {
		farms = append(farms, store.StrKey(key))
		return true, nil
	}); err != nil {
		return err
	}
	for _, key := range farms {
		if err := s.rps.Delete(key); err != nil {
			return err
		}
	}
	return s.farmers.Delete(store.StrKey(account))
}

// List returns registered farmers in account order.
func (s *Service) List(offset, limit int) ([]*Farmer, error) {
	return s.farmers.List("", offset, limit)
}

// RPS returns the farmer's last seen reward-per-share of farm, zero if never settled.
func (s *Service) RPS(account, farm string) (*uint256.Int, error) {
	v, err := s.rps.Get(store.Join(account, farm))
	if err != nil {
		return nil, err
	}
	return amount.OrZero(v), nil
}

// SetRPS stores a snapshot, counting new rows on the farmer.
func (s *Service) SetRPS(f *Farmer, farm string, v *uint256.Int) error {
	key := store.Join(f.Account, farm)
	exists, err := s.rps.Has(key)
	if err != nil {
		return err
	}
	if !exists {
		f.RPSCount++
	}
	return s.rps.Set(key, v)
}

// RemoveRPS drops a snapshot. It reports whether one existed.
func (s *Service) RemoveRPS(f *Farmer, farm string) (bool, error) {
	key := store.Join(f.Account, farm)
	exists, err := s.rps.Has(key)
	if err != nil || !exists {
		return false, err
	}
	if f.RPSCount > 0 {
		f.RPSCount--
	}
	return true, s.rps.Delete(key)
}

// Locked returns the live lock of seed, or nil. An expired lock is purged.
func (s *Service) Locked(account string, seed asset.SeedID, now uint64) (*LockedBalance, error) {
	key := store.Join(account, seed.String())
	l, err := s.locked.Get(key)
	if err != nil || l == nil {
		return nil, err
	}
	if !l.Live(now) {
		return nil, s.locked.Delete(key)
	}
	return l, nil
}

// LockedRecord returns the stored lock regardless of phase, for views.
func (s *Service) LockedRecord(account string, seed asset.SeedID) (*LockedBalance, error) {
	return s.locked.Get(store.Join(account, seed.String()))
}

// Available is the staked weight minus the live locked balance.
func (s *Service) Available(f *Farmer, seed asset.SeedID, now uint64) (*uint256.Int, error) {
	weight := f.Weight(seed)
	l, err := s.Locked(f.Account, seed, now)
	if err != nil || l == nil {
		return weight, err
	}
	avail, err := amount.Sub(weight, l.Balance)
	if err != nil {
		return nil, errors.Errorf("farmer %s seed %s: locked %s exceeds staked %s", f.Account, seed, l.Balance.Dec(), weight.Dec())
	}
	return avail, nil
}

// SubSeed debits weight that is not locked and returns the remaining weight.
func (s *Service) SubSeed(f *Farmer, seed asset.SeedID, weight *uint256.Int, now uint64) (*uint256.Int, error) {
	avail, err := s.Available(f, seed, now)
	if err != nil {
		return nil, err
	}
	if weight.Gt(avail) {
		return nil, reverts.Insufficient(reverts.BalanceSeed, "seed %s: available %s, requested %s", seed, avail.Dec(), weight.Dec())
	}
	return f.subSeed(seed, weight)
}

// Lock locks amount of seed until now+duration, merging into a live lock.
// A live lock's end can only move later.
func (s *Service) Lock(f *Farmer, seed asset.SeedID, value *uint256.Int, duration, now uint64) (*LockedBalance, error) {
	avail, err := s.Available(f, seed, now)
	if err != nil {
		return nil, err
	}
	if value.Gt(avail) {
		return nil, reverts.Insufficient(reverts.BalanceSeed, "seed %s: available %s, requested %s", seed, avail.Dec(), value.Dec())
	}
	endedAt := now + duration
	if endedAt < now {
		return nil, reverts.New(reverts.KindInvalidDuration, "duration %d overflows", duration)
	}

	prev, err := s.Locked(f.Account, seed, now)
	if err != nil {
		return nil, err
	}
	balance := value.Clone()
	if prev != nil {
		if prev.EndedAt > endedAt {
			return nil, reverts.New(reverts.KindInvalidDuration, "seed %s: locked until %d, requested %d", seed, prev.EndedAt, endedAt)
		}
		if balance, err = amount.Add(prev.Balance, value); err != nil {
			return nil, err
		}
	}
	l := &LockedBalance{Balance: balance, StartedAt: now, EndedAt: endedAt}
	return l, s.locked.Set(store.Join(f.Account, seed.String()), l)
}

// Unlock releases amount of a lock whose end has passed, removing it at zero.
func (s *Service) Unlock(f *Farmer, seed asset.SeedID, value *uint256.Int, now uint64) (*uint256.Int, error) {
	l, err := s.Locked(f.Account, seed, now)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, reverts.New(reverts.KindNoActiveLock, "seed %s", seed)
	}
	if l.Phase(now) == PhaseActive {
		return nil, reverts.New(reverts.KindNotYetUnlockable, "seed %s: locked until %d", seed, l.EndedAt)
	}
	remain, err := amount.Sub(l.Balance, value)
	if err != nil {
		return nil, reverts.Insufficient(reverts.BalanceLocked, "seed %s: locked %s, requested %s", seed, l.Balance.Dec(), value.Dec())
	}
	key := store.Join(f.Account, seed.String())
	if remain.IsZero() {
		return remain, s.locked.Delete(key)
	}
	l.Balance = remain
	return remain, s.locked.Set(key, l)
}

// NFTs returns the staked tokens of seed, sorted.
func (s *Service) NFTs(account string, seed asset.SeedID) ([]asset.NFTID, error) {
	raw, err := s.nfts.Get(store.Join(account, seed.String()))
	if err != nil {
		return nil, err
	}
	ids := make([]asset.NFTID, 0, len(raw))
	for _, r := range raw {
		id, err := asset.ParseNFTID(r)
		if err != nil {
			return nil, errors.Wrapf(err, "stored nft of %s", account)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// AddNFT records a staked token. It reports false if it was already held.
func (s *Service) AddNFT(account string, seed asset.SeedID, nft asset.NFTID) (bool, error) {
	key := store.Join(account, seed.String())
	set, err := s.nfts.Get(key)
	if err != nil {
		return false, err
	}
	id := nft.String()
	i := sort.SearchStrings(set, id)
	if i < len(set) && set[i] == id {
		return false, nil
	}
	set = append(set, "")
	copy(set[i+1:], set[i:])
	set[i] = id
	return true, s.nfts.Set(key, set)
}

// SubNFT removes a staked token, failing NFTNotStaked if it is not held.
func (s *Service) SubNFT(account string, seed asset.SeedID, nft asset.NFTID) error {
	key := store.Join(account, seed.String())
	set, err := s.nfts.Get(key)
	if err != nil {
		return err
	}
	id := nft.String()
	i := sort.SearchStrings(set, id)
	if i == len(set) || set[i] != id {
		return reverts.New(reverts.KindNFTNotStaked, "%s in seed %s", id, seed)
	}
	set = append(set[:i], set[i+1:]...)
	if len(set) == 0 {
		return s.nfts.Delete(key)
	}
	return s.nfts.Set(key, set)
}
