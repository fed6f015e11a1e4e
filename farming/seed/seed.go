// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package seed is the seed registry: total staked weight and attached farms per seed.
package seed

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

const seedsBucket = kv.Bucket("seed:")

// Equivalent prices an NFT, series or contract key in seed weight.
type Equivalent struct {
	Key   string
	Value *uint256.Int
}

// Multiplier is the boost in basis points granted by holding a token of a contract or series.
type Multiplier struct {
	Key string
	BPS uint64
}

type Seed struct {
	ID         asset.SeedID
	Kind       asset.Kind
	Farms      []string
	NextIndex  uint64
	Amount     *uint256.Int
	MinDeposit *uint256.Int
	// NFTBalance is sorted by key and set for NFT seeds in equivalents mode.
	NFTBalance []Equivalent
	// Multipliers is sorted by key and set for NFT seeds in multiplier mode.
	Multipliers []Multiplier
	Title       string
	Media       string
}

// New builds a seed, deriving its kind from the id and tables.
func New(id asset.SeedID, minDeposit *uint256.Int, nftBalance map[string]*uint256.Int, multipliers map[string]uint64) *Seed {
	s := &Seed{
		ID:         id,
		Amount:     amount.Zero(),
		MinDeposit: amount.OrZero(minDeposit),
	}
	for k, v := range nftBalance {
		s.NFTBalance = append(s.NFTBalance, Equivalent{k, v.Clone()})
	}
	sort.Slice(s.NFTBalance, func(i, j int) bool { return s.NFTBalance[i].Key < s.NFTBalance[j].Key })
	for k, v := range multipliers {
		s.Multipliers = append(s.Multipliers, Multiplier{k, v})
	}
	sort.Slice(s.Multipliers, func(i, j int) bool { return s.Multipliers[i].Key < s.Multipliers[j].Key })
	s.Kind = id.Kind(len(s.NFTBalance) > 0 || len(s.Multipliers) > 0)
	return s
}

// Boosted reports whether weight is computed as base balance times NFT multipliers.
func (s *Seed) Boosted() bool {
	return len(s.Multipliers) > 0
}

// Equivalent returns the weight of nft, trying its lookup keys in order.
func (s *Seed) Equivalent(nft asset.NFTID) (*uint256.Int, bool) {
	for _, key := range nft.LookupKeys() {
		i := sort.Search(len(s.NFTBalance), func(i int) bool { return s.NFTBalance[i].Key >= key })
		if i < len(s.NFTBalance) && s.NFTBalance[i].Key == key {
			return s.NFTBalance[i].Value.Clone(), true
		}
	}
	return nil, false
}

// MultiplierBPS returns the boost of nft, trying its lookup keys in order.
func (s *Seed) MultiplierBPS(nft asset.NFTID) (uint64, bool) {
	for _, key := range nft.LookupKeys() {
		i := sort.Search(len(s.Multipliers), func(i int) bool { return s.Multipliers[i].Key >= key })
		if i < len(s.Multipliers) && s.Multipliers[i].Key == key {
			return s.Multipliers[i].BPS, true
		}
	}
	return 0, false
}

func (s *Seed) AddAmount(v *uint256.Int) error {
	sum, err := amount.Add(s.Amount, v)
	if err != nil {
		return errors.Wrapf(err, "seed %s", s.ID)
	}
	s.Amount = sum
	return nil
}

// SubAmount debits the total. Underflow means the ledger is inconsistent.
func (s *Seed) SubAmount(v *uint256.Int) error {
	remain, err := amount.Sub(s.Amount, v)
	if err != nil {
		return errors.Wrapf(err, "seed %s: total %s below %s", s.ID, amount.OrZero(s.Amount).Dec(), v.Dec())
	}
	s.Amount = remain
	return nil
}

// AttachFarm allocates the next farm id of the seed.
func (s *Seed) AttachFarm() string {
	id := s.ID.FarmID(s.NextIndex)
	s.NextIndex++
	i := sort.SearchStrings(s.Farms, id)
	s.Farms = append(s.Farms, "")
	copy(s.Farms[i+1:], s.Farms[i:])
	s.Farms[i] = id
	return id
}

// DetachFarm removes farm. It reports whether it was attached.
func (s *Seed) DetachFarm(farm string) bool {
	i := sort.SearchStrings(s.Farms, farm)
	if i == len(s.Farms) || s.Farms[i] != farm {
		return false
	}
	s.Farms = append(s.Farms[:i], s.Farms[i+1:]...)
	return true
}

// HasFarm reports whether farm is attached.
func (s *Seed) HasFarm(farm string) bool {
	i := sort.SearchStrings(s.Farms, farm)
	return i < len(s.Farms) && s.Farms[i] == farm
}

type Service struct {
	seeds *store.Mapping[store.StrKey, *Seed]
}

func NewService(rw kv.ReadWriter) *Service {
	return &Service{seeds: store.NewMapping[store.StrKey, *Seed](rw, seedsBucket)}
}

// Get returns the seed, or nil if absent.
func (s *Service) Get(id asset.SeedID) (*Seed, error) {
	return s.seeds.Get(store.StrKey(id.String()))
}

// MustGet returns the seed or an UnknownFarmOrSeed revert.
func (s *Service) MustGet(id asset.SeedID) (*Seed, error) {
	seed, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if seed == nil {
		return nil, reverts.New(reverts.KindUnknownFarmOrSeed, "seed %s", id)
	}
	return seed, nil
}

// Insert stores seed unless its id exists, returning the stored seed either way.
func (s *Service) Insert(seed *Seed) (*Seed, bool, error) {
	existing, err := s.Get(seed.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	return seed, true, s.Set(seed)
}

func (s *Service) Set(seed *Seed) error {
	return s.seeds.Set(store.StrKey(seed.ID.String()), seed)
}

// List returns seeds in id order.
func (s *Service) List(offset, limit int) ([]*Seed, error) {
	return s.seeds.List("", offset, limit)
}
