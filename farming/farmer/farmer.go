// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farmer

import (
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/farming/reverts"
)

// schemaVersion is the version written by this build.
const schemaVersion = 2

// Farmer is the per-account ledger row.
// Weights and rewards only hold non-zero entries.
type Farmer struct {
	Account  string
	RPSCount uint64

	seeds   map[string]*uint256.Int
	rewards map[string]*uint256.Int
	bases   map[string]*uint256.Int
}

func New(account string) *Farmer {
	return &Farmer{
		Account: account,
		seeds:   make(map[string]*uint256.Int),
		rewards: make(map[string]*uint256.Int),
		bases:   make(map[string]*uint256.Int),
	}
}

// Weight returns the staked weight for seed.
func (f *Farmer) Weight(seed asset.SeedID) *uint256.Int {
	return amount.OrZero(f.seeds[seed.String()])
}

// SeedIDs returns the seeds with a non-zero weight, sorted.
func (f *Farmer) SeedIDs() []string {
	return sortedKeys(f.seeds)
}

// AddSeed credits weight. Callers settle every farm of the seed first.
func (f *Farmer) AddSeed(seed asset.SeedID, weight *uint256.Int) error {
	return addTo(f.seeds, seed.String(), weight)
}

// subSeed debits weight without the availability check and returns the remaining weight.
func (f *Farmer) subSeed(seed asset.SeedID, weight *uint256.Int) (*uint256.Int, error) {
	key := seed.String()
	remain, err := amount.Sub(f.seeds[key], weight)
	if err != nil {
		return nil, reverts.Insufficient(reverts.BalanceSeed, "seed %s: staked %s, requested %s", key, amount.OrZero(f.seeds[key]).Dec(), weight.Dec())
	}
	setOrDelete(f.seeds, key, remain)
	return remain, nil
}

// Reward returns the claimed, not yet withdrawn balance of token.
func (f *Farmer) Reward(token string) *uint256.Int {
	return amount.OrZero(f.rewards[token])
}

// RewardTokens returns the tokens with a non-zero reward balance, sorted.
func (f *Farmer) RewardTokens() []string {
	return sortedKeys(f.rewards)
}

func (f *Farmer) AddReward(token string, value *uint256.Int) error {
	return addTo(f.rewards, token, value)
}

// SubReward debits exactly value from the reward balance of token.
func (f *Farmer) SubReward(token string, value *uint256.Int) error {
	remain, err := amount.Sub(f.rewards[token], value)
	if err != nil {
		return reverts.Insufficient(reverts.BalanceReward, "token %s: balance %s, requested %s", token, f.Reward(token).Dec(), value.Dec())
	}
	setOrDelete(f.rewards, token, remain)
	return nil
}

// DrainReward removes and returns the whole reward balance of token.
func (f *Farmer) DrainReward(token string) *uint256.Int {
	v := f.Reward(token)
	delete(f.rewards, token)
	return v
}

// Base returns the base balance deposited to a multiplier-boosted seed.
func (f *Farmer) Base(seed asset.SeedID) *uint256.Int {
	return amount.OrZero(f.bases[seed.String()])
}

func (f *Farmer) SetBase(seed asset.SeedID, value *uint256.Int) {
	setOrDelete(f.bases, seed.String(), value)
}

// IsEmpty reports whether the farmer holds neither weight nor reward.
func (f *Farmer) IsEmpty() bool {
	return len(f.seeds) == 0 && len(f.rewards) == 0
}

type entry struct {
	Key   string
	Value *uint256.Int
}

// body is the persisted form. Bases was added in version 2.
type body struct {
	Version  uint8
	Account  string
	RPSCount uint64
	Seeds    []entry
	Rewards  []entry
	Bases    []entry `rlp:"optional"`
}

func (f *Farmer) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &body{
		Version:  schemaVersion,
		Account:  f.Account,
		RPSCount: f.RPSCount,
		Seeds:    toEntries(f.seeds),
		Rewards:  toEntries(f.rewards),
		Bases:    toEntries(f.bases),
	})
}

func (f *Farmer) DecodeRLP(s *rlp.Stream) error {
	var b body
	if err := s.Decode(&b); err != nil {
		return err
	}
	if err := migrate(&b); err != nil {
		return err
	}
	*f = Farmer{
		Account:  b.Account,
		RPSCount: b.RPSCount,
		seeds:    fromEntries(b.Seeds),
		rewards:  fromEntries(b.Rewards),
		bases:    fromEntries(b.Bases),
	}
	return nil
}

// migrate upgrades an older body in place.
func migrate(b *body) error {
	switch b.Version {
	case 1:
		// version 1 had no boosted seeds
		b.Bases = nil
		b.Version = schemaVersion
		return nil
	case schemaVersion:
		return nil
	default:
		return errors.Errorf("farmer %s: unsupported schema version %d", b.Account, b.Version)
	}
}

func toEntries(m map[string]*uint256.Int) []entry {
	entries := make([]entry, 0, len(m))
	for _, k := range sortedKeys(m) {
		entries = append(entries, entry{k, m[k]})
	}
	return entries
}

func fromEntries(entries []entry) map[string]*uint256.Int {
	m := make(map[string]*uint256.Int, len(entries))
	for _, e := range entries {
		if !amount.IsZero(e.Value) {
			m[e.Key] = e.Value
		}
	}
	return m
}

func sortedKeys(m map[string]*uint256.Int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func addTo(m map[string]*uint256.Int, key string, value *uint256.Int) error {
	sum, err := amount.Add(m[key], value)
	if err != nil {
		return errors.Wrapf(err, "add %s", key)
	}
	setOrDelete(m, key, sum)
	return nil
}

func setOrDelete(m map[string]*uint256.Int, key string, value *uint256.Int) {
	if amount.IsZero(value) {
		delete(m, key)
		return
	}
	m[key] = value
}
