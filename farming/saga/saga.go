// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package saga persists the compensating log of withdrawals whose transfer outcome is not known yet.
package saga

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/farming/store"
	"github.com/vechain/farming/kv"
	"github.com/vechain/farming/transfer"
)

const (
	sagaBucket = kv.Bucket("saga:")
	metaBucket = kv.Bucket("meta:")

	nextOpKey = store.StrKey("next-op")
)

// Op is what a pending withdrawal took out of the ledger.
type Op uint8

const (
	// OpReward withdrew Amount of reward token Token.
	OpReward Op = iota + 1
	// OpSeed withdrew Amount of weight of a plain or pool-share Seed.
	OpSeed
	// OpNFT withdrew NFT from Seed.
	OpNFT
	// OpBase withdrew Amount of base balance of a boosted Seed.
	OpBase
)

func (o Op) String() string {
	switch o {
	case OpReward:
		return "reward"
	case OpSeed:
		return "seed"
	case OpNFT:
		return "nft"
	case OpBase:
		return "base"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Entry is enough to restore a withdrawal additively.
type Entry struct {
	Op      Op
	Account string
	Seed    string
	Token   string
	Amount  *uint256.Int
	NFT     string
	// CreatedAt is the ledger time of the withdrawal.
	CreatedAt uint64
	Transfer  transfer.Request
}

func (e *Entry) ID() uint64 { return e.Transfer.OpID }

// Check verifies that c confirms the logged transfer.
func (e *Entry) Check(c transfer.Confirmation) error {
	if !e.Transfer.Matches(c) {
		return reverts.New(reverts.KindOutcomeMismatch, "op %d: confirmation does not match %s %s to %s", e.ID(), e.Transfer.Kind, e.Transfer.Asset, e.Transfer.Recipient)
	}
	if c.Outcome != transfer.Success && c.Outcome != transfer.Failure {
		return reverts.New(reverts.KindOutcomeMismatch, "op %d: outcome %d", e.ID(), c.Outcome)
	}
	return nil
}

type Log struct {
	entries *store.Mapping[store.StrKey, *Entry]
	meta    *store.Mapping[store.StrKey, uint64]
}

func New(rw kv.ReadWriter) *Log {
	return &Log{
		entries: store.NewMapping[store.StrKey, *Entry](rw, sagaBucket),
		meta:    store.NewMapping[store.StrKey, uint64](rw, metaBucket),
	}
}

// key keeps entries in op id order.
func key(id uint64) store.StrKey {
	return store.StrKey(fmt.Sprintf("%020d", id))
}

// NextID allocates an operation id.
func (l *Log) NextID() (uint64, error) {
	id, err := l.meta.Get(nextOpKey)
	if err != nil {
		return 0, err
	}
	id++
	return id, l.meta.Set(nextOpKey, id)
}

// Record logs e under its transfer's op id.
func (l *Log) Record(e *Entry) error {
	return l.entries.Set(key(e.ID()), e)
}

// Get returns the entry, or an UnknownOperation revert.
func (l *Log) Get(id uint64) (*Entry, error) {
	e, err := l.entries.Get(key(id))
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, reverts.New(reverts.KindUnknownOperation, "op %d", id)
	}
	return e, nil
}

func (l *Log) Discard(id uint64) error {
	return l.entries.Delete(key(id))
}

// Pending lists unresolved entries in op id order.
func (l *Log) Pending(offset, limit int) ([]*Entry, error) {
	return l.entries.List("", offset, limit)
}

// Count returns the number of unresolved entries.
func (l *Log) Count() (int, error) {
	n := 0
	err := l.entries.Iterate("", func([]byte, *Entry) (bool, error) {
		n++
		return true, nil
	})
	return n, err
}
