// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package distribution defines the per-farm emission engine the ledger settles against,
// and ships a reference session-based implementation.
package distribution

import (
	"github.com/holiman/uint256"

	"github.com/vechain/farming/kv"
)

// Status is the lifecycle state of a farm.
type Status uint8

const (
	StatusCreated Status = iota
	StatusRunning
	StatusEnded
	StatusCleared
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "Created"
	case StatusRunning:
		return "Running"
	case StatusEnded:
		return "Ended"
	case StatusCleared:
		return "Cleared"
	default:
		return "Unknown"
	}
}

// Terms are the immutable parameters of a farm.
type Terms struct {
	Seed             string
	RewardToken      string
	StartAt          uint64
	RewardPerSession *uint256.Int
	SessionInterval  uint64
}

// Farm is a snapshot of a farm's state.
type Farm struct {
	ID     string
	Terms  Terms
	Status Status
	// TotalReward is every reward ever deposited.
	TotalReward   *uint256.Int
	Undistributed *uint256.Int
	Claimed       *uint256.Int
	// Beneficiary collects emission of sessions during which nothing was staked.
	Beneficiary *uint256.Int
	RPS         *uint256.Int
	// Rounds is the number of sessions distributed so far.
	Rounds uint64
}

// Unclaimed is the distributed reward not yet claimed by farmers.
func (f *Farm) Unclaimed() *uint256.Int {
	distributed := new(uint256.Int).Sub(f.TotalReward, f.Undistributed)
	distributed.Sub(distributed, f.Beneficiary)
	if distributed.Lt(f.Claimed) {
		return new(uint256.Int)
	}
	return distributed.Sub(distributed, f.Claimed)
}

// Engine computes emission for farms. It is bound to one store transaction and one timestamp.
type Engine interface {
	// Farm returns the farm distributed up to now, or nil if it does not exist.
	Farm(id string, total *uint256.Int) (*Farm, error)
	Create(id string, terms Terms) error
	// AddReward deposits reward, starting a Created farm.
	AddReward(id string, value, total *uint256.Int) (*Farm, error)
	// Settle distributes up to now and returns the farm's reward-per-share together with
	// what a holder of weight is owed since prior.
	Settle(id string, prior, weight, total *uint256.Int) (rps, owed *uint256.Int, err error)
	// PeekUnclaimed is Settle without writes.
	PeekUnclaimed(id string, snapshot, weight, total *uint256.Int) (*uint256.Int, error)
	// Clear marks an Ended farm as Cleared.
	Clear(id string, total *uint256.Int) error
}

// Opener binds an engine to a transaction and the call's timestamp.
type Opener interface {
	Open(rw kv.ReadWriter, now uint64) Engine
}
