// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farmer

import (
	"github.com/holiman/uint256"
)

// Retention is how long a lock keeps counting against availability after it ended.
const Retention uint64 = 24 * 60 * 60

// Phase is the state of a lock at a given time.
type Phase uint8

const (
	// PhaseActive is [start, end): locked, cannot be unlocked.
	PhaseActive Phase = iota
	// PhaseReleasable is [end, end+Retention]: still locked, may be unlocked.
	PhaseReleasable
	// PhaseExpired is after end+Retention: ignored and purged lazily.
	PhaseExpired
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseReleasable:
		return "releasable"
	default:
		return "expired"
	}
}

// LockedBalance is a time-boxed, non-withdrawable part of a staked balance.
type LockedBalance struct {
	Balance   *uint256.Int
	StartedAt uint64
	EndedAt   uint64
}

// Phase returns the phase of the lock at now. Every lock decision goes through here.
func (l *LockedBalance) Phase(now uint64) Phase {
	switch {
	case now < l.EndedAt:
		return PhaseActive
	case now-l.EndedAt <= Retention:
		return PhaseReleasable
	default:
		return PhaseExpired
	}
}

// Live reports whether the lock still counts against availability.
func (l *LockedBalance) Live(now uint64) bool {
	return l.Phase(now) != PhaseExpired
}
