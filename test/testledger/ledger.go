// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testledger builds in-memory ledgers driven by a manual clock.
package testledger

import (
	"sync/atomic"

	"github.com/holiman/uint256"

	"github.com/vechain/farming/distribution"
	"github.com/vechain/farming/farming"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/lvldb"
	"github.com/vechain/farming/transfer"
)

// StartTime is the clock reading of a new ledger.
const StartTime = 1000

// Clock is a manually advanced clock in seconds.
type Clock struct {
	now atomic.Uint64
}

func (c *Clock) Now() uint64 { return c.now.Load() }

func (c *Clock) Advance(seconds uint64) { c.now.Add(seconds) }

// Ledger is a farming ledger on an in-memory store whose transfers are only journaled.
type Ledger struct {
	*farming.Farming
	Journal *transfer.Journal
	Clock   *Clock

	db *lvldb.LevelDB
}

// New creates an empty ledger.
func New() (*Ledger, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	sessions, err := distribution.NewSessions(16)
	if err != nil {
		db.Close()
		return nil, err
	}
	l := &Ledger{
		Journal: &transfer.Journal{},
		Clock:   &Clock{},
		db:      db,
	}
	l.Clock.now.Store(StartTime)
	l.Farming = farming.New(db, sessions, l.Journal, l.Clock.Now)
	return l, nil
}

// Close releases the store.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Farm creates a farm on seed paying perSession of token every interval seconds from now,
// funded with fund.
func (l *Ledger) Farm(seed asset.SeedID, token string, perSession, interval, fund uint64) (string, error) {
	id, err := l.CreateFarm(farming.FarmParams{
		Seed:             seed,
		RewardToken:      token,
		RewardPerSession: uint256.NewInt(perSession),
		SessionInterval:  interval,
	})
	if err != nil {
		return "", err
	}
	if _, err := l.DepositReward(id, uint256.NewInt(fund)); err != nil {
		return "", err
	}
	return id, nil
}

// Stake registers account and deposits value of seed.
func (l *Ledger) Stake(account string, seed asset.SeedID, value uint64) error {
	if _, err := l.Register(account); err != nil {
		return err
	}
	return l.DepositSeed(account, seed, uint256.NewInt(value))
}
