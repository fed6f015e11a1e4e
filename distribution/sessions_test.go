// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package distribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/kv"
	"github.com/vechain/farming/lvldb"
)

const farmID = "usdt.near#0"

func setup(t *testing.T) (*Sessions, kv.Store) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewSessions(16)
	require.NoError(t, err)
	return s, db
}

func terms(startAt uint64) Terms {
	return Terms{
		Seed:             "usdt.near",
		RewardToken:      "ref.near",
		StartAt:          startAt,
		RewardPerSession: amount.New(1),
		SessionInterval:  60,
	}
}

func TestSessions_Lifecycle(t *testing.T) {
	s, db := setup(t)
	total := amount.New(1)

	require.NoError(t, s.Open(db, 1000).Create(farmID, terms(0)))
	assert.ErrorIs(t, s.Open(db, 1000).Create(farmID, terms(0)), reverts.ErrAlreadyRegistered)

	farm, err := s.Open(db, 1000).Farm(farmID, total)
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, farm.Status)
	assert.Equal(t, uint64(1000), farm.Terms.StartAt)

	farm, err = s.Open(db, 1000).AddReward(farmID, amount.New(5), total)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, farm.Status)

	// 3 sessions elapsed
	unclaimed, err := s.Open(db, 1180).PeekUnclaimed(farmID, nil, total, total)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), unclaimed.Uint64())

	rps, owed, err := s.Open(db, 1180).Settle(farmID, nil, total, total)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), owed.Uint64())

	// nothing elapsed
	rps2, owed, err := s.Open(db, 1180).Settle(farmID, rps, total, total)
	require.NoError(t, err)
	assert.True(t, owed.IsZero())
	assert.Equal(t, rps, rps2)

	assert.ErrorIs(t, s.Open(db, 1200).Clear(farmID, total), reverts.ErrInvalidFarmStatus)

	// capped by the 2 remaining
	_, owed, err = s.Open(db, 10000).Settle(farmID, rps, total, total)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), owed.Uint64())

	farm, err = s.Open(db, 10000).Farm(farmID, total)
	require.NoError(t, err)
	assert.Equal(t, StatusEnded, farm.Status)
	assert.True(t, farm.Unclaimed().IsZero())

	_, err = s.Open(db, 10000).AddReward(farmID, amount.New(1), total)
	assert.ErrorIs(t, err, reverts.ErrInvalidFarmStatus)

	require.NoError(t, s.Open(db, 10000).Clear(farmID, total))
	farm, err = s.Open(db, 10000).Farm(farmID, total)
	require.NoError(t, err)
	assert.Equal(t, StatusCleared, farm.Status)
}

func TestSessions_EmptySeedGoesToBeneficiary(t *testing.T) {
	s, db := setup(t)

	require.NoError(t, s.Open(db, 0).Create(farmID, terms(60)))
	_, err := s.Open(db, 0).AddReward(farmID, amount.New(10), nil)
	require.NoError(t, err)

	// not started yet
	farm, err := s.Open(db, 59).Farm(farmID, nil)
	require.NoError(t, err)
	assert.True(t, farm.Beneficiary.IsZero())

	// two sessions with nothing staked
	rps, owed, err := s.Open(db, 180).Settle(farmID, nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, owed.IsZero())
	assert.True(t, rps.IsZero())

	farm, err = s.Open(db, 180).Farm(farmID, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), farm.Beneficiary.Uint64())
	assert.Equal(t, uint64(8), farm.Undistributed.Uint64())
}

func TestSessions_ProRata(t *testing.T) {
	s, db := setup(t)
	total := amount.New(4)

	require.NoError(t, s.Open(db, 0).Create(farmID, terms(0)))
	_, err := s.Open(db, 0).AddReward(farmID, amount.New(100), total)
	require.NoError(t, err)

	_, a, err := s.Open(db, 600).Settle(farmID, nil, amount.New(1), total)
	require.NoError(t, err)
	_, b, err := s.Open(db, 600).Settle(farmID, nil, amount.New(3), total)
	require.NoError(t, err)

	// 10 sessions split 1:3, rounded down
	assert.Equal(t, uint64(2), a.Uint64())
	assert.Equal(t, uint64(7), b.Uint64())
}

func TestSessions_UnknownAndInvalid(t *testing.T) {
	s, db := setup(t)
	e := s.Open(db, 0)

	farm, err := e.Farm("nope#0", nil)
	require.NoError(t, err)
	assert.Nil(t, farm)

	_, _, err = e.Settle("nope#0", nil, nil, nil)
	assert.ErrorIs(t, err, reverts.ErrUnknownFarmOrSeed)

	bad := terms(0)
	bad.SessionInterval = 0
	assert.ErrorIs(t, e.Create(farmID, bad), reverts.ErrInvalidDuration)
}

func TestSessions_DiscardedCreateDoesNotLeakTerms(t *testing.T) {
	s, db := setup(t)

	txn, err := db.Begin()
	require.NoError(t, err)
	e := s.Open(txn, 0)
	require.NoError(t, e.Create(farmID, terms(0)))
	_, err = e.Farm(farmID, nil)
	require.NoError(t, err)
	txn.Discard()

	other := terms(0)
	other.RewardToken = "other.near"
	require.NoError(t, s.Open(db, 0).Create(farmID, other))

	farm, err := s.Open(db, 0).Farm(farmID, nil)
	require.NoError(t, err)
	assert.Equal(t, "other.near", farm.Terms.RewardToken)

	hit, miss := s.CacheStats()
	assert.Equal(t, int64(0), hit)
	assert.Equal(t, int64(2), miss)
}
