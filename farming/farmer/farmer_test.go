// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farmer

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/farming/store"
	"github.com/vechain/farming/lvldb"
)

var usdt = asset.Plain("usdt.near")

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db)
}

func registered(t *testing.T, svc *Service, account string, weight uint64) *Farmer {
	ok, err := svc.Register(account)
	require.NoError(t, err)
	require.True(t, ok)
	f, err := svc.MustGet(account)
	require.NoError(t, err)
	if weight > 0 {
		require.NoError(t, f.AddSeed(usdt, amount.New(weight)))
	}
	return f
}

func TestRegister(t *testing.T) {
	svc := newService(t)

	_, err := svc.MustGet("alice")
	assert.ErrorIs(t, err, reverts.ErrNotRegistered)

	f := registered(t, svc, "alice", 0)
	ok, err := svc.Register("alice")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.AddReward("ref.near", amount.New(3)))
	require.NoError(t, svc.Set(f))
	assert.ErrorIs(t, svc.Unregister("alice", 0), reverts.ErrNotEmpty)

	assert.Equal(t, uint64(3), f.DrainReward("ref.near").Uint64())
	require.NoError(t, svc.SetRPS(f, "usdt.near#0", amount.New(9)))
	require.NoError(t, svc.Set(f))
	require.NoError(t, svc.Unregister("alice", 0))

	got, err := svc.Get("alice")
	require.NoError(t, err)
	assert.Nil(t, got)
	rps, err := svc.RPS("alice", "usdt.near#0")
	require.NoError(t, err)
	assert.True(t, rps.IsZero())
}

func TestUnregister_StakedNFTsAndLocks(t *testing.T) {
	svc := newService(t)
	registered(t, svc, "alice", 0)
	boosted := asset.Plain("boost.near")
	nft := asset.NFTID{Contract: "paras.near", Token: "1"}

	// an NFT may be staked with zero computed weight
	_, err := svc.AddNFT("alice", boosted, nft)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Unregister("alice", 0), reverts.ErrNotEmpty)
	nfts, err := svc.NFTs("alice", boosted)
	require.NoError(t, err)
	assert.Equal(t, []asset.NFTID{nft}, nfts)
	require.NoError(t, svc.SubNFT("alice", boosted, nft))

	key := store.Join("alice", usdt.String())
	require.NoError(t, svc.locked.Set(key, &LockedBalance{Balance: amount.New(1), StartedAt: 0, EndedAt: 100}))
	assert.ErrorIs(t, svc.Unregister("alice", 100+Retention), reverts.ErrNotEmpty)

	require.NoError(t, svc.Unregister("alice", 101+Retention))
	l, err := svc.LockedRecord("alice", usdt)
	require.NoError(t, err)
	assert.Nil(t, l)
	got, err := svc.Get("alice")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFarmer_EncodeDecode(t *testing.T) {
	f := New("alice")
	require.NoError(t, f.AddSeed(usdt, amount.New(10)))
	require.NoError(t, f.AddReward("ref.near", amount.New(4)))
	f.SetBase(asset.Plain("boost.near"), amount.New(2))
	f.RPSCount = 1

	raw, err := rlp.EncodeToBytes(f)
	require.NoError(t, err)

	var got *Farmer
	require.NoError(t, rlp.DecodeBytes(raw, &got))
	assert.Equal(t, f, got)
}

func TestFarmer_MigrateV1(t *testing.T) {
	type v1 struct {
		Version  uint8
		Account  string
		RPSCount uint64
		Seeds    []entry
		Rewards  []entry
	}
	raw, err := rlp.EncodeToBytes(&v1{
		Version: 1,
		Account: "bob",
		Seeds:   []entry{{"usdt.near", amount.New(5)}},
	})
	require.NoError(t, err)

	var got *Farmer
	require.NoError(t, rlp.DecodeBytes(raw, &got))
	assert.Equal(t, "bob", got.Account)
	assert.Equal(t, uint64(5), got.Weight(usdt).Uint64())
	assert.True(t, got.Base(usdt).IsZero())
}

func TestRewardLedger(t *testing.T) {
	f := New("alice")
	require.NoError(t, f.AddReward("ref.near", amount.New(5)))

	assert.ErrorIs(t, f.SubReward("ref.near", amount.New(6)), reverts.ErrInsufficientReward)
	require.NoError(t, f.SubReward("ref.near", amount.New(2)))
	assert.Equal(t, uint64(3), f.Reward("ref.near").Uint64())

	require.NoError(t, f.SubReward("ref.near", amount.New(3)))
	assert.Empty(t, f.RewardTokens())

	require.NoError(t, f.AddReward("ref.near", amount.New(8)))
	assert.Equal(t, uint64(8), f.DrainReward("ref.near").Uint64())
	assert.True(t, f.DrainReward("ref.near").IsZero())
}

func TestSubSeed(t *testing.T) {
	svc := newService(t)
	f := registered(t, svc, "alice", 10)

	_, err := svc.SubSeed(f, usdt, amount.New(11), 0)
	assert.ErrorIs(t, err, reverts.ErrInsufficientSeed)

	remain, err := svc.SubSeed(f, usdt, amount.New(4), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), remain.Uint64())

	remain, err = svc.SubSeed(f, usdt, amount.New(6), 0)
	require.NoError(t, err)
	assert.True(t, remain.IsZero())
	assert.Empty(t, f.SeedIDs())
}

func TestLock_Extension(t *testing.T) {
	svc := newService(t)
	f := registered(t, svc, "alice", 10)

	l, err := svc.Lock(f, usdt, amount.New(3), 100, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1100), l.EndedAt)

	// ends at 1060 < 1100
	_, err = svc.Lock(f, usdt, amount.New(1), 50, 1010)
	assert.ErrorIs(t, err, reverts.ErrInvalidDuration)

	l, err = svc.Lock(f, usdt, amount.New(2), 200, 1010)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), l.Balance.Uint64())
	assert.Equal(t, uint64(1210), l.EndedAt)

	avail, err := svc.Available(f, usdt, 1020)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), avail.Uint64())

	_, err = svc.Lock(f, usdt, amount.New(6), 300, 1020)
	assert.ErrorIs(t, err, reverts.ErrInsufficientSeed)
}

func TestLock_RetentionExpiry(t *testing.T) {
	svc := newService(t)
	f := registered(t, svc, "alice", 10)

	_, err := svc.Lock(f, usdt, amount.New(4), 10, 0)
	require.NoError(t, err)

	avail, err := svc.Available(f, usdt, 10+Retention)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), avail.Uint64())

	avail, err = svc.Available(f, usdt, 11+Retention)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), avail.Uint64())

	// purged on read
	_, err = svc.Unlock(f, usdt, amount.New(1), 11+Retention)
	assert.ErrorIs(t, err, reverts.ErrNoActiveLock)
	l, err := svc.LockedRecord("alice", usdt)
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestUnlock(t *testing.T) {
	svc := newService(t)
	f := registered(t, svc, "alice", 10)

	_, err := svc.Unlock(f, usdt, amount.New(1), 0)
	assert.ErrorIs(t, err, reverts.ErrNoActiveLock)

	_, err = svc.Lock(f, usdt, amount.New(4), 10, 0)
	require.NoError(t, err)

	_, err = svc.Unlock(f, usdt, amount.New(1), 9)
	assert.ErrorIs(t, err, reverts.ErrNotYetUnlockable)

	_, err = svc.Unlock(f, usdt, amount.New(5), 10)
	assert.ErrorIs(t, err, reverts.ErrInsufficientLocked)

	remain, err := svc.Unlock(f, usdt, amount.New(1), 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), remain.Uint64())

	remain, err = svc.Unlock(f, usdt, amount.New(3), 11)
	require.NoError(t, err)
	assert.True(t, remain.IsZero())

	l, err := svc.LockedRecord("alice", usdt)
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestPhase(t *testing.T) {
	l := &LockedBalance{Balance: uint256.NewInt(1), StartedAt: 0, EndedAt: 100}
	assert.Equal(t, PhaseActive, l.Phase(99))
	assert.Equal(t, PhaseReleasable, l.Phase(100))
	assert.Equal(t, PhaseReleasable, l.Phase(100+Retention))
	assert.Equal(t, PhaseExpired, l.Phase(101+Retention))
}

func TestNFTSet(t *testing.T) {
	svc := newService(t)
	seed := asset.Plain("paras.near")
	a := asset.NFTID{Contract: "x.paras.near", Token: "2:1"}
	b := asset.NFTID{Contract: "x.paras.near", Token: "1:1"}

	for _, id := range []asset.NFTID{a, b} {
		added, err := svc.AddNFT("alice", seed, id)
		require.NoError(t, err)
		assert.True(t, added)
	}
	added, err := svc.AddNFT("alice", seed, a)
	require.NoError(t, err)
	assert.False(t, added)

	held, err := svc.NFTs("alice", seed)
	require.NoError(t, err)
	assert.Equal(t, []asset.NFTID{b, a}, held)

	require.NoError(t, svc.SubNFT("alice", seed, b))
	assert.ErrorIs(t, svc.SubNFT("alice", seed, b), reverts.ErrNFTNotStaked)
	require.NoError(t, svc.SubNFT("alice", seed, a))

	held, err = svc.NFTs("alice", seed)
	require.NoError(t, err)
	assert.Empty(t, held)
}
