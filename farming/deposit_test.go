// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/transfer"
)

var (
	boosted = asset.Plain("boost.near")
	gallery = asset.Plain("gallery.near")
	paras1  = asset.NFTID{Contract: "paras.near", Token: "1"}
	paras2  = asset.NFTID{Contract: "paras.near", Token: "2"}
)

func TestDepositSeedChecks(t *testing.T) {
	l := newTestLedger(t, nil)
	_, err := l.CreateFarm(FarmParams{
		Seed:             usdt,
		MinDeposit:       amount.New(5),
		RewardToken:      "ref.near",
		RewardPerSession: amount.New(1),
		SessionInterval:  60,
	})
	require.NoError(t, err)
	_, err = l.Register("alice")
	require.NoError(t, err)

	assert.ErrorIs(t, l.DepositSeed("alice", usdt, amount.New(4)), reverts.ErrBelowMinDeposit)
	assert.ErrorIs(t, l.DepositSeed("alice", usdt, amount.Zero()), reverts.ErrBelowMinDeposit)
	assert.ErrorIs(t, l.DepositSeed("alice", ref, amount.New(5)), reverts.ErrUnknownFarmOrSeed)
	require.NoError(t, l.DepositSeed("alice", usdt, amount.New(5)))

	l.nftFarm(t, gallery, map[string]*uint256.Int{"paras.near": amount.New(5)}, nil)
	assert.ErrorIs(t, l.DepositSeed("alice", gallery, amount.New(5)), reverts.ErrInvalidSeedKind)
	assert.ErrorIs(t, l.DepositNFT("alice", usdt, paras1), reverts.ErrInvalidSeedKind)
	assert.ErrorIs(t, l.DepositBase("alice", gallery, amount.New(5)), reverts.ErrInvalidSeedKind)
}

func (l *testLedger) nftFarm(t *testing.T, seedID asset.SeedID, equivalents map[string]*uint256.Int, multipliers map[string]uint64) string {
	id, err := l.CreateFarm(FarmParams{
		Seed:             seedID,
		NFTBalance:       equivalents,
		Multipliers:      multipliers,
		RewardToken:      "ref.near",
		RewardPerSession: amount.New(1),
		SessionInterval:  60,
	})
	require.NoError(t, err)
	_, err = l.DepositReward(id, amount.New(1000))
	require.NoError(t, err)
	return id
}

func TestNFTMultiplier(t *testing.T) {
	l := newTestLedger(t, nil)
	l.nftFarm(t, boosted, nil, map[string]uint64{"paras.near": 1000})
	_, err := l.Register("alice")
	require.NoError(t, err)

	require.NoError(t, l.DepositBase("alice", boosted, amount.New(10)))
	assert.Equal(t, amount.New(10), l.weight(t, "alice", boosted))

	require.NoError(t, l.DepositNFT("alice", boosted, paras1))
	assert.Equal(t, amount.New(11), l.weight(t, "alice", boosted))
	assert.Equal(t, amount.New(11), l.total(t, boosted))

	assert.ErrorIs(t, l.DepositNFT("alice", boosted, paras1), reverts.ErrAlreadyRegistered)
	assert.ErrorIs(t, l.DepositNFT("alice", boosted, asset.NFTID{Contract: "other.near", Token: "1"}), reverts.ErrInvalidMultiplierMapping)
	nfts, err := l.ListNFTs("alice", boosted)
	require.NoError(t, err)
	assert.Equal(t, []asset.NFTID{paras1}, nfts)

	_, err = l.WithdrawNFT(t.Context(), "alice", boosted, paras1)
	require.NoError(t, err)
	assert.Equal(t, amount.New(10), l.weight(t, "alice", boosted))
	assert.Equal(t, amount.New(10), l.total(t, boosted))

	req, _ := l.journal.Last()
	assert.Equal(t, transfer.KindNFT, req.Kind)
	assert.Equal(t, "paras.near", req.Asset)
	assert.Equal(t, "1", req.TokenID)

	_, err = l.WithdrawNFT(t.Context(), "alice", boosted, paras1)
	assert.ErrorIs(t, err, reverts.ErrNFTNotStaked)

	// failed transfer puts the boost back
	require.NoError(t, l.Resolve(t.Context(), req.Confirm(transfer.Failure)))
	assert.Equal(t, amount.New(11), l.weight(t, "alice", boosted))
	assert.Equal(t, amount.New(11), l.total(t, boosted))
}

func TestBaseWithdrawal(t *testing.T) {
	l := newTestLedger(t, nil)
	l.nftFarm(t, boosted, nil, map[string]uint64{"paras.near": 1000})
	_, err := l.Register("alice")
	require.NoError(t, err)
	require.NoError(t, l.DepositBase("alice", boosted, amount.New(100)))
	require.NoError(t, l.DepositNFT("alice", boosted, paras1))
	require.NoError(t, l.DepositNFT("alice", boosted, paras2))
	assert.Equal(t, amount.New(120), l.weight(t, "alice", boosted))

	_, err = l.WithdrawBase(t.Context(), "alice", boosted, amount.New(101))
	assert.ErrorIs(t, err, reverts.ErrInsufficientSeed)

	_, err = l.WithdrawBase(t.Context(), "alice", boosted, amount.New(50))
	require.NoError(t, err)
	assert.Equal(t, amount.New(60), l.weight(t, "alice", boosted))
	assert.Equal(t, amount.New(60), l.total(t, boosted))
	req, _ := l.journal.Last()
	assert.Equal(t, transfer.KindFT, req.Kind)
	assert.Equal(t, "boost.near", req.Asset)

	require.NoError(t, l.Resolve(t.Context(), req.Confirm(transfer.Failure)))
	assert.Equal(t, amount.New(120), l.weight(t, "alice", boosted))
}

func TestNFTEquivalents(t *testing.T) {
	l := newTestLedger(t, nil)
	l.nftFarm(t, gallery, map[string]*uint256.Int{
		"paras.near":   amount.New(5),
		"paras.near@2": amount.New(8),
	}, nil)
	_, err := l.Register("alice")
	require.NoError(t, err)

	require.NoError(t, l.DepositNFT("alice", gallery, paras1))
	require.NoError(t, l.DepositNFT("alice", gallery, paras2))
	assert.Equal(t, amount.New(13), l.weight(t, "alice", gallery))

	_, err = l.WithdrawNFT(t.Context(), "alice", gallery, paras2)
	require.NoError(t, err)
	assert.Equal(t, amount.New(5), l.weight(t, "alice", gallery))
	assert.Equal(t, amount.New(5), l.total(t, gallery))
}

func TestCompound(t *testing.T) {
	l := newTestLedger(t, nil)
	l.farm(t, usdt, "ref.near", 1)
	l.farm(t, usdt, "skyward.near", 1)
	l.farm(t, ref, "skyward.near", 1)
	l.stake(t, "alice", usdt, 1)

	l.clock.Advance(180)
	staked, ids, err := l.ClaimBySeedAndDeposit(t.Context(), "alice", usdt, ref)
	require.NoError(t, err)
	assert.Equal(t, amount.New(3), staked)
	assert.Empty(t, ids)
	assert.Equal(t, amount.New(3), l.weight(t, "alice", ref))
	assert.Equal(t, amount.New(3), l.total(t, ref))

	reward, err := l.GetReward("alice", "ref.near")
	require.NoError(t, err)
	assert.True(t, reward.IsZero())
	// farms paying other tokens are left unclaimed
	reward, err = l.GetReward("alice", "skyward.near")
	require.NoError(t, err)
	assert.True(t, reward.IsZero())

	l.clock.Advance(60)
	staked, _, err = l.ClaimByAllSeedsAndDeposit(t.Context(), "alice", ref)
	require.NoError(t, err)
	assert.Equal(t, amount.New(1), staked)
	assert.Equal(t, amount.New(4), l.weight(t, "alice", ref))

	_, _, err = l.ClaimBySeedAndDeposit(t.Context(), "alice", usdt, refPool)
	assert.ErrorIs(t, err, reverts.ErrUnknownFarmOrSeed)
	l.farm(t, refPool, "ref.near", 1)
	_, _, err = l.ClaimBySeedAndDeposit(t.Context(), "alice", usdt, refPool)
	assert.ErrorIs(t, err, reverts.ErrInvalidSeedKind)
}

func TestCompoundWithdrawsOtherRewards(t *testing.T) {
	l := newTestLedger(t, nil)
	l.farm(t, usdt, "ref.near", 2)
	l.farm(t, ref, "skyward.near", 2)
	l.stake(t, "alice", usdt, 1)
	l.stake(t, "alice", ref, 2)

	l.clock.Advance(60)
	staked, ids, err := l.ClaimBySeedAndDeposit(t.Context(), "alice", usdt, ref)
	require.NoError(t, err)
	assert.Equal(t, amount.New(2), staked)
	assert.Equal(t, amount.New(4), l.weight(t, "alice", ref))
	assert.Equal(t, amount.New(4), l.total(t, ref))
	require.Len(t, ids, 1)

	req, ok := l.journal.Last()
	require.True(t, ok)
	assert.Equal(t, ids[0], req.OpID)
	assert.Equal(t, "skyward.near", req.Asset)
	assert.Equal(t, "alice", req.Recipient)
	assert.Equal(t, amount.New(2), req.Amount)

	reward, err := l.GetReward("alice", "skyward.near")
	require.NoError(t, err)
	assert.True(t, reward.IsZero())

	require.NoError(t, l.Resolve(t.Context(), req.Confirm(transfer.Failure)))
	reward, err = l.GetReward("alice", "skyward.near")
	require.NoError(t, err)
	assert.Equal(t, amount.New(2), reward)

	// nothing left to withdraw at the same instant
	staked, ids, err = l.ClaimByAllSeedsAndDeposit(t.Context(), "alice", ref)
	require.NoError(t, err)
	assert.True(t, staked.IsZero())
	require.Len(t, ids, 1)
	req, _ = l.journal.Last()
	assert.Equal(t, amount.New(2), req.Amount)
	require.NoError(t, l.Resolve(t.Context(), req.Confirm(transfer.Success)))

	pending, err := l.PendingTransfers(0, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestUnregisterKeepsStakedNFTs(t *testing.T) {
	l := newTestLedger(t, nil)
	l.nftFarm(t, boosted, nil, map[string]uint64{"paras.near": 1000})
	_, err := l.Register("alice")
	require.NoError(t, err)

	// no base balance: the NFT adds nothing to the weight
	require.NoError(t, l.DepositNFT("alice", boosted, paras1))
	assert.True(t, l.weight(t, "alice", boosted).IsZero())

	assert.ErrorIs(t, l.Unregister("alice"), reverts.ErrNotEmpty)
	info, err := l.GetFarmer("alice")
	require.NoError(t, err)
	require.NotNil(t, info)

	_, err = l.WithdrawNFT(t.Context(), "alice", boosted, paras1)
	require.NoError(t, err)
	req, _ := l.journal.Last()
	require.NoError(t, l.Resolve(t.Context(), req.Confirm(transfer.Success)))

	require.NoError(t, l.Unregister("alice"))
	nfts, err := l.ListNFTs("alice", boosted)
	require.NoError(t, err)
	assert.Empty(t, nfts)
}
