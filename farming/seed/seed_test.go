// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package seed

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/lvldb"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db)
}

func TestNew_Kind(t *testing.T) {
	assert.Equal(t, asset.KindPlain, New(asset.Plain("usdt.near"), nil, nil, nil).Kind)
	assert.Equal(t, asset.KindPoolShare, New(asset.PoolShare("ex.near", "1"), nil, nil, nil).Kind)

	nft := New(asset.Plain("paras.near"), nil, map[string]*uint256.Int{"x.paras.near": amount.New(5)}, nil)
	assert.Equal(t, asset.KindNFT, nft.Kind)
	assert.False(t, nft.Boosted())

	boosted := New(asset.Plain("boost.near"), nil, nil, map[string]uint64{"punks.near": 1000})
	assert.Equal(t, asset.KindNFT, boosted.Kind)
	assert.True(t, boosted.Boosted())
}

func TestSeed_Lookup(t *testing.T) {
	s := New(asset.Plain("paras.near"), nil, map[string]*uint256.Int{
		"x.paras.near@1:1": amount.New(10),
		"x.paras.near@2":   amount.New(20),
		"x.paras.near":     amount.New(1),
	}, map[string]uint64{
		"x.paras.near@2": 500,
		"x.paras.near":   100,
	})

	tests := []struct {
		nft  asset.NFTID
		eq   uint64
		bps  uint64
		miss bool
	}{
		{asset.NFTID{Contract: "x.paras.near", Token: "1:1"}, 10, 100, false},
		{asset.NFTID{Contract: "x.paras.near", Token: "2:7"}, 20, 500, false},
		{asset.NFTID{Contract: "x.paras.near", Token: "3"}, 1, 100, false},
		{asset.NFTID{Contract: "other.near", Token: "1"}, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.nft.String(), func(t *testing.T) {
			eq, ok := s.Equivalent(tt.nft)
			bps, ok2 := s.MultiplierBPS(tt.nft)
			if tt.miss {
				assert.False(t, ok)
				assert.False(t, ok2)
				return
			}
			require.True(t, ok)
			require.True(t, ok2)
			assert.Equal(t, tt.eq, eq.Uint64())
			assert.Equal(t, tt.bps, bps)
		})
	}
}

func TestService(t *testing.T) {
	svc := newService(t)
	id := asset.Plain("usdt.near")

	_, err := svc.MustGet(id)
	assert.ErrorIs(t, err, reverts.ErrUnknownFarmOrSeed)

	s, inserted, err := svc.Insert(New(id, amount.New(100), nil, nil))
	require.NoError(t, err)
	assert.True(t, inserted)

	assert.Equal(t, "usdt.near#0", s.AttachFarm())
	assert.Equal(t, "usdt.near#1", s.AttachFarm())
	require.NoError(t, s.AddAmount(amount.New(7)))
	require.NoError(t, svc.Set(s))

	// insert-if-absent keeps the stored seed
	again, inserted, err := svc.Insert(New(id, amount.New(1), nil, nil))
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, uint64(100), again.MinDeposit.Uint64())
	assert.Equal(t, []string{"usdt.near#0", "usdt.near#1"}, again.Farms)

	assert.True(t, again.DetachFarm("usdt.near#0"))
	assert.False(t, again.DetachFarm("usdt.near#0"))
	assert.Equal(t, "usdt.near#2", again.AttachFarm())
	assert.True(t, again.HasFarm("usdt.near#2"))

	assert.Error(t, again.SubAmount(amount.New(8)))
	require.NoError(t, again.SubAmount(amount.New(7)))
	assert.True(t, again.Amount.IsZero())

	_, _, err = svc.Insert(New(asset.PoolShare("ex.near", "1"), nil, nil, nil))
	require.NoError(t, err)
	all, err := svc.List(0, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ex.near@1", all[0].ID.String())
	assert.Equal(t, "usdt.near", all[1].ID.String())
}
