// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package multiplier

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/farming/seed"
)

var one = amount.Units(18)

func TestWeight_Boosted(t *testing.T) {
	s := seed.New(asset.Plain("boost.near"), nil, nil, map[string]uint64{
		"punks.near":      1000,
		"x.paras.near@12": 250,
	})
	punk := asset.NFTID{Contract: "punks.near", Token: "7"}
	paras := asset.NFTID{Contract: "x.paras.near", Token: "12:3"}

	w, err := Weight(s, one, nil)
	require.NoError(t, err)
	assert.Equal(t, one, w)

	w, err = Weight(s, one, []asset.NFTID{punk})
	require.NoError(t, err)
	assert.Equal(t, "1100000000000000000", w.Dec())

	w, err = Weight(s, one, []asset.NFTID{punk, paras})
	require.NoError(t, err)
	assert.Equal(t, "1125000000000000000", w.Dec())

	// rounds down
	w, err = Weight(s, amount.New(3), []asset.NFTID{paras})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), w.Uint64())

	_, err = Weight(s, one, []asset.NFTID{{Contract: "other.near", Token: "1"}})
	assert.ErrorIs(t, err, reverts.ErrInvalidMultiplierMapping)
}

func TestWeight_Equivalents(t *testing.T) {
	s := seed.New(asset.Plain("paras.near"), nil, map[string]*uint256.Int{
		"x.paras.near@1": amount.New(10),
		"x.paras.near":   amount.New(1),
	}, nil)

	w, err := Weight(s, amount.New(1000), []asset.NFTID{
		{Contract: "x.paras.near", Token: "1:1"},
		{Contract: "x.paras.near", Token: "1:2"},
		{Contract: "x.paras.near", Token: "9"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(21), w.Uint64())

	_, err = Weight(s, nil, []asset.NFTID{{Contract: "y.near", Token: "1"}})
	assert.ErrorIs(t, err, reverts.ErrInvalidMultiplierMapping)
}

func TestDelta(t *testing.T) {
	s := seed.New(asset.Plain("boost.near"), nil, nil, map[string]uint64{"punks.near": 1000})
	require.NoError(t, s.AddAmount(amount.New(1000)))

	up := Diff(amount.New(1000), amount.New(1100))
	assert.False(t, up.Negative)
	require.NoError(t, up.ApplyTo(s))
	assert.Equal(t, uint64(1100), s.Amount.Uint64())

	down := Diff(amount.New(1100), amount.New(1000))
	assert.True(t, down.Negative)
	require.NoError(t, down.ApplyTo(s))
	assert.Equal(t, uint64(1000), s.Amount.Uint64())

	assert.True(t, Diff(amount.New(5), amount.New(5)).IsZero())
}
