// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package multiplier turns a base balance and a set of staked NFTs into staking weight.
package multiplier

import (
	"github.com/holiman/uint256"

	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/farming/seed"
)

// Denominator is 100% in basis points.
const Denominator = 10000

var denominator = uint256.NewInt(Denominator)

// Weight recomputes the full weight of a holder of s.
// Boosted seeds yield base × (10000 + Σ bps) / 10000; other NFT seeds sum per-token equivalents
// and ignore base.
func Weight(s *seed.Seed, base *uint256.Int, nfts []asset.NFTID) (*uint256.Int, error) {
	if s.Boosted() {
		bps := uint64(Denominator)
		for _, nft := range nfts {
			v, ok := s.MultiplierBPS(nft)
			if !ok {
				return nil, reverts.New(reverts.KindInvalidMultiplierMapping, "%s has no multiplier in seed %s", nft, s.ID)
			}
			if bps+v < bps {
				return nil, amount.ErrOverflow
			}
			bps += v
		}
		return amount.MulDiv(base, uint256.NewInt(bps), denominator)
	}

	total := amount.Zero()
	for _, nft := range nfts {
		v, ok := s.Equivalent(nft)
		if !ok {
			return nil, reverts.New(reverts.KindInvalidMultiplierMapping, "%s has no balance equivalent in seed %s", nft, s.ID)
		}
		var err error
		if total, err = amount.Add(total, v); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// Delta is a signed weight change.
type Delta struct {
	Value    *uint256.Int
	Negative bool
}

// Diff returns to - from.
func Diff(from, to *uint256.Int) Delta {
	from, to = amount.OrZero(from), amount.OrZero(to)
	if to.Lt(from) {
		return Delta{Value: new(uint256.Int).Sub(from, to), Negative: true}
	}
	return Delta{Value: new(uint256.Int).Sub(to, from)}
}

func (d Delta) IsZero() bool {
	return amount.IsZero(d.Value)
}

// ApplyTo adjusts the seed total by the delta.
func (d Delta) ApplyTo(s *seed.Seed) error {
	if d.Negative {
		return s.SubAmount(d.Value)
	}
	return s.AddAmount(d.Value)
}
