// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farmers

import (
	"github.com/holiman/uint256"

	"github.com/vechain/farming/farming"
)

// Farmer is the JSON form of a farmer. Amounts are decimal strings.
type Farmer struct {
	Account  string            `json:"account"`
	Seeds    map[string]string `json:"seeds"`
	Rewards  map[string]string `json:"rewards"`
	RPSCount uint64            `json:"rpsCount"`
}

type Amount struct {
	Amount string `json:"amount"`
}

type Lock struct {
	Balance   string `json:"balance"`
	StartedAt uint64 `json:"startedAt"`
	EndedAt   uint64 `json:"endedAt"`
	Phase     string `json:"phase"`
}

func ConvertFarmer(info *farming.FarmerInfo) *Farmer {
	return &Farmer{
		Account:  info.Account,
		Seeds:    decimals(info.Seeds),
		Rewards:  decimals(info.Rewards),
		RPSCount: info.RPSCount,
	}
}

func ConvertLock(l *farming.Lock) *Lock {
	return &Lock{
		Balance:   l.Balance.Dec(),
		StartedAt: l.StartedAt,
		EndedAt:   l.EndedAt,
		Phase:     l.Phase.String(),
	}
}

func decimals(m map[string]*uint256.Int) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v.Dec()
	}
	return out
}
