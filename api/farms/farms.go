// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farms

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/farming/api/utils"
	"github.com/vechain/farming/distribution"
	"github.com/vechain/farming/farming"
)

// Farm is the JSON form of a farm as distributed up to the request time.
type Farm struct {
	ID               string `json:"id"`
	Seed             string `json:"seed"`
	RewardToken      string `json:"rewardToken"`
	StartAt          uint64 `json:"startAt"`
	RewardPerSession string `json:"rewardPerSession"`
	SessionInterval  uint64 `json:"sessionInterval"`
	Status           string `json:"status"`
	TotalReward      string `json:"totalReward"`
	Undistributed    string `json:"undistributed"`
	Claimed          string `json:"claimed"`
	Unclaimed        string `json:"unclaimed"`
	Beneficiary      string `json:"beneficiary"`
	Rounds           uint64 `json:"rounds"`
}

func ConvertFarm(f *distribution.Farm) *Farm {
	return &Farm{
		ID:               f.ID,
		Seed:             f.Terms.Seed,
		RewardToken:      f.Terms.RewardToken,
		StartAt:          f.Terms.StartAt,
		RewardPerSession: f.Terms.RewardPerSession.Dec(),
		SessionInterval:  f.Terms.SessionInterval,
		Status:           f.Status.String(),
		TotalReward:      f.TotalReward.Dec(),
		Undistributed:    f.Undistributed.Dec(),
		Claimed:          f.Claimed.Dec(),
		Unclaimed:        f.Unclaimed().Dec(),
		Beneficiary:      f.Beneficiary.Dec(),
		Rounds:           f.Rounds,
	}
}

type Farms struct {
	ledger *farming.Farming
}

func New(ledger *farming.Farming) *Farms {
	return &Farms{ledger}
}

func (f *Farms) handleGetFarm(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["farm"]
	farm, err := f.ledger.GetFarm(id)
	if err != nil {
		return utils.Revert(err)
	}
	if farm == nil {
		return utils.NotFound(errors.Errorf("farm %s not found", id))
	}
	return utils.WriteJSON(w, ConvertFarm(farm))
}

func (f *Farms) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{farm}").
		Methods(http.MethodGet).
		Name("farms_get_farm").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetFarm))
}
