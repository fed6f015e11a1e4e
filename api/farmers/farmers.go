// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farmers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/farming/api/utils"
	"github.com/vechain/farming/farming"
	"github.com/vechain/farming/farming/asset"
)

const maxPageSize = 100

type Farmers struct {
	ledger *farming.Farming
}

func New(ledger *farming.Farming) *Farmers {
	return &Farmers{ledger}
}

func (f *Farmers) handleListFarmers(w http.ResponseWriter, req *http.Request) error {
	offset, limit, err := utils.ParsePage(req, maxPageSize)
	if err != nil {
		return utils.Revert(err)
	}
	infos, err := f.ledger.ListFarmers(offset, limit)
	if err != nil {
		return utils.Revert(err)
	}
	list := make([]*Farmer, 0, len(infos))
	for _, info := range infos {
		list = append(list, ConvertFarmer(info))
	}
	return utils.WriteJSON(w, list)
}

func (f *Farmers) handleGetFarmer(w http.ResponseWriter, req *http.Request) error {
	account := mux.Vars(req)["account"]
	info, err := f.ledger.GetFarmer(account)
	if err != nil {
		return utils.Revert(err)
	}
	if info == nil {
		return utils.NotFound(errors.Errorf("farmer %s not registered", account))
	}
	return utils.WriteJSON(w, ConvertFarmer(info))
}

func (f *Farmers) handleGetReward(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	reward, err := f.ledger.GetReward(vars["account"], vars["token"])
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, &Amount{reward.Dec()})
}

func (f *Farmers) handleGetUnclaimed(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	unclaimed, err := f.ledger.GetUnclaimedReward(vars["account"], vars["farm"])
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, &Amount{unclaimed.Dec()})
}

func (f *Farmers) handleGetLocked(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	seedID, err := asset.ParseSeedID(vars["seed"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "seed"))
	}
	lock, err := f.ledger.GetLocked(vars["account"], seedID)
	if err != nil {
		return utils.Revert(err)
	}
	if lock == nil {
		return utils.NotFound(errors.New("no lock"))
	}
	return utils.WriteJSON(w, ConvertLock(lock))
}

func (f *Farmers) handleListNFTs(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	seedID, err := asset.ParseSeedID(vars["seed"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "seed"))
	}
	nfts, err := f.ledger.ListNFTs(vars["account"], seedID)
	if err != nil {
		return utils.Revert(err)
	}
	ids := make([]string, 0, len(nfts))
	for _, nft := range nfts {
		ids = append(ids, nft.String())
	}
	return utils.WriteJSON(w, ids)
}

func (f *Farmers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("farmers_list").
		HandlerFunc(utils.WrapHandlerFunc(f.handleListFarmers))
	sub.Path("/{account}").
		Methods(http.MethodGet).
		Name("farmers_get_farmer").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetFarmer))
	sub.Path("/{account}/rewards/{token}").
		Methods(http.MethodGet).
		Name("farmers_get_reward").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetReward))
	sub.Path("/{account}/unclaimed/{farm}").
		Methods(http.MethodGet).
		Name("farmers_get_unclaimed").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetUnclaimed))
	sub.Path("/{account}/locked/{seed}").
		Methods(http.MethodGet).
		Name("farmers_get_locked").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetLocked))
	sub.Path("/{account}/nfts/{seed}").
		Methods(http.MethodGet).
		Name("farmers_list_nfts").
		HandlerFunc(utils.WrapHandlerFunc(f.handleListNFTs))
}
