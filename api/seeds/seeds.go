// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package seeds

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/farming/api/utils"
	"github.com/vechain/farming/farming"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/farming/seed"
)

const maxPageSize = 100

// Seed is the JSON form of a seed. Amounts are decimal strings.
type Seed struct {
	ID          string            `json:"id"`
	Kind        string            `json:"kind"`
	Farms       []string          `json:"farms"`
	Amount      string            `json:"amount"`
	MinDeposit  string            `json:"minDeposit"`
	NFTBalance  map[string]string `json:"nftBalance,omitempty"`
	Multipliers map[string]uint64 `json:"multipliers,omitempty"`
	Title       string            `json:"title,omitempty"`
	Media       string            `json:"media,omitempty"`
}

func ConvertSeed(s *seed.Seed) *Seed {
	out := &Seed{
		ID:         s.ID.String(),
		Kind:       s.Kind.String(),
		Farms:      append([]string{}, s.Farms...),
		Amount:     s.Amount.Dec(),
		MinDeposit: s.MinDeposit.Dec(),
		Title:      s.Title,
		Media:      s.Media,
	}
	if len(s.NFTBalance) > 0 {
		out.NFTBalance = make(map[string]string, len(s.NFTBalance))
		for _, e := range s.NFTBalance {
			out.NFTBalance[e.Key] = e.Value.Dec()
		}
	}
	if len(s.Multipliers) > 0 {
		out.Multipliers = make(map[string]uint64, len(s.Multipliers))
		for _, m := range s.Multipliers {
			out.Multipliers[m.Key] = m.BPS
		}
	}
	return out
}

type Seeds struct {
	ledger *farming.Farming
}

func New(ledger *farming.Farming) *Seeds {
	return &Seeds{ledger}
}

func (s *Seeds) handleListSeeds(w http.ResponseWriter, req *http.Request) error {
	offset, limit, err := utils.ParsePage(req, maxPageSize)
	if err != nil {
		return utils.Revert(err)
	}
	seeds, err := s.ledger.ListSeeds(offset, limit)
	if err != nil {
		return utils.Revert(err)
	}
	list := make([]*Seed, 0, len(seeds))
	for _, sd := range seeds {
		list = append(list, ConvertSeed(sd))
	}
	return utils.WriteJSON(w, list)
}

func (s *Seeds) handleGetSeed(w http.ResponseWriter, req *http.Request) error {
	id, err := asset.ParseSeedID(mux.Vars(req)["seed"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "seed"))
	}
	sd, err := s.ledger.GetSeed(id)
	if err != nil {
		return utils.Revert(err)
	}
	if sd == nil {
		return utils.NotFound(errors.Errorf("seed %s not found", id))
	}
	return utils.WriteJSON(w, ConvertSeed(sd))
}

func (s *Seeds) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("seeds_list").
		HandlerFunc(utils.WrapHandlerFunc(s.handleListSeeds))
	sub.Path("/{seed}").
		Methods(http.MethodGet).
		Name("seeds_get_seed").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetSeed))
}
