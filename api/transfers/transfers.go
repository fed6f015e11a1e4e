// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/farming/api/utils"
	"github.com/vechain/farming/farming"
)

const maxPageSize = 1000

type Transfers struct {
	ledger *farming.Farming
}

func New(ledger *farming.Farming) *Transfers {
	return &Transfers{ledger}
}

func (t *Transfers) handleListPending(w http.ResponseWriter, req *http.Request) error {
	offset, limit, err := utils.ParsePage(req, maxPageSize)
	if err != nil {
		return utils.Revert(err)
	}
	entries, err := t.ledger.PendingTransfers(offset, limit)
	if err != nil {
		return utils.Revert(err)
	}
	list := make([]*Pending, 0, len(entries))
	for _, e := range entries {
		list = append(list, ConvertPending(e))
	}
	return utils.WriteJSON(w, list)
}

// handleResolve delivers the outcome of a transfer executed out of band.
func (t *Transfers) handleResolve(w http.ResponseWriter, req *http.Request) error {
	opID, err := strconv.ParseUint(mux.Vars(req)["op"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "op"))
	}
	var body Outcome
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	c, err := body.confirmation(opID)
	if err != nil {
		return utils.BadRequest(err)
	}
	if err := t.ledger.Resolve(req.Context(), c); err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, map[string]any{"op": opID, "outcome": c.Outcome.String()})
}

func (t *Transfers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/pending").
		Methods(http.MethodGet).
		Name("transfers_list_pending").
		HandlerFunc(utils.WrapHandlerFunc(t.handleListPending))
	sub.Path("/{op}/outcome").
		Methods(http.MethodPost).
		Name("transfers_resolve").
		HandlerFunc(utils.WrapHandlerFunc(t.handleResolve))
}
