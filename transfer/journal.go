// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfer

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

var logger = log.New("pkg", "transfer")

// Journal is a Port that only records requests. Outcomes are delivered by whoever
// executes them out of band.
type Journal struct {
	mu       sync.Mutex
	requests []Request
}

func (j *Journal) Request(_ context.Context, req Request) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.requests = append(j.requests, req)
	amount := ""
	if req.Amount != nil {
		amount = req.Amount.Dec()
	}
	logger.Info("transfer requested", "op", req.OpID, "kind", req.Kind.String(), "asset", req.Asset, "token", req.TokenID, "recipient", req.Recipient, "amount", amount)
	return nil
}

// Requests returns every recorded request in order.
func (j *Journal) Requests() []Request {
	j.mu.Lock()
	defer j.mu.Unlock()

	return append([]Request(nil), j.requests...)
}

// Last returns the most recent request.
func (j *Journal) Last() (Request, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.requests) == 0 {
		return Request{}, false
	}
	return j.requests[len(j.requests)-1], true
}
