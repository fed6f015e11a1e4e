// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/saga"
	"github.com/vechain/farming/transfer"
)

// Request is a transfer the ledger asked for.
type Request struct {
	OpID      uint64 `json:"op"`
	Kind      string `json:"kind"`
	Asset     string `json:"asset"`
	TokenID   string `json:"tokenId,omitempty"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount,omitempty"`
}

// Pending is an unresolved withdrawal.
type Pending struct {
	Op        string   `json:"op"`
	Account   string   `json:"account"`
	Seed      string   `json:"seed,omitempty"`
	Token     string   `json:"token,omitempty"`
	NFT       string   `json:"nft,omitempty"`
	Amount    string   `json:"amount,omitempty"`
	CreatedAt uint64   `json:"createdAt"`
	Transfer  *Request `json:"transfer"`
}

// Outcome confirms a transfer, echoing what was sent.
type Outcome struct {
	Asset     string `json:"asset"`
	TokenID   string `json:"tokenId,omitempty"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount,omitempty"`
	Outcome   string `json:"outcome"`
}

func (o *Outcome) confirmation(opID uint64) (transfer.Confirmation, error) {
	outcome, ok := transfer.ParseOutcome(o.Outcome)
	if !ok {
		return transfer.Confirmation{}, errors.Errorf("outcome: invalid value %q", o.Outcome)
	}
	var value *uint256.Int
	if o.Amount != "" {
		var err error
		if value, err = amount.Parse(o.Amount); err != nil {
			return transfer.Confirmation{}, errors.WithMessage(err, "amount")
		}
	}
	return transfer.Confirmation{
		OpID:      opID,
		Asset:     o.Asset,
		TokenID:   o.TokenID,
		Recipient: o.Recipient,
		Amount:    value,
		Outcome:   outcome,
	}, nil
}

func ConvertRequest(r transfer.Request) *Request {
	return &Request{
		OpID:      r.OpID,
		Kind:      r.Kind.String(),
		Asset:     r.Asset,
		TokenID:   r.TokenID,
		Recipient: r.Recipient,
		Amount:    dec(r.Amount),
	}
}

func ConvertPending(e *saga.Entry) *Pending {
	return &Pending{
		Op:        e.Op.String(),
		Account:   e.Account,
		Seed:      e.Seed,
		Token:     e.Token,
		NFT:       e.NFT,
		Amount:    dec(e.Amount),
		CreatedAt: e.CreatedAt,
		Transfer:  ConvertRequest(e.Transfer),
	}
}

func dec(v *uint256.Int) string {
	if amount.IsZero(v) {
		return ""
	}
	return v.Dec()
}
