// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package transfer is the port through which the ledger asks for assets to be sent out.
// Outcomes come back later as confirmations.
package transfer

import (
	"context"

	"github.com/holiman/uint256"
)

// Kind is the token standard of a transfer.
type Kind uint8

const (
	// KindFT is a fungible token transfer of Amount.
	KindFT Kind = iota
	// KindMFT is a multi-token transfer of Amount of TokenID.
	KindMFT
	// KindNFT is the transfer of the single token TokenID.
	KindNFT
)

func (k Kind) String() string {
	switch k {
	case KindFT:
		return "ft"
	case KindMFT:
		return "mft"
	case KindNFT:
		return "nft"
	default:
		return "unknown"
	}
}

// Request asks for one asset transfer.
type Request struct {
	OpID      uint64
	Kind      Kind
	Asset     string
	TokenID   string
	Recipient string
	Amount    *uint256.Int
}

// Outcome is the result of a transfer.
type Outcome uint8

const (
	Success Outcome = iota + 1
	Failure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// ParseOutcome parses "success" or "failure".
func ParseOutcome(s string) (Outcome, bool) {
	switch s {
	case "success":
		return Success, true
	case "failure":
		return Failure, true
	default:
		return 0, false
	}
}

// Confirmation delivers the outcome of a request, echoing what was transferred.
type Confirmation struct {
	OpID      uint64
	Asset     string
	TokenID   string
	Recipient string
	Amount    *uint256.Int
	Outcome   Outcome
}

// Confirm builds the confirmation of r.
func (r Request) Confirm(outcome Outcome) Confirmation {
	return Confirmation{
		OpID:      r.OpID,
		Asset:     r.Asset,
		TokenID:   r.TokenID,
		Recipient: r.Recipient,
		Amount:    r.Amount,
		Outcome:   outcome,
	}
}

// Matches reports whether c confirms r.
func (r Request) Matches(c Confirmation) bool {
	if r.OpID != c.OpID || r.Asset != c.Asset || r.TokenID != c.TokenID || r.Recipient != c.Recipient {
		return false
	}
	return orZero(r.Amount).Eq(orZero(c.Amount))
}

// orZero treats a nil amount, as carried by NFT transfers, as zero.
func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}

// Port issues transfer requests. A returned error means the request was not issued.
type Port interface {
	Request(ctx context.Context, req Request) error
}

// Resolver consumes confirmations.
type Resolver interface {
	Resolve(ctx context.Context, c Confirmation) error
}

// PortFunc adapts a function to Port.
type PortFunc func(ctx context.Context, req Request) error

func (f PortFunc) Request(ctx context.Context, req Request) error { return f(ctx, req) }
