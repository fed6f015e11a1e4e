// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the errors returned when an operation is rejected before any state is committed.
package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a rejection.
type Kind uint8

const (
	KindNotRegistered Kind = iota + 1
	KindAlreadyRegistered
	KindNotEmpty
	KindInsufficientBalance
	KindInvalidSeedKind
	KindUnknownFarmOrSeed
	KindInvalidSeedID
	KindBelowMinDeposit
	KindInvalidFarmStatus
	KindInvalidDuration
	KindNotYetUnlockable
	KindNoActiveLock
	KindNFTNotStaked
	KindInvalidMultiplierMapping
	KindUnknownOperation
	KindOutcomeMismatch
	KindInvalidAccountID
)

// Balance distinguishes the InsufficientBalance variants.
type Balance uint8

const (
	BalanceAny Balance = iota
	BalanceSeed
	BalanceLocked
	BalanceReward
)

var kindNames = map[Kind]string{
	KindNotRegistered:            "not registered",
	KindAlreadyRegistered:        "already registered",
	KindNotEmpty:                 "not empty",
	KindInsufficientBalance:      "insufficient balance",
	KindInvalidSeedKind:          "invalid seed kind",
	KindUnknownFarmOrSeed:        "unknown farm or seed",
	KindInvalidSeedID:            "invalid seed id",
	KindBelowMinDeposit:          "below min deposit",
	KindInvalidFarmStatus:        "invalid farm status",
	KindInvalidDuration:          "invalid duration",
	KindNotYetUnlockable:         "not yet unlockable",
	KindNoActiveLock:             "no active lock",
	KindNFTNotStaked:             "nft not staked",
	KindInvalidMultiplierMapping: "invalid multiplier mapping",
	KindUnknownOperation:         "unknown operation",
	KindOutcomeMismatch:          "outcome mismatch",
	KindInvalidAccountID:         "invalid account id",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Sentinels for errors.Is matching. ErrInsufficientBalance matches every balance variant.
var (
	ErrNotRegistered            = &ErrRevert{kind: KindNotRegistered}
	ErrAlreadyRegistered        = &ErrRevert{kind: KindAlreadyRegistered}
	ErrNotEmpty                 = &ErrRevert{kind: KindNotEmpty}
	ErrInsufficientBalance      = &ErrRevert{kind: KindInsufficientBalance}
	ErrInsufficientSeed         = &ErrRevert{kind: KindInsufficientBalance, balance: BalanceSeed}
	ErrInsufficientLocked       = &ErrRevert{kind: KindInsufficientBalance, balance: BalanceLocked}
	ErrInsufficientReward       = &ErrRevert{kind: KindInsufficientBalance, balance: BalanceReward}
	ErrInvalidSeedKind          = &ErrRevert{kind: KindInvalidSeedKind}
	ErrUnknownFarmOrSeed        = &ErrRevert{kind: KindUnknownFarmOrSeed}
	ErrInvalidSeedID            = &ErrRevert{kind: KindInvalidSeedID}
	ErrBelowMinDeposit          = &ErrRevert{kind: KindBelowMinDeposit}
	ErrInvalidFarmStatus        = &ErrRevert{kind: KindInvalidFarmStatus}
	ErrInvalidDuration          = &ErrRevert{kind: KindInvalidDuration}
	ErrNotYetUnlockable         = &ErrRevert{kind: KindNotYetUnlockable}
	ErrNoActiveLock             = &ErrRevert{kind: KindNoActiveLock}
	ErrNFTNotStaked             = &ErrRevert{kind: KindNFTNotStaked}
	ErrInvalidMultiplierMapping = &ErrRevert{kind: KindInvalidMultiplierMapping}
	ErrUnknownOperation         = &ErrRevert{kind: KindUnknownOperation}
	ErrOutcomeMismatch          = &ErrRevert{kind: KindOutcomeMismatch}
	ErrInvalidAccountID         = &ErrRevert{kind: KindInvalidAccountID}
)

type ErrRevert struct {
	kind    Kind
	balance Balance
	message string
}

// New creates a revert of the given kind.
func New(kind Kind, format string, args ...any) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: fmt.Sprintf(format, args...),
	}
}

// Insufficient creates an InsufficientBalance revert of the given variant.
func Insufficient(balance Balance, format string, args ...any) *ErrRevert {
	return &ErrRevert{
		kind:    KindInsufficientBalance,
		balance: balance,
		message: fmt.Sprintf(format, args...),
	}
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func (e *ErrRevert) Error() string {
	if e.message == "" {
		return e.kind.String()
	}
	return e.kind.String() + ": " + e.message
}

// Is matches on kind; a sentinel with BalanceAny matches every balance variant.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	if !ok {
		return false
	}
	if t.kind != e.kind {
		return false
	}
	return t.balance == BalanceAny || t.balance == e.balance
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}
