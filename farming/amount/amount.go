// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package amount provides checked uint256 arithmetic for balances, weights and reward-per-share values.
package amount

import (
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	ErrOverflow  = errors.New("amount overflow")
	ErrUnderflow = errors.New("amount underflow")
)

// Zero returns a new zero value.
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// New returns a new value holding v.
func New(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

// OrZero returns a copy of v, or zero if v is nil.
func OrZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return Zero()
	}
	return v.Clone()
}

// IsZero reports whether v is nil or zero.
func IsZero(v *uint256.Int) bool {
	return v == nil || v.IsZero()
}

// Add returns a + b, failing on overflow.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(OrZero(a), OrZero(b))
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Sub returns a - b, failing on underflow.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(OrZero(a), OrZero(b))
	if underflow {
		return nil, ErrUnderflow
	}
	return z, nil
}

// MulDiv returns floor(a * b / d) computed with a 512-bit intermediate, failing on overflow
// of the result or a zero divisor.
func MulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	if IsZero(d) {
		return nil, errors.New("division by zero")
	}
	z, overflow := new(uint256.Int).MulDivOverflow(OrZero(a), OrZero(b), d)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Min returns the smaller of a and b.
func Min(a, b *uint256.Int) *uint256.Int {
	if OrZero(a).Lt(OrZero(b)) {
		return OrZero(a)
	}
	return OrZero(b)
}

// Parse parses a base-10 integer.
func Parse(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrapf(err, "parse amount %q", s)
	}
	return v, nil
}

// ParseUnits parses a decimal string like "1.5" scaled by 10^decimals.
func ParseUnits(s string, decimals uint8) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > int(decimals) {
		return nil, errors.Errorf("parse amount %q: too many decimals", s)
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))
	digits := strings.TrimLeft(whole+frac, "0")
	if digits == "" {
		return Zero(), nil
	}
	return Parse(digits)
}

// Units returns 10^decimals.
func Units(decimals uint8) *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))
}
