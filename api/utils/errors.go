// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"

	"github.com/vechain/farming/farming/reverts"
)

// statusError carries the status code a handler error is answered with.
type statusError struct {
	cause  error
	status int
}

func (e *statusError) Error() string { return e.cause.Error() }
func (e *statusError) Unwrap() error { return e.cause }

// HTTPError tags cause with an http status code.
func HTTPError(cause error, status int) error {
	return &statusError{cause, status}
}

func BadRequest(cause error) error { return HTTPError(cause, http.StatusBadRequest) }

func NotFound(cause error) error { return HTTPError(cause, http.StatusNotFound) }

// Revert maps a ledger rejection to a client error. Other errors pass through
// and end up as 500.
func Revert(err error) error {
	var r *reverts.ErrRevert
	if !errors.As(err, &r) {
		return err
	}
	switch r.Kind() {
	case reverts.KindNotRegistered, reverts.KindUnknownFarmOrSeed, reverts.KindUnknownOperation:
		return NotFound(err)
	case reverts.KindOutcomeMismatch:
		return HTTPError(err, http.StatusConflict)
	default:
		return BadRequest(err)
	}
}

func statusOf(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.status
	}
	return http.StatusInternalServerError
}
