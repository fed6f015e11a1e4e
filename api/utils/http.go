// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
)

// JSONContentType is the content type of every API response body.
const JSONContentType = "application/json; charset=utf-8"

var logger = log.New("pkg", "api")

// HandlerFunc is an http.HandlerFunc that may fail. The error's status,
// if tagged with HTTPError, is responded; 500 otherwise.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc converts f to a plain http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		status := statusOf(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", "uri", r.URL.RequestURI(), "err", err)
		}
		http.Error(w, err.Error(), status)
	}
}

// ParseJSON decodes a JSON object, rejecting unknown fields.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON responds obj in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// ParsePage reads the offset and limit query parameters. Limit defaults to and is capped by maxLimit.
func ParsePage(r *http.Request, maxLimit int) (offset, limit int, err error) {
	query := r.URL.Query()
	if offset, err = pageParam(query.Get("offset"), 0, 0); err != nil {
		return 0, 0, BadRequest(errors.WithMessage(err, "offset"))
	}
	if limit, err = pageParam(query.Get("limit"), maxLimit, 1); err != nil {
		return 0, 0, BadRequest(errors.WithMessage(err, "limit"))
	}
	return offset, min(limit, maxLimit), nil
}

func pageParam(s string, def, least int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("invalid value")
	}
	if n < least {
		return 0, errors.Errorf("must be at least %d", least)
	}
	return n, nil
}
