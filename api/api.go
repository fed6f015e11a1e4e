// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves the ledger queries and transfer confirmations over HTTP.
package api

import (
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/farming/api/farmers"
	"github.com/vechain/farming/api/farms"
	"github.com/vechain/farming/api/seeds"
	"github.com/vechain/farming/api/transfers"
	"github.com/vechain/farming/farming"
)

var logger = log.New("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EnableReqLogger bool
	EnableMetrics   bool
}

// New return api router
func New(ledger *farming.Farming, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	farmers.New(ledger).
		Mount(router, "/farmers")
	seeds.New(ledger).
		Mount(router, "/seeds")
	farms.New(ledger).
		Mount(router, "/farms")
	transfers.New(ledger).
		Mount(router, "/transfers")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = requestLogger(handler)
	}

	return handler.ServeHTTP
}
