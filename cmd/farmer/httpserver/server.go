// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpserver runs the listeners of the farmer daemon.
package httpserver

import (
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/farming/co"
	"github.com/vechain/farming/metrics"
)

// maxBodySize caps request bodies accepted by the API.
const maxBodySize = 64 * 1024

var logger = log.New("pkg", "httpserver")

// StartAPIServer serves the ledger API on addr. A positive timeout bounds each request.
func StartAPIServer(addr string, handler http.Handler, timeout time.Duration) (string, func(), error) {
	if timeout > 0 {
		handler = http.TimeoutHandler(handler, timeout, "request timed out")
	}
	url, closeFunc, err := serve(addr, requestBodyLimit(handler))
	if err != nil {
		return "", nil, errors.WithMessage(err, "API")
	}
	return url, closeFunc, nil
}

// StartMetricsServer exposes the prometheus meters under /metrics.
func StartMetricsServer(addr string) (string, func(), error) {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())

	url, closeFunc, err := serve(addr, handlers.CompressHandler(router))
	if err != nil {
		return "", nil, errors.WithMessage(err, "metrics")
	}
	return url + "metrics", closeFunc, nil
}

func serve(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen [%v]", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}

	var goes co.Goes
	goes.Go(func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("http server stopped", "addr", listener.Addr(), "err", err)
		}
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		h.ServeHTTP(w, r)
	})
}
