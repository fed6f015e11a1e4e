// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

// maxLoggedBody caps the request body echoed into the log.
const maxLoggedBody = 1024

// requestLogger logs each request before handing it on. The body is buffered and restored.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var err error
			if body, err = io.ReadAll(r.Body); err != nil {
				logger.Warn("unexpected body read error", "err", err)
				http.Error(w, "unable to read body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		if len(body) > maxLoggedBody {
			body = body[:maxLoggedBody]
		}

		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("API Request",
			"uri", r.URL.String(),
			"method", r.Method,
			"body", string(body),
			"elapsed", time.Since(start),
		)
	})
}
