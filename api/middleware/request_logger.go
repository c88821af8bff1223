// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/vechain/distributor/log"
)

// Options controls which requests are logged.
type Options struct {
	// Enabled logs every request.
	Enabled *atomic.Bool
	// SlowQueriesThreshold logs requests slower than the threshold, zero disables it.
	SlowQueriesThreshold time.Duration
	// Log5xxErrors logs requests answered with a server error.
	Log5xxErrors bool
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLoggerMiddleware returns a middleware that logs requests with their
// body, status and duration.
func RequestLoggerMiddleware(logger log.Logger, opts Options) func(http.Handler) http.Handler {
	enabled := func() bool { return opts.Enabled != nil && opts.Enabled.Load() }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled() && opts.SlowQueriesThreshold == 0 && !opts.Log5xxErrors {
				next.ServeHTTP(w, r)
				return
			}
			// the body can be read only once, put a copy back for the handler
			var bodyBytes []byte
			if r.Body != nil {
				var err error
				if bodyBytes, err = io.ReadAll(r.Body); err != nil {
					logger.Warn("unexpected body read error", "err", err)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			}

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			slow := opts.SlowQueriesThreshold > 0 && duration > opts.SlowQueriesThreshold
			failed := opts.Log5xxErrors && sw.status >= http.StatusInternalServerError
			if enabled() || slow || failed {
				logger.Info("API Request",
					"DurationMs", duration.Milliseconds(),
					"Status", sw.status,
					"URI", r.URL.String(),
					"Method", r.Method,
					"Body", string(bodyBytes),
				)
			}
		})
	}
}
