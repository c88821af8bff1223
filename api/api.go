// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/distributor/api/distributor"
	"github.com/vechain/distributor/api/middleware"
	"github.com/vechain/distributor/api/transfers"
	"github.com/vechain/distributor/contract"
	"github.com/vechain/distributor/log"
	"github.com/vechain/distributor/metrics"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	TransfersLimit       uint64
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
}

// New return api router
func New(exec *contract.Executor, genesisID string, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	distributor.New(exec).
		Mount(router, "")
	if journal := exec.Journal(); journal != nil {
		transfers.New(journal, opts.TransfersLimit).
			Mount(router, "/transfers")
	}

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("x-genesis-id", genesisID)
			next.ServeHTTP(w, r)
		})
	})

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id"}),
	)(handler)

	handler = middleware.RequestLoggerMiddleware(logger, middleware.Options{
		Enabled:              opts.EnableReqLogger,
		SlowQueriesThreshold: opts.SlowQueriesThreshold,
		Log5xxErrors:         opts.Log5xxErrors,
	})(handler)

	return handler.ServeHTTP
}
