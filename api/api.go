// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/cosmicsignature/engine/api/events"
	"github.com/cosmicsignature/engine/api/game"
	"github.com/cosmicsignature/engine/api/health"
	"github.com/cosmicsignature/engine/api/prizes"
	"github.com/cosmicsignature/engine/api/staking"
	"github.com/cosmicsignature/engine/api/subscriptions"
	"github.com/cosmicsignature/engine/log"
	"github.com/cosmicsignature/engine/logdb"
	"github.com/cosmicsignature/engine/metrics"
	"github.com/cosmicsignature/engine/node"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	BacktraceLimit  uint32
	LogsLimit       uint64
	EnableReqLogger bool
	EnableMetrics   bool
	// BlockInterval enables /health, expecting a block every interval.
	BlockInterval   time.Duration
}

// New return api router
func New(n *node.Node, logDB *logdb.LogDB, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	game.New(n).
		Mount(router, "/game")
	staking.New(n).
		Mount(router, "/staking")
	prizes.New(n).
		Mount(router, "/prizes")
	events.New(logDB, opts.LogsLimit).
		Mount(router, "/events")
	subs := subscriptions.New(n.Chain(), origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	closers := []func(){subs.Close} // subscriptions handles hijacked conns, which need to be closed
	if opts.BlockInterval > 0 {
		h := health.New(opts.BlockInterval)
		h.Follow(n.Chain())
		health.NewAPI(h).
			Mount(router, "/health")
		closers = append(closers, h.Close)
	}

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP, func() {
		for _, c := range closers {
			c()
		}
	}
}
