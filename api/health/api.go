// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/api/utils"
)

type API struct {
	health *Health
}

func NewAPI(health *Health) *API {
	return &API{health: health}
}

func (h *API) handleGetHealth(w http.ResponseWriter, req *http.Request) error {
	var maxTimeBetweenBlocks time.Duration
	if s := req.URL.Query().Get("maxTimeBetweenBlocks"); s != "" {
		parsed, err := time.ParseDuration(s)
		if err != nil || parsed <= 0 {
			return utils.BadRequest(errors.New("maxTimeBetweenBlocks: invalid duration"))
		}
		maxTimeBetweenBlocks = parsed
	}

	status := h.health.Status(maxTimeBetweenBlocks)
	if !status.Healthy {
		return utils.WriteJSONWithStatus(w, http.StatusServiceUnavailable, status)
	}
	return utils.WriteJSON(w, status)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /health").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHealth))
}
