// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package game

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/api/utils"
	"github.com/cosmicsignature/engine/builtin/game"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/node"
)

type Game struct {
	node *node.Node
}

func New(n *node.Node) *Game {
	return &Game{n}
}

func (g *Game) handleGetRound(w http.ResponseWriter, _ *http.Request) error {
	r, err := g.node.Round()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertRound(r))
}

func (g *Game) handleGetPrices(w http.ResponseWriter, req *http.Request) error {
	var offset int64
	if s := req.URL.Query().Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "offset"))
		}
		offset = v
	}
	p, err := g.node.Prices(offset)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Prices{
		Now:               p.Now,
		Offset:            p.Offset,
		Eth:               hexOrDecimal(p.Eth),
		EthWithRandomWalk: hexOrDecimal(p.EthWithRandomWalk),
		Cst:               hexOrDecimal(p.Cst),
	})
}

func (g *Game) handleGetChampions(w http.ResponseWriter, _ *http.Request) error {
	c, err := g.node.Champions()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertChampions(c))
}

func (g *Game) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	params := make(map[game.Param]*math.HexOrDecimal256, len(game.Params()))
	for _, p := range game.Params() {
		v, err := g.node.Param(p)
		if err != nil {
			return err
		}
		params[p] = hexOrDecimal(v)
	}
	return utils.WriteJSON(w, params)
}

func parseRound(req *http.Request) (uint64, error) {
	round, err := strconv.ParseUint(mux.Vars(req)["round"], 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "round"))
	}
	return round, nil
}

func (g *Game) handleGetBidders(w http.ResponseWriter, req *http.Request) error {
	round, err := parseRound(req)
	if err != nil {
		return err
	}
	bidders, err := g.node.Bidders(round)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, bidders)
}

func (g *Game) handleGetBidder(w http.ResponseWriter, req *http.Request) error {
	round, err := parseRound(req)
	if err != nil {
		return err
	}
	addr, err := cosmic.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	info, err := g.node.BidderInfo(round, *addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Bidder{
		Address:          *addr,
		TotalSpentEth:    hexOrDecimal(info.TotalSpentEth),
		TotalSpentCst:    hexOrDecimal(info.TotalSpentCst),
		LastBidTimeStamp: info.LastBidTimeStamp,
	})
}

func (g *Game) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/round").
		Methods(http.MethodGet).
		Name("GET /game/round").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetRound))
	sub.Path("/prices").
		Methods(http.MethodGet).
		Name("GET /game/prices").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetPrices))
	sub.Path("/champions").
		Methods(http.MethodGet).
		Name("GET /game/champions").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetChampions))
	sub.Path("/params").
		Methods(http.MethodGet).
		Name("GET /game/params").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetParams))
	sub.Path("/rounds/{round}/bidders").
		Methods(http.MethodGet).
		Name("GET /game/rounds/{round}/bidders").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetBidders))
	sub.Path("/rounds/{round}/bidders/{address}").
		Methods(http.MethodGet).
		Name("GET /game/rounds/{round}/bidders/{address}").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetBidder))
}
