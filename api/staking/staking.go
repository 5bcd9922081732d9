// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/api/utils"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/node"
)

type Ledger struct {
	Ledger                   node.Ledger           `json:"ledger"`
	Address                  cosmic.Address        `json:"address"`
	Nft                      cosmic.Address        `json:"nft"`
	NumStakedNfts            uint64                `json:"numStakedNfts"`
	ActionCounter            uint64                `json:"actionCounter"`
	RewardAmountPerStakedNft *math.HexOrDecimal256 `json:"rewardAmountPerStakedNft"`
	Balance                  *math.HexOrDecimal256 `json:"balance"`
}

type StakeAction struct {
	ID            uint64                `json:"id"`
	NftID         uint64                `json:"nftId"`
	Owner         cosmic.Address        `json:"owner"`
	Unstaked      bool                  `json:"unstaked"`
	PendingReward *math.HexOrDecimal256 `json:"pendingReward"`
}

type Staking struct {
	node *node.Node
}

func New(n *node.Node) *Staking {
	return &Staking{n}
}

func parseLedger(req *http.Request) (node.Ledger, error) {
	l, err := node.ParseLedger(mux.Vars(req)["ledger"])
	if err != nil {
		return "", utils.NotFound(err)
	}
	return l, nil
}

func (s *Staking) handleGetLedger(w http.ResponseWriter, req *http.Request) error {
	l, err := parseLedger(req)
	if err != nil {
		return err
	}
	info, err := s.node.StakingInfo(l)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Ledger{
		Ledger:                   l,
		Address:                  info.Address,
		Nft:                      l.NftAddress(),
		NumStakedNfts:            info.NumStakedNfts,
		ActionCounter:            info.ActionCounter,
		RewardAmountPerStakedNft: (*math.HexOrDecimal256)(info.RewardAmountPerStakedNft),
		Balance:                  (*math.HexOrDecimal256)(info.Balance),
	})
}

func (s *Staking) handleGetStakeAction(w http.ResponseWriter, req *http.Request) error {
	l, err := parseLedger(req)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	action, err := s.node.StakeAction(l, id)
	if err != nil {
		if reverts.Is(err, reverts.NftStakeActionInvalidId) {
			return utils.NotFound(err)
		}
		return err
	}
	reward, err := s.node.PendingReward(l, id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &StakeAction{
		ID:            id,
		NftID:         action.NftID,
		Owner:         action.Owner,
		Unstaked:      action.Unstaked,
		PendingReward: (*math.HexOrDecimal256)(reward),
	})
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{ledger}").
		Methods(http.MethodGet).
		Name("GET /staking/{ledger}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetLedger))
	sub.Path("/{ledger}/actions/{id}").
		Methods(http.MethodGet).
		Name("GET /staking/{ledger}/actions/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStakeAction))
}
