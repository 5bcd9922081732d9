// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prizes

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

type Balance struct {
	Round                 uint64                `json:"round"`
	Winner                cosmic.Address        `json:"winner"`
	Eth                   *math.HexOrDecimal256 `json:"eth"`
	MainPrizeBeneficiary  cosmic.Address        `json:"mainPrizeBeneficiary"`
	TimeoutTimeToWithdraw uint64                `json:"timeoutTimeToWithdraw"`
	Redistribution        string                `json:"redistribution"`
}

type DonatedToken struct {
	Round  uint64                `json:"round"`
	Token  cosmic.Address        `json:"token"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type DonatedNft struct {
	Index   uint64         `json:"index"`
	Round   uint64         `json:"round"`
	Donor   cosmic.Address `json:"donor"`
	Nft     cosmic.Address `json:"nft"`
	NftID   uint64         `json:"nftId"`
	Claimed bool           `json:"claimed"`
}

type Prizes struct {
	node *node.Node
}

func New(n *node.Node) *Prizes {
	return &Prizes{n}
}

func parseUint(req *http.Request, name string) (uint64, error) {
	v, err := strconv.ParseUint(mux.Vars(req)[name], 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

func parseAddress(req *http.Request, name string) (cosmic.Address, error) {
	addr, err := cosmic.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return cosmic.Address{}, utils.BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

func (p *Prizes) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	round, err := parseUint(req, "round")
	if err != nil {
		return err
	}
	winner, err := parseAddress(req, "winner")
	if err != nil {
		return err
	}
	b, err := p.node.PrizeBalance(round, winner)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{
		Round:                 b.Round,
		Winner:                b.Winner,
		Eth:                   (*math.HexOrDecimal256)(b.Eth),
		MainPrizeBeneficiary:  b.MainPrizeBeneficiary,
		TimeoutTimeToWithdraw: b.TimeoutTimeToWithdraw,
		Redistribution:        b.Redistribution.String(),
	})
}

func (p *Prizes) handleGetDonatedToken(w http.ResponseWriter, req *http.Request) error {
	round, err := parseUint(req, "round")
	if err != nil {
		return err
	}
	token, err := parseAddress(req, "token")
	if err != nil {
		return err
	}
	amount, err := p.node.DonatedToken(round, token)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &DonatedToken{
		Round:  round,
		Token:  token,
		Amount: (*math.HexOrDecimal256)(amount),
	})
}

func (p *Prizes) handleGetDonatedNft(w http.ResponseWriter, req *http.Request) error {
	index, err := parseUint(req, "index")
	if err != nil {
		return err
	}
	d, err := p.node.DonatedNft(index)
	if err != nil {
		if reverts.Is(err, reverts.InvalidDonatedNftIndex) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, &DonatedNft{
		Index:   index,
		Round:   d.Round,
		Donor:   d.Donor,
		Nft:     d.Nft,
		NftID:   d.NftID,
		Claimed: d.Claimed,
	})
}

func (p *Prizes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/donated-nfts/{index}").
		Methods(http.MethodGet).
		Name("GET /prizes/donated-nfts/{index}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetDonatedNft))
	sub.Path("/{round:[0-9]+}/tokens/{token}").
		Methods(http.MethodGet).
		Name("GET /prizes/{round}/tokens/{token}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetDonatedToken))
	sub.Path("/{round:[0-9]+}/{winner}").
		Methods(http.MethodGet).
		Name("GET /prizes/{round}/{winner}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetBalance))
}
