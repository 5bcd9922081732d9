// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prizes_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicsignature/engine/api/prizes"
	"github.com/cosmicsignature/engine/builtin"
	"github.com/cosmicsignature/engine/node"
	"github.com/cosmicsignature/engine/test/testchain"
)

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func getJSON(t *testing.T, url string, v any) {
	body, code := httpGet(t, url)
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, v))
}

func TestPrizes(t *testing.T) {
	c, err := testchain.NewIntegrationTestChain()
	require.NoError(t, err)
	defer c.Close()

	router := mux.NewRouter()
	prizes.New(c.Node()).Mount(router, "/prizes")
	ts := httptest.NewServer(router)
	defer ts.Close()

	n := c.Node()
	accs := c.Accounts()
	alice, bob := accs[1].Address, accs[2].Address
	rw := node.RandomWalkNftLedger

	// alice bids and donates a random walk nft
	id, _, err := n.MintRandomWalkNft(alice)
	require.NoError(t, err)
	_, err = n.SetNftApprovalForAll(rw, alice, builtin.Prizes.Address, true)
	require.NoError(t, err)
	prices, err := n.Prices(0)
	require.NoError(t, err)
	_, err = n.BidWithEthAndDonateNft(alice, prices.Eth, node.NoRandomWalkNft, "", rw.NftAddress(), id)
	require.NoError(t, err)

	var donated prizes.DonatedNft
	getJSON(t, ts.URL+"/prizes/donated-nfts/0", &donated)
	assert.Equal(t, uint64(0), donated.Round)
	assert.Equal(t, alice, donated.Donor)
	assert.Equal(t, rw.NftAddress(), donated.Nft)
	assert.Equal(t, id, donated.NftID)
	assert.False(t, donated.Claimed)

	_, code := httpGet(t, ts.URL+"/prizes/donated-nfts/1")
	assert.Equal(t, http.StatusNotFound, code)

	// bob wins the round
	prices, err = n.Prices(0)
	require.NoError(t, err)
	_, err = n.BidWithEth(bob, prices.Eth, node.NoRandomWalkNft, "")
	require.NoError(t, err)
	r, err := n.Round()
	require.NoError(t, err)
	c.Advance(uint64(r.DurationUntilMainPrize))
	_, err = n.ClaimMainPrize(bob)
	require.NoError(t, err)

	var balance prizes.Balance
	getJSON(t, ts.URL+"/prizes/0/"+bob.String(), &balance)
	assert.Equal(t, uint64(0), balance.Round)
	assert.Equal(t, bob, balance.Winner)
	assert.Equal(t, bob, balance.MainPrizeBeneficiary)
	assert.Greater(t, balance.TimeoutTimeToWithdraw, n.Now())
	assert.Equal(t, "anyone-on-behalf", balance.Redistribution)

	var token prizes.DonatedToken
	getJSON(t, ts.URL+"/prizes/0/tokens/"+builtin.Token.Address.String(), &token)
	assert.Equal(t, builtin.Token.Address, token.Token)
	assert.Equal(t, 0, (*big.Int)(token.Amount).Sign())

	_, code = httpGet(t, ts.URL+"/prizes/0/0x1234")
	assert.Equal(t, http.StatusBadRequest, code)
}
