// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package game_test

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

	"github.com/cosmicsignature/engine/api/game"
	builtingame "github.com/cosmicsignature/engine/builtin/game"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/node"
	"github.com/cosmicsignature/engine/test/testchain"
)

func initGameServer(t *testing.T) (*testchain.Chain, *httptest.Server) {
	c, err := testchain.NewIntegrationTestChain()
	require.NoError(t, err)

	router := mux.NewRouter()
	game.New(c.Node()).Mount(router, "/game")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		c.Close()
	})
	return c, ts
}

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

func bid(t *testing.T, n *node.Node, bidder cosmic.Address) {
	prices, err := n.Prices(0)
	require.NoError(t, err)
	_, err = n.BidWithEth(bidder, prices.Eth, node.NoRandomWalkNft, "")
	require.NoError(t, err)
}

func TestRound(t *testing.T) {
	c, ts := initGameServer(t)
	alice := c.Accounts()[1].Address

	var round game.Round
	getJSON(t, ts.URL+"/game/round", &round)
	assert.Equal(t, uint64(0), round.Number)
	assert.Equal(t, "active", round.State)
	assert.Equal(t, testchain.DefaultLaunchTime, round.Now)
	assert.Nil(t, round.StellarSpender)

	bid(t, c.Node(), alice)

	getJSON(t, ts.URL+"/game/round", &round)
	assert.Equal(t, uint64(1), round.TotalBids)
	assert.Equal(t, alice, round.LastBidder)
	require.NotNil(t, round.StellarSpender)
	assert.Equal(t, alice, round.StellarSpender.Address)
	assert.Equal(t, 1, (*big.Int)(round.Balance).Sign())
	assert.Positive(t, round.DurationUntilMainPrize)
}

func TestPrices(t *testing.T) {
	c, ts := initGameServer(t)

	var prices game.Prices
	getJSON(t, ts.URL+"/game/prices?offset=10", &prices)
	assert.Equal(t, int64(10), prices.Offset)

	expected, err := c.Node().Prices(10)
	require.NoError(t, err)
	assert.Equal(t, expected.Eth, (*big.Int)(prices.Eth))
	assert.Equal(t, expected.EthWithRandomWalk, (*big.Int)(prices.EthWithRandomWalk))
	assert.Equal(t, expected.Cst, (*big.Int)(prices.Cst))

	_, code := httpGet(t, ts.URL+"/game/prices?offset=abc")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestChampions(t *testing.T) {
	c, ts := initGameServer(t)
	alice := c.Accounts()[1].Address

	var champions game.Champions
	getJSON(t, ts.URL+"/game/champions", &champions)
	assert.True(t, champions.EnduranceChampion.IsZero())

	bid(t, c.Node(), alice)
	c.Advance(100)

	getJSON(t, ts.URL+"/game/champions", &champions)
	assert.Equal(t, alice, champions.EnduranceChampion)
	assert.Equal(t, uint64(100), champions.EnduranceChampionDuration)
}

func TestParams(t *testing.T) {
	_, ts := initGameServer(t)

	var params map[string]json.RawMessage
	getJSON(t, ts.URL+"/game/params", &params)
	assert.Len(t, params, len(builtingame.Params()))
	assert.Contains(t, params, string(builtingame.DelayDurationBeforeRoundActivation))
}

func TestBidders(t *testing.T) {
	c, ts := initGameServer(t)
	accs := c.Accounts()
	alice, bob := accs[1].Address, accs[2].Address

	bid(t, c.Node(), alice)
	bid(t, c.Node(), bob)

	var bidders []cosmic.Address
	getJSON(t, ts.URL+"/game/rounds/0/bidders", &bidders)
	assert.Equal(t, []cosmic.Address{alice, bob}, bidders)

	var info game.Bidder
	getJSON(t, ts.URL+"/game/rounds/0/bidders/"+bob.String(), &info)
	assert.Equal(t, bob, info.Address)
	assert.Equal(t, 1, (*big.Int)(info.TotalSpentEth).Sign())
	assert.Equal(t, testchain.DefaultLaunchTime, info.LastBidTimeStamp)

	_, code := httpGet(t, ts.URL+"/game/rounds/x/bidders")
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = httpGet(t, ts.URL+"/game/rounds/0/bidders/0x12")
	assert.Equal(t, http.StatusBadRequest, code)
}
