// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicsignature/engine/api/staking"
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

func TestStaking(t *testing.T) {
	c, err := testchain.NewIntegrationTestChain()
	require.NoError(t, err)
	defer c.Close()

	router := mux.NewRouter()
	staking.New(c.Node()).Mount(router, "/staking")
	ts := httptest.NewServer(router)
	defer ts.Close()

	n := c.Node()
	alice := c.Accounts()[1].Address
	rw := node.RandomWalkNftLedger

	id, _, err := n.MintRandomWalkNft(alice)
	require.NoError(t, err)
	_, err = n.SetNftApprovalForAll(rw, alice, rw.Address(), true)
	require.NoError(t, err)
	actions, _, err := n.Stake(rw, alice, id)
	require.NoError(t, err)
	require.Len(t, actions, 1)

	body, code := httpGet(t, ts.URL+"/staking/rw")
	require.Equal(t, http.StatusOK, code, string(body))
	var ledger staking.Ledger
	require.NoError(t, json.Unmarshal(body, &ledger))
	assert.Equal(t, rw, ledger.Ledger)
	assert.Equal(t, builtin.StakingRandomWalkNft.Address, ledger.Address)
	assert.Equal(t, builtin.RandomWalkNft.Address, ledger.Nft)
	assert.Equal(t, uint64(1), ledger.NumStakedNfts)

	body, code = httpGet(t, ts.URL+"/staking/cs")
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, &ledger))
	assert.Equal(t, uint64(0), ledger.NumStakedNfts)
	assert.Equal(t, 0, (*big.Int)(ledger.Balance).Sign())

	body, code = httpGet(t, ts.URL+"/staking/rw/actions/"+strconv.FormatUint(actions[0], 10))
	require.Equal(t, http.StatusOK, code, string(body))
	var action staking.StakeAction
	require.NoError(t, json.Unmarshal(body, &action))
	assert.Equal(t, id, action.NftID)
	assert.Equal(t, alice, action.Owner)
	assert.False(t, action.Unstaked)
	assert.Equal(t, 0, (*big.Int)(action.PendingReward).Sign())

	_, code = httpGet(t, ts.URL+"/staking/rw/actions/999")
	assert.Equal(t, http.StatusNotFound, code)
	_, code = httpGet(t, ts.URL+"/staking/rw/actions/x")
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = httpGet(t, ts.URL+"/staking/xx")
	assert.Equal(t, http.StatusNotFound, code)
}
