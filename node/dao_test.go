// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicsignature/engine/builtin"
	"github.com/cosmicsignature/engine/builtin/dao"
	"github.com/cosmicsignature/engine/builtin/game"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/node"
)

func TestDaoChangesMarketingWalletOwner(t *testing.T) {
	c := newChain(t)
	n := c.Node()
	accs := c.Accounts()
	alice, bob, carol := accs[1].Address, accs[2].Address, accs[3].Address

	// bidding earns the CST that gives the right to propose and the power to vote
	for _, a := range []cosmic.Address{alice, bob} {
		_, err := n.DelegateVotes(a, a)
		require.NoError(t, err)
		bid(t, n, a)
	}
	reward, err := n.Param(game.CstRewardAmountForBidding)
	require.NoError(t, err)
	votes, err := n.Votes(alice)
	require.NoError(t, err)
	assert.Equal(t, reward, votes)

	_, err = n.TransferMarketingWalletOwnership(c.Owner(), builtin.Dao.Address)
	require.NoError(t, err)

	actions := []dao.Action{{Kind: dao.TransferMarketingWalletOwnership, Address: carol}}
	const description = "change MarketingWallet owner"
	_, _, err = n.Propose(carol, actions, description)
	assert.True(t, reverts.Is(err, reverts.GovernorInsufficientProposerVotes))

	id, receipt, err := n.Propose(alice, actions, description)
	require.NoError(t, err)
	require.Len(t, receipt.Events, 1)
	state, err := n.ProposalState(id)
	require.NoError(t, err)
	assert.Equal(t, dao.Pending, state)

	c.Advance(cosmic.DefaultDaoVotingDelay + 1)
	_, err = n.CastVote(bob, id, dao.For)
	require.NoError(t, err)
	p, err := n.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, reward, p.For)

	c.Advance(cosmic.DefaultDaoVotingPeriod)
	state, err = n.ProposalState(id)
	require.NoError(t, err)
	assert.Equal(t, dao.Succeeded, state)

	_, err = n.ExecuteProposal(carol, actions, description)
	require.NoError(t, err)
	owner, err := builtin.MarketingWallet.WithState(n.BestState()).Ownable().Owner()
	require.NoError(t, err)
	assert.Equal(t, carol, owner)
	state, err = n.ProposalState(id)
	require.NoError(t, err)
	assert.Equal(t, dao.Executed, state)
}

func TestNftMetaData(t *testing.T) {
	c := newChain(t)
	n := c.Node()
	accs := c.Accounts()
	alice, bob := accs[1].Address, accs[2].Address

	id, _, err := n.MintRandomWalkNft(alice)
	require.NoError(t, err)

	_, err = n.SetNftName(node.RandomWalkNftLedger, bob, id, "mine")
	assert.True(t, reverts.Is(err, reverts.CallerIsNotNftOwner))
	_, err = n.SetNftName(node.RandomWalkNftLedger, alice, id, "Sunrise")
	require.NoError(t, err)

	md, err := n.NftMetaData(node.RandomWalkNftLedger, id)
	require.NoError(t, err)
	assert.Equal(t, "Sunrise", md.Name)

	_, err = n.SetNftBaseUri(node.RandomWalkNftLedger, alice, "https://rw.example/")
	assert.True(t, reverts.Is(err, reverts.OwnableUnauthorizedAccount))
	_, err = n.SetNftBaseUri(node.RandomWalkNftLedger, c.Owner(), "https://rw.example/")
	require.NoError(t, err)
	_, err = n.SetNftGenerationScriptUri(node.RandomWalkNftLedger, c.Owner(), "ipfs://rw-script")
	require.NoError(t, err)

	uri, err := n.NftTokenURI(node.RandomWalkNftLedger, id)
	require.NoError(t, err)
	assert.Equal(t, "https://rw.example/"+strconv.FormatUint(id, 10), uri)
}
