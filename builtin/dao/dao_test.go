// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dao

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicsignature/engine/builtin/charity"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/token"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/lvldb"
	"github.com/cosmicsignature/engine/runtime"
	"github.com/cosmicsignature/engine/state"
	Tx "github.com/cosmicsignature/engine/tx"
	"github.com/cosmicsignature/engine/xenv"
)

var (
	daoAddr       = cosmic.BytesToAddress([]byte("dao"))
	tokenAddr     = cosmic.BytesToAddress([]byte("token"))
	walletAddr    = cosmic.BytesToAddress([]byte("charity-wallet"))
	marketingAddr = cosmic.BytesToAddress([]byte("marketing-wallet"))
	owner         = cosmic.BytesToAddress([]byte("owner"))
	alice         = cosmic.BytesToAddress([]byte("alice"))
	bob           = cosmic.BytesToAddress([]byte("bob"))
	carol         = cosmic.BytesToAddress([]byte("carol"))
	dave          = cosmic.BytesToAddress([]byte("dave"))
	newCharity    = cosmic.BytesToAddress([]byte("new-charity"))
)

const start uint64 = 1000

func cst(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), cosmic.Ether)
}

type testDao struct {
	st  *state.State
	tok *token.Token
	w   *charity.Wallet
	m   *charity.MarketingWallet
	d   *DAO
}

// newTestDao gives alice 200, bob 100 and carol 150 CST, each voting for themselves.
// dave holds nothing.
func newTestDao(t *testing.T) *testDao {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.NewStater(db).NewState(cosmic.Bytes32{})

	td := &testDao{
		st:  st,
		tok: token.New(tokenAddr, st),
		w:   charity.NewWallet(walletAddr, st),
		m:   charity.NewMarketingWallet(marketingAddr, st, tokenAddr),
	}
	td.w.Ownable().Init(owner)
	td.m.Ownable().Init(owner)
	td.d = New(daoAddr, st, Deps{Token: td.tok, CharityWallet: td.w, MarketingWallet: td.m})
	td.d.Init()

	for _, h := range []struct {
		holder cosmic.Address
		amount int64
	}{{alice, 200}, {bob, 100}, {carol, 150}} {
		td.mustCall(t, start-10, h.holder, tokenAddr, func(env *xenv.Environment) error {
			return td.tok.Mint(env, h.holder, cst(h.amount))
		})
		td.mustCall(t, start-10, h.holder, tokenAddr, func(env *xenv.Environment) error {
			return td.tok.Delegate(env, h.holder)
		})
	}
	return td
}

func (td *testDao) call(t *testing.T, now uint64, origin, to cosmic.Address, fn func(env *xenv.Environment) error) (*Tx.Receipt, error) {
	rt := runtime.New(td.st, &xenv.BlockContext{Time: now}, nil)
	receipt, err := rt.Execute(origin, to, nil, fn)
	require.NoError(t, err)
	return receipt, receipt.Err
}

func (td *testDao) mustCall(t *testing.T, now uint64, origin, to cosmic.Address, fn func(env *xenv.Environment) error) *Tx.Receipt {
	receipt, err := td.call(t, now, origin, to, fn)
	require.NoError(t, err)
	return receipt
}

func (td *testDao) propose(t *testing.T, now uint64, proposer cosmic.Address, actions []Action, description string) (cosmic.Bytes32, error) {
	var id cosmic.Bytes32
	_, err := td.call(t, now, proposer, daoAddr, func(env *xenv.Environment) (err error) {
		id, err = td.d.Propose(env, actions, description)
		return err
	})
	return id, err
}

func (td *testDao) vote(t *testing.T, now uint64, voter cosmic.Address, id cosmic.Bytes32, support uint8) error {
	_, err := td.call(t, now, voter, daoAddr, func(env *xenv.Environment) error {
		return td.d.CastVote(env, id, support)
	})
	return err
}

func (td *testDao) execute(t *testing.T, now uint64, executor cosmic.Address, actions []Action, description string) (*Tx.Receipt, error) {
	return td.call(t, now, executor, daoAddr, func(env *xenv.Environment) error {
		_, err := td.d.Execute(env, actions, description)
		return err
	})
}

func (td *testDao) state(t *testing.T, id cosmic.Bytes32, now uint64) ProposalState {
	s, err := td.d.State(id, now)
	require.NoError(t, err)
	return s
}

// pass proposes at now and votes it through with alice, returning the first time it may run.
func (td *testDao) pass(t *testing.T, now uint64, actions []Action, description string) uint64 {
	id, err := td.propose(t, now, alice, actions, description)
	require.NoError(t, err)
	p, err := td.d.Proposal(id)
	require.NoError(t, err)
	require.NoError(t, td.vote(t, p.VoteStart+1, alice, id, For))
	return p.VoteEnd + 1
}

func TestDefaults(t *testing.T) {
	td := newTestDao(t)
	delay, _ := td.d.VotingDelay()
	period, _ := td.d.VotingPeriod()
	threshold, _ := td.d.ProposalThreshold()
	num, _ := td.d.QuorumNumerator()
	assert.Equal(t, uint64(24*60*60), delay)
	assert.Equal(t, uint64(2*7*24*60*60), period)
	assert.Equal(t, cst(100), threshold)
	assert.Equal(t, uint64(2), num)

	quorum, err := td.d.Quorum(start)
	require.NoError(t, err)
	assert.Equal(t, cst(9), quorum, "2% of 450 CST")
	quorum, err = td.d.Quorum(start - 11)
	require.NoError(t, err)
	assert.Equal(t, 0, quorum.Sign())
}

func TestProposalChangesCharityAddress(t *testing.T) {
	td := newTestDao(t)
	actions := []Action{{Kind: SetCharityAddress, Address: newCharity}}
	const description = "Change Charity Address"

	_, err := td.propose(t, start, dave, actions, description)
	assert.True(t, reverts.Is(err, reverts.GovernorInsufficientProposerVotes))
	_, err = td.propose(t, start, alice, nil, description)
	assert.True(t, reverts.Is(err, reverts.GovernorInvalidProposalLength))

	id, err := td.propose(t, start, alice, actions, description)
	require.NoError(t, err)
	_, err = td.propose(t, start, bob, actions, description)
	assert.True(t, reverts.Is(err, reverts.GovernorUnexpectedProposalState), "same actions and description")

	p, err := td.d.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, alice, p.Proposer)
	assert.Equal(t, start+cosmic.DefaultDaoVotingDelay, p.VoteStart)
	assert.Equal(t, p.VoteStart+cosmic.DefaultDaoVotingPeriod, p.VoteEnd)
	assert.Equal(t, Pending, td.state(t, id, start))

	// too early
	err = td.vote(t, p.VoteStart, alice, id, For)
	assert.True(t, reverts.Is(err, reverts.GovernorUnexpectedProposalState))

	// power gained after voting opened does not count
	td.mustCall(t, p.VoteStart+1, bob, tokenAddr, func(env *xenv.Environment) error {
		return td.tok.Mint(env, bob, cst(1000))
	})

	voting := p.VoteStart + 1
	assert.Equal(t, Active, td.state(t, id, voting))
	require.NoError(t, td.vote(t, voting, dave, id, For))
	require.NoError(t, td.vote(t, voting, alice, id, For))
	require.NoError(t, td.vote(t, voting, bob, id, Against))
	err = td.vote(t, voting, carol, id, 3)
	assert.True(t, reverts.Is(err, reverts.GovernorInvalidVoteType))
	require.NoError(t, td.vote(t, voting, carol, id, Abstain))
	err = td.vote(t, voting, alice, id, Against)
	assert.True(t, reverts.Is(err, reverts.GovernorAlreadyCastVote))

	p, err = td.d.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, cst(200), p.For)
	assert.Equal(t, cst(100), p.Against)
	assert.Equal(t, cst(150), p.Abstain)
	voted, err := td.d.HasVoted(id, dave)
	require.NoError(t, err)
	assert.True(t, voted)

	_, err = td.execute(t, p.VoteEnd, dave, actions, description)
	assert.True(t, reverts.Is(err, reverts.GovernorUnexpectedProposalState), "voting still open")

	after := p.VoteEnd + 1
	assert.Equal(t, Succeeded, td.state(t, id, after))

	// the wallet obeys its owner only
	_, err = td.execute(t, after, dave, actions, description)
	assert.True(t, reverts.Is(err, reverts.OwnableUnauthorizedAccount))
	assert.Equal(t, Succeeded, td.state(t, id, after), "a failed execution is rolled back")

	td.mustCall(t, after, owner, walletAddr, func(env *xenv.Environment) error {
		return td.w.Ownable().TransferOwnership(env, daoAddr)
	})
	receipt, err := td.execute(t, after, dave, actions, description)
	require.NoError(t, err)
	require.Len(t, receipt.Events, 2)
	assert.Equal(t, walletAddr, receipt.Events[0].Address)
	assert.Equal(t, daoAddr, receipt.Events[1].Address)
	assert.Equal(t, proposalExecutedEvent.ID(), receipt.Events[1].Topics[0])

	got, err := td.w.CharityAddress()
	require.NoError(t, err)
	assert.Equal(t, newCharity, got)
	assert.Equal(t, Executed, td.state(t, id, after))

	_, err = td.execute(t, after, dave, actions, description)
	assert.True(t, reverts.Is(err, reverts.GovernorUnexpectedProposalState))
}

func TestDefeatedProposals(t *testing.T) {
	td := newTestDao(t)
	td.mustCall(t, start, owner, marketingAddr, func(env *xenv.Environment) error {
		return td.m.Ownable().TransferOwnership(env, daoAddr)
	})
	actions := []Action{{Kind: TransferMarketingWalletOwnership, Address: dave}}

	outvoted, err := td.propose(t, start, alice, actions, "outvoted")
	require.NoError(t, err)
	ignored, err := td.propose(t, start, alice, actions, "ignored")
	require.NoError(t, err)
	p, err := td.d.Proposal(outvoted)
	require.NoError(t, err)

	voting := p.VoteStart + 1
	require.NoError(t, td.vote(t, voting, alice, outvoted, For))
	require.NoError(t, td.vote(t, voting, bob, outvoted, Against))
	require.NoError(t, td.vote(t, voting, carol, outvoted, Against))
	// a voter without power does not make the quorum
	require.NoError(t, td.vote(t, voting, dave, ignored, For))

	after := p.VoteEnd + 1
	assert.Equal(t, Defeated, td.state(t, outvoted, after))
	assert.Equal(t, Defeated, td.state(t, ignored, after))
	_, err = td.execute(t, after, alice, actions, "outvoted")
	assert.True(t, reverts.Is(err, reverts.GovernorUnexpectedProposalState))

	_, err = td.d.State(cosmic.Bytes32{1}, after)
	assert.True(t, reverts.Is(err, reverts.GovernorNonexistentProposal))

	mOwner, err := td.m.Ownable().Owner()
	require.NoError(t, err)
	assert.Equal(t, daoAddr, mOwner)
}

func TestGovernanceSettings(t *testing.T) {
	td := newTestDao(t)

	_, err := td.call(t, start, owner, daoAddr, func(env *xenv.Environment) error {
		return td.d.SetVotingDelay(env, 1)
	})
	assert.True(t, reverts.Is(err, reverts.GovernorOnlyExecutor))

	for _, bad := range [][]Action{
		{{Kind: SetVotingDelay}},
		{{Kind: SetProposalThreshold, Value: big.NewInt(-1)}},
		{{Kind: SetCharityAddress}},
		{{Kind: 99, Value: big.NewInt(1)}},
	} {
		_, err := td.propose(t, start, alice, bad, "bad")
		assert.True(t, reverts.IsRevertErr(err), "%v", bad)
	}

	actions := []Action{
		{Kind: SetVotingDelay, Value: big.NewInt(3600)},
		{Kind: SetVotingPeriod, Value: big.NewInt(7200)},
		{Kind: SetProposalThreshold, Value: cst(50)},
		{Kind: UpdateQuorumNumerator, Value: big.NewInt(5)},
	}
	after := td.pass(t, start, actions, "retune")
	receipt, err := td.execute(t, after, bob, actions, "retune")
	require.NoError(t, err)
	assert.Len(t, receipt.Events, 5)

	delay, _ := td.d.VotingDelay()
	period, _ := td.d.VotingPeriod()
	threshold, _ := td.d.ProposalThreshold()
	num, _ := td.d.QuorumNumerator()
	assert.Equal(t, uint64(3600), delay)
	assert.Equal(t, uint64(7200), period)
	assert.Equal(t, cst(50), threshold)
	assert.Equal(t, uint64(5), num)

	// new proposals follow the new settings
	id, err := td.propose(t, after, alice, []Action{{Kind: UpdateQuorumNumerator, Value: big.NewInt(101)}}, "too much")
	require.NoError(t, err)
	p, err := td.d.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, after+3600, p.VoteStart)
	assert.Equal(t, after+3600+7200, p.VoteEnd)

	require.NoError(t, td.vote(t, p.VoteStart+1, alice, id, For))
	_, err = td.execute(t, p.VoteEnd+1, bob, []Action{{Kind: UpdateQuorumNumerator, Value: big.NewInt(101)}}, "too much")
	assert.True(t, reverts.Is(err, reverts.GovernorInvalidQuorumFraction))
	num, _ = td.d.QuorumNumerator()
	assert.Equal(t, uint64(5), num)
}
