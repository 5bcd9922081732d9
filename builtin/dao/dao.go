// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package dao implements token-vote governance over the charity and marketing wallets.
//
// CST holders who delegated their votes propose actions, vote on them with their voting power
// as of the start of voting, and anyone executes a proposal that passed. Wallets act on a proposal
// only after their owner handed ownership to the DAO.
package dao

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/cosmicsignature/engine/abi"
	"github.com/cosmicsignature/engine/builtin/charity"
	"github.com/cosmicsignature/engine/builtin/gen"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/builtin/token"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/log"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/xenv"
)

var logger = log.WithContext("pkg", "dao")

var (
	ABI = abi.MustNew(gen.MustAsset("compiled/CosmicSignatureDao.abi"))

	proposalCreatedEvent        = ABI.MustEventByName("ProposalCreated")
	voteCastEvent               = ABI.MustEventByName("VoteCast")
	proposalExecutedEvent       = ABI.MustEventByName("ProposalExecuted")
	votingDelaySetEvent         = ABI.MustEventByName("VotingDelaySet")
	votingPeriodSetEvent        = ABI.MustEventByName("VotingPeriodSet")
	proposalThresholdSetEvent   = ABI.MustEventByName("ProposalThresholdSet")
	quorumNumeratorUpdatedEvent = ABI.MustEventByName("QuorumNumeratorUpdated")
)

var (
	votingDelaySlot       = solidity.Slot("dao.votingDelay")
	votingPeriodSlot      = solidity.Slot("dao.votingPeriod")
	proposalThresholdSlot = solidity.Slot("dao.proposalThreshold")
	quorumNumeratorSlot   = solidity.Slot("dao.quorumNumerator")
	proposalsSlot         = solidity.Slot("dao.proposals")
	receiptsSlot          = solidity.Slot("dao.receipts")
)

// Vote types.
const (
	Against uint8 = iota
	For
	Abstain
)

// ProposalState is the lifecycle stage of a proposal.
type ProposalState uint8

const (
	Pending ProposalState = iota
	Active
	Defeated
	Succeeded
	Executed
)

func (s ProposalState) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Active:
		return "Active"
	case Defeated:
		return "Defeated"
	case Succeeded:
		return "Succeeded"
	case Executed:
		return "Executed"
	}
	return "Unknown"
}

// ActionKind selects what an Action does.
type ActionKind uint8

const (
	SetCharityAddress ActionKind = iota + 1
	TransferCharityWalletOwnership
	TransferMarketingWalletOwnership
	SetVotingDelay
	SetVotingPeriod
	SetProposalThreshold
	UpdateQuorumNumerator
)

// Action is one call made by an executed proposal.
// Wallet actions take Address, governance settings take Value.
type Action struct {
	Kind    ActionKind
	Address cosmic.Address
	Value   *big.Int
}

func (a Action) validate() error {
	switch a.Kind {
	case SetCharityAddress, TransferCharityWalletOwnership, TransferMarketingWalletOwnership:
		if a.Address.IsZero() {
			return reverts.New(reverts.ZeroAddress, "The provided address is zero.")
		}
		return nil
	case SetVotingDelay, SetVotingPeriod, UpdateQuorumNumerator:
		if a.Value == nil || !a.Value.IsUint64() {
			return reverts.New(reverts.InvalidArgument, "The action value is out of range.", a.Kind)
		}
		return nil
	case SetProposalThreshold:
		if a.Value == nil || a.Value.Sign() < 0 {
			return reverts.New(reverts.InvalidArgument, "The action value is out of range.", a.Kind)
		}
		return nil
	}
	return reverts.New(reverts.InvalidArgument, "Unknown proposal action.", a.Kind)
}

// Proposal is the stored record of a proposal.
type Proposal struct {
	Proposer  cosmic.Address
	VoteStart uint64
	VoteEnd   uint64
	Against   *big.Int
	For       *big.Int
	Abstain   *big.Int
	Executed  bool
}

// HashProposal derives the proposal id. Equal actions need distinct descriptions to be proposed twice.
func HashProposal(actions []Action, description string) (cosmic.Bytes32, error) {
	enc, err := rlp.EncodeToBytes(actions)
	if err != nil {
		return cosmic.Bytes32{}, err
	}
	return cosmic.Blake2b(enc, []byte(description)), nil
}

// Deps are the contracts the DAO reads votes from and acts on.
type Deps struct {
	Token           *token.Token
	CharityWallet   *charity.Wallet
	MarketingWallet *charity.MarketingWallet
}

// DAO binds the governor to its address.
type DAO struct {
	addr              cosmic.Address
	deps              Deps
	votingDelay       *solidity.Uint64
	votingPeriod      *solidity.Uint64
	proposalThreshold *solidity.Uint256
	quorumNumerator   *solidity.Uint64
	proposals         *solidity.Mapping[solidity.BytesKey, *Proposal]
	receipts          *solidity.Mapping[solidity.BytesKey, bool]
}

func New(addr cosmic.Address, state *state.State, deps Deps) *DAO {
	ctx := solidity.NewContext(addr, state)
	return &DAO{
		addr:              addr,
		deps:              deps,
		votingDelay:       solidity.NewUint64(ctx, votingDelaySlot),
		votingPeriod:      solidity.NewUint64(ctx, votingPeriodSlot),
		proposalThreshold: solidity.NewUint256(ctx, proposalThresholdSlot),
		quorumNumerator:   solidity.NewUint64(ctx, quorumNumeratorSlot),
		proposals:         solidity.NewMapping[solidity.BytesKey, *Proposal](ctx, proposalsSlot),
		receipts:          solidity.NewMapping[solidity.BytesKey, bool](ctx, receiptsSlot),
	}
}

// Init applies the default governance settings.
func (d *DAO) Init() {
	d.votingDelay.Set(cosmic.DefaultDaoVotingDelay)
	d.votingPeriod.Set(cosmic.DefaultDaoVotingPeriod)
	d.proposalThreshold.Set(cosmic.DefaultDaoProposalThreshold)
	d.quorumNumerator.Set(cosmic.DefaultDaoQuorumPct)
}

func (d *DAO) Address() cosmic.Address { return d.addr }
func (d *DAO) Deps() Deps              { return d.deps }

func (d *DAO) VotingDelay() (uint64, error)         { return d.votingDelay.Get() }
func (d *DAO) VotingPeriod() (uint64, error)        { return d.votingPeriod.Get() }
func (d *DAO) ProposalThreshold() (*big.Int, error) { return d.proposalThreshold.Get() }
func (d *DAO) QuorumNumerator() (uint64, error)     { return d.quorumNumerator.Get() }

// Quorum is the share of the CST supply at ts that must vote for or abstain.
func (d *DAO) Quorum(ts uint64) (*big.Int, error) {
	supply, err := d.deps.Token.GetPastTotalSupply(ts)
	if err != nil {
		return nil, err
	}
	num, err := d.quorumNumerator.Get()
	if err != nil {
		return nil, err
	}
	q := supply.Mul(supply, new(big.Int).SetUint64(num))
	return q.Div(q, new(big.Int).SetUint64(cosmic.DaoQuorumDenominator)), nil
}

// Proposal returns a stored proposal.
func (d *DAO) Proposal(id cosmic.Bytes32) (*Proposal, error) {
	ok, err := d.proposals.Exists(id.Bytes())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.New(reverts.GovernorNonexistentProposal, "", id)
	}
	return d.proposals.Get(id.Bytes())
}

// State returns the stage of a proposal at block time now.
func (d *DAO) State(id cosmic.Bytes32, now uint64) (ProposalState, error) {
	p, err := d.Proposal(id)
	if err != nil {
		return 0, err
	}
	return d.state(p, now)
}

func (d *DAO) state(p *Proposal, now uint64) (ProposalState, error) {
	switch {
	case p.Executed:
		return Executed, nil
	case now <= p.VoteStart:
		return Pending, nil
	case now <= p.VoteEnd:
		return Active, nil
	}
	quorum, err := d.Quorum(p.VoteStart)
	if err != nil {
		return 0, err
	}
	counted := new(big.Int).Add(p.For, p.Abstain)
	if counted.Cmp(quorum) >= 0 && p.For.Cmp(p.Against) > 0 {
		return Succeeded, nil
	}
	return Defeated, nil
}

// HasVoted returns whether voter has voted on the proposal.
func (d *DAO) HasVoted(id cosmic.Bytes32, voter cosmic.Address) (bool, error) {
	return d.receipts.Get(receiptKey(id, voter))
}

// Propose records a proposal of the caller, who needs at least the proposal threshold of votes.
// Voting opens VotingDelay after now and lasts VotingPeriod.
func (d *DAO) Propose(env *xenv.Environment, actions []Action, description string) (cosmic.Bytes32, error) {
	proposer := env.Caller()
	votes, err := d.deps.Token.GetVotes(proposer)
	if err != nil {
		return cosmic.Bytes32{}, err
	}
	threshold, err := d.proposalThreshold.Get()
	if err != nil {
		return cosmic.Bytes32{}, err
	}
	if votes.Cmp(threshold) < 0 {
		return cosmic.Bytes32{}, reverts.New(reverts.GovernorInsufficientProposerVotes, "", proposer, votes, threshold)
	}
	if len(actions) == 0 {
		return cosmic.Bytes32{}, reverts.New(reverts.GovernorInvalidProposalLength, "A proposal needs at least one action.")
	}
	for _, a := range actions {
		if err := a.validate(); err != nil {
			return cosmic.Bytes32{}, err
		}
	}

	id, err := HashProposal(actions, description)
	if err != nil {
		return cosmic.Bytes32{}, err
	}
	if ok, err := d.proposals.Exists(id.Bytes()); err != nil {
		return cosmic.Bytes32{}, err
	} else if ok {
		return cosmic.Bytes32{}, reverts.New(reverts.GovernorUnexpectedProposalState, "The proposal already exists.", id)
	}

	delay, err := d.votingDelay.Get()
	if err != nil {
		return cosmic.Bytes32{}, err
	}
	period, err := d.votingPeriod.Get()
	if err != nil {
		return cosmic.Bytes32{}, err
	}
	p := &Proposal{
		Proposer:  proposer,
		VoteStart: env.Now() + delay,
		Against:   new(big.Int),
		For:       new(big.Int),
		Abstain:   new(big.Int),
	}
	p.VoteEnd = p.VoteStart + period
	if err := d.proposals.Set(id.Bytes(), p); err != nil {
		return cosmic.Bytes32{}, err
	}
	env.Log(proposalCreatedEvent, id, proposer, p.VoteStart, p.VoteEnd, description)
	return id, nil
}

// CastVote votes on an active proposal with the caller's voting power at the start of voting.
// A voter without power may vote, which counts nothing.
func (d *DAO) CastVote(env *xenv.Environment, id cosmic.Bytes32, support uint8) error {
	p, err := d.Proposal(id)
	if err != nil {
		return err
	}
	st, err := d.state(p, env.Now())
	if err != nil {
		return err
	}
	if st != Active {
		return reverts.New(reverts.GovernorUnexpectedProposalState, "", id, st.String())
	}

	voter := env.Caller()
	key := receiptKey(id, voter)
	voted, err := d.receipts.Get(key)
	if err != nil {
		return err
	}
	if voted {
		return reverts.New(reverts.GovernorAlreadyCastVote, "", voter)
	}
	weight, err := d.deps.Token.GetPastVotes(voter, p.VoteStart)
	if err != nil {
		return err
	}
	switch support {
	case Against:
		p.Against.Add(p.Against, weight)
	case For:
		p.For.Add(p.For, weight)
	case Abstain:
		p.Abstain.Add(p.Abstain, weight)
	default:
		return reverts.New(reverts.GovernorInvalidVoteType, "", support)
	}
	if err := d.proposals.Set(id.Bytes(), p); err != nil {
		return err
	}
	if err := d.receipts.Set(key, true); err != nil {
		return err
	}
	env.Log(voteCastEvent, voter, id, support, weight)
	return nil
}

// Execute runs the actions of a proposal that passed. Anyone may call it.
// The proposal is identified by its actions and description.
func (d *DAO) Execute(env *xenv.Environment, actions []Action, description string) (cosmic.Bytes32, error) {
	id, err := HashProposal(actions, description)
	if err != nil {
		return cosmic.Bytes32{}, err
	}
	p, err := d.Proposal(id)
	if err != nil {
		return cosmic.Bytes32{}, err
	}
	st, err := d.state(p, env.Now())
	if err != nil {
		return cosmic.Bytes32{}, err
	}
	if st != Succeeded {
		return cosmic.Bytes32{}, reverts.New(reverts.GovernorUnexpectedProposalState, "", id, st.String())
	}

	p.Executed = true
	if err := d.proposals.Set(id.Bytes(), p); err != nil {
		return cosmic.Bytes32{}, err
	}
	for _, a := range actions {
		if err := d.run(env, a); err != nil {
			return cosmic.Bytes32{}, err
		}
	}
	logger.Info("proposal executed", "id", id, "actions", len(actions))
	env.Log(proposalExecutedEvent, id)
	return id, nil
}

// run makes the call of an action as the DAO.
func (d *DAO) run(env *xenv.Environment, a Action) error {
	switch a.Kind {
	case SetCharityAddress:
		w := d.deps.CharityWallet
		return env.Call(w.Address(), nil, func(env *xenv.Environment) error {
			return w.SetCharityAddress(env, a.Address)
		})
	case TransferCharityWalletOwnership:
		w := d.deps.CharityWallet
		return env.Call(w.Address(), nil, func(env *xenv.Environment) error {
			return w.Ownable().TransferOwnership(env, a.Address)
		})
	case TransferMarketingWalletOwnership:
		m := d.deps.MarketingWallet
		return env.Call(m.Address(), nil, func(env *xenv.Environment) error {
			return m.Ownable().TransferOwnership(env, a.Address)
		})
	}
	return env.Call(d.addr, nil, func(env *xenv.Environment) error {
		switch a.Kind {
		case SetVotingDelay:
			return d.SetVotingDelay(env, a.Value.Uint64())
		case SetVotingPeriod:
			return d.SetVotingPeriod(env, a.Value.Uint64())
		case SetProposalThreshold:
			return d.SetProposalThreshold(env, a.Value)
		case UpdateQuorumNumerator:
			return d.UpdateQuorumNumerator(env, a.Value.Uint64())
		}
		return reverts.New(reverts.InvalidArgument, "Unknown proposal action.", a.Kind)
	})
}

// onlyGovernance admits calls the DAO makes while executing a proposal.
func (d *DAO) onlyGovernance(env *xenv.Environment) error {
	if env.Caller() != d.addr {
		return reverts.New(reverts.GovernorOnlyExecutor, "", env.Caller())
	}
	return nil
}

func (d *DAO) SetVotingDelay(env *xenv.Environment, v uint64) error {
	if err := d.onlyGovernance(env); err != nil {
		return err
	}
	old, err := d.votingDelay.Get()
	if err != nil {
		return err
	}
	d.votingDelay.Set(v)
	env.Log(votingDelaySetEvent, old, v)
	return nil
}

func (d *DAO) SetVotingPeriod(env *xenv.Environment, v uint64) error {
	if err := d.onlyGovernance(env); err != nil {
		return err
	}
	if v == 0 {
		return reverts.New(reverts.InvalidArgument, "The voting period must be positive.")
	}
	old, err := d.votingPeriod.Get()
	if err != nil {
		return err
	}
	d.votingPeriod.Set(v)
	env.Log(votingPeriodSetEvent, old, v)
	return nil
}

func (d *DAO) SetProposalThreshold(env *xenv.Environment, v *big.Int) error {
	if err := d.onlyGovernance(env); err != nil {
		return err
	}
	old, err := d.proposalThreshold.Get()
	if err != nil {
		return err
	}
	d.proposalThreshold.Set(v)
	env.Log(proposalThresholdSetEvent, old, v)
	return nil
}

// UpdateQuorumNumerator sets the quorum in percent of the supply.
func (d *DAO) UpdateQuorumNumerator(env *xenv.Environment, v uint64) error {
	if err := d.onlyGovernance(env); err != nil {
		return err
	}
	if v > cosmic.DaoQuorumDenominator {
		return reverts.New(reverts.GovernorInvalidQuorumFraction, "", v, cosmic.DaoQuorumDenominator)
	}
	old, err := d.quorumNumerator.Get()
	if err != nil {
		return err
	}
	d.quorumNumerator.Set(v)
	env.Log(quorumNumeratorUpdatedEvent, old, v)
	return nil
}

func receiptKey(id cosmic.Bytes32, voter cosmic.Address) solidity.BytesKey {
	return solidity.CompositeKey(solidity.BytesKey(id.Bytes()), solidity.BytesKey(voter.Bytes()))
}
