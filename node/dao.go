// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"math/big"

	"github.com/cosmicsignature/engine/builtin"
	"github.com/cosmicsignature/engine/builtin/dao"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/tx"
	"github.com/cosmicsignature/engine/xenv"
)

func (n *Node) submitDao(origin cosmic.Address, method string, fn func(d *dao.DAO, env *xenv.Environment) error) (*tx.Receipt, error) {
	return n.submit(origin, builtin.Dao.Address, nil, method, func(env *xenv.Environment) error {
		return fn(builtin.Dao.WithState(env.State()), env)
	})
}

// DelegateVotes lets delegatee vote with the CST of holder.
func (n *Node) DelegateVotes(holder, delegatee cosmic.Address) (*tx.Receipt, error) {
	return n.submit(holder, builtin.Token.Address, nil, "delegate", func(env *xenv.Environment) error {
		return builtin.Token.WithState(env.State()).Delegate(env, delegatee)
	})
}

func (n *Node) Propose(proposer cosmic.Address, actions []dao.Action, description string) (id cosmic.Bytes32, receipt *tx.Receipt, err error) {
	receipt, err = n.submitDao(proposer, "propose", func(d *dao.DAO, env *xenv.Environment) (err error) {
		id, err = d.Propose(env, actions, description)
		return
	})
	return
}

// CastVote votes dao.For, dao.Against or dao.Abstain.
func (n *Node) CastVote(voter cosmic.Address, id cosmic.Bytes32, support uint8) (*tx.Receipt, error) {
	return n.submitDao(voter, "castVote", func(d *dao.DAO, env *xenv.Environment) error {
		return d.CastVote(env, id, support)
	})
}

// ExecuteProposal runs a passed proposal. Anyone may call it.
func (n *Node) ExecuteProposal(executor cosmic.Address, actions []dao.Action, description string) (*tx.Receipt, error) {
	return n.submitDao(executor, "execute", func(d *dao.DAO, env *xenv.Environment) error {
		_, err := d.Execute(env, actions, description)
		return err
	})
}

// TransferMarketingWalletOwnership hands the marketing wallet to newOwner, e.g. the DAO.
func (n *Node) TransferMarketingWalletOwnership(owner, newOwner cosmic.Address) (*tx.Receipt, error) {
	return n.submit(owner, builtin.MarketingWallet.Address, nil, "transferOwnership", func(env *xenv.Environment) error {
		return builtin.MarketingWallet.WithState(env.State()).Ownable().TransferOwnership(env, newOwner)
	})
}

func (n *Node) TransferCharityWalletOwnership(owner, newOwner cosmic.Address) (*tx.Receipt, error) {
	return n.submit(owner, builtin.CharityWallet.Address, nil, "transferOwnership", func(env *xenv.Environment) error {
		return builtin.CharityWallet.WithState(env.State()).Ownable().TransferOwnership(env, newOwner)
	})
}

// ProposalState is the stage of a proposal as of the next block.
func (n *Node) ProposalState(id cosmic.Bytes32) (dao.ProposalState, error) {
	return builtin.Dao.WithState(n.BestState()).State(id, n.Now())
}

func (n *Node) Proposal(id cosmic.Bytes32) (*dao.Proposal, error) {
	return builtin.Dao.WithState(n.BestState()).Proposal(id)
}

// Votes returns the current voting power of account.
func (n *Node) Votes(account cosmic.Address) (*big.Int, error) {
	return builtin.Token.WithState(n.BestState()).GetVotes(account)
}
