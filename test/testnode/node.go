// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testnode

import (
	"errors"
	"net/http/httptest"

	"github.com/cosmicsignature/engine/api"
	"github.com/cosmicsignature/engine/test/testchain"
)

// Node represents a test chain served by the complete api router.
type Node interface {
	// Chain returns the underlying chain
	Chain() *testchain.Chain

	// Start starts the api server
	Start() error

	// Stop stops the api server
	Stop() error

	// APIServer returns the node api server
	APIServer() *httptest.Server
}

type testNode struct {
	chain           *testchain.Chain
	options         api.Options
	apiServer       *httptest.Server
	apiServerCloser func()
}

// Start serves the api of the chain. Returns an error if the node is already running.
func (n *testNode) Start() error {
	if n.chain == nil {
		return errors.New("chain is not initialized")
	}
	if n.apiServer != nil {
		return errors.New("node is already running")
	}

	apiHandler, apiCloser := api.New(n.chain.Node(), n.chain.LogDB(), n.options)
	n.apiServer = httptest.NewServer(apiHandler)
	n.apiServerCloser = apiCloser
	return nil
}

// Stop shuts down the api server. Returns an error if the node is not running.
func (n *testNode) Stop() error {
	if n.apiServer == nil {
		return errors.New("node is not running")
	}

	if n.apiServerCloser != nil {
		n.apiServerCloser()
		n.apiServerCloser = nil
	}
	n.apiServer.Close()
	n.apiServer = nil
	return nil
}

func (n *testNode) Chain() *testchain.Chain {
	return n.chain
}

// APIServer returns the node api server
func (n *testNode) APIServer() *httptest.Server {
	return n.apiServer
}
