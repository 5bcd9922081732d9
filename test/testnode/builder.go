// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testnode

import (
	"fmt"

	"github.com/cosmicsignature/engine/api"
	"github.com/cosmicsignature/engine/test/testchain"
)

// DefaultOptions are the api options of a test node.
var DefaultOptions = api.Options{
	AllowedOrigins: "*",
	BacktraceLimit: 100,
	LogsLimit:      100,
}

// NodeBuilder implements the builder pattern for creating a test node instance
type NodeBuilder struct {
	chain   *testchain.Chain
	options api.Options
}

// NewNodeBuilder creates a new NodeBuilder with default configuration
func NewNodeBuilder() *NodeBuilder {
	return &NodeBuilder{options: DefaultOptions}
}

// WithChain sets the chain for the node.
// If not set, a default chain will be created during Build().
func (b *NodeBuilder) WithChain(chain *testchain.Chain) *NodeBuilder {
	if chain == nil {
		panic("chain cannot be nil")
	}
	b.chain = chain
	return b
}

// WithOptions overrides the api options.
func (b *NodeBuilder) WithOptions(opts api.Options) *NodeBuilder {
	b.options = opts
	return b
}

// Build creates a new Node with the current configuration.
func (b *NodeBuilder) Build() (Node, error) {
	var err error
	chain := b.chain
	if chain == nil {
		chain, err = testchain.NewIntegrationTestChain()
		if err != nil {
			return nil, fmt.Errorf("failed to create default chain: %w", err)
		}
	}

	return &testNode{
		chain:   chain,
		options: b.options,
	}, nil
}

// NewDefaultNode creates a new node with default configuration
func NewDefaultNode() (Node, error) {
	return NewNodeBuilder().Build()
}
