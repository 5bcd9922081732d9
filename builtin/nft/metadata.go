// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nft

import (
	"strconv"

	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/xenv"
)

// MetaData is what a renderer needs to draw a token.
type MetaData struct {
	Name string
	Seed cosmic.Bytes32
}

func (n *NFT) MetaData(id uint64) (*MetaData, error) {
	seed, err := n.Seed(id)
	if err != nil {
		return nil, err
	}
	name, err := n.names.Get(solidity.UintKey(id))
	if err != nil {
		return nil, err
	}
	return &MetaData{Name: name, Seed: seed}, nil
}

// NftName returns the name given to a token, empty until named.
func (n *NFT) NftName(id uint64) (string, error) {
	if _, err := n.OwnerOf(id); err != nil {
		return "", err
	}
	return n.names.Get(solidity.UintKey(id))
}

// SetNftName names a token. The caller must be the owner or an approved operator.
// An empty name clears it.
func (n *NFT) SetNftName(env *xenv.Environment, id uint64, name string) error {
	owner, err := n.OwnerOf(id)
	if err != nil {
		return err
	}
	if caller := env.Caller(); caller != owner {
		approved, err := n.IsApprovedForAll(owner, caller)
		if err != nil {
			return err
		}
		if !approved {
			return reverts.New(reverts.CallerIsNotNftOwner, "The caller is neither the NFT owner nor an approved operator.", caller, id)
		}
	}
	if len(name) > cosmic.NftNameLengthMaxLimit {
		return reverts.New(reverts.TooLongNftName, "NFT name is too long.", len(name))
	}
	if err := n.names.Set(solidity.UintKey(id), name); err != nil {
		return err
	}
	env.Log(nftNameChangedEvent, id, name)
	return nil
}

func (n *NFT) BaseUri() (string, error) {
	return n.baseUri.Get()
}

// SetBaseUri sets the prefix of every token URI. Owner only.
func (n *NFT) SetBaseUri(env *xenv.Environment, uri string) error {
	if err := n.ownable.OnlyOwner(env); err != nil {
		return err
	}
	if err := n.baseUri.Set(uri); err != nil {
		return err
	}
	env.Log(nftBaseUriChangedEvent, uri)
	return nil
}

// TokenURI is the base URI followed by the decimal token id.
func (n *NFT) TokenURI(id uint64) (string, error) {
	if _, err := n.OwnerOf(id); err != nil {
		return "", err
	}
	base, err := n.baseUri.Get()
	if err != nil {
		return "", err
	}
	return base + strconv.FormatUint(id, 10), nil
}

// GenerationScriptUri locates the script that renders a token from its seed.
func (n *NFT) GenerationScriptUri() (string, error) {
	return n.scriptUri.Get()
}

func (n *NFT) SetGenerationScriptUri(env *xenv.Environment, uri string) error {
	if err := n.ownable.OnlyOwner(env); err != nil {
		return err
	}
	if err := n.scriptUri.Set(uri); err != nil {
		return err
	}
	env.Log(nftGenerationScriptUriChangedEvent, uri)
	return nil
}
