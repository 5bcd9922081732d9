// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicsignature/engine/builtin/game"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/lvldb"
	"github.com/cosmicsignature/engine/state"
)

func newState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	return state.NewStater(db).NewState(cosmic.Bytes32{})
}

func TestAddresses(t *testing.T) {
	seen := make(map[cosmic.Address]string)
	for _, c := range Contracts() {
		if c == Proxy.contract {
			assert.Equal(t, Game.Address, c.Address)
			continue
		}
		prev, dup := seen[c.Address]
		assert.False(t, dup, "%s shares an address with %s", c.Name(), prev)
		seen[c.Address] = c.Name()
	}
}

func TestGameWiring(t *testing.T) {
	g := Game.WithState(newState(t))
	deps := g.Deps()
	assert.Equal(t, Token.Address, deps.Token.Address())
	assert.Equal(t, Nft.Address, deps.Nft.Address())
	assert.Equal(t, RandomWalkNft.Address, deps.RandomWalkNft.Address())
	assert.Equal(t, Prizes.Address, deps.Prizes.Address())

	cs := deps.StakingCosmicSignatureNft.Config()
	assert.True(t, cs.Rewards)
	assert.Equal(t, Nft.Address, cs.Nft)
	assert.Equal(t, Game.Address, cs.Game)
	rw := deps.StakingRandomWalkNft.Config()
	assert.False(t, rw.Rewards)
	assert.Equal(t, RandomWalkNft.Address, rw.Nft)
}

func TestReceivers(t *testing.T) {
	receivers := Receivers(newState(t))
	assert.NotNil(t, receivers(Game.Address))
	assert.NotNil(t, receivers(CharityWallet.Address))
	assert.Nil(t, receivers(Token.Address))
	assert.Nil(t, receivers(cosmic.BytesToAddress([]byte("alice"))))
}

func TestProxyReleases(t *testing.T) {
	assert.Equal(t, []uint64{game.V1.Version()}, Releases.Versions())

	st := newState(t)
	p := Proxy.WithState(st)
	require.NoError(t, p.Init(cosmic.BytesToAddress([]byte("owner")), game.V1.Number))
	owner, err := Game.WithState(st).Ownable().Owner()
	require.NoError(t, err)
	assert.Equal(t, cosmic.BytesToAddress([]byte("owner")), owner, "game and handle share the owner")

	g, err := Game.InForce(st)
	require.NoError(t, err)
	assert.Equal(t, Game.Address, g.Address())
}

func TestGameInForceUnresolved(t *testing.T) {
	// the handle is not initialized
	_, err := Game.InForce(newState(t))
	assert.True(t, reverts.Is(err, reverts.UnknownImplementation))
}

func TestEventByID(t *testing.T) {
	ev, name, ok := EventByID(Token.Address, Token.ABI.MustEventByName("Transfer").ID())
	require.True(t, ok)
	assert.Equal(t, "Transfer", ev.Name())
	assert.Equal(t, "CosmicSignatureToken", name)

	ev, name, ok = EventByID(Game.Address, Proxy.ABI.MustEventByName("Upgraded").ID())
	require.True(t, ok)
	assert.Equal(t, "Upgraded", ev.Name())
	assert.Equal(t, "CosmicSignatureGameProxy", name)

	_, _, ok = EventByID(cosmic.BytesToAddress([]byte("alice")), Token.ABI.MustEventByName("Transfer").ID())
	assert.False(t, ok)
}

func TestDaoWiring(t *testing.T) {
	d := Dao.WithState(newState(t))
	deps := d.Deps()
	assert.Equal(t, Token.Address, deps.Token.Address())
	assert.Equal(t, CharityWallet.Address, deps.CharityWallet.Address())
	assert.Equal(t, MarketingWallet.Address, deps.MarketingWallet.Address())
}
