// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/cosmicsignature/engine/cosmic"
)

// DevAccount account for development.
type DevAccount struct {
	Address    cosmic.Address
	PrivateKey *ecdsa.PrivateKey
}

const numDevAccounts = 10

var devAccounts = sync.OnceValue(func() []DevAccount {
	accs := make([]DevAccount, 0, numDevAccounts)
	for i := range numDevAccounts {
		accs = append(accs, mustDevAccount(fmt.Sprintf("cosmic-dev-%d", i)))
	}
	return accs
})

// DevAccounts returns pre-alloced accounts for solo mode. The first one owns the builtin contracts.
func DevAccounts() []DevAccount {
	return devAccounts()
}

// DevProducer returns the key sealing blocks in solo mode.
var DevProducer = sync.OnceValue(func() *ecdsa.PrivateKey {
	return mustDevAccount("cosmic-dev-producer").PrivateKey
})

func mustDevAccount(seed string) DevAccount {
	pk, err := crypto.ToECDSA(cosmic.Keccak256([]byte(seed)).Bytes())
	if err != nil {
		panic(err)
	}
	return DevAccount{cosmic.Address(crypto.PubkeyToAddress(pk.PublicKey)), pk}
}

// DevConfig returns the genesis document of solo mode. Each dev account starts with 1M ether.
func DevConfig(launchTime uint64) *Config {
	accs := DevAccounts()
	balance := new(big.Int).Mul(big.NewInt(1_000_000), cosmic.Ether)

	cfg := &Config{
		LaunchTime:           launchTime,
		Owner:                accs[0].Address,
		Charity:              cosmic.BytesToAddress([]byte("cosmic-dev-charity")),
		RoundActivationDelay: 0,
	}
	for _, acc := range accs {
		cfg.Accounts = append(cfg.Accounts, Account{acc.Address, Amount{balance}})
	}
	return cfg
}

// NewDevnet create genesis for solo mode.
func NewDevnet(launchTime uint64) *Genesis {
	gen, err := New(DevConfig(launchTime))
	if err != nil {
		panic(err)
	}
	return gen
}
