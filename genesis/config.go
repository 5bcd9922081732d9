// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cosmicsignature/engine/builtin/game"
	"github.com/cosmicsignature/engine/cosmic"
)

// Config is the YAML genesis document.
//
//	launchTime: 1700000000
//	owner: "0x..."
//	charity: "0x..."
//	roundActivationDelay: 60
//	accounts:
//	  - address: "0x..."
//	    balance: "1000000000000000000000"
//	params:
//	  TimeoutDurationToClaimMainPrize: "3600"
type Config struct {
	LaunchTime uint64         `yaml:"launchTime"`
	Owner      cosmic.Address `yaml:"owner"`
	// final recipient of the charity wallet
	Charity              cosmic.Address    `yaml:"charity"`
	RoundActivationDelay uint64            `yaml:"roundActivationDelay"`
	Accounts             []Account         `yaml:"accounts"`
	Params               map[string]Amount `yaml:"params"`
}

// Account is a funded account.
type Account struct {
	Address cosmic.Address `yaml:"address"`
	Balance Amount         `yaml:"balance"`
}

// Amount is a non-negative integer written in decimal or 0x-prefixed hex.
type Amount struct {
	*big.Int
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, ok := new(big.Int).SetString(s, 0)
	if !ok || v.Sign() < 0 {
		return errors.Errorf("invalid amount %q at line %d", s, node.Line)
	}
	a.Int = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Amount) MarshalYAML() (any, error) {
	if a.Int == nil {
		return "0", nil
	}
	return a.String(), nil
}

// LoadConfig reads and validates a genesis document.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis config")
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the document.
func (c *Config) Validate() error {
	if c.LaunchTime == 0 {
		return errors.New("launchTime required")
	}
	if c.Owner.IsZero() {
		return errors.New("owner required")
	}
	if c.Charity.IsZero() {
		return errors.New("charity required")
	}
	for name, v := range c.Params {
		if _, err := game.DefaultParam(game.Param(name)); err != nil {
			return err
		}
		if v.Int == nil {
			return errors.Errorf("missing value of game parameter %q", name)
		}
	}
	for i, acc := range c.Accounts {
		if acc.Balance.Int == nil {
			return errors.Errorf("missing balance of account #%d", i)
		}
	}
	return nil
}
