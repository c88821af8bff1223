// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes how a distributor is instantiated.
package genesis

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/distributor/contract"
	"github.com/vechain/distributor/dist"
	"github.com/vechain/distributor/schedule"
)

// Entry is an emission range as written in the genesis file.
type Entry struct {
	Start  uint64 `yaml:"start"`
	End    uint64 `yaml:"end"`
	Amount string `yaml:"amount"`
}

// Config is the genesis file content.
type Config struct {
	Name         string       `yaml:"name"`
	RewardToken  dist.Address `yaml:"reward_token"`
	StakingToken dist.Address `yaml:"staking_token"`
	Owner        dist.Address `yaml:"owner"`
	Height       uint64       `yaml:"height"`
	Schedule     []Entry      `yaml:"schedule"`
}

// Genesis is a validated genesis.
type Genesis struct {
	name   string
	config Config
	set    *schedule.Set
	id     [32]byte
}

// New validates config and computes the genesis id.
func New(config *Config) (*Genesis, error) {
	if config.RewardToken.IsZero() {
		return nil, errors.New("reward_token must be set")
	}
	if config.StakingToken.IsZero() {
		return nil, errors.New("staking_token must be set")
	}
	if config.Owner.IsZero() {
		return nil, errors.New("owner must be set")
	}

	entries := make([]schedule.Entry, 0, len(config.Schedule))
	for i, e := range config.Schedule {
		amount, err := uint256.FromDecimal(e.Amount)
		if err != nil {
			return nil, errors.Wrapf(err, "schedule[%d].amount", i)
		}
		entries = append(entries, schedule.NewEntry(e.Start, e.End, amount))
	}
	set, err := schedule.New(entries...)
	if err != nil {
		return nil, errors.Wrap(err, "schedule")
	}

	data, err := rlp.EncodeToBytes([]any{
		config.Name,
		config.RewardToken,
		config.StakingToken,
		config.Owner,
		config.Height,
		set,
	})
	if err != nil {
		return nil, err
	}

	name := config.Name
	if name == "" {
		name = "custom"
	}
	return &Genesis{
		name:   name,
		config: *config,
		set:    set,
		id:     dist.Blake2b(data),
	}, nil
}

// Load decodes a genesis from YAML. Unknown fields are rejected.
func Load(r io.Reader) (*Genesis, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var config Config
	if err := decoder.Decode(&config); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return New(&config)
}

// LoadFile loads the genesis file at path.
func LoadFile(path string) (*Genesis, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open genesis file")
	}
	defer file.Close()
	return Load(file)
}

// ID returns the blake2b-256 hash of the canonical genesis encoding.
func (g *Genesis) ID() [32]byte { return g.id }

// IDString returns the hex encoded id.
func (g *Genesis) IDString() string { return "0x" + hex.EncodeToString(g.id[:]) }

// Name returns the genesis name.
func (g *Genesis) Name() string { return g.name }

// Owner returns the initial owner.
func (g *Genesis) Owner() dist.Address { return g.config.Owner }

// Height returns the instantiation height.
func (g *Genesis) Height() uint64 { return g.config.Height }

// Instantiate returns the environment and message that create the
// distributor.
func (g *Genesis) Instantiate() (contract.Env, contract.Info, *contract.InstantiateMsg) {
	entries := g.set.Entries()
	tuples := make([]contract.ScheduleTuple, 0, len(entries))
	for _, e := range entries {
		tuples = append(tuples, contract.ScheduleTuple{Start: e.Start, End: e.End, Amount: e.Amount})
	}
	return contract.Env{Height: g.config.Height},
		contract.Info{Sender: g.config.Owner},
		&contract.InstantiateMsg{
			RewardToken:          g.config.RewardToken,
			StakingToken:         g.config.StakingToken,
			DistributionSchedule: tuples,
		}
}
