// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/distributor/decimal"
	"github.com/vechain/distributor/dist"
	"github.com/vechain/distributor/schedule"
)

// Config is fixed at initialization, apart from the schedule.
type Config struct {
	RewardToken  dist.Address
	StakingToken dist.Address
	Schedule     *schedule.Set
}

// Copy returns a deep copy.
func (c *Config) Copy() *Config {
	cpy := *c
	if c.Schedule != nil {
		cpy.Schedule = c.Schedule.Copy()
	} else {
		cpy.Schedule = &schedule.Set{}
	}
	return &cpy
}

// State is the global accrual state.
type State struct {
	LastDistributed   uint64          `json:"lastDistributed"`
	TotalBondAmount   *uint256.Int    `json:"totalBondAmount"`
	GlobalRewardIndex decimal.Decimal `json:"globalRewardIndex"`
	Owner             dist.Address    `json:"owner"`
}

// NewState creates the state of a distributor initialized at height by owner.
func NewState(owner dist.Address, height uint64) *State {
	return &State{
		LastDistributed: height,
		TotalBondAmount: new(uint256.Int),
		Owner:           owner,
	}
}

// Copy returns a deep copy.
func (s *State) Copy() *State {
	cpy := *s
	cpy.TotalBondAmount = copyAmount(s.TotalBondAmount)
	return &cpy
}

// Staker is the bookkeeping of a single staker.
type Staker struct {
	BondAmount    *uint256.Int    `json:"bondAmount"`
	RewardIndex   decimal.Decimal `json:"rewardIndex"`
	PendingReward *uint256.Int    `json:"pendingReward"`
}

// NewStaker returns an empty staker record.
func NewStaker() *Staker {
	return &Staker{
		BondAmount:    new(uint256.Int),
		PendingReward: new(uint256.Int),
	}
}

// Copy returns a deep copy.
func (s *Staker) Copy() *Staker {
	cpy := *s
	cpy.BondAmount = copyAmount(s.BondAmount)
	cpy.PendingReward = copyAmount(s.PendingReward)
	return &cpy
}

// Transfer instructs the host to move Amount of Token to Recipient.
type Transfer struct {
	Token     dist.Address `json:"token"`
	Recipient dist.Address `json:"recipient"`
	Amount    *uint256.Int `json:"amount"`
}

// Accrual reports what a single Advance did.
type Accrual struct {
	Emitted *uint256.Int
	Delta   decimal.Decimal
}

// MigrationResult is the split of the schedule at the migration height.
type MigrationResult struct {
	Distributed *uint256.Int `json:"distributed"`
	Remaining   *uint256.Int `json:"remaining"`
}

func copyAmount(a *uint256.Int) *uint256.Int {
	if a == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(a)
}
