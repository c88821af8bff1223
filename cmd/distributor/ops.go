// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/distributor/contract"
	"github.com/vechain/distributor/dist"
)

// Op is a single distributor operation, as read from a replay script or
// built from exec flags.
type Op struct {
	Height uint64        `yaml:"height"`
	Sender dist.Address  `yaml:"sender"`
	Action string        `yaml:"action"`
	Staker *dist.Address `yaml:"staker,omitempty"`
	Amount string        `yaml:"amount,omitempty"`
	Start  uint64        `yaml:"start,omitempty"`
	End    uint64        `yaml:"end,omitempty"`
	Target *dist.Address `yaml:"target,omitempty"`
}

func (op *Op) amount() (*uint256.Int, error) {
	if op.Amount == "" {
		return nil, errors.New("amount required")
	}
	amount, err := uint256.FromDecimal(op.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "amount")
	}
	return amount, nil
}

func (op *Op) target() (dist.Address, error) {
	if op.Target == nil {
		return dist.Address{}, errors.New("target required")
	}
	return *op.Target, nil
}

// Message converts the op into an execute message.
func (op *Op) Message() (*contract.ExecuteMsg, error) {
	switch op.Action {
	case contract.OpBond:
		amount, err := op.amount()
		if err != nil {
			return nil, err
		}
		if op.Staker == nil {
			return nil, errors.New("staker required")
		}
		return &contract.ExecuteMsg{Receive: &contract.ReceiveMsg{
			Sender: *op.Staker,
			Amount: amount,
			Msg:    &contract.HookMsg{Bond: &struct{}{}},
		}}, nil
	case contract.OpUnbond:
		amount, err := op.amount()
		if err != nil {
			return nil, err
		}
		return &contract.ExecuteMsg{Unbond: &contract.UnbondMsg{Amount: amount}}, nil
	case contract.OpWithdraw:
		return &contract.ExecuteMsg{Withdraw: &contract.WithdrawMsg{}}, nil
	case contract.OpAddReward:
		amount, err := op.amount()
		if err != nil {
			return nil, err
		}
		return &contract.ExecuteMsg{AddReward: &contract.AddRewardMsg{
			RewardSchedule: contract.ScheduleTuple{Start: op.Start, End: op.End, Amount: amount},
		}}, nil
	case contract.OpChangeOwner:
		target, err := op.target()
		if err != nil {
			return nil, err
		}
		return &contract.ExecuteMsg{ChangeOwner: &contract.ChangeOwnerMsg{NewOwner: target}}, nil
	case contract.OpMigrateStaking:
		target, err := op.target()
		if err != nil {
			return nil, err
		}
		return &contract.ExecuteMsg{MigrateStaking: &contract.MigrateStakingMsg{NewStakingContract: target}}, nil
	default:
		return nil, fmt.Errorf("unknown action %q", op.Action)
	}
}

// Env returns the execution environment of the op.
func (op *Op) Env() (contract.Env, contract.Info) {
	return contract.Env{Height: op.Height}, contract.Info{Sender: op.Sender}
}
