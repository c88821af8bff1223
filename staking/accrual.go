// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/distributor/decimal"
	"github.com/vechain/distributor/reverts"
	"github.com/vechain/distributor/schedule"
)

// Advance moves the global reward index from state.LastDistributed to target.
// Emission while nothing is bonded is forfeited. It is a no-op when target is
// not after LastDistributed. The state is left unchanged on error.
func Advance(state *State, set *schedule.Set, target uint64) (Accrual, error) {
	acc := Accrual{Emitted: new(uint256.Int)}
	if target <= state.LastDistributed {
		return acc, nil
	}

	emitted, err := set.Emitted(state.LastDistributed, target)
	if err != nil {
		return Accrual{}, err
	}
	acc.Emitted = emitted

	index := state.GlobalRewardIndex
	if state.TotalBondAmount != nil && !state.TotalBondAmount.IsZero() {
		delta, err := decimal.FromRatio(emitted, state.TotalBondAmount)
		if err != nil {
			return Accrual{}, err
		}
		if index, err = index.Add(delta); err != nil {
			return Accrual{}, err
		}
		acc.Delta = delta
	}

	state.GlobalRewardIndex = index
	state.LastDistributed = target
	return acc, nil
}

// Reconcile credits the staker with the rewards accrued on its bond since its
// index was last synced, and syncs the index. The staker is left unchanged on
// error.
func Reconcile(staker *Staker, state *State) error {
	diff, err := state.GlobalRewardIndex.Sub(staker.RewardIndex)
	if err != nil {
		return reverts.New(reverts.ArithmeticOverflow, "staker reward index ahead of global index")
	}
	reward, err := diff.MulInt(copyAmount(staker.BondAmount))
	if err != nil {
		return err
	}
	pending, overflow := new(uint256.Int).AddOverflow(copyAmount(staker.PendingReward), reward)
	if overflow {
		return reverts.New(reverts.ArithmeticOverflow, "pending reward overflow")
	}

	staker.PendingReward = pending
	staker.RewardIndex = state.GlobalRewardIndex
	return nil
}
