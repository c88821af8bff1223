// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contract

import (
	"github.com/vechain/distributor/dist"
	"github.com/vechain/distributor/staking"
	"github.com/vechain/distributor/transferdb"
)

// Journal returns the transfer journal, nil when journaling is off.
func (e *Executor) Journal() *transferdb.TransferDB {
	return e.journal
}

// QueryConfig returns the tokens and the emission schedule.
func (e *Executor) QueryConfig() (*ConfigResponse, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	config, _, err := e.load()
	if err != nil {
		return nil, err
	}
	entries := config.Schedule.Entries()
	tuples := make([]ScheduleTuple, 0, len(entries))
	for _, entry := range entries {
		tuples = append(tuples, tupleFromEntry(entry))
	}
	return &ConfigResponse{
		RewardToken:          config.RewardToken,
		StakingToken:         config.StakingToken,
		DistributionSchedule: tuples,
	}, nil
}

// QueryState returns the stored state, or the state projected to height
// when given. Nothing is written.
func (e *Executor) QueryState(height *uint64) (*StateResponse, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	config, state, err := e.load()
	if err != nil {
		return nil, err
	}
	if height != nil {
		if state, err = staking.NewLedger(config, state, e.store).ProjectState(*height); err != nil {
			return nil, err
		}
	}
	return &StateResponse{
		LastDistributed:   state.LastDistributed,
		TotalBondAmount:   state.TotalBondAmount,
		GlobalRewardIndex: state.GlobalRewardIndex,
		OwnerAddress:      state.Owner,
	}, nil
}

// QueryStakerInfo returns the staker projected to height, defaulting to the
// last distributed height. Unknown stakers are reported empty.
func (e *Executor) QueryStakerInfo(addr dist.Address, height *uint64) (*StakerInfoResponse, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	config, state, err := e.load()
	if err != nil {
		return nil, err
	}
	at := state.LastDistributed
	if height != nil {
		at = *height
	}
	staker, err := staking.NewLedger(config, state, e.store).StakerInfo(addr, at)
	if err != nil {
		return nil, err
	}
	return &StakerInfoResponse{
		Staker:        addr,
		RewardIndex:   staker.RewardIndex,
		BondAmount:    staker.BondAmount,
		PendingReward: staker.PendingReward,
	}, nil
}
