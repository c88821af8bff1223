// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/distributor/dist"
	"github.com/vechain/distributor/log"
	"github.com/vechain/distributor/reverts"
	"github.com/vechain/distributor/schedule"
)

var logger = log.WithContext("pkg", "staking")

// StakerReader loads persisted staker records. It returns nil for an
// unknown staker.
type StakerReader interface {
	GetStaker(addr dist.Address) (*Staker, error)
}

// Changes is what a ledger wants persisted.
type Changes struct {
	Config  *Config
	State   *State
	Stakers map[dist.Address]*Staker
}

// Ledger is a working copy of the distributor. Every operation either
// applies completely or leaves the ledger unchanged, and nothing reaches
// storage until the caller commits Changes.
type Ledger struct {
	config  *Config
	state   *State
	reader  StakerReader
	stakers map[dist.Address]*Staker
	exists  map[dist.Address]bool
	dirty   map[dist.Address]bool

	configChanged bool
}

// NewLedger creates a ledger over copies of config and state. reader may be
// nil, then every staker starts empty.
func NewLedger(config *Config, state *State, reader StakerReader) *Ledger {
	return &Ledger{
		config:  config.Copy(),
		state:   state.Copy(),
		reader:  reader,
		stakers: make(map[dist.Address]*Staker),
		exists:  make(map[dist.Address]bool),
		dirty:   make(map[dist.Address]bool),
	}
}

// Config returns a copy of the current config.
func (l *Ledger) Config() *Config {
	return l.config.Copy()
}

// State returns a copy of the current state.
func (l *Ledger) State() *State {
	return l.state.Copy()
}

// Changes returns the config when changed, the state and every touched staker
// that exists.
func (l *Ledger) Changes() *Changes {
	c := &Changes{
		State:   l.state.Copy(),
		Stakers: make(map[dist.Address]*Staker),
	}
	if l.configChanged {
		c.Config = l.config.Copy()
	}
	for addr := range l.dirty {
		if l.exists[addr] {
			c.Stakers[addr] = l.stakers[addr].Copy()
		}
	}
	return c
}

// Advance moves the global index to height.
func (l *Ledger) Advance(height uint64) (Accrual, error) {
	state := l.state.Copy()
	acc, err := Advance(state, l.config.Schedule, height)
	if err != nil {
		return Accrual{}, err
	}
	l.state = state
	return acc, nil
}

// ProjectState returns the state as it would be at height, without changing
// the ledger.
func (l *Ledger) ProjectState(height uint64) (*State, error) {
	state := l.state.Copy()
	if _, err := Advance(state, l.config.Schedule, height); err != nil {
		return nil, err
	}
	return state, nil
}

// StakerInfo returns the staker as it would be at height, without changing
// the ledger. An unknown staker is reported empty.
func (l *Ledger) StakerInfo(addr dist.Address, height uint64) (*Staker, error) {
	state, err := l.ProjectState(height)
	if err != nil {
		return nil, err
	}
	staker, err := l.staker(addr)
	if err != nil {
		return nil, err
	}
	staker = staker.Copy()
	if err := Reconcile(staker, state); err != nil {
		return nil, err
	}
	return staker, nil
}

// Bond adds amount to the bond of addr at height.
func (l *Ledger) Bond(addr dist.Address, amount *uint256.Int, height uint64) error {
	logger.Debug("bonding", "staker", addr, "amount", amount, "height", height)

	state, staker, err := l.touch(addr, height)
	if err != nil {
		logger.Info("bond failed", "staker", addr, "error", err)
		return err
	}

	total, overflow := new(uint256.Int).AddOverflow(state.TotalBondAmount, amount)
	if overflow {
		return reverts.New(reverts.ArithmeticOverflow, "total bond amount overflow")
	}
	bond, overflow := new(uint256.Int).AddOverflow(staker.BondAmount, amount)
	if overflow {
		return reverts.New(reverts.ArithmeticOverflow, "bond amount overflow")
	}
	state.TotalBondAmount = total
	staker.BondAmount = bond

	l.commit(addr, state, staker)
	l.exists[addr] = true

	logger.Info("bonded", "staker", addr, "amount", amount, "bond", bond)
	return nil
}

// Unbond removes amount from the bond of addr at height and returns the
// transfer of the staking token back to the staker.
func (l *Ledger) Unbond(addr dist.Address, amount *uint256.Int, height uint64) (*Transfer, error) {
	logger.Debug("unbonding", "staker", addr, "amount", amount, "height", height)

	state, staker, err := l.touch(addr, height)
	if err != nil {
		logger.Info("unbond failed", "staker", addr, "error", err)
		return nil, err
	}
	if staker.BondAmount.Lt(amount) {
		err := reverts.New(reverts.InsufficientBond, "cannot unbond more than bond amount")
		logger.Info("unbond failed", "staker", addr, "error", err)
		return nil, err
	}

	state.TotalBondAmount = new(uint256.Int).Sub(state.TotalBondAmount, amount)
	staker.BondAmount = new(uint256.Int).Sub(staker.BondAmount, amount)
	l.commit(addr, state, staker)

	logger.Info("unbonded", "staker", addr, "amount", amount, "bond", staker.BondAmount)
	return &Transfer{
		Token:     l.config.StakingToken,
		Recipient: addr,
		Amount:    new(uint256.Int).Set(amount),
	}, nil
}

// Withdraw pays out the pending reward of addr at height. It returns nil when
// there is nothing to pay.
func (l *Ledger) Withdraw(addr dist.Address, height uint64) (*Transfer, error) {
	logger.Debug("withdrawing", "staker", addr, "height", height)

	state, staker, err := l.touch(addr, height)
	if err != nil {
		logger.Info("withdraw failed", "staker", addr, "error", err)
		return nil, err
	}

	amount := staker.PendingReward
	staker.PendingReward = new(uint256.Int)
	l.commit(addr, state, staker)

	logger.Info("withdrew", "staker", addr, "amount", amount)
	if amount.IsZero() {
		return nil, nil
	}
	return &Transfer{
		Token:     l.config.RewardToken,
		Recipient: addr,
		Amount:    amount,
	}, nil
}

// AddSchedule inserts a new emission range starting after height and after
// LastDistributed.
func (l *Ledger) AddSchedule(caller dist.Address, entry schedule.Entry, height uint64) error {
	logger.Debug("adding schedule", "caller", caller, "start", entry.Start, "end", entry.End, "amount", entry.Amount)

	if err := CheckOwner(l.state, caller); err != nil {
		logger.Info("add schedule failed", "caller", caller, "error", err)
		return err
	}
	set := l.config.Schedule.Copy()
	if err := set.Insert(entry, max(height, l.state.LastDistributed)); err != nil {
		logger.Info("add schedule failed", "start", entry.Start, "end", entry.End, "error", err)
		return err
	}
	l.config.Schedule = set
	l.configChanged = true

	logger.Info("added schedule", "start", entry.Start, "end", entry.End, "amount", entry.Amount)
	return nil
}

// ChangeOwner hands the owner role over to newOwner.
func (l *Ledger) ChangeOwner(caller, newOwner dist.Address) error {
	logger.Debug("changing owner", "caller", caller, "owner", newOwner)

	if err := CheckOwner(l.state, caller); err != nil {
		logger.Info("change owner failed", "caller", caller, "error", err)
		return err
	}
	l.state.Owner = newOwner

	logger.Info("changed owner", "owner", newOwner)
	return nil
}

// staker returns the cached or persisted staker record of addr.
func (l *Ledger) staker(addr dist.Address) (*Staker, error) {
	if s, ok := l.stakers[addr]; ok {
		return s, nil
	}
	var s *Staker
	if l.reader != nil {
		var err error
		if s, err = l.reader.GetStaker(addr); err != nil {
			return nil, err
		}
	}
	if s == nil {
		s = NewStaker()
	} else {
		l.exists[addr] = true
	}
	l.stakers[addr] = s
	return s, nil
}

// touch returns working copies of the state advanced to height and of the
// staker reconciled against it.
func (l *Ledger) touch(addr dist.Address, height uint64) (*State, *Staker, error) {
	state := l.state.Copy()
	if _, err := Advance(state, l.config.Schedule, height); err != nil {
		return nil, nil, err
	}
	staker, err := l.staker(addr)
	if err != nil {
		return nil, nil, err
	}
	staker = staker.Copy()
	if err := Reconcile(staker, state); err != nil {
		return nil, nil, err
	}
	return state, staker, nil
}

func (l *Ledger) commit(addr dist.Address, state *State, staker *Staker) {
	l.state = state
	l.stakers[addr] = staker
	l.dirty[addr] = true
}

// CheckOwner fails with an unauthorized revert unless caller is the owner.
func CheckOwner(state *State, caller dist.Address) error {
	if state.Owner != caller {
		return reverts.New(reverts.Unauthorized, "unauthorized")
	}
	return nil
}
