// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package contract dispatches distributor messages: it authorizes callers,
// runs the staking ledger and commits the outcome atomically.
package contract

import (
	"context"
	"math"
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/distributor/log"
	"github.com/vechain/distributor/metrics"
	"github.com/vechain/distributor/reverts"
	"github.com/vechain/distributor/schedule"
	"github.com/vechain/distributor/staking"
	"github.com/vechain/distributor/store"
	"github.com/vechain/distributor/transferdb"
)

var logger = log.WithContext("pkg", "contract")

var (
	metricOps             = metrics.LazyLoadCounterVec("ops_count", []string{"op", "outcome"})
	metricTransfers       = metrics.LazyLoadCounterVec("transfers_count", []string{"op"})
	metricLastDistributed = metrics.LazyLoadGauge("last_distributed")
	metricTotalBond       = metrics.LazyLoadGauge("total_bond_amount")
)

// Operation names, used as the action attribute and metric label.
const (
	OpInstantiate    = "instantiate"
	OpBond           = "bond"
	OpUnbond         = "unbond"
	OpWithdraw       = "withdraw"
	OpAddReward      = "add_reward"
	OpChangeOwner    = "change_owner"
	OpMigrateStaking = "migrate_staking"
)

// Executor serializes operations on a single distributor.
type Executor struct {
	store   *store.Store
	journal *transferdb.TransferDB
	lock    sync.Mutex
}

// New creates an executor. journal may be nil.
func New(st *store.Store, journal *transferdb.TransferDB) *Executor {
	return &Executor{
		store:   st,
		journal: journal,
	}
}

// Instantiate creates the distributor owned by the sender at env.Height. The
// initial schedule may lie in the past but must be well formed and free of
// overlaps.
func (e *Executor) Instantiate(env Env, info Info, msg *InstantiateMsg, genesisID [32]byte) (resp *Response, err error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	defer func() { countOp(OpInstantiate, err) }()

	logger.Debug("instantiating", "owner", info.Sender, "rewardToken", msg.RewardToken, "stakingToken", msg.StakingToken)

	ok, err := e.store.Initialized()
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, reverts.New(reverts.InvalidRequest, "distributor already initialized")
	}

	entries := make([]schedule.Entry, 0, len(msg.DistributionSchedule))
	for _, t := range msg.DistributionSchedule {
		entries = append(entries, t.Entry())
	}
	set, err := schedule.New(entries...)
	if err != nil {
		logger.Info("instantiate failed", "error", err)
		return nil, err
	}

	config := &staking.Config{
		RewardToken:  msg.RewardToken,
		StakingToken: msg.StakingToken,
		Schedule:     set,
	}
	state := staking.NewState(info.Sender, env.Height)
	if err := e.store.Initialize(genesisID, config, state); err != nil {
		return nil, errors.Wrap(err, "initialize store")
	}
	observeState(state)

	logger.Info("instantiated", "owner", info.Sender, "height", env.Height, "entries", set.Len())
	resp = &Response{}
	resp.attr("action", OpInstantiate).attr("owner", info.Sender)
	return resp, nil
}

// Execute runs msg at env.Height on behalf of info.Sender. A failed operation
// leaves nothing behind. env.Height must not be behind the last distributed
// height.
func (e *Executor) Execute(ctx context.Context, env Env, info Info, msg *ExecuteMsg) (resp *Response, err error) {
	op, err := msg.op()
	if err != nil {
		countOp("invalid", err)
		return nil, err
	}
	defer func() { countOp(op, err) }()

	e.lock.Lock()
	defer e.lock.Unlock()

	config, state, err := e.load()
	if err != nil {
		return nil, err
	}
	// heights only move forward
	if env.Height < state.LastDistributed {
		return nil, reverts.Newf(reverts.InvalidRequest, "height %d is behind last distributed height %d", env.Height, state.LastDistributed)
	}
	ledger := staking.NewLedger(config, state, e.store)

	resp = &Response{}
	resp.attr("action", op)

	switch {
	case msg.Receive != nil:
		err = e.receive(ledger, env, info, msg.Receive, resp)
	case msg.Unbond != nil:
		if msg.Unbond.Amount == nil || msg.Unbond.Amount.IsZero() {
			return nil, reverts.New(reverts.InvalidRequest, "amount must be greater than zero")
		}
		var t *staking.Transfer
		if t, err = ledger.Unbond(info.Sender, msg.Unbond.Amount, env.Height); err == nil {
			resp.attr("owner", info.Sender).attr("amount", msg.Unbond.Amount)
			resp.Transfers = append(resp.Transfers, t)
		}
	case msg.Withdraw != nil:
		var t *staking.Transfer
		if t, err = ledger.Withdraw(info.Sender, env.Height); err == nil {
			amount := new(uint256.Int)
			if t != nil {
				amount = t.Amount
				resp.Transfers = append(resp.Transfers, t)
			}
			resp.attr("owner", info.Sender).attr("amount", amount)
		}
	case msg.AddReward != nil:
		entry := msg.AddReward.RewardSchedule.Entry()
		if err = ledger.AddSchedule(info.Sender, entry, env.Height); err == nil {
			resp.attr("begin", entry.Start).attr("end", entry.End).attr("amount", entry.Amount)
		}
	case msg.ChangeOwner != nil:
		if err = ledger.ChangeOwner(info.Sender, msg.ChangeOwner.NewOwner); err == nil {
			resp.attr("new_owner", msg.ChangeOwner.NewOwner)
		}
	case msg.MigrateStaking != nil:
		var (
			result *staking.MigrationResult
			t      *staking.Transfer
		)
		if result, t, err = ledger.Migrate(info.Sender, msg.MigrateStaking.NewStakingContract, env.Height); err == nil {
			resp.attr("distributed_amount", result.Distributed).attr("remaining_amount", result.Remaining)
			if t != nil {
				resp.Transfers = append(resp.Transfers, t)
			}
		}
	}
	if err != nil {
		return nil, err
	}

	changes := ledger.Changes()
	if err := e.store.Commit(changes); err != nil {
		return nil, err
	}
	observeState(changes.State)
	e.record(ctx, env.Height, op, resp.Transfers)
	return resp, nil
}

func (e *Executor) receive(ledger *staking.Ledger, env Env, info Info, msg *ReceiveMsg, resp *Response) error {
	config := ledger.Config()
	// only the staking token can send tokens to bond
	if info.Sender != config.StakingToken {
		return reverts.New(reverts.Unauthorized, "unauthorized")
	}
	if msg.Msg == nil || msg.Msg.Bond == nil {
		return reverts.New(reverts.InvalidRequest, "data should be given")
	}
	if msg.Amount == nil || msg.Amount.IsZero() {
		return reverts.New(reverts.InvalidRequest, "amount must be greater than zero")
	}
	if err := ledger.Bond(msg.Sender, msg.Amount, env.Height); err != nil {
		return err
	}
	resp.attr("owner", msg.Sender).attr("amount", msg.Amount)
	return nil
}

// record journals the transfers. The operation is committed already, a
// journal failure is only logged.
func (e *Executor) record(ctx context.Context, height uint64, op string, transfers []*staking.Transfer) {
	if len(transfers) == 0 {
		return
	}
	metricTransfers().AddWithLabel(int64(len(transfers)), map[string]string{"op": op})
	if e.journal == nil {
		return
	}
	records := make([]*transferdb.Transfer, 0, len(transfers))
	for _, t := range transfers {
		records = append(records, transferdb.NewTransfer(height, op, t))
	}
	if err := e.journal.Insert(ctx, records); err != nil {
		logger.Warn("failed to journal transfers", "height", height, "op", op, "error", err)
	}
}

func (e *Executor) load() (*staking.Config, *staking.State, error) {
	config, err := e.store.Config()
	if err != nil {
		return nil, nil, notInitialized(err)
	}
	state, err := e.store.State()
	if err != nil {
		return nil, nil, notInitialized(err)
	}
	return config, state, nil
}

func notInitialized(err error) error {
	if errors.Is(err, store.ErrNotInitialized) {
		return reverts.New(reverts.InvalidRequest, err.Error())
	}
	return err
}

func (msg *ExecuteMsg) op() (string, error) {
	var (
		ops []string
		set = func(ok bool, op string) {
			if ok {
				ops = append(ops, op)
			}
		}
	)
	set(msg.Receive != nil, OpBond)
	set(msg.Unbond != nil, OpUnbond)
	set(msg.Withdraw != nil, OpWithdraw)
	set(msg.AddReward != nil, OpAddReward)
	set(msg.ChangeOwner != nil, OpChangeOwner)
	set(msg.MigrateStaking != nil, OpMigrateStaking)
	if len(ops) != 1 {
		return "", reverts.New(reverts.InvalidRequest, "exactly one operation expected")
	}
	return ops[0], nil
}

func countOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if reverts.IsRevertErr(err) {
			outcome = "revert"
		}
	}
	metricOps().AddWithLabel(1, map[string]string{"op": op, "outcome": outcome})
}

func observeState(state *staking.State) {
	metricLastDistributed().Set(clamp(state.LastDistributed))
	if state.TotalBondAmount.IsUint64() {
		metricTotalBond().Set(clamp(state.TotalBondAmount.Uint64()))
	} else {
		metricTotalBond().Set(math.MaxInt64)
	}
}

func clamp(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
