// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contract

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/distributor/decimal"
	"github.com/vechain/distributor/dist"
	"github.com/vechain/distributor/schedule"
	"github.com/vechain/distributor/staking"
)

// Env is the execution environment supplied by the host.
type Env struct {
	Height uint64 `json:"height"`
}

// Info identifies the caller.
type Info struct {
	Sender dist.Address `json:"sender"`
}

// ScheduleTuple is an emission range encoded as [start, end, "amount"].
type ScheduleTuple struct {
	Start  uint64
	End    uint64
	Amount *uint256.Int
}

func tupleFromEntry(e schedule.Entry) ScheduleTuple {
	return ScheduleTuple{Start: e.Start, End: e.End, Amount: e.Amount}
}

// Entry converts the tuple into a schedule entry.
func (t ScheduleTuple) Entry() schedule.Entry {
	amount := t.Amount
	if amount == nil {
		amount = new(uint256.Int)
	}
	return schedule.NewEntry(t.Start, t.End, amount)
}

// MarshalJSON implements json.Marshaler.
func (t ScheduleTuple) MarshalJSON() ([]byte, error) {
	amount := "0"
	if t.Amount != nil {
		amount = t.Amount.Dec()
	}
	return json.Marshal([]any{t.Start, t.End, amount})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *ScheduleTuple) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return errors.New("schedule must be [start, end, amount]")
	}
	if err := json.Unmarshal(raw[0], &t.Start); err != nil {
		return errors.Wrap(err, "start")
	}
	if err := json.Unmarshal(raw[1], &t.End); err != nil {
		return errors.Wrap(err, "end")
	}
	var amount string
	if err := json.Unmarshal(raw[2], &amount); err != nil {
		return errors.Wrap(err, "amount")
	}
	a, err := uint256.FromDecimal(amount)
	if err != nil {
		return errors.Wrap(err, "amount")
	}
	t.Amount = a
	return nil
}

// InstantiateMsg creates the distributor.
type InstantiateMsg struct {
	RewardToken          dist.Address    `json:"reward_token"`
	StakingToken         dist.Address    `json:"staking_token"`
	DistributionSchedule []ScheduleTuple `json:"distribution_schedule"`
}

// ExecuteMsg carries exactly one operation.
type ExecuteMsg struct {
	Receive        *ReceiveMsg        `json:"receive,omitempty"`
	Unbond         *UnbondMsg         `json:"unbond,omitempty"`
	Withdraw       *WithdrawMsg       `json:"withdraw,omitempty"`
	AddReward      *AddRewardMsg      `json:"add_reward,omitempty"`
	ChangeOwner    *ChangeOwnerMsg    `json:"change_owner,omitempty"`
	MigrateStaking *MigrateStakingMsg `json:"migrate_staking,omitempty"`
}

// ReceiveMsg is the hook the staking token calls after tokens were sent to
// the distributor.
type ReceiveMsg struct {
	Sender dist.Address `json:"sender"`
	Amount *uint256.Int `json:"amount"`
	Msg    *HookMsg     `json:"msg,omitempty"`
}

// HookMsg is the payload of a receive hook, naming what the tokens are for.
type HookMsg struct {
	Bond *struct{} `json:"bond,omitempty"`
}

// UnbondMsg returns bonded tokens to the sender.
type UnbondMsg struct {
	Amount *uint256.Int `json:"amount"`
}

// WithdrawMsg pays out the pending reward of the sender.
type WithdrawMsg struct{}

// AddRewardMsg appends an emission range. Owner only.
type AddRewardMsg struct {
	RewardSchedule ScheduleTuple `json:"reward_schedule"`
}

// ChangeOwnerMsg hands the owner role over. Owner only.
type ChangeOwnerMsg struct {
	NewOwner dist.Address `json:"new_owner"`
}

// MigrateStakingMsg stops emission and sends the unemitted reward to a new
// staking contract. Owner only.
type MigrateStakingMsg struct {
	NewStakingContract dist.Address `json:"new_staking_contract"`
}

// Attribute is a key value pair describing what an operation did.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response is the outcome of a successful operation.
type Response struct {
	Attributes []Attribute         `json:"attributes"`
	Transfers  []*staking.Transfer `json:"transfers"`
}

func (r *Response) attr(key string, value any) *Response {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case uint64:
		s = strconv.FormatUint(v, 10)
	case *uint256.Int:
		s = v.Dec()
	case dist.Address:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: s})
	return r
}

// Attr returns the value of the first attribute named key.
func (r *Response) Attr(key string) string {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// ConfigResponse is the result of QueryConfig.
type ConfigResponse struct {
	RewardToken          dist.Address    `json:"reward_token"`
	StakingToken         dist.Address    `json:"staking_token"`
	DistributionSchedule []ScheduleTuple `json:"distribution_schedule"`
}

// StateResponse is the result of QueryState.
type StateResponse struct {
	LastDistributed   uint64          `json:"last_distributed"`
	TotalBondAmount   *uint256.Int    `json:"total_bond_amount"`
	GlobalRewardIndex decimal.Decimal `json:"global_reward_index"`
	OwnerAddress      dist.Address    `json:"owner_address"`
}

// StakerInfoResponse is the result of QueryStakerInfo.
type StakerInfoResponse struct {
	Staker        dist.Address    `json:"staker"`
	RewardIndex   decimal.Decimal `json:"reward_index"`
	BondAmount    *uint256.Int    `json:"bond_amount"`
	PendingReward *uint256.Int    `json:"pending_reward"`
}
