// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/distributor/decimal"
	"github.com/vechain/distributor/dist"
	"github.com/vechain/distributor/reverts"
	"github.com/vechain/distributor/schedule"
)

const height = uint64(12345)

var (
	owner        = dist.BytesToAddress([]byte("addr0000"))
	rewardToken  = dist.BytesToAddress([]byte("reward0000"))
	stakingToken = dist.BytesToAddress([]byte("staking0000"))
	staker0      = dist.BytesToAddress([]byte("staker0000"))
	custodian    = dist.BytesToAddress([]byte("newstaking0000"))
)

func amount(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func index(v uint64) decimal.Decimal {
	return decimal.FromUint64(v)
}

func newLedger(t *testing.T) *Ledger {
	set, err := schedule.New(
		schedule.NewEntry(height, height+100, amount(1_000_000)),
		schedule.NewEntry(height+100, height+200, amount(10_000_000)),
	)
	require.NoError(t, err)
	cfg := &Config{
		RewardToken:  rewardToken,
		StakingToken: stakingToken,
		Schedule:     set,
	}
	return NewLedger(cfg, NewState(owner, height), nil)
}

func TestBond(t *testing.T) {
	l := newLedger(t)

	require.NoError(t, l.Bond(staker0, amount(100), height))
	info, err := l.StakerInfo(staker0, height)
	require.NoError(t, err)
	assert.Equal(t, &Staker{BondAmount: amount(100), RewardIndex: decimal.Zero(), PendingReward: amount(0)}, info)

	require.NoError(t, l.Bond(staker0, amount(100), height+10))
	info, err = l.StakerInfo(staker0, height+10)
	require.NoError(t, err)
	assert.Equal(t, index(1_000), info.RewardIndex)
	assert.Equal(t, amount(100_000), info.PendingReward)
	assert.Equal(t, amount(200), info.BondAmount)

	state := l.State()
	assert.Equal(t, amount(200), state.TotalBondAmount)
	assert.Equal(t, index(1_000), state.GlobalRewardIndex)
	assert.Equal(t, height+10, state.LastDistributed)
}

func TestComputeReward(t *testing.T) {
	l := newLedger(t)

	require.NoError(t, l.Bond(staker0, amount(100), height))
	require.NoError(t, l.Bond(staker0, amount(100), height+100))

	info, err := l.StakerInfo(staker0, height+100)
	require.NoError(t, err)
	assert.Equal(t, &Staker{BondAmount: amount(200), RewardIndex: index(10_000), PendingReward: amount(1_000_000)}, info)

	transfer, err := l.Unbond(staker0, amount(100), height+110)
	require.NoError(t, err)
	assert.Equal(t, &Transfer{Token: stakingToken, Recipient: staker0, Amount: amount(100)}, transfer)

	info, err = l.StakerInfo(staker0, height+110)
	require.NoError(t, err)
	assert.Equal(t, &Staker{BondAmount: amount(100), RewardIndex: index(15_000), PendingReward: amount(2_000_000)}, info)

	// future projection does not move the ledger
	info, err = l.StakerInfo(staker0, height+120)
	require.NoError(t, err)
	assert.Equal(t, &Staker{BondAmount: amount(100), RewardIndex: index(25_000), PendingReward: amount(3_000_000)}, info)

	projected, err := l.ProjectState(height + 120)
	require.NoError(t, err)
	assert.Equal(t, index(25_000), projected.GlobalRewardIndex)
	assert.Equal(t, height+110, l.State().LastDistributed)
	assert.Equal(t, index(15_000), l.State().GlobalRewardIndex)
}

func TestUnbondInsufficient(t *testing.T) {
	l := newLedger(t)
	require.NoError(t, l.Bond(staker0, amount(100), height))
	before := l.State()

	transfer, err := l.Unbond(staker0, amount(150), height+10)
	assert.Nil(t, transfer)
	assert.True(t, errors.Is(err, reverts.ErrInsufficientBond))
	assert.EqualError(t, err, "cannot unbond more than bond amount")

	assert.Equal(t, before, l.State())
	info, err := l.StakerInfo(staker0, height)
	require.NoError(t, err)
	assert.Equal(t, amount(100), info.BondAmount)
	assert.True(t, info.PendingReward.IsZero())

	// unknown staker has nothing to unbond
	_, err = l.Unbond(custodian, amount(1), height)
	assert.True(t, errors.Is(err, reverts.ErrInsufficientBond))
}

func TestUnbondAll(t *testing.T) {
	l := newLedger(t)
	require.NoError(t, l.Bond(staker0, amount(100), height))

	_, err := l.Unbond(staker0, amount(100), height+50)
	require.NoError(t, err)
	assert.True(t, l.State().TotalBondAmount.IsZero())

	// nothing bonded, emission is forfeited
	acc, err := l.Advance(height + 60)
	require.NoError(t, err)
	assert.Equal(t, amount(100_000), acc.Emitted)
	assert.True(t, acc.Delta.IsZero())

	info, err := l.StakerInfo(staker0, height+60)
	require.NoError(t, err)
	assert.Equal(t, amount(500_000), info.PendingReward)
	assert.True(t, info.BondAmount.IsZero())
}

func TestWithdraw(t *testing.T) {
	l := newLedger(t)
	require.NoError(t, l.Bond(staker0, amount(100), height))

	transfer, err := l.Withdraw(staker0, height+100)
	require.NoError(t, err)
	assert.Equal(t, &Transfer{Token: rewardToken, Recipient: staker0, Amount: amount(1_000_000)}, transfer)

	transfer, err = l.Withdraw(staker0, height+100)
	require.NoError(t, err)
	assert.Nil(t, transfer)

	info, err := l.StakerInfo(staker0, height+100)
	require.NoError(t, err)
	assert.True(t, info.PendingReward.IsZero())
	assert.Equal(t, index(10_000), info.RewardIndex)
}

func TestMigrate(t *testing.T) {
	l := newLedger(t)
	require.NoError(t, l.Bond(staker0, amount(100), height))

	transfer, err := l.Withdraw(staker0, height+100)
	require.NoError(t, err)
	assert.Equal(t, amount(1_000_000), transfer.Amount)

	_, _, err = l.Migrate(staker0, custodian, height+150)
	assert.True(t, errors.Is(err, reverts.ErrUnauthorized))
	assert.EqualError(t, err, "unauthorized")

	result, transfer, err := l.Migrate(owner, custodian, height+150)
	require.NoError(t, err)
	assert.Equal(t, &MigrationResult{Distributed: amount(6_000_000), Remaining: amount(5_000_000)}, result)
	assert.Equal(t, &Transfer{Token: rewardToken, Recipient: custodian, Amount: amount(5_000_000)}, transfer)

	cfg := l.Config()
	assert.Equal(t, stakingToken, cfg.StakingToken)
	assert.Equal(t, []schedule.Entry{
		schedule.NewEntry(height, height+100, amount(1_000_000)),
		schedule.NewEntry(height+100, height+150, amount(5_000_000)),
	}, cfg.Schedule.Entries())

	// stakers keep what was emitted before the cutoff and nothing after
	transfer, err = l.Withdraw(staker0, height+300)
	require.NoError(t, err)
	assert.Equal(t, amount(5_000_000), transfer.Amount)

	// nothing left to send
	result, transfer, err = l.Migrate(owner, custodian, height+300)
	require.NoError(t, err)
	assert.True(t, result.Remaining.IsZero())
	assert.Nil(t, transfer)
}

func TestMigrateBehindLastDistributed(t *testing.T) {
	l := newLedger(t)
	require.NoError(t, l.Bond(staker0, amount(100), height))

	// the whole schedule is credited
	transfer, err := l.Withdraw(staker0, height+200)
	require.NoError(t, err)
	assert.Equal(t, amount(11_000_000), transfer.Amount)

	result, transfer, err := l.Migrate(owner, custodian, height+50)
	require.NoError(t, err)
	assert.Equal(t, &MigrationResult{Distributed: amount(11_000_000), Remaining: amount(0)}, result)
	assert.Nil(t, transfer)
	assert.Equal(t, height+200, l.State().LastDistributed)
	assert.Equal(t, []schedule.Entry{
		schedule.NewEntry(height, height+100, amount(1_000_000)),
		schedule.NewEntry(height+100, height+200, amount(10_000_000)),
	}, l.Config().Schedule.Entries())
}

func TestAddScheduleBehindLastDistributed(t *testing.T) {
	l := newLedger(t)
	_, err := l.Advance(height + 200)
	require.NoError(t, err)

	err = l.AddSchedule(owner, schedule.NewEntry(height+200, height+220, amount(1)), height+150)
	assert.True(t, errors.Is(err, reverts.ErrInvalidSchedule))
	assert.EqualError(t, err, "cannot add a schedule that was already passed")
	assert.Equal(t, 2, l.Config().Schedule.Len())

	require.NoError(t, l.AddSchedule(owner, schedule.NewEntry(height+201, height+220, amount(1)), height+150))
	assert.Equal(t, 3, l.Config().Schedule.Len())
}

func TestAddSchedule(t *testing.T) {
	l := newLedger(t)

	err := l.AddSchedule(staker0, schedule.NewEntry(height+201, height+701, amount(1)), height)
	assert.True(t, errors.Is(err, reverts.ErrUnauthorized))

	err = l.AddSchedule(owner, schedule.NewEntry(2000, 2500, amount(1)), height)
	assert.EqualError(t, err, "cannot add a schedule that was already passed")

	err = l.AddSchedule(owner, schedule.NewEntry(height+175, height+185, amount(1)), height)
	assert.EqualError(t, err, "schedule period overtakes an existing upcoming schedule period")
	assert.Nil(t, l.Changes().Config)

	require.NoError(t, l.AddSchedule(owner, schedule.NewEntry(height+201, height+701, amount(10_000_000_000)), height))
	changes := l.Changes()
	require.NotNil(t, changes.Config)
	assert.Equal(t, 3, changes.Config.Schedule.Len())
}

func TestChangeOwner(t *testing.T) {
	l := newLedger(t)

	err := l.ChangeOwner(staker0, staker0)
	assert.True(t, errors.Is(err, reverts.ErrUnauthorized))
	assert.Equal(t, owner, l.State().Owner)

	require.NoError(t, l.ChangeOwner(owner, custodian))
	assert.Equal(t, custodian, l.State().Owner)

	err = l.ChangeOwner(owner, owner)
	assert.True(t, errors.Is(err, reverts.ErrUnauthorized))
}

type stakerMap map[dist.Address]*Staker

func (m stakerMap) GetStaker(addr dist.Address) (*Staker, error) {
	return m[addr], nil
}

func TestChanges(t *testing.T) {
	l := newLedger(t)
	stored := &Staker{BondAmount: amount(10), PendingReward: amount(0)}
	l.reader = stakerMap{staker0: stored}
	l.state.TotalBondAmount = amount(10)

	// a withdraw by an unknown staker creates no record
	_, err := l.Withdraw(custodian, height+10)
	require.NoError(t, err)
	_, err = l.Withdraw(staker0, height+10)
	require.NoError(t, err)

	changes := l.Changes()
	assert.Nil(t, changes.Config)
	assert.Len(t, changes.Stakers, 1)
	assert.Equal(t, index(10_000), changes.Stakers[staker0].RewardIndex)
	assert.Equal(t, height+10, changes.State.LastDistributed)

	// the persisted record is never touched
	assert.Equal(t, decimal.Zero(), stored.RewardIndex)
}
