// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/distributor/dist"
	"github.com/vechain/distributor/schedule"
)

type op struct {
	Kind   uint8
	Staker uint8
	Amount uint32
	Step   uint8
}

func randomSchedule(f *fuzz.Fuzzer) *schedule.Set {
	set := &schedule.Set{}
	for range 8 {
		var start, length uint16
		var amt uint64
		f.Fuzz(&start)
		f.Fuzz(&length)
		f.Fuzz(&amt)
		_ = set.Insert(schedule.NewEntry(uint64(start%2_000), uint64(start%2_000)+uint64(length%500), uint256.NewInt(amt)), 0)
	}
	return set
}

// Random sequences of bond, unbond, withdraw and migration, at heights that
// sometimes go backwards, keep the index monotonic, the bond total consistent,
// and never credit stakers with more than was emitted while someone was
// bonded.
func TestRandomOperations(t *testing.T) {
	f := fuzz.New().NilChance(0)
	stakers := []dist.Address{
		dist.BytesToAddress([]byte("s1")),
		dist.BytesToAddress([]byte("s2")),
		dist.BytesToAddress([]byte("s3")),
	}

	for round := range 50 {
		set := randomSchedule(f)
		total, err := set.Total()
		require.NoError(t, err)

		cfg := &Config{RewardToken: rewardToken, StakingToken: stakingToken, Schedule: set}
		l := NewLedger(cfg, NewState(owner, 0), nil)

		var ops []op
		f.NumElements(20, 60).Fuzz(&ops)

		var (
			h         uint64
			withdrawn = new(uint256.Int)
			migrated  = new(uint256.Int)
			prev      = l.State()
		)
		for _, o := range ops {
			// callers may pass heights behind the last distributed one
			if o.Step%8 == 7 {
				h -= min(h, uint64(o.Step%96))
			} else {
				h += uint64(o.Step % 64)
			}
			addr := stakers[int(o.Staker)%len(stakers)]
			amt := uint256.NewInt(uint64(o.Amount%10_000) + 1)

			switch o.Kind % 5 {
			case 0, 1:
				require.NoError(t, l.Bond(addr, amt, h))
			case 2:
				_, _ = l.Unbond(addr, amt, h)
			case 3:
				tr, err := l.Withdraw(addr, h)
				require.NoError(t, err)
				if tr != nil {
					withdrawn.Add(withdrawn, tr.Amount)
				}
			case 4:
				if o.Amount%7 == 0 {
					res, _, err := l.Migrate(owner, custodian, h)
					require.NoError(t, err)
					migrated.Add(migrated, res.Remaining)
				}
			}

			state := l.State()
			require.GreaterOrEqual(t, state.GlobalRewardIndex.Cmp(prev.GlobalRewardIndex), 0, "round %d", round)
			require.GreaterOrEqual(t, state.LastDistributed, prev.LastDistributed)

			bonded := new(uint256.Int)
			for _, s := range stakers {
				info, err := l.StakerInfo(s, state.LastDistributed)
				require.NoError(t, err)
				bonded.Add(bonded, info.BondAmount)
			}
			require.Equal(t, state.TotalBondAmount, bonded, spew.Sdump(ops))
			prev = state
		}

		last := l.State().LastDistributed
		credited := new(uint256.Int).Set(withdrawn)
		for _, s := range stakers {
			info, err := l.StakerInfo(s, last)
			require.NoError(t, err)
			credited.Add(credited, info.PendingReward)
		}
		emitted, err := l.Config().Schedule.Emitted(0, last)
		require.NoError(t, err)

		assert.True(t, credited.Cmp(emitted) <= 0, "credited %v emitted %v\n%s", credited, emitted, spew.Sdump(ops))
		assert.True(t, new(uint256.Int).Add(emitted, migrated).Cmp(total) <= 0)
	}
}

func TestAdvanceIdempotent(t *testing.T) {
	l := newLedger(t)
	require.NoError(t, l.Bond(staker0, amount(300), height))

	state := l.State()
	first, err := Advance(state, l.config.Schedule, height+33)
	require.NoError(t, err)
	snapshot := state.Copy()

	second, err := Advance(state, l.config.Schedule, height+33)
	require.NoError(t, err)
	assert.Equal(t, snapshot, state)
	assert.True(t, second.Emitted.IsZero())
	assert.False(t, first.Emitted.IsZero())

	// going back is a no-op too
	_, err = Advance(state, l.config.Schedule, height)
	require.NoError(t, err)
	assert.Equal(t, snapshot, state)
}

// Stepwise advancing never credits more than a single advance over the same
// range.
func TestAdvanceStepwise(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for range 100 {
		set := randomSchedule(f)
		var bond uint32
		f.Fuzz(&bond)
		bonded := uint256.NewInt(uint64(bond) + 1)

		single := &State{TotalBondAmount: bonded}
		_, err := Advance(single, set, 3_000)
		require.NoError(t, err)

		stepped := &State{TotalBondAmount: bonded}
		for h := uint64(0); h <= 3_000; h += 37 {
			_, err := Advance(stepped, set, h)
			require.NoError(t, err)
		}
		_, err = Advance(stepped, set, 3_000)
		require.NoError(t, err)

		assert.LessOrEqual(t, stepped.GlobalRewardIndex.Cmp(single.GlobalRewardIndex), 0)

		s := &Staker{BondAmount: bonded}
		require.NoError(t, Reconcile(s, single))
		emitted, err := set.Emitted(0, 3_000)
		require.NoError(t, err)
		assert.True(t, s.PendingReward.Cmp(emitted) <= 0)
	}
}

// Querying a staker and then touching it at the same height yield the same
// pending reward.
func TestReconcileConsistency(t *testing.T) {
	l := newLedger(t)
	require.NoError(t, l.Bond(staker0, amount(77), height))
	require.NoError(t, l.Bond(custodian, amount(33), height+5))

	info, err := l.StakerInfo(staker0, height+150)
	require.NoError(t, err)

	tr, err := l.Withdraw(staker0, height+150)
	require.NoError(t, err)
	assert.Equal(t, info.PendingReward, tr.Amount)
}
