// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/distributor/dist"
)

// Migrate ends distribution at height, or at LastDistributed when height is
// behind it. Emission up to the cutoff stays with the current stakers, the
// rest of the schedule is dropped and its amount is sent to custodian. The
// returned transfer is nil when nothing remains.
//
// The configured staking token is left as is.
func (l *Ledger) Migrate(caller, custodian dist.Address, height uint64) (*MigrationResult, *Transfer, error) {
	logger.Debug("migrating", "caller", caller, "custodian", custodian, "height", height)

	if err := CheckOwner(l.state, caller); err != nil {
		logger.Info("migrate failed", "caller", caller, "error", err)
		return nil, nil, err
	}

	// emission before LastDistributed is already credited and cannot be split off
	cutoff := max(height, l.state.LastDistributed)

	state := l.state.Copy()
	if _, err := Advance(state, l.config.Schedule, cutoff); err != nil {
		logger.Info("migrate failed", "error", err)
		return nil, nil, err
	}
	set := l.config.Schedule.Copy()
	distributed, remaining, err := set.TruncateAndSplit(cutoff)
	if err != nil {
		logger.Info("migrate failed", "error", err)
		return nil, nil, err
	}

	l.state = state
	l.config.Schedule = set
	l.configChanged = true

	logger.Info("migrated", "custodian", custodian, "distributed", distributed, "remaining", remaining)

	result := &MigrationResult{Distributed: distributed, Remaining: remaining}
	if remaining.IsZero() {
		return result, nil, nil
	}
	return result, &Transfer{
		Token:     l.config.RewardToken,
		Recipient: custodian,
		Amount:    remaining,
	}, nil
}
