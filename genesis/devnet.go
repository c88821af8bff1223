// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/vechain/distributor/dist"
)

// DevAccounts are the well known addresses of the dev genesis.
var DevAccounts = struct {
	Owner        dist.Address
	RewardToken  dist.Address
	StakingToken dist.Address
}{
	Owner:        dist.MustParseAddress("0xf077b491b355e64048ce21e3a6fc4751eeea77fa"),
	RewardToken:  dist.MustParseAddress("0x0000000000000000000000000000456e65726779"),
	StakingToken: dist.MustParseAddress("0x435933c8064b4ae76be665428e0307ef2ccfbd68"),
}

// NewDevnet creates the dev genesis: two consecutive periods starting at
// height zero.
func NewDevnet() *Genesis {
	gen, err := New(&Config{
		Name:         "devnet",
		RewardToken:  DevAccounts.RewardToken,
		StakingToken: DevAccounts.StakingToken,
		Owner:        DevAccounts.Owner,
		Height:       0,
		Schedule: []Entry{
			{Start: 0, End: 100_000, Amount: "1000000000000000000000000"},
			{Start: 100_000, End: 200_000, Amount: "10000000000000000000000000"},
		},
	})
	if err != nil {
		panic(err)
	}
	return gen
}
