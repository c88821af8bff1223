// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/distributor/contract"
)

const genesisYAML = `
name: testnet
reward_token: "0x0000000000000000000000000000000000000001"
staking_token: "0x0000000000000000000000000000000000000002"
owner: "0x0000000000000000000000000000000000000003"
height: 12345
schedule:
  - start: 12345
    end: 12445
    amount: "1000000"
  - start: 12445
    end: 12545
    amount: "10000000"
`

func TestLoad(t *testing.T) {
	gen, err := Load(strings.NewReader(genesisYAML))
	require.NoError(t, err)

	assert.Equal(t, "testnet", gen.Name())
	assert.Equal(t, uint64(12345), gen.Height())
	assert.Equal(t, "0x0000000000000000000000000000000000000003", gen.Owner().String())

	env, info, msg := gen.Instantiate()
	assert.Equal(t, uint64(12345), env.Height)
	assert.Equal(t, gen.Owner(), info.Sender)
	assert.Equal(t, "0x0000000000000000000000000000000000000001", msg.RewardToken.String())
	assert.Equal(t, "0x0000000000000000000000000000000000000002", msg.StakingToken.String())
	assert.Equal(t, []contract.ScheduleTuple{
		{Start: 12345, End: 12445, Amount: uint256.NewInt(1_000_000)},
		{Start: 12445, End: 12545, Amount: uint256.NewInt(10_000_000)},
	}, msg.DistributionSchedule)

	// the id is stable and depends on the content
	again, err := Load(strings.NewReader(genesisYAML))
	require.NoError(t, err)
	assert.Equal(t, gen.ID(), again.ID())
	assert.Len(t, gen.IDString(), 66)

	other, err := Load(strings.NewReader(strings.Replace(genesisYAML, "height: 12345", "height: 12346", 1)))
	require.NoError(t, err)
	assert.NotEqual(t, gen.ID(), other.ID())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(genesisYAML), 0o600))

	gen, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "testnet", gen.Name())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		err     string
	}{
		{"unknown field", [2]string{"height:", "blocks:"}, "field blocks not found"},
		{"bad address", [2]string{`"0x0000000000000000000000000000000000000003"`, `"0x03"`}, "invalid length"},
		{"zero owner", [2]string{`"0x0000000000000000000000000000000000000003"`, `"0x0000000000000000000000000000000000000000"`}, "owner must be set"},
		{"bad amount", [2]string{`"1000000"`, `"1e6"`}, "schedule[0].amount"},
		{"overlap", [2]string{"start: 12445", "start: 12400"}, "schedule period overtakes an existing upcoming schedule period"},
		{"empty range", [2]string{"end: 12445", "end: 12345"}, "end must be greater than begin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(strings.Replace(genesisYAML, tt.replace[0], tt.replace[1], 1)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestDevnet(t *testing.T) {
	gen := NewDevnet()
	assert.Equal(t, "devnet", gen.Name())
	assert.Equal(t, DevAccounts.Owner, gen.Owner())
	assert.Equal(t, NewDevnet().ID(), gen.ID())

	_, _, msg := gen.Instantiate()
	assert.Len(t, msg.DistributionSchedule, 2)
}
