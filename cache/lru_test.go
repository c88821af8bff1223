// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU(t *testing.T) {
	_, err := NewLRU[string, int](0)
	assert.Error(t, err)

	c, err := NewLRU[string, int](2)
	require.NoError(t, err)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("a")
	assert.False(t, ok, "evicted")
	v, ok := c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	c.Remove("c")
	_, ok = c.Get("c")
	assert.False(t, ok)

	stats, _ := c.Stats()
	assert.Equal(t, Stats{Hit: 1, Miss: 3}, stats)

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestGetOrLoad(t *testing.T) {
	c, err := NewLRU[string, int](4)
	require.NoError(t, err)

	loads := 0
	loader := func(key string) (int, error) {
		loads++
		if key == "bad" {
			return 0, errors.New("load failed")
		}
		return len(key), nil
	}

	for range 3 {
		v, err := c.GetOrLoad("staker", loader)
		require.NoError(t, err)
		assert.Equal(t, 6, v)
	}
	assert.Equal(t, 1, loads)

	_, err = c.GetOrLoad("bad", loader)
	assert.EqualError(t, err, "load failed")
	_, ok := c.Get("bad")
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	assert.Equal(t, int64(0), Stats{}.HitRate())
	assert.Equal(t, int64(750), Stats{Hit: 3, Miss: 1}.HitRate())

	c, err := NewLRU[int, int](8)
	require.NoError(t, err)

	c.Add(1, 1)
	c.Get(1)
	c.Get(2)
	stats, changed := c.Stats()
	assert.Equal(t, Stats{Hit: 1, Miss: 1}, stats)
	assert.True(t, changed)

	_, changed = c.Stats()
	assert.False(t, changed, "no lookups since last call")

	c.Get(1)
	c.Get(1)
	stats, changed = c.Stats()
	assert.Equal(t, int64(750), stats.HitRate())
	assert.True(t, changed)
}
