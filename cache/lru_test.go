// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUGetOrLoad(t *testing.T) {
	_, err := NewLRU(0)
	assert.Error(t, err)

	c, err := NewLRU(2)
	require.NoError(t, err)

	loads := 0
	loader := func(key any) (any, error) {
		loads++
		return key.(int) * 10, nil
	}

	v, err := c.GetOrLoad(1, loader)
	assert.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = c.GetOrLoad(1, loader)
	assert.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, loads)

	hit, miss := c.Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	_, err = c.GetOrLoad(2, func(any) (any, error) { return nil, errors.New("boom") })
	assert.Error(t, err)
	_, ok := c.Get(2)
	assert.False(t, ok)
}
