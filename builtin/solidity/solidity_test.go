// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/lvldb"
	"github.com/cosmicsignature/engine/state"
)

type TestStruct struct {
	Field1 uint64
	Field2 *big.Int
	Addr1  cosmic.Address
	Flag   bool
}

// newContext returns a fresh Context with in-memory DB.
func newContext() *Context {
	db, _ := lvldb.NewMem()
	st := state.NewStater(db).NewState(cosmic.Bytes32{})
	return NewContext(cosmic.Address{1}, st)
}

func TestMapping(t *testing.T) {
	ctx := newContext()
	m := NewMapping[UintKey, TestStruct](ctx, Slot("records"))

	v, err := m.Get(1)
	require.NoError(t, err)
	assert.Equal(t, TestStruct{}, v)
	exists, _ := m.Exists(1)
	assert.False(t, exists)

	want := TestStruct{Field1: 2, Field2: big.NewInt(3), Addr1: cosmic.Address{4}, Flag: true}
	require.NoError(t, m.Set(1, want))

	v, err = m.Get(1)
	require.NoError(t, err)
	assert.Equal(t, want, v)
	exists, _ = m.Exists(1)
	assert.True(t, exists)

	// other keys are untouched
	v, _ = m.Get(2)
	assert.Equal(t, TestStruct{}, v)

	m.Delete(1)
	exists, _ = m.Exists(1)
	assert.False(t, exists)
}

func TestMappingPointerValue(t *testing.T) {
	ctx := newContext()
	m := NewMapping[cosmic.Address, *TestStruct](ctx, Slot("ptrs"))

	v, err := m.Get(cosmic.Address{9})
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, uint64(0), v.Field1)

	require.NoError(t, m.Set(cosmic.Address{9}, &TestStruct{Field1: 5, Field2: big.NewInt(0)}))
	v, _ = m.Get(cosmic.Address{9})
	assert.Equal(t, uint64(5), v.Field1)
}

func TestCompositeKey(t *testing.T) {
	a := CompositeKey(UintKey(1), cosmic.Address{2})
	b := CompositeKey(UintKey(1), cosmic.Address{3})
	assert.NotEqual(t, a, b)

	// length prefixes keep the split points distinct
	assert.NotEqual(t, CompositeKey(BytesKey{1, 2}, BytesKey{3}), CompositeKey(BytesKey{1}, BytesKey{2, 3}))
	assert.Equal(t, big.NewInt(258).Bytes(), BigKey{big.NewInt(258)}.Bytes())
}

func TestUint256(t *testing.T) {
	ctx := newContext()
	u := NewUint256(ctx, cosmic.Bytes32{0o1})

	u.Set(big.NewInt(1000))
	value, err := u.Get()
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), value)

	assert.NoError(t, u.Add(big.NewInt(500)))
	value, _ = u.Get()
	assert.Equal(t, big.NewInt(1500), value)

	assert.NoError(t, u.Sub(big.NewInt(200)))
	value, _ = u.Get()
	assert.Equal(t, big.NewInt(1300), value)

	n := NewUint64(ctx, cosmic.Bytes32{0o2})
	n.Set(41)
	v, err := n.Increment()
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), v)
}

func TestAddressAndBytes32(t *testing.T) {
	ctx := newContext()
	a := NewAddress(ctx, Slot("owner"))

	addr, err := a.Get()
	assert.NoError(t, err)
	assert.True(t, addr.IsZero())

	a.Set(cosmic.BytesToAddress([]byte("owner")))
	addr, _ = a.Get()
	assert.Equal(t, cosmic.BytesToAddress([]byte("owner")), addr)

	b := NewBytes32(ctx, Slot("hash"))
	b.Set(cosmic.Bytes32{0xff})
	h, _ := b.Get()
	assert.Equal(t, cosmic.Bytes32{0xff}, h)
}

func TestRaw(t *testing.T) {
	ctx := newContext()
	r := NewRaw[TestStruct](ctx, Slot("raw"))

	require.NoError(t, r.Set(TestStruct{Field1: 7, Field2: big.NewInt(1)}))
	v, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v.Field1)
}

func TestArray(t *testing.T) {
	ctx := newContext()
	a := NewArray[cosmic.Address](ctx, Slot("array"))

	for i := range 4 {
		idx, err := a.Push(cosmic.Address{byte(i + 1)})
		require.NoError(t, err)
		assert.Equal(t, uint64(i), idx)
	}
	n, _ := a.Len()
	assert.Equal(t, uint64(4), n)

	_, err := a.Get(4)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, a.Set(4, cosmic.Address{}), ErrIndexOutOfRange)

	// remove the second element, the last one takes its place
	moved, ok, err := a.SwapRemove(1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, cosmic.Address{4}, moved)

	v, _ := a.Get(1)
	assert.Equal(t, cosmic.Address{4}, v)
	n, _ = a.Len()
	assert.Equal(t, uint64(3), n)

	// removing the last element moves nothing
	_, ok, err = a.SwapRemove(2)
	require.NoError(t, err)
	assert.False(t, ok)
	n, _ = a.Len()
	assert.Equal(t, uint64(2), n)

	require.NoError(t, a.Set(0, cosmic.Address{9}))
	v, _ = a.Get(0)
	assert.Equal(t, cosmic.Address{9}, v)
}
