package core

import (
	"net/netip"
	"testing"

	"github.com/encodeous/routegen/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go4.org/netipx"
)

func nextBlocks(t *testing.T, a Allocator, n int) []Block {
	t.Helper()
	blocks := make([]Block, 0, n)
	for range n {
		b, err := a.Next()
		require.NoError(t, err)
		blocks = append(blocks, b)
	}
	return blocks
}

func TestAllocator_FixedV4(t *testing.T) {
	a, err := NewAllocator(state.AllocFixed, netip.MustParsePrefix("10.0.0.0/30"), 0, nil)
	require.NoError(t, err)
	blocks := nextBlocks(t, a, 3)

	assert.Equal(t, Block{
		Subnet: netip.MustParsePrefix("10.0.0.0/30"),
		A:      netip.MustParseAddr("10.0.0.1"),
		B:      netip.MustParseAddr("10.0.0.2"),
	}, blocks[0])
	assert.Equal(t, Block{
		Subnet: netip.MustParsePrefix("10.0.0.4/30"),
		A:      netip.MustParseAddr("10.0.0.5"),
		B:      netip.MustParseAddr("10.0.0.6"),
	}, blocks[1])
	assert.Equal(t, netip.MustParsePrefix("10.0.0.8/30"), blocks[2].Subnet)
}

func TestAllocator_FixedUnmaskedBase(t *testing.T) {
	a, err := NewAllocator(state.AllocFixed, netip.MustParsePrefix("10.0.0.6/30"), 0, nil)
	require.NoError(t, err)
	b, err := a.Next()
	require.NoError(t, err)
	assert.Equal(t, netip.MustParsePrefix("10.0.0.4/30"), b.Subnet)
}

func TestAllocator_FixedPointToPoint(t *testing.T) {
	a, err := NewAllocator(state.AllocFixed, netip.MustParsePrefix("10.0.0.0/31"), 0, nil)
	require.NoError(t, err)
	blocks := nextBlocks(t, a, 2)
	assert.Equal(t, netip.MustParseAddr("10.0.0.0"), blocks[0].A)
	assert.Equal(t, netip.MustParseAddr("10.0.0.1"), blocks[0].B)
	assert.Equal(t, netip.MustParsePrefix("10.0.0.2/31"), blocks[1].Subnet)

	a, err = NewAllocator(state.AllocFixed, netip.MustParsePrefix("2001:db8::/127"), 0, nil)
	require.NoError(t, err)
	b, err := a.Next()
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("2001:db8::"), b.A)
	assert.Equal(t, netip.MustParseAddr("2001:db8::1"), b.B)
}

func TestAllocator_FixedV6(t *testing.T) {
	a, err := NewAllocator(state.AllocFixed, netip.MustParsePrefix("2000:1::/64"), 0, nil)
	require.NoError(t, err)
	blocks := nextBlocks(t, a, 2)
	assert.Equal(t, netip.MustParseAddr("2000:1::1"), blocks[0].A)
	assert.Equal(t, netip.MustParseAddr("2000:1::2"), blocks[0].B)
	assert.Equal(t, netip.MustParsePrefix("2000:1:0:1::/64"), blocks[1].Subnet)
	assert.Equal(t, netip.MustParseAddr("2000:1:0:1::1"), blocks[1].A)
}

func TestAllocator_FixedDisjointIncreasing(t *testing.T) {
	a, err := NewAllocator(state.AllocFixed, netip.MustParsePrefix("192.168.0.0/29"), 0, nil)
	require.NoError(t, err)
	blocks := nextBlocks(t, a, 100)
	for i := range blocks {
		assert.True(t, blocks[i].Subnet.Contains(blocks[i].A))
		assert.True(t, blocks[i].Subnet.Contains(blocks[i].B))
		assert.NotEqual(t, blocks[i].A, blocks[i].B)
		if i == 0 {
			continue
		}
		prev, cur := blocks[i-1].Subnet, blocks[i].Subnet
		assert.Equal(t, netipx.PrefixLastIP(prev).Next(), cur.Addr(), "blocks must be adjacent")
		for _, other := range blocks[:i] {
			assert.False(t, other.Subnet.Overlaps(cur), "%s overlaps %s", other.Subnet, cur)
		}
	}
}

func TestAllocator_FixedEndOfFamily(t *testing.T) {
	a, err := NewAllocator(state.AllocFixed, netip.MustParsePrefix("255.255.255.248/30"), 0, nil)
	require.NoError(t, err)
	nextBlocks(t, a, 2)
	_, err = a.Next()
	assert.ErrorIs(t, err, state.ErrAddressSpaceExhausted)
}

func TestAllocator_Sequential(t *testing.T) {
	a, err := NewAllocator(state.AllocSequential, netip.MustParsePrefix("2001:db8::/63"), 64, nil)
	require.NoError(t, err)
	blocks := nextBlocks(t, a, 2)
	assert.Equal(t, Block{
		Subnet: netip.MustParsePrefix("2001:db8::/64"),
		A:      netip.MustParseAddr("2001:db8::1"),
		B:      netip.MustParseAddr("2001:db8::2"),
	}, blocks[0])
	assert.Equal(t, Block{
		Subnet: netip.MustParsePrefix("2001:db8:0:1::/64"),
		A:      netip.MustParseAddr("2001:db8:0:1::1"),
		B:      netip.MustParseAddr("2001:db8:0:1::2"),
	}, blocks[1])

	_, err = a.Next()
	assert.ErrorIs(t, err, state.ErrAddressSpaceExhausted)
	// stays exhausted
	_, err = a.Next()
	assert.ErrorIs(t, err, state.ErrAddressSpaceExhausted)
}

func TestAllocator_SequentialV4(t *testing.T) {
	a, err := NewAllocator(state.AllocSequential, netip.MustParsePrefix("10.1.0.0/28"), 30, nil)
	require.NoError(t, err)
	blocks := nextBlocks(t, a, 4)
	assert.Equal(t, netip.MustParsePrefix("10.1.0.12/30"), blocks[3].Subnet)
	assert.Equal(t, netip.MustParseAddr("10.1.0.13"), blocks[3].A)
	_, err = a.Next()
	assert.ErrorIs(t, err, state.ErrAddressSpaceExhausted)
}

func TestAllocator_Exclude(t *testing.T) {
	a, err := NewAllocator(state.AllocFixed, netip.MustParsePrefix("10.0.0.0/30"), 0,
		[]netip.Prefix{netip.MustParsePrefix("10.0.0.4/30")})
	require.NoError(t, err)
	blocks := nextBlocks(t, a, 2)
	assert.Equal(t, netip.MustParsePrefix("10.0.0.0/30"), blocks[0].Subnet)
	assert.Equal(t, netip.MustParsePrefix("10.0.0.8/30"), blocks[1].Subnet)

	// an excluded range bigger than the block is skipped as a whole
	a, err = NewAllocator(state.AllocFixed, netip.MustParsePrefix("10.0.0.0/30"), 0,
		[]netip.Prefix{netip.MustParsePrefix("10.0.0.0/24")})
	require.NoError(t, err)
	b, err := a.Next()
	require.NoError(t, err)
	assert.Equal(t, netip.MustParsePrefix("10.0.1.0/30"), b.Subnet)

	// an excluded address inside a bigger block takes the whole block out
	a, err = NewAllocator(state.AllocSequential, netip.MustParsePrefix("10.0.0.0/29"), 30,
		[]netip.Prefix{netip.MustParsePrefix("10.0.0.1/32")})
	require.NoError(t, err)
	b, err = a.Next()
	require.NoError(t, err)
	assert.Equal(t, netip.MustParsePrefix("10.0.0.4/30"), b.Subnet)
	_, err = a.Next()
	assert.ErrorIs(t, err, state.ErrAddressSpaceExhausted)
}

func TestAllocator_Owner(t *testing.T) {
	a, err := NewAllocator(state.AllocFixed, netip.MustParsePrefix("10.0.0.0/30"), 0, nil)
	require.NoError(t, err)
	blocks := nextBlocks(t, a, 2)

	owner, ok := a.Owner(blocks[1].B)
	assert.True(t, ok)
	assert.Equal(t, blocks[1].Subnet, owner)

	_, ok = a.Owner(netip.MustParseAddr("10.0.0.9"))
	assert.False(t, ok)

	assert.Equal(t, []netip.Prefix{blocks[0].Subnet, blocks[1].Subnet}, a.Allocated())
}

func TestLedger_Overlap(t *testing.T) {
	l := newLedger(nil)
	require.NoError(t, l.claim(netip.MustParsePrefix("10.0.0.0/30")))
	assert.ErrorIs(t, l.claim(netip.MustParsePrefix("10.0.0.0/29")), state.ErrOverlap)
	assert.ErrorIs(t, l.claim(netip.MustParsePrefix("10.0.0.2/31")), state.ErrOverlap)
	assert.NoError(t, l.claim(netip.MustParsePrefix("10.0.0.4/30")))
}

func TestNewAllocator_Invalid(t *testing.T) {
	_, err := NewAllocator(state.AllocFixed, netip.MustParsePrefix("10.0.0.1/32"), 0, nil)
	assert.ErrorIs(t, err, state.ErrInvalidConfig)

	_, err = NewAllocator(state.AllocSequential, netip.MustParsePrefix("10.0.0.0/24"), 16, nil)
	assert.ErrorIs(t, err, state.ErrInvalidConfig)

	_, err = NewAllocator(state.AllocSequential, netip.MustParsePrefix("10.0.0.0/24"), 31, nil)
	assert.ErrorIs(t, err, state.ErrInvalidConfig)

	_, err = NewAllocator("random", netip.MustParsePrefix("10.0.0.0/24"), 30, nil)
	assert.ErrorIs(t, err, state.ErrInvalidConfig)

	_, err = NewAllocator(state.AllocFixed, netip.Prefix{}, 0, nil)
	assert.ErrorIs(t, err, state.ErrInvalidConfig)
}
