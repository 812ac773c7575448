package container

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-uf2/internal/types"
)

func TestScanRangesSingleContiguousRange(t *testing.T) {
	c := New(nil)
	for _, addr := range []uint32{0x1000, 0x1200, 0x1400, 0x1600} {
		require.NoError(t, c.Append(dataBlock(t, addr, bytes.Repeat([]byte{0xFF}, 0x200))))
	}
	c.Scan()

	assert.Equal(t, []Range{{Start: 0x1000, End: 0x1800}}, c.Ranges())
}

func TestScanRangesAddressGap(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Append(dataBlock(t, 0x1000, []byte{1, 2, 3, 4})))
	require.NoError(t, c.Append(dataBlock(t, 0x2000, []byte{5, 6})))
	c.Scan()

	assert.Equal(t, []Range{
		{Start: 0x1000, End: 0x1004},
		{Start: 0x2000, End: 0x2002},
	}, c.Ranges())
}

func TestScanRangesZeroPayloadIsBoundary(t *testing.T) {
	// An all-zero payload opens a new range even when the block is
	// address-contiguous with its predecessor.
	c := New(nil)
	require.NoError(t, c.Append(dataBlock(t, 0x1000, []byte{1, 2, 3, 4})))
	require.NoError(t, c.Append(dataBlock(t, 0x1004, []byte{0, 0, 0, 0})))
	require.NoError(t, c.Append(dataBlock(t, 0x1008, []byte{5, 6, 7, 8})))
	c.Scan()

	assert.Equal(t, []Range{
		{Start: 0x1000, End: 0x1004},
		{Start: 0x1004, End: 0x1008},
		{Start: 0x1008, End: 0x100C},
	}, c.Ranges())
}

func TestScanRangesEmptyContainer(t *testing.T) {
	c := New(nil)
	c.Scan()
	assert.Empty(t, c.Ranges())
}

func TestScanIsIdempotent(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Append(dataBlock(t, 0x1000, []byte{1})))
	c.Scan()
	first := c.Ranges()
	c.Scan()
	assert.Equal(t, first, c.Ranges())
	assert.True(t, c.Scanned())
}

func TestMutationMarksDerivedStateStale(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Append(dataBlock(t, 0x1000, []byte{1})))
	c.Scan()
	require.True(t, c.Scanned())

	require.NoError(t, c.Append(dataBlock(t, 0x2000, []byte{2})))
	assert.False(t, c.Scanned())
}

func TestScanFamiliesKeepsLowestAddress(t *testing.T) {
	reg := fakeRegistry{0xe48bff56: "RP2040"}
	c := New(reg)

	high := dataBlock(t, 0x3000, []byte{1})
	high.Flags |= types.FlagFamilyIDPresent
	high.Reserved = 0xe48bff56
	require.NoError(t, c.Append(high))

	unknown := dataBlock(t, 0x4000, []byte{2})
	unknown.Flags |= types.FlagFamilyIDPresent
	unknown.Reserved = 0xdeadbeef
	require.NoError(t, c.Append(unknown))

	low := dataBlock(t, 0x5000, []byte{3})
	low.Flags |= types.FlagFamilyIDPresent
	low.Reserved = 0xe48bff56
	require.NoError(t, c.Append(low))

	c.Scan()

	// The later RP2040 block is at a higher address, so the first one wins.
	assert.Equal(t, map[string]uint32{
		"RP2040":      0x3000,
		UnknownFamily: 0x4000,
	}, c.Families())
}

func TestScanLittlefsAlignment(t *testing.T) {
	tests := []struct {
		name     string
		addr     uint32
		expected []int
	}{
		{name: "sector aligned", addr: 0x2000, expected: []int{0}},
		{name: "not aligned", addr: 0x2100, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := append([]byte{0xAA, 0xBB}, littlefsMarker...)
			c := New(nil)
			require.NoError(t, c.Append(dataBlock(t, tt.addr, payload)))
			c.Scan()
			assert.Equal(t, tt.expected, c.Superblocks())
		})
	}
}

func TestScanLittlefsIgnoresBlocksWithoutMarker(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Append(dataBlock(t, 0x2000, []byte("not a filesystem"))))
	c.Scan()
	assert.Empty(t, c.Superblocks())
}
