package services

import (
	"bytes"
	"testing"

	"github.com/marcinbor85/gohex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertBinary(t *testing.T) {
	blob := bytes.Repeat([]byte{0xAB}, 600)

	c, err := ConvertBinary(blob, 0x2000, 256, 0xe48bff56)
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())
	assert.Equal(t, uint32(0x2000), c.Block(0).TargetAddr)
	assert.Equal(t, uint32(88), c.Block(2).PayloadSize)
	assert.Equal(t, uint32(0xe48bff56), c.Block(0).FamilyID())
}

// intelHex renders segments as Intel HEX text using the same library the
// converter parses with, avoiding hand-computed record checksums.
func intelHex(t *testing.T, segments map[uint32][]byte) *bytes.Buffer {
	t.Helper()
	mem := gohex.NewMemory()
	for addr, data := range segments {
		require.NoError(t, mem.AddBinary(addr, data))
	}
	var buf bytes.Buffer
	require.NoError(t, mem.DumpIntelHex(&buf, 16))
	return &buf
}

func TestConvertIntelHex(t *testing.T) {
	hex := intelHex(t, map[uint32][]byte{
		0x1000: bytes.Repeat([]byte{0x11}, 300),
		0x4000: bytes.Repeat([]byte{0x22}, 100),
	})

	c, err := ConvertIntelHex(hex, 256, 0)
	require.NoError(t, err)
	// 300 bytes -> 2 blocks, 100 bytes -> 1 block
	require.Equal(t, 3, c.Len())
	assert.Equal(t, uint32(0x1000), c.Block(0).TargetAddr)
	assert.Equal(t, uint32(0x1100), c.Block(1).TargetAddr)
	assert.Equal(t, uint32(44), c.Block(1).PayloadSize)
	assert.Equal(t, uint32(0x4000), c.Block(2).TargetAddr)

	// Renumbered as one logical container.
	for i := 0; i < c.Len(); i++ {
		assert.Equal(t, uint32(i), c.Block(i).BlockNo)
		assert.Equal(t, uint32(3), c.Block(i).NumBlocks)
	}
}

func TestConvertIntelHexRejectsBadInput(t *testing.T) {
	_, err := ConvertIntelHex(bytes.NewBufferString("not intel hex\n"), 256, 0)
	assert.Error(t, err)
}

func TestDumpIntelHexRoundTrip(t *testing.T) {
	segments := map[uint32][]byte{
		0x1000: bytes.Repeat([]byte{0x11}, 300),
		0x4000: bytes.Repeat([]byte{0x22}, 100),
	}
	c, err := ConvertIntelHex(intelHex(t, segments), 256, 0)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, DumpIntelHex(c, &out))

	mem := gohex.NewMemory()
	require.NoError(t, mem.ParseIntelHex(&out))
	parsed := mem.GetDataSegments()
	require.Len(t, parsed, 2)
	for _, seg := range parsed {
		assert.Equal(t, segments[seg.Address], seg.Data)
	}
}
