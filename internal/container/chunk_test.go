package container

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-uf2/internal/types"
)

func TestChunkPayloadSumEqualsInput(t *testing.T) {
	tests := []struct {
		name      string
		blobLen   int
		chunkSize int
		blocks    int
	}{
		{name: "even split", blobLen: 1024, chunkSize: 256, blocks: 4},
		{name: "with remainder", blobLen: 1000, chunkSize: 256, blocks: 4},
		{name: "single partial block", blobLen: 100, chunkSize: 256, blocks: 1},
		{name: "full payload chunks", blobLen: 953, chunkSize: types.DataSize, blocks: 3},
		{name: "empty blob", blobLen: 0, chunkSize: 256, blocks: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob := bytes.Repeat([]byte{0x5A}, tt.blobLen)
			c, err := Chunk(blob, 0x2000, tt.chunkSize, 0)
			require.NoError(t, err)
			require.Equal(t, tt.blocks, c.Len())

			var total uint32
			for i := 0; i < c.Len(); i++ {
				total += c.Block(i).PayloadSize
			}
			assert.Equal(t, uint32(tt.blobLen), total)
		})
	}
}

func TestChunkFinalizesNumbering(t *testing.T) {
	c, err := Chunk(make([]byte, 1000), 0x2000, 256, 0)
	require.NoError(t, err)
	require.Equal(t, 4, c.Len())

	for i := 0; i < c.Len(); i++ {
		b := c.Block(i)
		assert.Equal(t, uint32(i), b.BlockNo)
		assert.Equal(t, uint32(4), b.NumBlocks)
	}
	// ceil(1000/256) = 4, final block holds the true remainder
	assert.Equal(t, uint32(232), c.Block(3).PayloadSize)
	assert.Equal(t, uint32(0x2000+3*256), c.Block(3).TargetAddr)
}

func TestChunkAddressing(t *testing.T) {
	blob := bytes.Repeat([]byte{1}, 600)
	c, err := Chunk(blob, 0x1001_0000, 200, 0)
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())
	for i := 0; i < c.Len(); i++ {
		assert.Equal(t, uint32(0x1001_0000+i*200), c.Block(i).TargetAddr)
	}
}

func TestChunkFamilyTagging(t *testing.T) {
	tests := []struct {
		name     string
		familyID uint32
	}{
		{name: "with family", familyID: 0xe48bff56},
		{name: "without family", familyID: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Chunk(make([]byte, 512), 0x2000, 256, tt.familyID)
			require.NoError(t, err)
			for i := 0; i < c.Len(); i++ {
				b := c.Block(i)
				if tt.familyID != 0 {
					assert.Equal(t, types.FlagFamilyIDPresent, b.Flags&types.FlagFamilyIDPresent)
					assert.Equal(t, tt.familyID, b.Reserved)
				} else {
					assert.Zero(t, b.Flags&types.FlagFamilyIDPresent)
					assert.Zero(t, b.Reserved)
				}
			}
		})
	}
}

func TestChunkSizeValidation(t *testing.T) {
	for _, size := range []int{-1, 0, types.DataSize + 1} {
		_, err := Chunk(make([]byte, 10), 0x2000, size, 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrPayloadSize)
	}
}

func TestChunkBlocksAreValidRecords(t *testing.T) {
	c, err := Chunk([]byte("hello world"), 0x2000, 4, 0)
	require.NoError(t, err)
	for i := 0; i < c.Len(); i++ {
		assert.True(t, c.Block(i).IsValid())
	}
}
