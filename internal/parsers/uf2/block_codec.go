// Package uf2 implements encoding and decoding of single UF2 records.
package uf2

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-uf2/internal/types"
)

// DecodeBlock parses one 512-byte little-endian record into a Block.
// It fails with types.ErrRecordSize if data is not exactly 512 bytes and
// with types.ErrBadMagic if any of the three magic constants is wrong.
func DecodeBlock(data []byte) (*types.Block, error) {
	if len(data) != types.BlockSize {
		return nil, fmt.Errorf("%w: got %d bytes", types.ErrRecordSize, len(data))
	}

	endian := binary.LittleEndian

	b := &types.Block{}
	b.MagicStart0 = endian.Uint32(data[0:4])
	b.MagicStart1 = endian.Uint32(data[4:8])
	b.Flags = endian.Uint32(data[8:12])
	b.TargetAddr = endian.Uint32(data[12:16])
	b.PayloadSize = endian.Uint32(data[16:20])
	b.BlockNo = endian.Uint32(data[20:24])
	b.NumBlocks = endian.Uint32(data[24:28])
	b.Reserved = endian.Uint32(data[28:32])
	copy(b.Data[:], data[32:32+types.DataSize])
	b.MagicEnd = endian.Uint32(data[508:512])

	if !b.IsValid() {
		return nil, fmt.Errorf("%w: start0=0x%08X start1=0x%08X end=0x%08X",
			types.ErrBadMagic, b.MagicStart0, b.MagicStart1, b.MagicEnd)
	}
	return b, nil
}

// EncodeBlock serializes a Block into exactly 512 bytes. Payload bytes
// beyond PayloadSize are emitted as they appear in the data buffer, which
// is zero for blocks built through NewDataBlock or DecodeBlock.
func EncodeBlock(b *types.Block) []byte {
	data := make([]byte, types.BlockSize)
	endian := binary.LittleEndian

	endian.PutUint32(data[0:4], b.MagicStart0)
	endian.PutUint32(data[4:8], b.MagicStart1)
	endian.PutUint32(data[8:12], b.Flags)
	endian.PutUint32(data[12:16], b.TargetAddr)
	endian.PutUint32(data[16:20], b.PayloadSize)
	endian.PutUint32(data[20:24], b.BlockNo)
	endian.PutUint32(data[24:28], b.NumBlocks)
	endian.PutUint32(data[28:32], b.Reserved)
	copy(data[32:32+types.DataSize], b.Data[:])
	endian.PutUint32(data[508:512], b.MagicEnd)

	return data
}

// NewBlock returns an empty block with the three magic constants set.
func NewBlock() *types.Block {
	return &types.Block{
		MagicStart0: types.MagicStart0,
		MagicStart1: types.MagicStart1,
		MagicEnd:    types.MagicEnd,
	}
}

// NewDataBlock returns a block carrying chunk as its payload. It fails
// with types.ErrPayloadSize if chunk exceeds 476 bytes. The remainder of
// the data buffer is zero.
func NewDataBlock(chunk []byte) (*types.Block, error) {
	if len(chunk) > types.DataSize {
		return nil, fmt.Errorf("%w: %d bytes", types.ErrPayloadSize, len(chunk))
	}
	b := NewBlock()
	b.PayloadSize = uint32(len(chunk))
	copy(b.Data[:], chunk)
	return b, nil
}
