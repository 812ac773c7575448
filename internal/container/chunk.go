package container

import (
	"fmt"

	"github.com/deploymenttheory/go-uf2/internal/parsers/uf2"
	"github.com/deploymenttheory/go-uf2/internal/types"
)

// Chunk splits blob into ceil(len(blob)/chunkSize) blocks addressed
// consecutively from startAddr and returns them as a new container.
// chunkSize must be in (0, 476]; the final block's payload is the true
// remainder. When familyID is non-zero every block carries it with the
// family-id flag set.
//
// Construction is two-pass: blocks are appended first, then a finalize
// pass stamps NumBlocks and BlockNo, since the total is only known once
// the whole blob has been chunked.
func Chunk(blob []byte, startAddr uint32, chunkSize int, familyID uint32) (*Container, error) {
	if chunkSize <= 0 || chunkSize > types.DataSize {
		return nil, fmt.Errorf("%w: chunk size %d", types.ErrPayloadSize, chunkSize)
	}

	c := New(nil)
	for off := 0; off < len(blob); off += chunkSize {
		end := off + chunkSize
		if end > len(blob) {
			end = len(blob)
		}
		block, err := uf2.NewDataBlock(blob[off:end])
		if err != nil {
			return nil, err
		}
		block.TargetAddr = startAddr + uint32(off)
		if familyID != 0 {
			block.Flags |= types.FlagFamilyIDPresent
			block.Reserved = familyID
		}
		if err := c.Append(block); err != nil {
			return nil, err
		}
	}
	c.Finalize()
	return c, nil
}
