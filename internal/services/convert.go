package services

import (
	"fmt"
	"io"
	"sort"

	"github.com/marcinbor85/gohex"

	"github.com/deploymenttheory/go-uf2/internal/container"
)

// ConvertBinary chunks a raw firmware blob into a UF2 container starting
// at baseAddr.
func ConvertBinary(blob []byte, baseAddr uint32, chunkSize int, familyID uint32) (*container.Container, error) {
	return container.Chunk(blob, baseAddr, chunkSize, familyID)
}

// ConvertIntelHex reads an Intel HEX firmware from r and chunks each
// data segment into UF2 blocks at the segment's own address. Segments
// are laid out in ascending address order and the result is renumbered
// as one logical container.
func ConvertIntelHex(r io.Reader, chunkSize int, familyID uint32) (*container.Container, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, fmt.Errorf("parsing intel hex: %w", err)
	}
	segments := mem.GetDataSegments()
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Address < segments[j].Address
	})

	c := container.New(nil)
	for _, seg := range segments {
		sub, err := container.Chunk(seg.Data, seg.Address, chunkSize, familyID)
		if err != nil {
			return nil, err
		}
		if err := c.Extend(sub); err != nil {
			return nil, fmt.Errorf("segment at 0x%08X: %w", seg.Address, err)
		}
	}
	c.Finalize()
	return c, nil
}

// DumpIntelHex writes the container's flash content as Intel HEX, one
// contiguous run of blocks per segment.
func DumpIntelHex(c *container.Container, w io.Writer) error {
	mem := gohex.NewMemory()

	var buf []byte
	var start, last uint32
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := mem.AddBinary(start, buf); err != nil {
			return fmt.Errorf("segment at 0x%08X: %w", start, err)
		}
		buf = nil
		return nil
	}
	for i := 0; i < c.Len(); i++ {
		b := c.Block(i)
		if b.PayloadSize == 0 {
			continue
		}
		if len(buf) == 0 || b.TargetAddr != last {
			if err := flush(); err != nil {
				return err
			}
			start = b.TargetAddr
		}
		buf = append(buf, b.Payload()...)
		last = b.EndAddr()
	}
	if err := flush(); err != nil {
		return err
	}
	return mem.DumpIntelHex(w, 16)
}
