package container

import (
	"bytes"

	log "github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-uf2/internal/types"
)

// littlefsMarker is the 16-byte signature found in the first blocks of a
// littlefs filesystem image.
var littlefsMarker = []byte{
	0xF0, 0x0F, 0xFF, 0xF7,
	'l', 'i', 't', 't', 'l', 'e', 'f', 's', '/',
	0xE0, 0x00, 0x10,
}

// sectorSize is the flash sector alignment littlefs superblocks are
// expected to sit on.
const sectorSize = 4096

// Scan recomputes the derived state of the container from its current
// blocks: family addresses, address ranges and littlefs superblock
// locations. It is idempotent and does not mutate the blocks.
func (c *Container) Scan() {
	c.scanFamilies()
	c.scanRanges()
	c.scanLittlefs()
	c.scanned = true
}

// scanRanges splits the block sequence into maximal [start, end) address
// intervals. A new range starts on an address gap, and also when a
// block's payload is entirely zero: zeroed content is treated as an
// explicit boundary marker even when address-contiguous.
func (c *Container) scanRanges() {
	c.ranges = nil
	var start, last uint32
	first := true
	for i := range c.blocks {
		b := &c.blocks[i]
		if first {
			start = b.TargetAddr
			first = false
		} else if b.TargetAddr != last || allZero(b.Payload()) {
			c.ranges = append(c.ranges, Range{Start: start, End: last})
			start = b.TargetAddr
		}
		last = b.EndAddr()
	}
	if !first {
		c.ranges = append(c.ranges, Range{Start: start, End: last})
	}
}

// scanFamilies records the lowest target address seen per family name.
// When a family occurs in multiple disjoint regions only the
// lowest-address one is retained.
func (c *Container) scanFamilies() {
	c.families = make(map[string]uint32)
	for i := range c.blocks {
		b := &c.blocks[i]
		if b.Flags&types.FlagFamilyIDPresent == 0 {
			continue
		}
		name := UnknownFamily
		if c.registry != nil {
			if known, ok := c.registry.Name(b.Reserved); ok {
				name = known
			}
		}
		if addr, seen := c.families[name]; !seen || b.TargetAddr < addr {
			c.families[name] = b.TargetAddr
		}
	}
}

// scanLittlefs records the index of every block that is sector-aligned
// and carries the littlefs signature anywhere in its data buffer. The
// filesystem's internal structure is not validated; a filesystem mounted
// at a non-aligned offset will not be found.
func (c *Container) scanLittlefs() {
	c.superblocks = nil
	for i := range c.blocks {
		b := &c.blocks[i]
		if b.TargetAddr%sectorSize == 0 && bytes.Contains(b.Data[:], littlefsMarker) {
			log.Debugf("littlefs superblock in block %d at 0x%08X", i, b.TargetAddr)
			c.superblocks = append(c.superblocks, i)
		}
	}
}

func allZero(p []byte) bool {
	for _, v := range p {
		if v != 0 {
			return false
		}
	}
	return true
}
