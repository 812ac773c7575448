// Package container implements the UF2 container engine: an ordered,
// invariant-checked sequence of blocks with derived structural state
// (address ranges, device families, embedded-filesystem locations).
package container

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-uf2/internal/interfaces"
	"github.com/deploymenttheory/go-uf2/internal/parsers/uf2"
	"github.com/deploymenttheory/go-uf2/internal/types"
)

// UnknownFamily is the name recorded for family ids the registry cannot
// resolve.
const UnknownFamily = "unknown"

// Range is a maximal contiguous flash interval [Start, End) covered by
// consecutive blocks.
type Range struct {
	Start uint32
	End   uint32
}

// Container is an ordered sequence of UF2 blocks plus derived state.
// Derived state is recomputed by Scan and becomes stale on any mutation;
// accessors return whatever the last Scan produced. A Container is owned
// by a single caller and is not safe for concurrent mutation.
type Container struct {
	blocks   []types.Block
	registry interfaces.FamilyRegistry

	ranges      []Range
	families    map[string]uint32
	superblocks []int
	scanned     bool

	info *interfaces.BinaryInfo
}

// New returns an empty container. The registry resolves family ids
// during Scan; a nil registry leaves every id unresolved.
func New(registry interfaces.FamilyRegistry) *Container {
	return &Container{registry: registry}
}

// Len returns the number of blocks.
func (c *Container) Len() int {
	return len(c.blocks)
}

// Block returns a pointer to the i-th block. The pointer stays valid
// until the next mutation of the container.
func (c *Container) Block(i int) *types.Block {
	return &c.blocks[i]
}

// Append adds a copy of b to the end of the container. It fails with
// types.ErrBlockOrder, leaving the container unchanged, if b would start
// before the end address of the current last block. On success the
// stored block's BlockNo is the container length before insertion.
func (c *Container) Append(b *types.Block) error {
	if n := len(c.blocks); n > 0 {
		last := &c.blocks[n-1]
		if b.TargetAddr < last.EndAddr() {
			return fmt.Errorf("%w: block at 0x%08X starts before previous block end 0x%08X",
				types.ErrBlockOrder, b.TargetAddr, last.EndAddr())
		}
	}
	stored := *b
	stored.BlockNo = uint32(len(c.blocks))
	c.blocks = append(c.blocks, stored)
	c.scanned = false
	return nil
}

// Extend appends every block of other in order, stopping at and
// returning the first append failure.
func (c *Container) Extend(other *Container) error {
	for i := range other.blocks {
		if err := c.Append(&other.blocks[i]); err != nil {
			return err
		}
	}
	return nil
}

// Load reads sequential 512-byte records from r until EOF. Records that
// fail magic validation are skipped with a warning so trailing garbage or
// isolated corrupt records do not abort the read; valid records are
// appended in read order without the overlap check, trusting the on-disk
// order. A read failure other than EOF is returned as-is.
func (c *Container) Load(r io.Reader) error {
	buf := make([]byte, types.BlockSize)
	for i := 0; ; i++ {
		_, err := io.ReadFull(r, buf)
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			log.Warnf("discarding truncated record %d at end of input", i)
			break
		}
		if err != nil {
			return fmt.Errorf("reading record %d: %w", i, err)
		}
		block, err := uf2.DecodeBlock(buf)
		if err != nil {
			log.Warnf("skipping record %d: %v", i, err)
			continue
		}
		c.blocks = append(c.blocks, *block)
	}
	c.scanned = false
	return nil
}

// ReadFile loads path and scans the result.
func (c *Container) ReadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	if err := c.Load(f); err != nil {
		return err
	}
	c.Scan()
	return nil
}

// Finalize stamps every block's NumBlocks with the container length and
// BlockNo with its index, making the sequence internally consistent.
func (c *Container) Finalize() {
	n := uint32(len(c.blocks))
	for i := range c.blocks {
		c.blocks[i].NumBlocks = n
		c.blocks[i].BlockNo = uint32(i)
	}
	c.scanned = false
}

// Clone returns a deep copy of the container, including derived state
// and binary metadata.
func (c *Container) Clone() *Container {
	dup := &Container{
		blocks:   append([]types.Block(nil), c.blocks...),
		registry: c.registry,
		scanned:  c.scanned,
	}
	dup.ranges = append([]Range(nil), c.ranges...)
	dup.superblocks = append([]int(nil), c.superblocks...)
	if c.families != nil {
		dup.families = make(map[string]uint32, len(c.families))
		for name, addr := range c.families {
			dup.families[name] = addr
		}
	}
	if c.info != nil {
		info := *c.info
		dup.info = &info
	}
	return dup
}

// FamilyID returns the family id of the first block carrying one, or
// zero when no block does. "First" is positional, so the result is
// deterministic for a given block order.
func (c *Container) FamilyID() uint32 {
	for i := range c.blocks {
		if id := c.blocks[i].FamilyID(); id != 0 {
			return id
		}
	}
	return 0
}

// FamilyName resolves FamilyID through the registry.
func (c *Container) FamilyName() string {
	id := c.FamilyID()
	if id == 0 {
		return ""
	}
	if c.registry != nil {
		if name, ok := c.registry.Name(id); ok {
			return name
		}
	}
	return UnknownFamily
}

// Ranges returns the address ranges computed by the last Scan.
func (c *Container) Ranges() []Range {
	return c.ranges
}

// Families returns the family-name to lowest-address map computed by the
// last Scan.
func (c *Container) Families() map[string]uint32 {
	return c.families
}

// Superblocks returns the indices of blocks holding littlefs superblocks,
// as computed by the last Scan.
func (c *Container) Superblocks() []int {
	return c.superblocks
}

// Scanned reports whether derived state is current with the blocks.
func (c *Container) Scanned() bool {
	return c.scanned
}

// Info returns binary metadata attached by an external inspector, or nil.
func (c *Container) Info() *interfaces.BinaryInfo {
	return c.info
}

// SetInfo attaches binary metadata reported by an external inspector.
func (c *Container) SetInfo(info *interfaces.BinaryInfo) {
	c.info = info
}

// DriveStart returns the embedded-drive start address from attached
// binary metadata, or zero when none is known.
func (c *Container) DriveStart() uint32 {
	if c.info == nil {
		return 0
	}
	return c.info.DriveStart
}

// WriteTo streams every block to w in order as 512-byte records.
func (c *Container) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for i := range c.blocks {
		n, err := w.Write(uf2.EncodeBlock(&c.blocks[i]))
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("writing block %d: %w", i, err)
		}
	}
	return written, nil
}

// WriteFile writes the container to path. Output is staged to a
// temporary file in the destination directory and renamed into place, so
// a failure mid-write never leaves a partial file at path.
func (c *Container) WriteFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("staging %s: %w", path, err)
	}
	if _, err := c.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// String renders the block count, attached metadata, families, ranges
// and littlefs superblocks of the container.
func (c *Container) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Number of blocks: %d\n", len(c.blocks))
	if c.info != nil {
		fmt.Fprintf(&sb, "Program name: %s\n", c.info.ProgramName)
		fmt.Fprintf(&sb, "Board: %s\n", c.info.Board)
	}
	fmt.Fprintf(&sb, "Number of families: %d\n", len(c.families))
	names := make([]string, 0, len(c.families))
	for name := range c.families {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, " - Family %s at 0x%08X\n", name, c.families[name])
	}
	fmt.Fprintf(&sb, "Number of ranges: %d\n", len(c.ranges))
	for i, r := range c.ranges {
		fmt.Fprintf(&sb, " - Range %d: 0x%08X - 0x%08X\n", i, r.Start, r.End)
	}
	fmt.Fprintf(&sb, "LittleFS superblocks: %d\n", len(c.superblocks))
	for i, idx := range c.superblocks {
		fmt.Fprintf(&sb, " - LittleFS superblock %d: block %d at 0x%08X\n", i, idx, c.blocks[idx].TargetAddr)
	}
	if c.info != nil {
		fmt.Fprintf(&sb, "Drive start: 0x%08X\n", c.info.DriveStart)
		fmt.Fprintf(&sb, "Drive end: 0x%08X\n", c.info.DriveEnd)
	}
	return sb.String()
}
