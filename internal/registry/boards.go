package registry

import "fmt"

// Flash geometry shared by the supported ports.
const (
	// FlashPageSize is the program page size common to the supported MCUs.
	FlashPageSize uint32 = 256
	// FlashSectorSize is the erase sector size, which is also the
	// littlefs block size.
	FlashSectorSize uint32 = 4096
)

// Embedded-filesystem on-disk layout revisions.
const (
	VfsLfs1 uint32 = 0x00010000
	VfsLfs2 uint32 = 0x00020000
)

// Board describes the flash layout of the embedded filesystem region for
// one port/board combination.
type Board struct {
	Name         string
	FlashSize    uint32
	PageSize     uint32
	BlockSize    uint32
	BlockCount   uint32
	StartAddress uint32
	EndAddress   uint32
	ImageSize    uint32
	VfsType      uint32
}

// normalize derives the missing geometry fields from the ones provided:
// start+end yield size and count, start+size yield count and end, and a
// bare count yields size. The entry is invalid unless it resolves to a
// positive image size and block count and a non-zero start address.
func (b *Board) normalize() error {
	if b.PageSize == 0 {
		b.PageSize = FlashPageSize
	}
	if b.BlockSize == 0 {
		b.BlockSize = FlashSectorSize
	}
	if b.VfsType == 0 {
		b.VfsType = VfsLfs2
	}
	switch {
	case b.StartAddress != 0 && b.EndAddress != 0:
		b.ImageSize = b.EndAddress - b.StartAddress
		b.BlockCount = b.ImageSize / b.BlockSize
	case b.StartAddress != 0 && b.ImageSize != 0:
		b.BlockCount = b.ImageSize / b.BlockSize
		b.EndAddress = b.StartAddress + b.ImageSize
	case b.BlockCount != 0 && b.ImageSize == 0:
		b.ImageSize = b.BlockSize * b.BlockCount
	}
	if b.ImageSize == 0 {
		return fmt.Errorf("board %s: image size resolves to zero", b.Name)
	}
	if b.BlockCount == 0 {
		return fmt.Errorf("board %s: block count resolves to zero", b.Name)
	}
	if b.StartAddress == 0 {
		return fmt.Errorf("board %s: drive start address must be provided", b.Name)
	}
	return nil
}

// Boards is a lookup table of per-board flash geometry.
type Boards struct {
	byName map[string]*Board
}

// DefaultBoards returns the built-in board table.
func DefaultBoards() *Boards {
	boards := []*Board{
		// 4MB flash, filesystem in the top 2MB.
		{Name: "esp32-generic", StartAddress: 0x0020_0000, ImageSize: 0x0020_0000, FlashSize: 0x40_0000},
		// 4MB flash with OTA partitions.
		{Name: "esp32-ota", StartAddress: 0x0031_0000, ImageSize: 0x000F_0000, FlashSize: 0x40_0000},
		// 8MB flash.
		{Name: "esp32-s3-generic", StartAddress: 0x0020_0000, ImageSize: 0x0060_0000, FlashSize: 0x80_0000},
		// 1408K filesystem.
		{Name: "rp2-pico", StartAddress: 0x100A_0000, EndAddress: 0x1020_0000},
		// 848K filesystem.
		{Name: "rp2-pico_w", StartAddress: 0x1012_C000, EndAddress: 0x1020_0000},
		// 15360K filesystem.
		{Name: "pimoroni_picolipo_16mb", StartAddress: 0x1010_0000, EndAddress: 0x1100_0000},
	}
	table := &Boards{byName: make(map[string]*Board, len(boards))}
	for _, b := range boards {
		if err := b.normalize(); err != nil {
			// Built-in entries are validated by tests; a failure here is
			// a programming error.
			panic(err)
		}
		table.byName[b.Name] = b
	}
	return table
}

// Add validates and registers a board entry.
func (t *Boards) Add(b *Board) error {
	if err := b.normalize(); err != nil {
		return err
	}
	t.byName[b.Name] = b
	return nil
}

// Lookup resolves a port/board name, falling back to "<name>-generic"
// when the exact name is not registered.
func (t *Boards) Lookup(name string) (*Board, bool) {
	if b, ok := t.byName[name]; ok {
		return b, true
	}
	b, ok := t.byName[name+"-generic"]
	return b, ok
}
