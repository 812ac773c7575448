// Package types implements data structures for the UF2 firmware-flashing
// container format. This package is based on the UF2 family file format
// specification maintained by Microsoft.
package types

// UF2 block geometry. A UF2 file is a flat sequence of fixed 512-byte
// records. Each record carries at most 476 bytes of payload; the rest of
// the record is framing (32 bytes of header, 4 bytes of trailing magic).
const (
	BlockSize = 512
	DataSize  = 476
)

// Magic constants framing every valid UF2 block.
const (
	MagicStart0 uint32 = 0x0A324655 // "UF2\n"
	MagicStart1 uint32 = 0x9E5D5157
	MagicEnd    uint32 = 0x0AB16F30
)

// Block flag bits.
const (
	// FlagNoFlash marks a comment block that must not be flashed.
	FlagNoFlash uint32 = 0x00000001
	// FlagFileContainer marks a block belonging to a file container.
	FlagFileContainer uint32 = 0x00001000
	// FlagFamilyIDPresent indicates Reserved holds a device-family id.
	FlagFamilyIDPresent uint32 = 0x00002000
	// FlagMD5Present indicates an MD5 checksum is embedded in the payload.
	FlagMD5Present uint32 = 0x00004000
	// FlagExtensionTagsPresent indicates the payload carries extension tags.
	FlagExtensionTagsPresent uint32 = 0x00008000
)

// FlagDescriptions maps each flag bit to a human-readable description,
// in the order the bits are defined.
var FlagDescriptions = []struct {
	Flag uint32
	Name string
}{
	{FlagNoFlash, "Do not flash to device"},
	{FlagFileContainer, "File container"},
	{FlagFamilyIDPresent, "Family ID present"},
	{FlagMD5Present, "MD5 hash present"},
	{FlagExtensionTagsPresent, "Extension tags present"},
}

// Block is one 512-byte UF2 record. Field order and widths match the
// on-disk little-endian layout exactly.
type Block struct {
	MagicStart0 uint32
	MagicStart1 uint32
	Flags       uint32
	TargetAddr  uint32
	PayloadSize uint32
	BlockNo     uint32
	NumBlocks   uint32
	// Reserved holds the device-family id when FlagFamilyIDPresent is set,
	// otherwise the file size for file-container blocks.
	Reserved uint32
	Data     [DataSize]byte
	MagicEnd uint32
}

// FlagNames returns the descriptions of the flag bits set on the block,
// in definition order.
func (b *Block) FlagNames() []string {
	var names []string
	for _, fd := range FlagDescriptions {
		if b.Flags&fd.Flag != 0 {
			names = append(names, fd.Name)
		}
	}
	return names
}

// IsValid reports whether all three magic constants are present.
func (b *Block) IsValid() bool {
	return b.MagicStart0 == MagicStart0 && b.MagicStart1 == MagicStart1 && b.MagicEnd == MagicEnd
}

// FamilyID returns the device-family id carried by the block, or zero
// when the family-id flag is not set.
func (b *Block) FamilyID() uint32 {
	if b.Flags&FlagFamilyIDPresent == 0 {
		return 0
	}
	return b.Reserved
}

// EndAddr returns the first flash address past the block's payload.
func (b *Block) EndAddr() uint32 {
	return b.TargetAddr + b.PayloadSize
}

// Payload returns the used portion of the data buffer.
func (b *Block) Payload() []byte {
	n := b.PayloadSize
	if n > DataSize {
		n = DataSize
	}
	return b.Data[:n]
}
