// Package interfaces defines the contracts between the container engine
// and its external collaborators, so tests can substitute deterministic
// fakes for out-of-process tools.
package interfaces

// FamilyRegistry resolves numeric UF2 device-family ids to short names
// and back.
type FamilyRegistry interface {
	// Name returns the short name for a family id. The second result is
	// false when the id is not known to the registry.
	Name(id uint32) (string, bool)

	// ID returns the family id for a short name. The second result is
	// false when the name is not known to the registry.
	ID(name string) (uint32, bool)
}

// BinaryInfo holds metadata extracted from a firmware binary by an
// external inspection tool. Zero fields mean the tool did not report
// the corresponding value.
type BinaryInfo struct {
	ProgramName string
	Board       string
	BinaryStart uint32
	BinaryEnd   uint32
	DriveStart  uint32
	DriveEnd    uint32
}

// BinaryInspector extracts BinaryInfo from a firmware container file.
// Implementations typically shell out to a vendor tool; absence of the
// tool must surface as an error, which callers treat as "no metadata"
// rather than a failure.
type BinaryInspector interface {
	Inspect(path string) (*BinaryInfo, error)
}

// FilesystemGeometry describes the layout of an embedded filesystem
// image to be built.
type FilesystemGeometry struct {
	BlockSize  uint32
	BlockCount uint32
	ProgSize   uint32
	// Version is one of types' VFS layout revisions (LFS1 or LFS2).
	Version uint32
}

// FilesystemBuilder produces an embedded-filesystem image from a source
// folder. The returned buffer is opaque to the container engine, which
// only ever chunks it as raw bytes.
type FilesystemBuilder interface {
	Build(sourceDir string, geom FilesystemGeometry) ([]byte, error)
}
