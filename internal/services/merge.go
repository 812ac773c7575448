// Package services composes the container engine with its collaborators:
// merging filesystem images into firmware, converting foreign firmware
// formats, and the end-to-end folder-to-firmware pipeline.
package services

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-uf2/internal/container"
	"github.com/deploymenttheory/go-uf2/internal/interfaces"
	"github.com/deploymenttheory/go-uf2/internal/types"
)

// MergeResult carries both outputs of a merge: the combined container
// for single-file flashing and the image-only container for flashing the
// filesystem partition independently.
type MergeResult struct {
	Merged *container.Container
	Image  *container.Container
}

// Merge chunks image at addr and appends the blocks onto a copy of base.
// When addr is zero the drive start address from base's attached binary
// metadata is used; with neither available it fails with
// types.ErrMissingAddress. The image blocks inherit the first family id
// found in base. An order error from the overlap-checked append means
// the image region collides with existing firmware content and is
// returned, never corrected. base itself is not mutated.
func Merge(base *container.Container, image []byte, addr uint32, chunkSize int) (*MergeResult, error) {
	if addr == 0 {
		addr = base.DriveStart()
	}
	if addr == 0 {
		return nil, fmt.Errorf("%w: no explicit address and no embedded-drive metadata", types.ErrMissingAddress)
	}
	if chunkSize == 0 {
		chunkSize = types.DataSize
	}

	img, err := container.Chunk(image, addr, chunkSize, base.FamilyID())
	if err != nil {
		return nil, err
	}
	log.Debugf("chunked %d image bytes into %d blocks at 0x%08X", len(image), img.Len(), addr)

	merged := base.Clone()
	if err := merged.Extend(img); err != nil {
		return nil, fmt.Errorf("image at 0x%08X overlaps firmware content: %w", addr, err)
	}
	merged.Scan()
	img.Scan()
	return &MergeResult{Merged: merged, Image: img}, nil
}

// MergeService resolves merge inputs from files, consulting an optional
// binary inspector for the default merge address.
type MergeService struct {
	// Families resolves family ids during container scans.
	Families interfaces.FamilyRegistry
	// Inspector reports embedded-drive metadata; may be nil, and its
	// failures are degraded to a debug message since an explicit address
	// can still drive the merge.
	Inspector interfaces.BinaryInspector
	// ChunkSize for image chunking; the block payload capacity when zero.
	ChunkSize int
}

// LoadBase reads the base firmware container from path, scans it, and
// attaches inspector metadata when the firmware belongs to a family the
// inspector understands.
func (s *MergeService) LoadBase(path string) (*container.Container, error) {
	base := container.New(s.Families)
	if err := base.ReadFile(path); err != nil {
		return nil, err
	}
	if s.Inspector != nil {
		if _, ok := base.Families()["RP2040"]; ok {
			info, err := s.Inspector.Inspect(path)
			if err != nil {
				log.Debugf("binary inspection unavailable for %s: %v", path, err)
			} else {
				base.SetInfo(info)
			}
		}
	}
	return base, nil
}

// MergeFile merges the image blob into the container at basePath.
func (s *MergeService) MergeFile(basePath string, image []byte, addr uint32) (*MergeResult, error) {
	base, err := s.LoadBase(basePath)
	if err != nil {
		return nil, err
	}
	return Merge(base, image, addr, s.ChunkSize)
}
