package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-uf2/internal/interfaces"
	"github.com/deploymenttheory/go-uf2/internal/registry"
)

// Pipeline assembles a flashable firmware image end to end: look up the
// board's filesystem geometry, build a littlefs image from a source
// folder, and merge it into the firmware container.
type Pipeline struct {
	Boards    *registry.Boards
	Families  interfaces.FamilyRegistry
	Builder   interfaces.FilesystemBuilder
	Inspector interfaces.BinaryInspector
	// ChunkSize for merging the image; the flash page size is the
	// conventional choice for RP2 boards.
	ChunkSize int
}

// PipelineRequest names the pipeline inputs. Port may be "auto" to
// derive the port from the firmware file name.
type PipelineRequest struct {
	SourceDir    string
	FirmwarePath string
	Port         string
	BuildDir     string
}

// ResolvePort derives the port name from the firmware file name when
// port is "auto" (firmware images are conventionally named
// <port>-<date>-<version>), stripping a -spiram variant suffix.
func ResolvePort(port, firmwarePath string) string {
	if port != "auto" {
		return port
	}
	stem := strings.TrimSuffix(filepath.Base(firmwarePath), filepath.Ext(firmwarePath))
	port = strings.SplitN(stem, "-", 2)[0]
	port = strings.TrimSuffix(port, "spiram")
	return port
}

// Run executes the pipeline and writes three artifacts to the build
// directory: the raw littlefs image, the image-only container, and the
// merged firmware container.
func (p *Pipeline) Run(req PipelineRequest) error {
	port := ResolvePort(req.Port, req.FirmwarePath)
	log.Infof("port: %s", port)

	board, ok := p.Boards.Lookup(port)
	if !ok {
		return fmt.Errorf("port %q not found in the board registry", port)
	}
	log.Debugf("board %s: %d blocks of %d bytes at 0x%08X",
		board.Name, board.BlockCount, board.BlockSize, board.StartAddress)

	if !strings.EqualFold(filepath.Ext(req.FirmwarePath), ".uf2") {
		return fmt.Errorf("firmware %q is not a block-oriented container; merge it with the vendor flashing utility instead", req.FirmwarePath)
	}

	image, err := p.Builder.Build(req.SourceDir, interfaces.FilesystemGeometry{
		BlockSize:  board.BlockSize,
		BlockCount: board.BlockCount,
		ProgSize:   board.PageSize,
		Version:    board.VfsType,
	})
	if err != nil {
		return fmt.Errorf("building littlefs image: %w", err)
	}

	if err := os.MkdirAll(req.BuildDir, 0o755); err != nil {
		return fmt.Errorf("creating build dir: %w", err)
	}
	imagePath := filepath.Join(req.BuildDir, "littlefs.img")
	if err := os.WriteFile(imagePath, image, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", imagePath, err)
	}
	log.Infof("littlefs image: %s (%d bytes)", imagePath, len(image))

	svc := &MergeService{Families: p.Families, Inspector: p.Inspector, ChunkSize: p.ChunkSize}
	base, err := svc.LoadBase(req.FirmwarePath)
	if err != nil {
		return err
	}

	// Prefer the drive start reported by the binary itself; fall back to
	// the registry's geometry when no inspector metadata is attached.
	addr := base.DriveStart()
	if addr == 0 {
		addr = board.StartAddress
	}
	result, err := Merge(base, image, addr, p.ChunkSize)
	if err != nil {
		return err
	}

	vfsPath := filepath.Join(req.BuildDir, "littlefs.uf2")
	if err := result.Image.WriteFile(vfsPath); err != nil {
		return err
	}
	log.Infof("image container: %s (%d blocks)", vfsPath, result.Image.Len())

	outPath := filepath.Join(req.BuildDir, "firmware_lfs.uf2")
	if err := result.Merged.WriteFile(outPath); err != nil {
		return err
	}
	log.Infof("merged firmware: %s (%d blocks)", outPath, result.Merged.Len())
	return nil
}
