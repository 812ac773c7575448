// Package builder produces embedded-filesystem images from source
// folders by driving the external mklittlefs utility. The resulting
// image is opaque to the container engine.
package builder

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-uf2/internal/interfaces"
)

// Mklittlefs builds littlefs images with the mklittlefs utility.
type Mklittlefs struct {
	// Path to the mklittlefs executable; "mklittlefs" when empty.
	Path string
}

var _ interfaces.FilesystemBuilder = (*Mklittlefs)(nil)

// Build packs sourceDir into a littlefs image with the given geometry
// and returns the raw image bytes.
func (m *Mklittlefs) Build(sourceDir string, geom interfaces.FilesystemGeometry) ([]byte, error) {
	if geom.BlockSize == 0 || geom.BlockCount == 0 {
		return nil, fmt.Errorf("invalid filesystem geometry: block size %d, block count %d",
			geom.BlockSize, geom.BlockCount)
	}
	progSize := geom.ProgSize
	if progSize == 0 {
		progSize = 256
	}
	imageSize := geom.BlockSize * geom.BlockCount

	tmp, err := os.CreateTemp("", "littlefs-*.img")
	if err != nil {
		return nil, fmt.Errorf("staging littlefs image: %w", err)
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	tool := m.Path
	if tool == "" {
		tool = "mklittlefs"
	}
	cmd := exec.Command(tool,
		"-c", sourceDir,
		"-b", strconv.FormatUint(uint64(geom.BlockSize), 10),
		"-p", strconv.FormatUint(uint64(progSize), 10),
		"-s", strconv.FormatUint(uint64(imageSize), 10),
		tmp.Name(),
	)
	log.Debugf("running %s", cmd)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("running mklittlefs: %w (output: %s)", err, out)
	}

	img, err := os.ReadFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("reading littlefs image: %w", err)
	}
	log.Debugf("built littlefs image: %d blocks of %d bytes, %d bytes total",
		geom.BlockCount, geom.BlockSize, len(img))
	return img, nil
}
