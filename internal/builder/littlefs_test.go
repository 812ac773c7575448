package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deploymenttheory/go-uf2/internal/interfaces"
)

func TestBuildRejectsInvalidGeometry(t *testing.T) {
	m := &Mklittlefs{}

	_, err := m.Build("src", interfaces.FilesystemGeometry{BlockSize: 0, BlockCount: 128})
	assert.Error(t, err)

	_, err = m.Build("src", interfaces.FilesystemGeometry{BlockSize: 4096, BlockCount: 0})
	assert.Error(t, err)
}

func TestBuildReportsMissingTool(t *testing.T) {
	m := &Mklittlefs{Path: "/nonexistent/mklittlefs"}

	_, err := m.Build(t.TempDir(), interfaces.FilesystemGeometry{BlockSize: 4096, BlockCount: 8})
	assert.ErrorContains(t, err, "running mklittlefs")
}
