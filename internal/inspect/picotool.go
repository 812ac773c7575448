// Package inspect extracts binary metadata from firmware containers by
// driving the vendor's picotool. The parser is separated from the exec
// path so tests can feed it canned transcripts.
package inspect

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-uf2/internal/interfaces"
)

// Output fields of `picotool info -a`.
var (
	reProgramName = regexp.MustCompile(`\s+name:\s+(\w+)`)
	reBoard       = regexp.MustCompile(`\s+pico_board:\s+(\w+)`)
	reBinaryStart = regexp.MustCompile(`binary start:\s+(0[xX][0-9a-fA-F]+)`)
	reBinaryEnd   = regexp.MustCompile(`binary end:\s+(0[xX][0-9a-fA-F]+)`)
	reDriveStart  = regexp.MustCompile(`embedded drive:\s+(0[xX][0-9a-fA-F]+)`)
	reDriveEnd    = regexp.MustCompile(`embedded drive:\s+0[xX][0-9a-fA-F]+-(0[xX][0-9a-fA-F]+)`)
)

// Picotool inspects RP2-family firmware with the picotool utility.
type Picotool struct {
	// Path to the picotool executable; "picotool" when empty.
	Path string
}

var _ interfaces.BinaryInspector = (*Picotool)(nil)

// Inspect runs `picotool info -a` on path and parses the report. Fields
// the tool does not print are left zero.
func (p *Picotool) Inspect(path string) (*interfaces.BinaryInfo, error) {
	tool := p.Path
	if tool == "" {
		tool = "picotool"
	}
	cmd := exec.Command(tool, "info", "-a", path)
	log.Debugf("running %s", cmd)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("running picotool: %w", err)
	}
	return ParseInfo(string(out)), nil
}

// ParseInfo extracts binary metadata from a picotool info transcript.
func ParseInfo(out string) *interfaces.BinaryInfo {
	info := &interfaces.BinaryInfo{
		ProgramName: matchString(reProgramName, out),
		Board:       matchString(reBoard, out),
		BinaryStart: matchAddr(reBinaryStart, out),
		BinaryEnd:   matchAddr(reBinaryEnd, out),
		DriveStart:  matchAddr(reDriveStart, out),
		DriveEnd:    matchAddr(reDriveEnd, out),
	}
	return info
}

func matchString(re *regexp.Regexp, out string) string {
	if m := re.FindStringSubmatch(out); m != nil {
		return m[1]
	}
	return ""
}

func matchAddr(re *regexp.Regexp, out string) uint32 {
	m := re.FindStringSubmatch(out)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseUint(m[1], 0, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}
