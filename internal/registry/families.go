// Package registry provides the lookup tables the container engine
// depends on: UF2 device-family ids and per-board flash geometry.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// knownFamilies is the built-in subset of the UF2 family id list,
// keyed by short name.
var knownFamilies = map[string]uint32{
	"SAMD21":   0x68ed2b88,
	"SAML21":   0x1851780a,
	"SAMD51":   0x55114460,
	"NRF52":    0x1b57745f,
	"NRF52840": 0xada52840,
	"STM32F0":  0x647824b6,
	"STM32F1":  0x5ee21072,
	"STM32F4":  0x57755a57,
	"STM32F7":  0x53b80f00,
	"STM32G0":  0x300f5633,
	"STM32G4":  0x4c71240a,
	"STM32L0":  0x202e3a91,
	"STM32L1":  0x1e1f432d,
	"ESP32":    0x1c5f21b0,
	"ESP32S2":  0xbfdd4eee,
	"ESP32S3":  0xc47e5767,
	"ESP32C3":  0xd42ba06c,
	"ESP8266":  0x7eab61ed,
	"RP2040":   0xe48bff56,
	"GD32F350": 0x31d228c6,
	"LPC55":    0x2abc77ec,
}

// Families maps device-family ids to short names and back. It implements
// interfaces.FamilyRegistry.
type Families struct {
	byID   map[uint32]string
	byName map[string]uint32
}

// DefaultFamilies returns a registry holding the built-in family table.
func DefaultFamilies() *Families {
	f := &Families{
		byID:   make(map[uint32]string, len(knownFamilies)),
		byName: make(map[string]uint32, len(knownFamilies)),
	}
	for name, id := range knownFamilies {
		f.byID[id] = name
		f.byName[name] = id
	}
	return f
}

// Name returns the short name registered for id.
func (f *Families) Name(id uint32) (string, bool) {
	name, ok := f.byID[id]
	return name, ok
}

// ID returns the family id registered for name.
func (f *Families) ID(name string) (uint32, bool) {
	id, ok := f.byName[name]
	return id, ok
}

// familyEntry is one record of the uf2families.json file shape: the id is
// a hex string, the short name is the key users see.
type familyEntry struct {
	ID          string `json:"id"`
	ShortName   string `json:"short_name"`
	Description string `json:"description"`
}

// LoadFile merges family definitions from a uf2families.json-shaped file
// into the registry, overriding built-in entries on collision.
func (f *Families) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading families file: %w", err)
	}
	var entries []familyEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parsing families file %s: %w", path, err)
	}
	for _, e := range entries {
		id, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(e.ID), "0x"), 16, 32)
		if err != nil {
			return fmt.Errorf("family %q has invalid id %q: %w", e.ShortName, e.ID, err)
		}
		f.byID[uint32(id)] = e.ShortName
		f.byName[e.ShortName] = uint32(id)
	}
	return nil
}
