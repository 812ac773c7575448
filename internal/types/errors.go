package types

import "errors"

// Sentinel errors for the container engine. Callers discriminate with
// errors.Is; every site that returns one wraps it with position or size
// context via fmt.Errorf and %w.
var (
	// ErrBadMagic reports a record whose start or end magic does not
	// match the UF2 constants.
	ErrBadMagic = errors.New("uf2: bad block magic")

	// ErrRecordSize reports a decode input that is not exactly 512 bytes.
	ErrRecordSize = errors.New("uf2: record is not 512 bytes")

	// ErrPayloadSize reports a payload or chunk exceeding 476 bytes.
	ErrPayloadSize = errors.New("uf2: payload exceeds block capacity")

	// ErrBlockOrder reports an append that would place a block before
	// the end of the container's last block.
	ErrBlockOrder = errors.New("uf2: block out of order")

	// ErrMissingAddress reports a merge with no usable target address.
	ErrMissingAddress = errors.New("uf2: no target address available")
)
