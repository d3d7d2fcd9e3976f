// imd2raw - ImageDisk to raw sector image converter
// sector.go - Sector payload decoding
// Dual-licensed under MIT and Apache 2.0

package imd

import (
	"bytes"
	"fmt"
	"strings"
)

// FillerMode selects how explicit filler in types 5 and 7 becomes output
type FillerMode int

const (
	// FillerLastByte fills the sector with the last filler byte read
	FillerLastByte FillerMode = iota
	// FillerVerbatim keeps the filler bytes as stored, like normal data
	FillerVerbatim
)

func (m FillerMode) String() string {
	if m == FillerVerbatim {
		return "verbatim"
	}
	return "last"
}

// ParseFillerMode accepts "last" or "verbatim"
func ParseFillerMode(s string) (FillerMode, error) {
	switch strings.ToLower(s) {
	case "last", "":
		return FillerLastByte, nil
	case "verbatim":
		return FillerVerbatim, nil
	}
	return FillerLastByte, fmt.Errorf("invalid filler mode '%s'. Must be one of: last, verbatim", s)
}

// decodeSector reads one payload of the given type. ok is false for an
// unrecognised type, in which case nothing is consumed.
func decodeSector(c *cursor, st SectorType, size int, filler FillerMode) (data []byte, ok bool, err error) {
	switch st {
	case SectorUnavailable:
		return bytes.Repeat([]byte{UnavailableFill}, size), true, nil

	case SectorNormal, SectorDeleted:
		data = make([]byte, size)
		if err := c.ReadFull(data); err != nil {
			return nil, true, err
		}
		return data, true, nil

	case SectorCompressed, SectorDeletedCompressed, SectorCompressedAlt, SectorDeletedCompressedAlt:
		value, err := c.ReadByte()
		if err != nil {
			return nil, true, err
		}
		return bytes.Repeat([]byte{value}, size), true, nil

	case SectorDeletedUnavailable, SectorBad:
		if filler == FillerVerbatim {
			data = make([]byte, size)
			if err := c.ReadFull(data); err != nil {
				return nil, true, err
			}
			return data, true, nil
		}
		// An empty sector has no filler to read and keeps the 0xE5 default
		fill := byte(UnavailableFill)
		if size > 0 {
			if fill, err = c.Discard(size); err != nil {
				return nil, true, err
			}
		}
		return bytes.Repeat([]byte{fill}, size), true, nil
	}

	return nil, false, nil
}
