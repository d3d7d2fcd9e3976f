// imd2raw - ImageDisk to raw sector image converter
// types.go - Type definitions for IMD container structures
// Dual-licensed under MIT and Apache 2.0

// Package imd decodes ImageDisk (.IMD) floppy images and writes their sectors
// out as a raw image, each track in ascending sector number order.
package imd

// Constants
const (
	Magic             = "IMD"
	CommentTerminator = 0x1A
	UnavailableFill   = 0xE5

	MaxMode     = 6
	MaxCylinder = 80
	MaxHead     = 1

	// Head byte layout: low nibble is the head, high nibble carries flags
	headMask  = 0x0F
	flagsMask = 0xF0
)

// Mode is the recording mode (data rate and FM/MFM) of a track
type Mode uint8

var modeNames = []string{"500K FM", "300K FM", "250K FM", "500K MFM", "300K MFM", "250K MFM"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// HeadFlags is the upper nibble of the head byte
type HeadFlags uint8

const (
	// FlagCylinderMap marks a per-sector cylinder map following the numbering map
	FlagCylinderMap HeadFlags = 0x40
	// FlagHeadMap marks a per-sector head map following the cylinder map
	FlagHeadMap HeadFlags = 0x80
)

func (f HeadFlags) HasCylinderMap() bool { return f&FlagCylinderMap != 0 }
func (f HeadFlags) HasHeadMap() bool     { return f&FlagHeadMap != 0 }

// sectorSizes maps the size code of a track header to bytes per sector
var sectorSizes = []int{128, 256, 512, 1024, 2048, 4096, 8192}

// SectorSize resolves a size code. ok is false for codes outside 0..6.
func SectorSize(code uint8) (size int, ok bool) {
	if int(code) >= len(sectorSizes) {
		return 0, false
	}
	return sectorSizes[code], true
}

// SectorType is the per-sector encoding tag preceding each payload
type SectorType uint8

const (
	SectorUnavailable          SectorType = 0
	SectorNormal               SectorType = 1
	SectorCompressed           SectorType = 2
	SectorDeleted              SectorType = 3
	SectorDeletedCompressed    SectorType = 4
	SectorDeletedUnavailable   SectorType = 5
	SectorCompressedAlt        SectorType = 6
	SectorBad                  SectorType = 7
	SectorDeletedCompressedAlt SectorType = 8
)

// Known reports whether the decoder understands this tag
func (t SectorType) Known() bool { return t <= SectorDeletedCompressedAlt }

// Compressed reports whether the payload is a single fill byte
func (t SectorType) Compressed() bool {
	switch t {
	case SectorCompressed, SectorDeletedCompressed, SectorCompressedAlt, SectorDeletedCompressedAlt:
		return true
	}
	return false
}

// Glyph is the one-character status used in per-track summaries
func (t SectorType) Glyph() byte {
	switch {
	case t == SectorNormal:
		return '.'
	case t == SectorDeleted:
		return 'd'
	case t.Compressed():
		return 'C'
	case t == SectorUnavailable, t == SectorDeletedUnavailable, t == SectorBad:
		return 'X'
	}
	return '?'
}

// TrackHeader is the fixed part of a track record.
// Layout:
//
//	0: mode (0..6)
//	1: cylinder (0..80)
//	2: head (low nibble) | flags (high nibble)
//	3: sector count
//	4: sector size code (0..6)
type TrackHeader struct {
	Mode        Mode
	Cylinder    uint8
	Head        uint8
	Flags       HeadFlags
	SectorCount uint8
	SizeCode    uint8
	SectorSize  int // resolved from SizeCode, or carried over from a previous track
}

// rawHeader is the part of the header read after the mode byte
type rawHeader struct {
	Cylinder    uint8
	HeadByte    uint8
	SectorCount uint8
	SizeCode    uint8
}

// Track is one decoded track record
type Track struct {
	Header      TrackHeader
	SectorMap   []uint8          // logical sector numbers in storage order
	CylinderMap []uint8          // optional, not used for reassembly
	HeadMap     []uint8          // optional, not used for reassembly
	Types       []SectorType     // encoding tag per slot, storage order
	Sectors     map[uint8][]byte // logical sector number -> payload
	Offset      int64            // stream offset of the mode byte
}

// Size is the number of bytes the track contributes to the raw image
func (t *Track) Size() int {
	return int(t.Header.SectorCount) * t.Header.SectorSize
}

// Summary returns the per-slot status glyphs in storage order
func (t *Track) Summary() string {
	glyphs := make([]byte, len(t.Types))
	for i, st := range t.Types {
		glyphs[i] = st.Glyph()
	}
	return string(glyphs)
}
