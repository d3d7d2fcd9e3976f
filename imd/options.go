// imd2raw - ImageDisk to raw sector image converter
// options.go - Decoder and conversion options
// Dual-licensed under MIT and Apache 2.0

package imd

import (
	"io"
	"log"
)

// DefaultMaxTrackBytes bounds sector count times sector size for one track
const DefaultMaxTrackBytes = 1 << 20

// Options configures decoding and reassembly.
type Options struct {
	Filler        FillerMode  // output for filler-carrying types 5 and 7
	Lenient       bool        // zero-fill sectors with no decoded data instead of failing
	MaxTrackBytes int         // 0 disables the check
	Log           *log.Logger // warnings; nil discards them

	// OnTrack, if set, is called by Convert after each track has been written
	OnTrack func(t *Track, order []Slot)
}

// DefaultOptions returns strict options with the default track size limit.
func DefaultOptions() Options {
	return Options{
		Filler:        FillerLastByte,
		MaxTrackBytes: DefaultMaxTrackBytes,
	}
}

func (o Options) logger() *log.Logger {
	if o.Log == nil {
		return log.New(io.Discard, "", 0)
	}
	return o.Log
}
