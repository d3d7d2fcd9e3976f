// imd2raw - ImageDisk to raw sector image converter
// convert.go - Container to raw image conversion loop
// Dual-licensed under MIT and Apache 2.0

package imd

import (
	"errors"
	"io"
)

// Stats summarises a conversion
type Stats struct {
	Tracks  int
	Sectors int
	Bytes   int64
	ByType  map[SectorType]int
}

func (s *Stats) add(t *Track, written int) {
	if s.ByType == nil {
		s.ByType = make(map[SectorType]int)
	}
	s.Tracks++
	s.Sectors += len(t.SectorMap)
	s.Bytes += int64(written)
	for _, st := range t.Types {
		s.ByType[st]++
	}
}

// Convert decodes every track of the IMD stream r and writes the raw image
// to w. Each track is fully written before the next header is read. On error
// the output holds whatever complete or partial tracks came before it.
func Convert(r io.Reader, w io.Writer, opts Options) (Stats, error) {
	var stats Stats
	reader := NewReader(r, opts)

	for {
		track, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}

		order := SortedOrder(track.SectorMap)
		n, err := writeOrdered(w, track, order, opts.Lenient)
		stats.add(track, n)
		if err != nil {
			return stats, err
		}

		if opts.OnTrack != nil {
			opts.OnTrack(track, order)
		}
	}
}
