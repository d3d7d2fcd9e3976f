// imd2raw - ImageDisk to raw sector image converter
// reassemble.go - Physical ordering of decoded sectors
// Dual-licensed under MIT and Apache 2.0

package imd

import (
	"cmp"
	"fmt"
	"io"
	"slices"
)

// Slot pairs a logical sector number with its position in the numbering map
type Slot struct {
	Number uint8
	Index  int
}

// SortedOrder returns the numbering map as slots in ascending sector number.
// The sort is stable, so duplicate numbers keep their storage order.
func SortedOrder(sectorMap []uint8) []Slot {
	order := make([]Slot, len(sectorMap))
	for i, n := range sectorMap {
		order[i] = Slot{Number: n, Index: i}
	}
	slices.SortStableFunc(order, func(a, b Slot) int {
		return cmp.Compare(a.Number, b.Number)
	})
	return order
}

// WriteTrack writes the track's sectors to w in ascending logical order,
// SectorSize bytes for every entry of the numbering map.
func WriteTrack(w io.Writer, t *Track, lenient bool) (int, error) {
	order := SortedOrder(t.SectorMap)
	return writeOrdered(w, t, order, lenient)
}

func writeOrdered(w io.Writer, t *Track, order []Slot, lenient bool) (int, error) {
	size := t.Header.SectorSize
	written := 0
	var zero []byte

	for _, slot := range order {
		data, ok := t.Sectors[slot.Number]
		if !ok {
			if !lenient {
				return written, &FormatError{
					Err:    ErrMissingSectorData,
					Detail: fmt.Sprintf("cyl %d head %d sector %d", t.Header.Cylinder, t.Header.Head, slot.Number),
					Offset: t.Offset,
				}
			}
			if zero == nil {
				zero = make([]byte, size)
			}
			data = zero
		}
		if len(data) != size {
			return written, fmt.Errorf("sector %d holds %d bytes, expected %d", slot.Number, len(data), size)
		}

		n, err := w.Write(data)
		written += n
		if err != nil {
			return written, fmt.Errorf("failed to write sector %d: %w", slot.Number, err)
		}
	}
	return written, nil
}
