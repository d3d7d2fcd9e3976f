// imd2raw - ImageDisk to raw sector image converter
// reader.go - IMD container parsing
// Dual-licensed under MIT and Apache 2.0

package imd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/go-restruct/restruct"
)

// Reader decodes track records from an IMD stream, one per call to Next.
type Reader struct {
	c    *cursor
	opts Options
	log  *log.Logger

	started bool
	err     error // sticky fatal error

	// Comment is the header text between the magic and the 0x1a terminator
	Comment []byte

	// sectorSize is carried across tracks when a size code is unknown
	sectorSize int
}

// NewReader returns a Reader consuming r.
func NewReader(r io.Reader, opts Options) *Reader {
	return &Reader{
		c:    newCursor(r),
		opts: opts,
		log:  opts.logger(),
	}
}

// Offset is the number of input bytes consumed so far
func (r *Reader) Offset() int64 { return r.c.Offset() }

// ReadPreamble checks the magic and skips the comment. Next calls it on
// first use; calling it directly gives access to Comment before any track.
func (r *Reader) ReadPreamble() error {
	if r.started {
		return r.err
	}
	r.started = true

	magic := make([]byte, len(Magic))
	if err := r.c.ReadFull(magic); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return r.fail(&FormatError{Err: ErrBadSignature, Offset: r.c.Offset()})
		}
		return r.fail(fmt.Errorf("failed to read signature: %w", err))
	}
	if string(magic) != Magic {
		return r.fail(&FormatError{Err: ErrBadSignature, Detail: fmt.Sprintf("%q", magic)})
	}

	comment, err := r.c.SkipPast(CommentTerminator)
	r.Comment = comment
	if err != nil {
		if errors.Is(err, io.EOF) {
			return r.fail(&FormatError{Err: ErrUnterminatedComment, Offset: r.c.Offset()})
		}
		return r.fail(fmt.Errorf("failed to read comment: %w", err))
	}
	return nil
}

// Next decodes the next track record. It returns io.EOF when the stream ends
// cleanly before a track's mode byte.
func (r *Reader) Next() (*Track, error) {
	if err := r.ReadPreamble(); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}

	start := r.c.Offset()
	mode, err := r.c.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, r.fail(fmt.Errorf("failed to read track header: %w", err))
	}
	if mode > MaxMode {
		return nil, r.fail(&FormatError{Err: ErrOutOfSync, Field: "mode", Value: int(mode), Offset: start})
	}

	header, err := r.readHeader(Mode(mode), start)
	if err != nil {
		return nil, r.fail(err)
	}

	track := &Track{
		Header:  header,
		Offset:  start,
		Sectors: make(map[uint8][]byte, header.SectorCount),
	}
	if err := r.readMaps(track); err != nil {
		return nil, r.fail(err)
	}
	if err := r.readSectors(track); err != nil {
		return nil, r.fail(err)
	}
	return track, nil
}

func (r *Reader) readHeader(mode Mode, start int64) (TrackHeader, error) {
	buf := make([]byte, 4)
	if err := r.c.ReadFull(buf); err != nil {
		return TrackHeader{}, r.truncated(err, "track header")
	}

	var raw rawHeader
	if err := restruct.Unpack(buf, binary.LittleEndian, &raw); err != nil {
		return TrackHeader{}, fmt.Errorf("failed to unpack track header: %w", err)
	}

	if raw.Cylinder > MaxCylinder {
		return TrackHeader{}, &FormatError{Err: ErrOutOfSync, Field: "cylinder", Value: int(raw.Cylinder), Offset: start + 1}
	}
	head := raw.HeadByte & headMask
	if head > MaxHead {
		return TrackHeader{}, &FormatError{Err: ErrOutOfSync, Field: "head", Value: int(head), Offset: start + 2}
	}

	if size, ok := SectorSize(raw.SizeCode); ok {
		r.sectorSize = size
	} else {
		r.log.Printf("Unknown sector size indicator %d at cyl %d head %d, using %d",
			raw.SizeCode, raw.Cylinder, head, r.sectorSize)
	}

	header := TrackHeader{
		Mode:        mode,
		Cylinder:    raw.Cylinder,
		Head:        head,
		Flags:       HeadFlags(raw.HeadByte & flagsMask),
		SectorCount: raw.SectorCount,
		SizeCode:    raw.SizeCode,
		SectorSize:  r.sectorSize,
	}

	total := int(header.SectorCount) * header.SectorSize
	if r.opts.MaxTrackBytes > 0 && total > r.opts.MaxTrackBytes {
		return TrackHeader{}, &FormatError{
			Err:    ErrTrackTooLarge,
			Detail: fmt.Sprintf("%d sectors of %d bytes, limit %d", header.SectorCount, header.SectorSize, r.opts.MaxTrackBytes),
			Offset: start,
		}
	}
	return header, nil
}

func (r *Reader) readMaps(t *Track) error {
	count := int(t.Header.SectorCount)

	t.SectorMap = make([]uint8, count)
	if err := r.c.ReadFull(t.SectorMap); err != nil {
		return r.truncated(err, "sector numbering map")
	}

	if t.Header.Flags.HasCylinderMap() {
		t.CylinderMap = make([]uint8, count)
		if err := r.c.ReadFull(t.CylinderMap); err != nil {
			return r.truncated(err, "cylinder map")
		}
	}
	if t.Header.Flags.HasHeadMap() {
		t.HeadMap = make([]uint8, count)
		if err := r.c.ReadFull(t.HeadMap); err != nil {
			return r.truncated(err, "head map")
		}
	}
	return nil
}

func (r *Reader) readSectors(t *Track) error {
	t.Types = make([]SectorType, 0, len(t.SectorMap))

	for _, number := range t.SectorMap {
		tag, err := r.c.ReadByte()
		if err != nil {
			return r.truncated(err, fmt.Sprintf("sector %d type", number))
		}
		st := SectorType(tag)
		t.Types = append(t.Types, st)

		data, ok, err := decodeSector(r.c, st, t.Header.SectorSize, r.opts.Filler)
		if err != nil {
			return r.truncated(err, fmt.Sprintf("sector %d data", number))
		}
		if !ok {
			r.log.Printf("Cyl %d Hd %d Sec %d: unknown sector type %d, no data decoded",
				t.Header.Cylinder, t.Header.Head, number, tag)
			continue
		}
		t.Sectors[number] = data
	}
	return nil
}

// truncated turns end of stream inside a record into ErrTruncated
func (r *Reader) truncated(err error, what string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &FormatError{Err: ErrTruncated, Detail: what, Offset: r.c.Offset()}
	}
	return fmt.Errorf("failed to read %s: %w", what, err)
}

func (r *Reader) fail(err error) error {
	r.err = err
	return err
}
