// imd2raw - ImageDisk to raw sector image converter
// cursor.go - Byte cursor with position tracking
// Dual-licensed under MIT and Apache 2.0

package imd

import (
	"bufio"
	"errors"
	"io"
)

// cursor reads single bytes and byte runs while counting the stream offset.
// End of stream is always reported as io.EOF, never as a zero byte.
type cursor struct {
	r   io.ByteReader
	pos int64
}

func newCursor(r io.Reader) *cursor {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &cursor{r: br}
}

// Offset is the number of bytes consumed so far
func (c *cursor) Offset() int64 { return c.pos }

func (c *cursor) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err != nil {
		return 0, err
	}
	c.pos++
	return b, nil
}

// ReadFull fills buf. A short read inside buf is io.ErrUnexpectedEOF;
// io.EOF is only returned when nothing at all could be read.
func (c *cursor) ReadFull(buf []byte) error {
	for i := range buf {
		b, err := c.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && i > 0 {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		buf[i] = b
	}
	return nil
}

// Discard skips n bytes and returns the last one skipped
func (c *cursor) Discard(n int) (last byte, err error) {
	for i := 0; i < n; i++ {
		last, err = c.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && i > 0 {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
	}
	return last, nil
}

// SkipPast consumes bytes up to and including the first occurrence of delim
// and returns what came before it.
func (c *cursor) SkipPast(delim byte) ([]byte, error) {
	var skipped []byte
	for {
		b, err := c.ReadByte()
		if err != nil {
			return skipped, err
		}
		if b == delim {
			return skipped, nil
		}
		skipped = append(skipped, b)
	}
}
