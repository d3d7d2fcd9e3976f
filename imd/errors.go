// imd2raw - ImageDisk to raw sector image converter
// errors.go - Error taxonomy for container decoding
// Dual-licensed under MIT and Apache 2.0

package imd

import (
	"errors"
	"fmt"
)

var (
	ErrBadSignature        = errors.New("file doesn't start with 'IMD'")
	ErrUnterminatedComment = errors.New("comment not terminated by 0x1a")
	ErrOutOfSync           = errors.New("stream out of sync")
	ErrTruncated           = errors.New("unexpected end of stream inside track record")
	ErrTrackTooLarge       = errors.New("track exceeds size limit")
	ErrMissingSectorData   = errors.New("no data decoded for sector")
)

// FormatError locates a decoding failure in the input stream.
// Err is one of the sentinel errors above, so errors.Is works on it.
type FormatError struct {
	Err    error
	Field  string // header field for ErrOutOfSync: "mode", "cylinder" or "head"
	Value  int    // offending field value for ErrOutOfSync
	Detail string
	Offset int64
}

func (e *FormatError) Error() string {
	msg := e.Err.Error()
	if e.Field != "" {
		msg += fmt.Sprintf(" at %s, got 0x%02x", e.Field, e.Value)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return fmt.Sprintf("%s (offset %d)", msg, e.Offset)
}

func (e *FormatError) Unwrap() error { return e.Err }

// IsSyncError reports whether err is a mode, cylinder or head range failure
func IsSyncError(err error) bool {
	return errors.Is(err, ErrOutOfSync)
}
