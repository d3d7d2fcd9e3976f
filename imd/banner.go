// imd2raw - ImageDisk to raw sector image converter
// banner.go - Header line and comment text
// Dual-licensed under MIT and Apache 2.0

package imd

import (
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
)

const bannerTimeLayout = "02/01/2006 15:04:05"

// Banner is the decoded comment block of an IMD file. ImageDisk writes
// "IMD v.vv: dd/mm/yyyy hh:mm:ss" on the first line, then the user comment.
type Banner struct {
	Version string
	Created time.Time // zero when the first line carries no valid timestamp
	Text    string
}

// ParseBanner decodes the comment bytes that follow the magic. The text is
// DOS code page 437.
func ParseBanner(comment []byte) Banner {
	decoded, err := charmap.CodePage437.NewDecoder().Bytes(comment)
	if err != nil {
		decoded = comment
	}
	text := string(decoded)

	first, rest, _ := strings.Cut(text, "\n")
	first = strings.TrimSpace(first)

	version, stamp, found := strings.Cut(first, ":")
	if !found || !looksLikeVersion(version) {
		return Banner{Text: strings.TrimRight(text, "\r\n\x00")}
	}

	b := Banner{
		Version: version,
		Text:    strings.TrimRight(rest, "\r\n\x00"),
	}
	if created, err := time.Parse(bannerTimeLayout, strings.TrimSpace(stamp)); err == nil {
		b.Created = created
	}
	return b
}

func looksLikeVersion(s string) bool {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return false
	}
	return !strings.ContainsAny(s, " \t")
}
