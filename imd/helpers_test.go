// imd2raw - ImageDisk to raw sector image converter
// helpers_test.go - In-memory IMD image builders for tests
// Dual-licensed under MIT and Apache 2.0

package imd

import "bytes"

const testBanner = " 1.18: 24/12/2022 10:30:00\r\nTest disk\r\n"

// buildImage assembles magic, comment, terminator and track records
func buildImage(comment string, tracks ...[]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	buf.WriteString(comment)
	buf.WriteByte(CommentTerminator)
	for _, t := range tracks {
		buf.Write(t)
	}
	return buf.Bytes()
}

// trackRecord is a track under construction
type trackRecord struct {
	mode     byte
	cylinder byte
	headByte byte
	sizeCode byte
	sectors  []byte   // numbering map
	cylMap   []byte   // written when headByte has 0x40
	headMap  []byte   // written when headByte has 0x80
	payloads [][]byte // type byte plus payload, one per map entry
}

func (t trackRecord) bytes() []byte {
	var buf bytes.Buffer
	buf.Write([]byte{t.mode, t.cylinder, t.headByte, byte(len(t.sectors)), t.sizeCode})
	buf.Write(t.sectors)
	buf.Write(t.cylMap)
	buf.Write(t.headMap)
	for _, p := range t.payloads {
		buf.Write(p)
	}
	return buf.Bytes()
}

func normalSector(data []byte) []byte {
	return append([]byte{byte(SectorNormal)}, data...)
}

func fillSector(st SectorType, value byte) []byte {
	return []byte{byte(st), value}
}

// pattern returns size bytes that identify sector n
func pattern(n byte, size int) []byte {
	out := make([]byte, size)
	for i := range out {
		out[i] = n ^ byte(i)
	}
	return out
}
