// imd2raw - ImageDisk to raw sector image converter
// convert.go - Convert command file handling and track summaries
// Dual-licensed under MIT and Apache 2.0

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/mmap"

	"imd2raw/imd"
)

// outputWriter tags write failures so they map to the output exit code
type outputWriter struct {
	w io.Writer
}

func (o *outputWriter) Write(p []byte) (int, error) {
	n, err := o.w.Write(p)
	if err != nil {
		return n, &outputError{Err: err}
	}
	return n, nil
}

// openInput maps the IMD file read-only
func openInput(path string) (*mmap.ReaderAt, io.Reader, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, nil, &openError{Path: path, Err: err}
	}
	return ra, io.NewSectionReader(ra, 0, int64(ra.Len())), nil
}

// convertFile converts inPath to outPath. The output is flushed and closed on
// every path; after an error its contents are incomplete.
func convertFile(inPath, outPath string, opts imd.Options) (stats imd.Stats, err error) {
	in, src, err := openInput(inPath)
	if err != nil {
		return stats, err
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return stats, &openError{Path: outPath, Write: true, Err: err}
	}
	bw := bufio.NewWriter(out)
	defer func() {
		if ferr := bw.Flush(); ferr != nil && err == nil {
			err = &outputError{Err: fmt.Errorf("failed to flush %s: %w", outPath, ferr)}
		}
		if cerr := out.Close(); cerr != nil && err == nil {
			err = &outputError{Err: fmt.Errorf("failed to close %s: %w", outPath, cerr)}
		}
	}()

	return imd.Convert(src, &outputWriter{w: bw}, opts)
}

// printTrackLine writes the per-track summary: cylinder, head, sector size,
// status glyphs and the numbering map, both in storage order.
func printTrackLine(w io.Writer, t *imd.Track) {
	fmt.Fprintf(w, "Cyl %02d Hd %d %-4d %s", t.Header.Cylinder, t.Header.Head, t.Header.SectorSize, t.Summary())
	for _, n := range t.SectorMap {
		fmt.Fprintf(w, " %-2d", n)
	}
	fmt.Fprintln(w)
}
