// imd2raw - ImageDisk to raw sector image converter
// main_test.go - Unit tests for command line handling and exit codes
// Dual-licensed under MIT and Apache 2.0

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"imd2raw/imd"
)

// writeImage stores an IMD image with the given track records in dir
func writeImage(t *testing.T, dir string, tracks ...[]byte) string {
	t.Helper()
	data := []byte("IMD 1.18: 24/12/2022 10:30:00\r\nCLI test\x1a")
	for _, tr := range tracks {
		data = append(data, tr...)
	}
	path := filepath.Join(dir, "in.imd")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

// skewedTrack is cylinder 0 head 0 with 128-byte sectors stored as 3,1,2
func skewedTrack() []byte {
	tr := []byte{5, 0, 0, 3, 0, 3, 1, 2}
	for _, n := range []byte{3, 1, 2} {
		tr = append(tr, 2, n) // compressed, filled with the sector number
	}
	return tr
}

func runCommand(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	root := newRootCommand(&out, &errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "success", err: nil, expected: exitOK},
		{name: "usage", err: &usageError{Err: errors.New("bad")}, expected: exitUsage},
		{name: "input open", err: &openError{Path: "a", Err: os.ErrNotExist}, expected: exitInputOpen},
		{name: "output open", err: &openError{Path: "b", Write: true, Err: os.ErrPermission}, expected: exitOutput},
		{name: "output write", err: fmt.Errorf("failed to write sector 1: %w", &outputError{Err: errors.New("disk full")}), expected: exitOutput},
		{name: "bad signature", err: &imd.FormatError{Err: imd.ErrBadSignature}, expected: exitFormat},
		{name: "unterminated comment", err: &imd.FormatError{Err: imd.ErrUnterminatedComment}, expected: exitFormat},
		{name: "missing sector", err: &imd.FormatError{Err: imd.ErrMissingSectorData}, expected: exitFormat},
		{name: "mode sync", err: &imd.FormatError{Err: imd.ErrOutOfSync, Field: "mode"}, expected: exitOutOfSync},
		{name: "head sync", err: &imd.FormatError{Err: imd.ErrOutOfSync, Field: "head"}, expected: exitOutOfSync},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestConvertArgsOptions(t *testing.T) {
	tests := []struct {
		name        string
		args        ConvertArgs
		expectError bool
		errorMsg    string
	}{
		{name: "defaults", args: ConvertArgs{Filler: "last", MaxTrackBytes: imd.DefaultMaxTrackBytes}},
		{name: "verbatim filler", args: ConvertArgs{Filler: "verbatim", Lenient: true}},
		{name: "invalid filler", args: ConvertArgs{Filler: "zero"}, expectError: true, errorMsg: "invalid filler mode"},
		{name: "negative limit", args: ConvertArgs{MaxTrackBytes: -1}, expectError: true, errorMsg: "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := tt.args.Options(&bytes.Buffer{})
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				if exitCode(err) != exitUsage {
					t.Errorf("expected a usage error, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error message to contain '%s', got '%s'", tt.errorMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if opts.Lenient != tt.args.Lenient || opts.MaxTrackBytes != tt.args.MaxTrackBytes {
				t.Errorf("options not carried over: %+v", opts)
			}
			if opts.OnTrack == nil {
				t.Errorf("expected track summaries when not quiet")
			}
		})
	}
}

func TestRootCommandConverts(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, skewedTrack())
	out := filepath.Join(dir, "out.dsk")

	_, stderr, err := runCommand(in, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	var expected []byte
	for n := byte(1); n <= 3; n++ {
		expected = append(expected, bytes.Repeat([]byte{n}, 128)...)
	}
	if !bytes.Equal(got, expected) {
		t.Errorf("output not in ascending sector order")
	}

	if !strings.Contains(stderr, "Cyl 00 Hd 0 128  CCC 3  1  2") {
		t.Errorf("unexpected track summary %q", stderr)
	}
}

func TestRootCommandQuiet(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, skewedTrack())

	_, stderr, err := runCommand("--quiet", in, filepath.Join(dir, "out.dsk"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stderr != "" {
		t.Errorf("expected no diagnostics, got %q", stderr)
	}
}

func TestRootCommandEmptyImage(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir)
	out := filepath.Join(dir, "out.dsk")

	if _, _, err := runCommand(in, out); exitCode(err) != exitOK {
		t.Fatalf("expected success, got %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("expected empty output, got %d bytes", info.Size())
	}
}

func TestRootCommandFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeImage(t, dir, skewedTrack())

	badSig := filepath.Join(dir, "bad.imd")
	if err := os.WriteFile(badSig, []byte("XYZ\x1a"), 0644); err != nil {
		t.Fatal(err)
	}
	outOfSync := filepath.Join(dir, "sync.imd")
	if err := os.WriteFile(outOfSync, []byte("IMD\x1a\x07\x00\x00\x00\x00"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		expected int
	}{
		{name: "no arguments", args: []string{}, expected: exitUsage},
		{name: "one argument", args: []string{good}, expected: exitUsage},
		{name: "three arguments", args: []string{good, "a", "b"}, expected: exitUsage},
		{name: "unknown flag", args: []string{"--bogus", good, "out"}, expected: exitUsage},
		{name: "bad filler", args: []string{"--filler", "zero", good, filepath.Join(dir, "o1")}, expected: exitUsage},
		{name: "missing input", args: []string{filepath.Join(dir, "nope.imd"), filepath.Join(dir, "o2")}, expected: exitInputOpen},
		{name: "unwritable output", args: []string{good, filepath.Join(dir, "missing", "out.dsk")}, expected: exitOutput},
		{name: "bad signature", args: []string{badSig, filepath.Join(dir, "o3")}, expected: exitFormat},
		{name: "out of sync", args: []string{outOfSync, filepath.Join(dir, "o4")}, expected: exitOutOfSync},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCommand(tt.args...)
			if got := exitCode(err); got != tt.expected {
				t.Errorf("expected exit code %d, got %d (%v)", tt.expected, got, err)
			}
		})
	}
}

func TestInfoCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, skewedTrack())

	stdout, _, err := runCommand("info", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Version   : 1.18",
		"Created   : 2022-12-24 10:30:00",
		"Comment   : CLI test",
		"Track #00 | Cyl: 00 | Head: 0 | Mode: 250K MFM | SecCount: 03 | Size: 128",
		"[SEC] ID: 03 | Type: 2 (C) | Data: 03030303030303030303030303030303...",
		"Tracks: 1 | Sectors: 3 | Raw size: 384 bytes",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
		}
	}
}

func TestInfoCommandUsage(t *testing.T) {
	_, _, err := runCommand("info")
	if exitCode(err) != exitUsage {
		t.Errorf("expected usage error, got %v", err)
	}
}
