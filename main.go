// imd2raw - ImageDisk to raw sector image converter
// main.go - Main entry point and command routing
// Dual-licensed under MIT and Apache 2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"imd2raw/imd"
)

// Exit codes, one per failure class
const (
	exitOK        = 0
	exitUsage     = 1
	exitInputOpen = 2
	exitOutput    = 3
	exitFormat    = 4
	exitOutOfSync = 5
)

// usageError is a wrong argument count or a bad flag
type usageError struct {
	Err error
}

func (e *usageError) Error() string { return e.Err.Error() }
func (e *usageError) Unwrap() error { return e.Err }

// openError is a file that could not be opened for reading or writing
type openError struct {
	Path  string
	Write bool
	Err   error
}

func (e *openError) Error() string {
	if e.Write {
		return fmt.Sprintf("open failure on %s for write: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("open failure on %s for read: %v", e.Path, e.Err)
}

func (e *openError) Unwrap() error { return e.Err }

// outputError is a failure writing, flushing or closing the raw image
type outputError struct {
	Err error
}

func (e *outputError) Error() string { return e.Err.Error() }
func (e *outputError) Unwrap() error { return e.Err }

// ConvertArgs represents parsed flags for the convert command
type ConvertArgs struct {
	Input         string
	Output        string
	Filler        string
	Lenient       bool
	MaxTrackBytes int
	Quiet         bool
}

// Options builds decoder options from the parsed flags
func (a ConvertArgs) Options(diag io.Writer) (imd.Options, error) {
	filler, err := imd.ParseFillerMode(a.Filler)
	if err != nil {
		return imd.Options{}, &usageError{Err: err}
	}
	if a.MaxTrackBytes < 0 {
		return imd.Options{}, &usageError{Err: fmt.Errorf("--max-track-bytes must not be negative, got %d", a.MaxTrackBytes)}
	}

	opts := imd.DefaultOptions()
	opts.Filler = filler
	opts.Lenient = a.Lenient
	opts.MaxTrackBytes = a.MaxTrackBytes
	opts.Log = log.New(diag, "Warning: ", 0)
	if !a.Quiet {
		opts.OnTrack = func(t *imd.Track, _ []imd.Slot) {
			printTrackLine(diag, t)
		}
	}
	return opts, nil
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &usageError{Err: fmt.Errorf("expected %d arguments, got %d\nUsage: %s", n, len(args), usage)}
		}
		return nil
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	args := ConvertArgs{}

	root := &cobra.Command{
		Use:   "imd2raw <infile.imd> <outfile.dsk>",
		Short: "Convert an ImageDisk (.IMD) floppy image to a raw sector image",
		Long: "Convert an ImageDisk (.IMD) floppy image to a raw sector image.\n" +
			"Sectors are written in ascending sector number per track, so skewed\n" +
			"images come out in physical order.",
		Args:          exactArgs(2, "imd2raw <infile.imd> <outfile.dsk>"),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			args.Input = positional[0]
			args.Output = positional[1]

			opts, err := args.Options(stderr)
			if err != nil {
				return err
			}
			_, err = convertFile(args.Input, args.Output, opts)
			return err
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{Err: err}
	})

	flags := root.Flags()
	flags.StringVar(&args.Filler, "filler", "last", "output for sectors stored with explicit filler (types 5, 7): last or verbatim")
	flags.BoolVar(&args.Lenient, "lenient", false, "zero-fill sectors with no decoded data instead of failing")
	flags.IntVar(&args.MaxTrackBytes, "max-track-bytes", imd.DefaultMaxTrackBytes, "reject tracks larger than this many bytes (0 = no limit)")
	flags.BoolVarP(&args.Quiet, "quiet", "q", false, "suppress per-track summary lines")

	root.AddCommand(newInfoCommand(stdout))
	return root
}

// exitCode maps an error to the process exit status
func exitCode(err error) int {
	var usage *usageError
	var open *openError
	var output *outputError

	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &usage):
		return exitUsage
	case errors.As(err, &open):
		if open.Write {
			return exitOutput
		}
		return exitInputOpen
	case errors.As(err, &output):
		return exitOutput
	case imd.IsSyncError(err):
		return exitOutOfSync
	}
	return exitFormat
}

func main() {
	root := newRootCommand(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code == exitUsage {
			fmt.Fprint(os.Stderr, root.UsageString())
		}
		os.Exit(code)
	}
}
