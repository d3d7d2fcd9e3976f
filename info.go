// imd2raw - ImageDisk to raw sector image converter
// info.go - Info/dump command implementation
// Dual-licensed under MIT and Apache 2.0

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"imd2raw/imd"
)

func newInfoCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "info <infile.imd>",
		Short: "Display IMD file information",
		Args:  exactArgs(1, "imd2raw info <infile.imd>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, src, err := openInput(args[0])
			if err != nil {
				return err
			}
			defer in.Close()
			return dumpInfo(stdout, src)
		},
	}
}

// dumpInfo prints the IMD structure
func dumpInfo(w io.Writer, r io.Reader) error {
	reader := imd.NewReader(r, imd.DefaultOptions())
	if err := reader.ReadPreamble(); err != nil {
		return err
	}
	banner := imd.ParseBanner(reader.Comment)

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, "              IMD FILE INFORMATION                ")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Version   : %s\n", banner.Version)
	if !banner.Created.IsZero() {
		fmt.Fprintf(w, "Created   : %s\n", banner.Created.Format("2006-01-02 15:04:05"))
	}
	if banner.Text != "" {
		fmt.Fprintf(w, "Comment   : %s\n", banner.Text)
	}
	fmt.Fprintln(w, "--------------------------------------------------")

	var stats imd.Stats
	for i := 0; ; i++ {
		t, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		h := t.Header
		fmt.Fprintf(w, "Track #%02d | Cyl: %02d | Head: %d | Mode: %s | SecCount: %02d | Size: %d\n",
			i, h.Cylinder, h.Head, h.Mode, h.SectorCount, h.SectorSize)
		if t.CylinderMap != nil || t.HeadMap != nil {
			fmt.Fprintf(w, "   Cylinder map: %v | Head map: %v\n", t.CylinderMap, t.HeadMap)
		}

		for slot, n := range t.SectorMap {
			preview := "(no data)"
			if data, ok := t.Sectors[n]; ok {
				if len(data) > 16 {
					preview = hex.EncodeToString(data[:16]) + "..."
				} else {
					preview = hex.EncodeToString(data)
				}
			}
			fmt.Fprintf(w, "   [SEC] ID: %02X | Type: %d (%c) | Data: %s\n",
				n, t.Types[slot], t.Types[slot].Glyph(), preview)
		}
		fmt.Fprintln(w, "- - - - - - - - - - - - - - - - - - - - - - - - -")
		stats.Tracks++
		stats.Sectors += len(t.SectorMap)
		stats.Bytes += int64(t.Size())
	}

	fmt.Fprintf(w, "Tracks: %d | Sectors: %d | Raw size: %d bytes\n", stats.Tracks, stats.Sectors, stats.Bytes)
	return nil
}
