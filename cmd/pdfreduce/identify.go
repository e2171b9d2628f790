package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/icc"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/jpeg"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/recompress"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [file]",
	Short: "Inspect JPEG color space, Adobe marker and ICC profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	info, err := jpeg.GetInfo(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "File:       %s\n", path)
	fmt.Fprintf(w, "Dimensions: %d x %d\n", info.Width, info.Height)
	fmt.Fprintf(w, "Components: %d\n", info.NumComponents)
	fmt.Fprintf(w, "Color space: %s\n", info.ColorSpace)
	fmt.Fprintf(w, "CMYK:       %v\n", recompress.IsCMYK(info.Model()))
	if code, ok := recompress.AdobeTransform(data); ok {
		fmt.Fprintf(w, "Adobe APP14: transform %d (YCCK=%v)\n", code, code == 2)
	} else {
		fmt.Fprintln(w, "Adobe APP14: none")
	}
	fmt.Fprintf(w, "File size:  %d bytes (%.1f MB)\n", len(data), float64(len(data))/(1024*1024))

	if info.ICC != nil {
		pi, err := icc.ParseProfileInfo(info.ICC)
		if err != nil {
			fmt.Fprintf(w, "ICC profile: present (%d bytes) but invalid: %v\n", len(info.ICC), err)
		} else {
			fmt.Fprintf(w, "ICC profile: %d bytes\n", len(info.ICC))
			fmt.Fprintf(w, "  Version:     %s\n", pi.Version)
			fmt.Fprintf(w, "  Color space: %s\n", icc.ColorSpaceName(pi.ColorSpace))
			fmt.Fprintf(w, "  PCS:         %s\n", icc.ColorSpaceName(pi.PCS))
			fmt.Fprintf(w, "  Class:       %s\n", icc.ProfileClassName(pi.Class))
		}
	} else {
		fmt.Fprintln(w, "ICC profile: none")
	}

	return nil
}
