package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/color"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/icc"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/jfif"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/jpeg"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/recompress"
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Color-transform a CMYK JPEG to raw RGB (raw output + JSON sidecar)",
	RunE:  runTransform,
}

func init() {
	transformCmd.Flags().StringP("input", "i", "", "Input CMYK JPEG file")
	transformCmd.Flags().StringP("output", "o", "", "Output raw RGB file")
	transformCmd.Flags().String("cmyk-profile", "", "CMYK ICC profile (default: embedded, then bundled SWOP)")
	transformCmd.Flags().String("intent", "perceptual", "Rendering intent")
	transformCmd.MarkFlagRequired("input")
	transformCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(transformCmd)
}

type transformMeta struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Format  string `json:"format"`
	Source  string `json:"source"`
	YCCK    bool   `json:"ycck"`
	Profile string `json:"profile"`
}

func runTransform(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	profilePath := cfg.Reduce.CMYKProfile

	intent, err := color.ParseIntent(cfg.Reduce.Intent)
	if err != nil {
		return err
	}

	inputData, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	raster, model, err := jpeg.DecodeRaw(inputData)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}
	if !recompress.IsCMYK(model) {
		return fmt.Errorf("%s is %s, not CMYK", inputPath, model.Native)
	}

	ycck := recompress.IsYCCK(inputData)
	if ycck {
		if err := recompress.YCCKToCMYK(raster); err != nil {
			return err
		}
	}

	// An explicit profile wins; otherwise embedded, then the bundled press profile.
	var cmykICC []byte
	source := "configured"
	if profilePath != "" {
		if cmykICC, err = icc.LoadCMYKProfile(profilePath); err != nil {
			return err
		}
	} else if embedded, _ := jfif.EmbeddedICC(inputData); icc.IsCMYK(embedded) {
		cmykICC, source = embedded, "embedded"
	} else {
		cmykICC, source = icc.DefaultCMYKProfile(), "default"
	}

	rgb, err := color.NewEngine(intent).CMYKToRGB(raster, cmykICC)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, rgb.Pix, 0644); err != nil {
		return fmt.Errorf("writing raw RGB: %w", err)
	}

	// Write JSON sidecar
	meta := transformMeta{
		Width:   rgb.Width,
		Height:  rgb.Height,
		Format:  "RGB8",
		Source:  model.Native.String(),
		YCCK:    ycck,
		Profile: source,
	}
	metaJSON, _ := json.MarshalIndent(meta, "", "  ")
	metaPath := strings.TrimSuffix(outputPath, ".raw") + ".json"
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("writing sidecar: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Transformed %dx%d %s → raw RGB (%d bytes)\n", rgb.Width, rgb.Height, model.Native, len(rgb.Pix))
	fmt.Fprintf(cmd.OutOrStdout(), "Sidecar: %s\n", metaPath)
	return nil
}
