package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/reducer"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Recompress a single JPEG file as an RGB JPEG",
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringP("input", "i", "", "Input JPEG file")
	convertCmd.Flags().StringP("output", "o", "", "Output JPEG file")
	addReduceFlags(convertCmd)
	convertCmd.MarkFlagRequired("input")
	convertCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")

	inputData, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	rc, err := reducer.NewRecompressor(reduceOptions())
	if err != nil {
		return err
	}

	result, err := rc.Recompress(inputData)
	if err != nil {
		return fmt.Errorf("conversion: %w", err)
	}

	if err := writeAtomic(outputPath, result.Data); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	from := result.Model.Native.String()
	if result.YCCK {
		from += " (Adobe YCCK)"
	}
	fmt.Fprintf(w, "Converted %dx%d %s → %dx%d RGB\n", result.SrcWidth, result.SrcHeight, from, result.Width, result.Height)
	if result.Profile != "" {
		fmt.Fprintf(w, "Profile: %s\n", result.Profile)
	}
	fmt.Fprintf(w, "Input:  %s (%d bytes)\n", inputPath, len(inputData))
	fmt.Fprintf(w, "Output: %s (%d bytes)\n", outputPath, len(result.Data))

	return nil
}
