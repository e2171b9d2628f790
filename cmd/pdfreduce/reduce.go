package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/history"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/reducer"
)

var reduceCmd = &cobra.Command{
	Use:   "reduce",
	Short: "Recompress the JPEG images of a PDF",
	RunE:  runReduce,
}

func init() {
	reduceCmd.Flags().StringP("input", "i", "", "Input PDF file")
	reduceCmd.Flags().StringP("output", "o", "", "Output PDF file")
	addReduceFlags(reduceCmd)
	reduceCmd.MarkFlagRequired("input")
	reduceCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(reduceCmd)
}

func reduceOptions() reducer.Options {
	r := cfg.Reduce
	return reducer.Options{
		Scale:        r.Scale,
		Quality:      r.Quality,
		ExemptWidth:  r.ExemptWidth,
		ExemptHeight: r.ExemptHeight,
		CMYKProfile:  r.CMYKProfile,
		Intent:       r.Intent,
		Workers:      r.Workers,
		Logger:       logger,
	}
}

func runReduce(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	opts := reduceOptions()

	inputData, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	started := time.Now()
	var out bytes.Buffer
	res, runErr := reducer.Reduce(cmd.Context(), bytes.NewReader(inputData), &out, opts)
	if runErr == nil {
		runErr = writeAtomic(outputPath, out.Bytes())
	}

	recordRun(history.Run{
		StartedAt:    started,
		Duration:     time.Since(started),
		Input:        inputPath,
		Output:       outputPath,
		BytesIn:      int64(len(inputData)),
		BytesOut:     int64(out.Len()),
		Scale:        opts.Scale,
		Quality:      opts.Quality,
		ExemptWidth:  opts.ExemptWidth,
		ExemptHeight: opts.ExemptHeight,
	}, res, runErr)

	if runErr != nil {
		return fmt.Errorf("reducing %s: %w", inputPath, runErr)
	}

	w := cmd.OutOrStdout()
	rep := res.Report
	for _, it := range rep.Items {
		if it.Skipped != 0 {
			fmt.Fprintf(w, "  obj %-5d skipped (%s)\n", it.Index, it.Skipped)
			continue
		}
		fmt.Fprintf(w, "  obj %-5d %-9s %5dx%-5d → %5dx%-5d %9s → %s\n",
			it.Index, it.ColorSpace, it.SrcWidth, it.SrcHeight, it.Width, it.Height,
			humanSize(int64(it.BytesBefore)), humanSize(int64(it.BytesAfter)))
	}
	fmt.Fprintf(w, "Images: %d found, %d eligible, %d recompressed\n", rep.Images, rep.Eligible, rep.Recompressed)
	fmt.Fprintf(w, "Input:  %s (%s)\n", inputPath, humanSize(int64(len(inputData))))
	fmt.Fprintf(w, "Output: %s (%s)\n", outputPath, humanSize(res.BytesOut))
	return nil
}

// writeAtomic writes data to a temporary file next to path and renames it
// into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pdfreduce-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming output: %w", err)
	}
	return nil
}

func recordRun(run history.Run, res *reducer.Result, runErr error) {
	if cfg.History.Path == "" {
		return
	}
	if res != nil && res.Report != nil {
		run.Images = res.Report.Images
		run.Recompressed = res.Report.Recompressed
		for _, n := range res.Report.Skipped {
			run.Skipped += n
		}
	}
	if runErr != nil {
		run.Error = runErr.Error()
		run.BytesOut = 0
	}

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		logger.Warn("run ledger unavailable", "path", cfg.History.Path, "error", err)
		return
	}
	defer store.Close()

	id, err := store.Record(run)
	if err != nil {
		logger.Warn("failed to record run", "error", err)
		return
	}
	logger.Debug("run recorded", "id", id)
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
