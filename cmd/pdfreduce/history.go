package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous reduce runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if cfg.History.Path == "" {
		return fmt.Errorf("no run ledger configured (set history.path or --history-db)")
	}

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tINPUT\tIN\tOUT\tIMAGES\tSTATUS")
	for _, r := range runs {
		status := "ok"
		if r.Error != "" {
			status = "failed: " + r.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			r.ID[:min(8, len(r.ID))], r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Input,
			humanSize(r.BytesIn), humanSize(r.BytesOut), r.Recompressed, r.Images, status)
	}
	return tw.Flush()
}
