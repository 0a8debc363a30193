package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clinseq/reportgen/internal/archive"
)

func newHistoryCmd() *cobra.Command {
	var (
		archivePath string
		list        bool
	)

	cmd := &cobra.Command{
		Use:   "history <sample>",
		Short: "Show archived reports for a sample",
		Long: `Show the latest archived report of a sample with the caveats applied to it
and the input files it was compiled from. With --list, show every archived run.`,
		Example: `  reportgen history S1
  reportgen history --list --archive reports.duckdb S1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if archivePath == "" {
				archivePath = viper.GetString(keyArchivePath)
			}
			if archivePath == "" {
				return fmt.Errorf("no archive configured\nHint: use --archive or reportgen config set %s <path>", keyArchivePath)
			}
			return runHistory(cmd.OutOrStdout(), archivePath, args[0], list)
		},
	}

	cmd.Flags().StringVar(&archivePath, "archive", "", "DuckDB report archive (default: config "+keyArchivePath+")")
	cmd.Flags().BoolVar(&list, "list", false, "List all runs instead of showing the latest report")

	return cmd
}

func runHistory(w io.Writer, archivePath, sample string, list bool) error {
	store, err := archive.Open(archivePath)
	if err != nil {
		return err
	}
	defer store.Close()

	if list {
		runs, err := store.Runs(sample)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			return fmt.Errorf("sample %s: %w", sample, archive.ErrNoRuns)
		}
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\n", r.ID, r.CreatedAt.Format(time.RFC3339))
		}
		return nil
	}

	run, err := store.LatestRun(sample)
	if errors.Is(err, archive.ErrNoRuns) {
		return fmt.Errorf("%w\nHint: compile with --sample %s --archive %s first", err, sample, archivePath)
	}
	if err != nil {
		return err
	}

	dict, err := store.LoadReport(run.ID)
	if err != nil {
		return err
	}

	comments := []string{
		"sample=" + run.SampleID,
		"run_id=" + run.ID,
		"created_at=" + run.CreatedAt.Format(time.RFC3339),
	}
	for _, c := range run.Caveats {
		comments = append(comments, "caveat="+c.String())
	}
	for _, in := range run.Inputs {
		comments = append(comments, fmt.Sprintf("input=%s:%s", in.Role, in.Path))
	}
	return writeSummary(w, dict, comments...)
}
