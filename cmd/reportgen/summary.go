package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/clinseq/reportgen/internal/output"
	"github.com/clinseq/reportgen/internal/report"
)

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <report.json>",
		Short: "Print a compiled report as a tab-delimited table",
		Example: `  reportgen summary report.json
  reportgen compile --vcf sample.vcf --crc-rules crc.xlsx | reportgen summary -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, err := readReport(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), dict)
		},
	}
}

// readReport decodes a compiled report JSON file, or stdin for "-".
func readReport(stdin io.Reader, path string) (map[string]any, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open report: %w", err)
		}
		defer f.Close()
		r = f
	}

	var dict map[string]any
	if err := json.NewDecoder(r).Decode(&dict); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}
	return dict, nil
}

// writeSummary validates every feature of dict and writes them sorted by name.
func writeSummary(w io.Writer, dict map[string]any, comments ...string) error {
	features, err := report.DecodeReport(dict)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := output.NewTabWriter(w)
	for _, c := range comments {
		if err := tw.WriteComment("%s", c); err != nil {
			return err
		}
	}
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, name := range names {
		if err := tw.Write(features[name]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
