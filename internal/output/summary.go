// Package output provides report summary formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/clinseq/reportgen/internal/report"
)

// TabWriter writes report features in tab-delimited format, one row per
// call and one per reported alteration.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Feature",
			"Gene",
			"Call",
			"HGVSp",
			"Flag",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	return tw.writeRow(tw.columns...)
}

// WriteComment writes a "##"-prefixed metadata line.
func (tw *TabWriter) WriteComment(format string, args ...any) error {
	_, err := fmt.Fprintf(tw.w, "##"+format+"\n", args...)
	return err
}

// Write writes the rows for a single feature.
func (tw *TabWriter) Write(f report.Feature) error {
	switch f := f.(type) {
	case *report.AlasccaClassReport:
		return tw.writeRow(f.Name(), "-", f.Class, "-", "-")

	case *report.MsiReport:
		return tw.writeRow(f.Name(), "-", f.Status, "-", "-")

	case *report.PurityReport:
		return tw.writeRow(f.Name(), "-", strconv.FormatBool(f.OK), "-", "-")

	case *report.SimpleSomaticMutationsReport:
		for _, symbol := range f.Symbols() {
			ms := f.Status(symbol)
			if len(ms.Alterations()) == 0 {
				if err := tw.writeRow(f.Name(), symbol, ms.Status(), "-", "-"); err != nil {
					return err
				}
				continue
			}
			for _, fa := range ms.Alterations() {
				if err := tw.writeRow(f.Name(), symbol, ms.Status(), orDash(fa.HGVSp), orDash(fa.Flag)); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return fmt.Errorf("no summary format for feature %s", f.Name())
}

func (tw *TabWriter) writeRow(values ...string) error {
	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
