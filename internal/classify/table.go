package classify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MutationTableSheet is the sheet holding classification rows.
const MutationTableSheet = "MutationTable"

// Mutation table columns, in order.
const (
	colConsequence = iota
	colSymbol
	colGene
	colTranscript
	colAminoAcidChanges
	colFlag
	numColumns
)

var columnNames = [numColumns]string{
	"Consequence", "Symbol", "Gene", "Transcript", "Amino acid changes", "Flag",
}

// ValidationError reports a structurally invalid rule table.
type ValidationError struct {
	Source  string // file the table was read from
	Row     int    // 1-based spreadsheet row, 0 if not row specific
	Field   string // column name, empty if not column specific
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid mutation table %s", e.Source)
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Table maps gene symbols to their classifications in table order.
type Table struct {
	Source   string
	symbols  []string
	bySymbol map[string][]*Classification
}

// NewTable creates an empty table.
func NewTable(source string) *Table {
	return &Table{
		Source:   source,
		bySymbol: make(map[string][]*Classification),
	}
}

// Add appends a classification after any earlier ones for the same gene.
func (t *Table) Add(c *Classification) {
	if _, ok := t.bySymbol[c.Symbol]; !ok {
		t.symbols = append(t.symbols, c.Symbol)
	}
	t.bySymbol[c.Symbol] = append(t.bySymbol[c.Symbol], c)
}

// Symbols returns the gene symbols in order of first appearance.
func (t *Table) Symbols() []string {
	return t.symbols
}

// Classifications returns the classifications for symbol in table order.
func (t *Table) Classifications(symbol string) []*Classification {
	return t.bySymbol[symbol]
}

// Len returns the total number of classifications.
func (t *Table) Len() int {
	n := 0
	for _, cs := range t.bySymbol {
		n += len(cs)
	}
	return n
}

// LoadTable reads the MutationTable sheet of an xlsx workbook.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mutation table: %w", err)
	}
	defer f.Close()

	return ParseTable(f, path)
}

// ParseTable reads the MutationTable sheet of an xlsx workbook from r. The
// first row is a header and is always skipped; rows with an empty first cell
// are skipped. source names the input in error messages.
func ParseTable(r io.Reader, source string) (*Table, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ValidationError{Source: source, Message: "unreadable workbook", Err: err}
	}
	defer wb.Close()

	rows, err := wb.GetRows(MutationTableSheet)
	if err != nil {
		return nil, &ValidationError{Source: source, Message: "cannot read sheet " + MutationTableSheet, Err: err}
	}
	if len(rows) == 0 {
		return nil, &ValidationError{Source: source, Message: "missing header row"}
	}

	t := NewTable(source)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if len(row) == 0 || strings.TrimSpace(row[colConsequence]) == "" {
			continue
		}
		c, err := parseRow(row, rowNum, source)
		if err != nil {
			return nil, err
		}
		t.Add(c)
	}
	return t, nil
}

func parseRow(row []string, rowNum int, source string) (*Classification, error) {
	if len(row) > numColumns {
		return nil, &ValidationError{
			Source:  source,
			Row:     rowNum,
			Message: fmt.Sprintf("expected %d columns, found %d", numColumns, len(row)),
		}
	}
	// Trailing empty cells are not returned by the reader.
	cells := make([]string, numColumns)
	for i, v := range row {
		cells[i] = strings.TrimSpace(v)
	}

	for _, col := range []int{colSymbol, colFlag} {
		if cells[col] == "" {
			return nil, &ValidationError{
				Source:  source,
				Row:     rowNum,
				Field:   columnNames[col],
				Message: "required value is empty",
			}
		}
	}

	c, err := NewClassification(
		cells[colSymbol],
		splitList(cells[colConsequence]),
		cells[colTranscript],
		splitList(cells[colAminoAcidChanges]),
		cells[colFlag],
	)
	if err != nil {
		return nil, &ValidationError{
			Source:  source,
			Row:     rowNum,
			Field:   columnNames[colAminoAcidChanges],
			Message: "malformed position specifier",
			Err:     err,
		}
	}
	return c, nil
}

// splitList splits a comma separated cell, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
