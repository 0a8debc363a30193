package classify

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var tableHeader = []any{"Consequence", "Symbol", "Gene", "Transcript", "Amino acid changes", "Flag"}

// workbook builds an xlsx workbook with the given rows on sheet.
func workbook(t *testing.T, sheet string, rows ...[]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	return f
}

func parseWorkbook(t *testing.T, f *excelize.File) (*Table, error) {
	t.Helper()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return ParseTable(bytes.NewReader(buf.Bytes()), "test.xlsx")
}

func TestParseTable(t *testing.T) {
	f := workbook(t, MutationTableSheet,
		tableHeader,
		[]any{"missense_variant, inframe_deletion", "PIK3CA", "ENSG00000121879", "ENST00000263967", "542,545, 1047", "Class A mutation"},
		[]any{"", "ignored", "", "", "", "ignored"},
		[]any{"homozygous_loss", "PTEN", "ENSG00000171862", "", "", "Class B mutation"},
		[]any{"missense_variant", "PIK3CA", "", "", "", "Class B mutation"},
		[]any{},
		[]any{"missense_variant", "KRAS", "", "", "12:13,p.Gln61His", "KRAS_mutated"},
	)

	tbl, err := parseWorkbook(t, f)
	require.NoError(t, err)

	assert.Equal(t, "test.xlsx", tbl.Source)
	assert.Equal(t, []string{"PIK3CA", "PTEN", "KRAS"}, tbl.Symbols())
	assert.Equal(t, 4, tbl.Len())

	pik3ca := tbl.Classifications("PIK3CA")
	require.Len(t, pik3ca, 2)
	assert.Equal(t, "Class A mutation", pik3ca[0].Flag)
	assert.Equal(t, "ENST00000263967", pik3ca[0].TranscriptID)
	assert.Contains(t, pik3ca[0].Consequences, "inframe_deletion")
	require.Len(t, pik3ca[0].Positions, 3)
	assert.Equal(t, 1047, pik3ca[0].Positions[2].Start)
	assert.Equal(t, "Class B mutation", pik3ca[1].Flag)
	assert.Empty(t, pik3ca[1].Positions)

	pten := tbl.Classifications("PTEN")
	require.Len(t, pten, 1)
	assert.Empty(t, pten[0].TranscriptID)

	kras := tbl.Classifications("KRAS")
	require.Len(t, kras, 1)
	assert.Equal(t, PositionRange, kras[0].Positions[0].Kind)
	assert.Equal(t, PositionSubstitution, kras[0].Positions[1].Kind)

	assert.Nil(t, tbl.Classifications("BRAF"))
}

func TestParseTable_HeaderOnly(t *testing.T) {
	tbl, err := parseWorkbook(t, workbook(t, MutationTableSheet, tableHeader))
	require.NoError(t, err)
	assert.Empty(t, tbl.Symbols())
	assert.Equal(t, 0, tbl.Len())
}

func TestParseTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		sheet   string
		rows    [][]any
		row     int
		field   string
		wantMsg string
	}{
		{
			name:    "missing sheet",
			sheet:   "Sheet2",
			rows:    [][]any{tableHeader},
			wantMsg: "cannot read sheet MutationTable",
		},
		{
			name:    "no header",
			sheet:   MutationTableSheet,
			wantMsg: "missing header row",
		},
		{
			name:  "too many columns",
			sheet: MutationTableSheet,
			rows: [][]any{tableHeader,
				{"missense_variant", "KRAS", "", "", "12", "KRAS_mutated", "extra"}},
			row:     2,
			wantMsg: "expected 6 columns, found 7",
		},
		{
			name:  "missing symbol",
			sheet: MutationTableSheet,
			rows: [][]any{tableHeader,
				{"missense_variant", "KRAS", "", "", "", "KRAS_mutated"},
				{"missense_variant", "", "", "", "", "KRAS_mutated"}},
			row:     3,
			field:   "Symbol",
			wantMsg: "required value is empty",
		},
		{
			name:  "missing flag",
			sheet: MutationTableSheet,
			rows: [][]any{tableHeader,
				{"missense_variant", "KRAS", "", "", "12"}},
			row:     2,
			field:   "Flag",
			wantMsg: "required value is empty",
		},
		{
			name:  "bad specifier",
			sheet: MutationTableSheet,
			rows: [][]any{tableHeader,
				{"missense_variant", "BRAF", "", "", "V600E", "BRAF_mutated"}},
			row:     2,
			field:   "Amino acid changes",
			wantMsg: "malformed position specifier",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseWorkbook(t, workbook(t, tt.sheet, tt.rows...))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "test.xlsx", verr.Source)
			assert.Equal(t, tt.row, verr.Row)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.wantMsg, verr.Message)
		})
	}
}

func TestParseTable_BadSpecifierUnwraps(t *testing.T) {
	f := workbook(t, MutationTableSheet, tableHeader,
		[]any{"missense_variant", "BRAF", "", "", "600-601", "BRAF_mutated"})
	_, err := parseWorkbook(t, f)
	assert.ErrorIs(t, err, ErrInvalidPositionSpec)
	assert.ErrorContains(t, err, `row 2 field "Amino acid changes"`)
}

func TestParseTable_NotAWorkbook(t *testing.T) {
	_, err := ParseTable(bytes.NewReader([]byte("Consequence\tSymbol\n")), "rules.tsv")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unreadable workbook", verr.Message)
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.xlsx")
	f := workbook(t, MutationTableSheet, tableHeader,
		[]any{"frameshift_variant", "APC", "", "", "", "APC_mutated"})
	require.NoError(t, f.SaveAs(path))

	tbl, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, path, tbl.Source)
	assert.Equal(t, []string{"APC"}, tbl.Symbols())

	_, err = LoadTable(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.ErrorContains(t, err, "open mutation table")
}
