package vcf

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csqHeader = `##INFO=<ID=CSQ,Number=.,Type=String,Description="Consequence annotations from Ensembl VEP. Format: Allele|Consequence|IMPACT|SYMBOL|Gene|Feature_type|Feature|BIOTYPE|HGVSc|HGVSp">`

const testVCF = "##fileformat=VCFv4.2\n" +
	csqHeader + "\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tTUMOR\tNORMAL\n" +
	"1\t115256529\t.\tT\tG\t50\tPASS\tCSQ=G|missense_variant|MODERATE|NRAS|ENSG00000213281|Transcript|ENST00000369535|protein_coding|ENST00000369535.4:c.183A>C|ENSP00000358548.4:p.Gln61His\tGT\t0/1\t0/0\n" +
	"\n" +
	"12\t25378562\t.\tC\tG\t.\tLowQual\tCSQ=G|missense_variant|MODERATE|KRAS|ENSG00000133703|Transcript|ENST00000256078|protein_coding|c.436G>C|p.Ala146Pro,G|intron_variant|MODIFIER|KRAS|ENSG00000133703|Transcript|ENST00000311936|protein_coding||;DB\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParser_Variants(t *testing.T) {
	p, err := NewParser(writeFile(t, "sample.vcf", testVCF))
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, []string{"TUMOR", "NORMAL"}, p.SampleNames())

	v, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "1", v.Chrom)
	assert.Equal(t, int64(115256529), v.Pos)
	assert.Equal(t, 50.0, v.Qual)
	assert.True(t, v.IsPass())
	assert.Equal(t, "GT\t0/1\t0/0", v.SampleColumns)
	require.Len(t, v.CSQ(), 1)

	// The blank line between records is skipped.
	v, err = p.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "12", v.Chrom)
	assert.False(t, v.IsPass())
	assert.Len(t, v.CSQ(), 2)
	assert.Equal(t, true, v.Info["DB"])

	v, err = p.Next()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestParser_CSQFields(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(testVCF))
	require.NoError(t, err)

	fields, err := p.CSQFields()
	require.NoError(t, err)
	assert.Equal(t, []string{"Allele", "Consequence", "IMPACT", "SYMBOL", "Gene",
		"Feature_type", "Feature", "BIOTYPE", "HGVSc", "HGVSp"}, fields)
}

func TestParser_MissingCSQHeader(t *testing.T) {
	content := "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"
	p, err := NewParserFromReader(strings.NewReader(content))
	require.NoError(t, err)

	_, err = p.CSQFields()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "no CSQ INFO header")
}

func TestParser_EmptyInput(t *testing.T) {
	_, err := NewParser(writeFile(t, "empty.vcf", ""))
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = NewParserFromReader(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestParser_Gzipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.vcf.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(testVCF))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()

	v, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "1", v.Chrom)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"no CHROM line", "##fileformat=VCFv4.2\n", "no #CHROM header line found"},
		{"data before CHROM", "##fileformat=VCFv4.2\n1\t100\n", "expected #CHROM header line"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParserFromReader(strings.NewReader(tt.content))
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Contains(t, perr.Message, tt.wantMsg)
		})
	}

	t.Run("short data line", func(t *testing.T) {
		content := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n1\t100\t.\tA\n"
		p, err := NewParserFromReader(strings.NewReader(content))
		require.NoError(t, err)
		_, err = p.Next()
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 2, perr.Line)
	})

	t.Run("bad position", func(t *testing.T) {
		content := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n1\tabc\t.\tA\tT\t.\tPASS\t.\n"
		p, err := NewParserFromReader(strings.NewReader(content))
		require.NoError(t, err)
		_, err = p.Next()
		assert.ErrorContains(t, err, "invalid position: abc")
	})
}
