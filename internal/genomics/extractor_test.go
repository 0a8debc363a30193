package genomics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/clinseq/reportgen/internal/vcf"
)

const csqHeader = `##INFO=<ID=CSQ,Number=.,Type=String,Description="Consequence annotations from Ensembl VEP. Format: Allele|Consequence|IMPACT|SYMBOL|Gene|Feature_type|Feature|HGVSc|HGVSp">`

const vcfHeader = "##fileformat=VCFv4.2\n" + csqHeader + "\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"

func parserFor(t *testing.T, body string) *vcf.Parser {
	t.Helper()
	p, err := vcf.NewParserFromReader(strings.NewReader(vcfHeader + body))
	require.NoError(t, err)
	return p
}

func TestExtractMutations_SingleGene(t *testing.T) {
	body := "1\t115256529\t.\tT\tG\t.\tPASS\tCSQ=G|missense_variant|MODERATE|NRAS|ENSG00000213281|Transcript|ENST00000369535|c.183A>C|ENSP00000358548.4:p.Gln61His\n"

	e := NewExtractor()
	require.NoError(t, e.ExtractMutations(parserFor(t, body)))

	genes := e.Genes()
	require.Len(t, genes, 1)
	nras := genes["NRAS"]
	require.NotNil(t, nras)
	assert.Equal(t, "ENSG00000213281", nras.Gene.ID())
	require.Len(t, nras.Alterations(), 1)

	alt := nras.Alterations()[0]
	assert.Equal(t, "ENST00000369535", alt.TranscriptID())
	assert.Equal(t, ConsequenceMissenseVariant, alt.SequenceOntologyTerm())
	assert.Equal(t, "p.Gln61His", alt.HGVSp())
}

func TestExtractMutations_KeepsNonPassVariants(t *testing.T) {
	body := "12\t25378562\t.\tC\tG\t.\tLowQual\tCSQ=G|missense_variant|MODERATE|KRAS|ENSG00000133703|Transcript|ENST00000256078|c.436G>C|ENSP00000256078.4:p.Ala146Pro\n" +
		"1\t115256529\t.\tT\tG\t.\tPASS\tCSQ=G|missense_variant|MODERATE|NRAS|ENSG00000213281|Transcript|ENST00000369535|c.183A>C|ENSP00000358548.4:p.Gln61His\n"

	core, logs := observer.New(zap.InfoLevel)
	e := NewExtractor()
	e.SetLogger(zap.New(core))
	require.NoError(t, e.ExtractMutations(parserFor(t, body)))

	assert.Len(t, e.Genes()["KRAS"].Alterations(), 1)
	assert.Len(t, e.Genes()["NRAS"].Alterations(), 1)

	entries := logs.FilterMessage("extracted mutations").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(2), fields["variants"])
	assert.Equal(t, int64(1), fields["non_pass"])
	assert.Equal(t, int64(2), fields["alterations"])
}

func TestExtractMutations_MultipleGenesAndAnnotations(t *testing.T) {
	body := "12\t25378562\t.\tC\tG\t.\tPASS\tCSQ=G|missense_variant|MODERATE|KRAS|ENSG00000133703|Transcript|ENST00000256078|c.436G>C|ENSP00000256078.4:p.Ala146Pro\n" +
		"12\t25378647\t.\tT\tA\t.\tPASS\tCSQ=A|missense_variant&splice_region_variant|MODERATE|KRAS|ENSG00000133703|Transcript|ENST00000256078|c.351A>T|ENSP00000256078.4:p.Lys117Asn,A|intron_variant|MODIFIER|KRAS|ENSG00000133703|Transcript|ENST00000311936||\n" +
		"1\t115256529\t.\tT\tG\t.\tPASS\tCSQ=G|missense_variant|MODERATE|NRAS|ENSG00000213281|Transcript|ENST00000369535|c.183A>C|ENSP00000358548.4:p.Gln61His\n" +
		"2\t100\t.\tA\tC\t.\tPASS\tDP=10\n"

	e := NewExtractor()
	require.NoError(t, e.ExtractMutations(parserFor(t, body)))

	genes := e.Genes()
	require.Len(t, genes, 2)

	kras := genes["KRAS"].Alterations()
	require.Len(t, kras, 3)
	assert.Equal(t, "p.Ala146Pro", kras[0].HGVSp())
	assert.Equal(t, ConsequenceMissenseVariant, kras[1].SequenceOntologyTerm())
	assert.Equal(t, "p.Lys117Asn", kras[1].HGVSp())
	assert.Equal(t, ConsequenceIntronVariant, kras[2].SequenceOntologyTerm())
	assert.False(t, kras[2].HasPosition())
	assert.Len(t, genes["NRAS"].Alterations(), 1)
}

func TestExtractMutations_MissingCSQFields(t *testing.T) {
	content := "##fileformat=VCFv4.2\n" +
		`##INFO=<ID=CSQ,Number=.,Type=String,Description="Format: Allele|Consequence|SYMBOL">` + "\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"
	p, err := vcf.NewParserFromReader(strings.NewReader(content))
	require.NoError(t, err)

	err = NewExtractor().ExtractMutations(p)
	var perr *vcf.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "Feature, Gene, HGVSp")
}

func TestExtractMutations_TruncatedAnnotation(t *testing.T) {
	body := "1\t100\t.\tA\tC\t.\tPASS\tCSQ=C|missense_variant|MODERATE\n"

	err := NewExtractor().ExtractMutations(parserFor(t, body))
	var perr *vcf.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 4, perr.Line)
}

func TestExtractMutationsFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.vcf")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	e := NewExtractor()
	require.NoError(t, e.ExtractMutationsFile(path))
	assert.Empty(t, e.Genes())
}

func TestExtractCNVs(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantTerm string
		wantErr  bool
	}{
		{"homozygous loss", `{"name":"PTEN","call":"HOMLOSS","ENSG":"ENSG00000171862","ENST":"ENST00000371953"}`, ConsequenceHomozygousLoss, false},
		{"het loss", `{"name":"PTEN","call":"HETLOSS_or_LOH","ENSG":"ENSG00000171862","ENST":"ENST00000371953"}`, ConsequenceLOH, false},
		{"no call", `{"name":"PTEN","call":"NOCALL","ENSG":"ENSG00000171862","ENST":"ENST00000371953"}`, "", false},
		{"unknown call", `{"name":"PTEN","call":"GAIN","ENSG":"ENSG00000171862","ENST":"ENST00000371953"}`, "", true},
		{"malformed", `{"name":`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor()
			err := e.ExtractCNVs(strings.NewReader(tt.json))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tt.wantTerm == "" {
				assert.Empty(t, e.Genes())
				return
			}
			pten := e.Genes()["PTEN"]
			require.NotNil(t, pten)
			require.Len(t, pten.Alterations(), 1)
			alt := pten.Alterations()[0]
			assert.Equal(t, tt.wantTerm, alt.SequenceOntologyTerm())
			assert.Equal(t, "ENST00000371953", alt.TranscriptID())
			assert.False(t, alt.HasPosition())
		})
	}
}

func TestExtractCNVs_MergesWithMutations(t *testing.T) {
	body := "10\t89692905\t.\tG\tA\t.\tPASS\tCSQ=A|stop_gained|HIGH|PTEN|ENSG00000171862|Transcript|ENST00000371953|c.388C>T|ENSP00000361021.3:p.Arg130Ter\n"

	e := NewExtractor()
	require.NoError(t, e.ExtractMutations(parserFor(t, body)))
	require.NoError(t, e.ExtractCNVs(strings.NewReader(
		`{"name":"PTEN","call":"HETLOSS_or_LOH","ENSG":"ENSG00000171862","ENST":"ENST00000371953"}`)))

	pten := e.Genes()["PTEN"]
	require.Len(t, pten.Alterations(), 2)
	assert.Equal(t, ConsequenceStopGained, pten.Alterations()[0].SequenceOntologyTerm())
	assert.Equal(t, ConsequenceLOH, pten.Alterations()[1].SequenceOntologyTerm())
}
