package genomics

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/clinseq/reportgen/internal/vcf"
)

// CSQ sub-fields needed to build an alteration.
const (
	csqSymbol      = "SYMBOL"
	csqGene        = "Gene"
	csqFeature     = "Feature"
	csqConsequence = "Consequence"
	csqHGVSp       = "HGVSp"
)

// csqIndices holds the positions of the needed CSQ sub-fields.
type csqIndices struct {
	symbol, gene, feature, consequence, hgvsp int
}

func newCSQIndices(fields []string) (csqIndices, error) {
	idx := csqIndices{-1, -1, -1, -1, -1}
	for i, f := range fields {
		switch f {
		case csqSymbol:
			idx.symbol = i
		case csqGene:
			idx.gene = i
		case csqFeature:
			idx.feature = i
		case csqConsequence:
			idx.consequence = i
		case csqHGVSp:
			idx.hgvsp = i
		}
	}

	var missing []string
	for name, i := range map[string]int{
		csqSymbol: idx.symbol, csqGene: idx.gene, csqFeature: idx.feature,
		csqConsequence: idx.consequence, csqHGVSp: idx.hgvsp,
	} {
		if i < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return idx, &vcf.ParseError{
			Message: fmt.Sprintf("CSQ header missing fields: %s", strings.Join(missing, ", ")),
		}
	}
	return idx, nil
}

func (c csqIndices) max() int {
	m := c.symbol
	for _, i := range []int{c.gene, c.feature, c.consequence, c.hgvsp} {
		if i > m {
			m = i
		}
	}
	return m
}

// cnvCall is one per-gene copy number call.
type cnvCall struct {
	Name string `json:"name"`
	Call string `json:"call"`
	ENSG string `json:"ENSG"`
	ENST string `json:"ENST"`
}

// Extractor builds the alteration model for one sample from VEP-annotated
// VCF records and copy number calls.
type Extractor struct {
	genes  map[string]*AlteredGene
	logger *zap.Logger
}

// NewExtractor creates an extractor with no genes.
func NewExtractor() *Extractor {
	return &Extractor{
		genes:  make(map[string]*AlteredGene),
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for progress messages.
func (e *Extractor) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Genes returns the altered genes keyed by symbol.
func (e *Extractor) Genes() map[string]*AlteredGene {
	return e.genes
}

// alteredGene returns the altered gene for symbol, creating it on first use.
func (e *Extractor) alteredGene(symbol, geneID string) (*AlteredGene, error) {
	if ag, ok := e.genes[symbol]; ok {
		return ag, nil
	}
	g := NewGene(symbol)
	if err := g.SetID(geneID); err != nil {
		return nil, err
	}
	ag := NewAlteredGene(g)
	e.genes[symbol] = ag
	return ag, nil
}

// ExtractMutationsFile reads mutations from a VEP-annotated VCF file.
// An empty file contributes no mutations.
func (e *Extractor) ExtractMutationsFile(path string) error {
	p, err := vcf.NewParser(path)
	if errors.Is(err, vcf.ErrEmptyInput) {
		e.logger.Warn("empty VCF file, no mutations extracted", zap.String("path", path))
		return nil
	}
	if err != nil {
		return err
	}
	defer p.Close()

	return e.ExtractMutations(p)
}

// ExtractMutations adds one alteration per CSQ annotation of every variant.
// Variants are not filtered on FILTER; the non-PASS count is logged.
func (e *Extractor) ExtractMutations(p vcf.VariantParser) error {
	fields, err := p.CSQFields()
	if err != nil {
		return err
	}
	idx, err := newCSQIndices(fields)
	if err != nil {
		return err
	}

	var variants, nonPass, alterations int
	for {
		v, err := p.Next()
		if err != nil {
			return fmt.Errorf("read variant: %w", err)
		}
		if v == nil {
			break
		}
		variants++
		if !v.IsPass() {
			nonPass++
		}

		for _, ann := range v.CSQ() {
			parts := strings.Split(ann, "|")
			if len(parts) <= idx.max() {
				return &vcf.ParseError{
					Line:    p.LineNumber(),
					Message: fmt.Sprintf("CSQ annotation has %d fields, expected %d", len(parts), len(fields)),
				}
			}

			ag, err := e.alteredGene(parts[idx.symbol], parts[idx.gene])
			if err != nil {
				return err
			}
			ag.AddAlteration(NewAlteration(ag,
				parts[idx.feature],
				primaryConsequence(parts[idx.consequence]),
				proteinChange(parts[idx.hgvsp]),
			))
			alterations++
		}
	}

	e.logger.Info("extracted mutations",
		zap.Strings("samples", p.SampleNames()),
		zap.Int("variants", variants),
		zap.Int("non_pass", nonPass),
		zap.Int("alterations", alterations))
	return nil
}

// primaryConsequence returns the first of VEP's '&'-joined consequence terms.
func primaryConsequence(s string) string {
	if i := strings.IndexByte(s, '&'); i >= 0 {
		return s[:i]
	}
	return s
}

// proteinChange strips the protein ID prefix from a VEP HGVSp value,
// e.g. "ENSP00000358548.4:p.Gln61His" -> "p.Gln61His".
func proteinChange(s string) string {
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// ExtractCNVs adds the copy number call in r, a JSON object with the fields
// name, call, ENSG and ENST. NOCALL is ignored; unknown calls are an error.
func (e *Extractor) ExtractCNVs(r io.Reader) error {
	var c cnvCall
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return fmt.Errorf("decode cnv call: %w", err)
	}

	term, ok := cnvCallTerms[c.Call]
	if !ok {
		if c.Call == CNVCallNoCall {
			return nil
		}
		return fmt.Errorf("invalid CNV call value %q for gene %s", c.Call, c.Name)
	}

	ag, err := e.alteredGene(c.Name, c.ENSG)
	if err != nil {
		return err
	}
	ag.AddAlteration(NewAlteration(ag, c.ENST, term, ""))

	e.logger.Debug("extracted copy number event",
		zap.String("gene", c.Name),
		zap.String("term", term))
	return nil
}
