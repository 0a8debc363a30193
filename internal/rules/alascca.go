package rules

import (
	"fmt"

	"github.com/clinseq/reportgen/internal/classify"
	"github.com/clinseq/reportgen/internal/genomics"
	"github.com/clinseq/reportgen/internal/report"
)

// Flags used by the ALASCCA mutation table.
const (
	FlagClassA  = "ALASCCA_CLASS_A"
	FlagClassB1 = "ALASCCA_CLASS_B_1"
	FlagClassB2 = "ALASCCA_CLASS_B_2"
)

// minClassB2Hits is the number of class B_2 matches that make a sample class B.
const minClassB2Hits = 2

// AlasccaClassRule assigns the ALASCCA PI3K pathway mutation class.
type AlasccaClassRule struct {
	table *classify.Table
	genes map[string]*genomics.AlteredGene
}

// NewAlasccaClassRule creates the rule for a table and the sample's altered
// genes keyed by symbol.
func NewAlasccaClassRule(table *classify.Table, genes map[string]*genomics.AlteredGene) *AlasccaClassRule {
	return &AlasccaClassRule{table: table, genes: genes}
}

// Apply counts every matching (alteration, classification) pair by flag and
// picks the class: any A hit gives class A, otherwise any B_1 hit or at least
// two B_2 hits give class B, otherwise No mutation. A match whose flag is not
// an ALASCCA flag is an error.
func (r *AlasccaClassRule) Apply() (report.Feature, error) {
	counts := map[string]int{FlagClassA: 0, FlagClassB1: 0, FlagClassB2: 0}

	err := visitMatches(r.table, r.genes, func(symbol string, alt *genomics.Alteration, classifications []*classify.Classification) error {
		for _, c := range classifications {
			if !c.Match(alt) {
				continue
			}
			if _, ok := counts[c.Flag]; !ok {
				return fmt.Errorf("alascca rule for %s: unknown flag %q", symbol, c.Flag)
			}
			counts[c.Flag]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	class := report.NoMutation
	switch {
	case counts[FlagClassA] > 0:
		class = report.MutationClassA
	case counts[FlagClassB1] > 0:
		class = report.MutationClassB
	case counts[FlagClassB2] >= minClassB2Hits:
		class = report.MutationClassB
	}
	return report.NewAlasccaClassReport(class), nil
}
