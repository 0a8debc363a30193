package rules

import (
	"github.com/clinseq/reportgen/internal/classify"
	"github.com/clinseq/reportgen/internal/genomics"
	"github.com/clinseq/reportgen/internal/report"
)

// SimpleSomaticMutationsRule reports the mutation status of every gene in a
// rule table, flagging each alteration by the classifications it matches.
type SimpleSomaticMutationsRule struct {
	table *classify.Table
	genes map[string]*genomics.AlteredGene
}

// NewSimpleSomaticMutationsRule creates the rule for a table and the sample's
// altered genes keyed by symbol.
func NewSimpleSomaticMutationsRule(table *classify.Table, genes map[string]*genomics.AlteredGene) *SimpleSomaticMutationsRule {
	return &SimpleSomaticMutationsRule{table: table, genes: genes}
}

// Apply registers every table gene as Not mutated, then records each
// alteration of a table gene. The flag of an alteration is that of the last
// matching classification in table order, or empty if none matches. Any
// alteration marks its gene Mutated, flagged or not.
func (r *SimpleSomaticMutationsRule) Apply() (report.Feature, error) {
	rep := report.NewSimpleSomaticMutationsReport()
	for _, symbol := range r.table.Symbols() {
		rep.AddGene(symbol)
	}

	err := visitMatches(r.table, r.genes, func(_ string, alt *genomics.Alteration, classifications []*classify.Classification) error {
		var flag string
		for _, c := range classifications {
			if c.Match(alt) {
				flag = c.Flag
			}
		}
		return rep.AddMutation(alt, flag)
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}
