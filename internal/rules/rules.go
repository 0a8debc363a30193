// Package rules derives report features from a sample's alterations, MSI
// measurement and QC calls using clinical rule tables.
package rules

import (
	"github.com/clinseq/reportgen/internal/classify"
	"github.com/clinseq/reportgen/internal/genomics"
	"github.com/clinseq/reportgen/internal/report"
)

var (
	_ report.Rule = (*SimpleSomaticMutationsRule)(nil)
	_ report.Rule = (*AlasccaClassRule)(nil)
	_ report.Rule = (*MsiStatusRule)(nil)
	_ report.Rule = (*PurityRule)(nil)
)

// visitMatches calls fn for every alteration of every table gene present in
// genes, with the classifications of that gene in table order.
func visitMatches(table *classify.Table, genes map[string]*genomics.AlteredGene,
	fn func(symbol string, alt *genomics.Alteration, classifications []*classify.Classification) error) error {
	for _, symbol := range table.Symbols() {
		ag, ok := genes[symbol]
		if !ok {
			continue
		}
		classifications := table.Classifications(symbol)
		for _, alt := range ag.Alterations() {
			if err := fn(symbol, alt, classifications); err != nil {
				return err
			}
		}
	}
	return nil
}
