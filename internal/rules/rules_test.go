package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clinseq/reportgen/internal/classify"
	"github.com/clinseq/reportgen/internal/genomics"
)

// row is a classification row for tests.
type row struct {
	symbol     string
	terms      []string
	transcript string
	positions  []string
	flag       string
}

func newTable(t *testing.T, rows ...row) *classify.Table {
	t.Helper()
	tbl := classify.NewTable("test")
	for _, r := range rows {
		c, err := classify.NewClassification(r.symbol, r.terms, r.transcript, r.positions, r.flag)
		require.NoError(t, err)
		tbl.Add(c)
	}
	return tbl
}

// sample builds an alteration model. Each alteration is
// {symbol, transcript, term, hgvsp}.
func sample(alts ...[4]string) map[string]*genomics.AlteredGene {
	genes := make(map[string]*genomics.AlteredGene)
	for _, a := range alts {
		ag, ok := genes[a[0]]
		if !ok {
			ag = genomics.NewAlteredGene(genomics.NewGene(a[0]))
			genes[a[0]] = ag
		}
		ag.AddAlteration(genomics.NewAlteration(ag, a[1], a[2], a[3]))
	}
	return genes
}

const (
	missense = genomics.ConsequenceMissenseVariant
	homLoss  = genomics.ConsequenceHomozygousLoss
)
