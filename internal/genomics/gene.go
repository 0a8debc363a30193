package genomics

import "errors"

// ErrGeneIDAlreadySet is returned when a gene's Ensembl ID is set twice.
var ErrGeneIDAlreadySet = errors.New("gene ID already set")

// Gene identifies a gene by HUGO symbol and, once known, Ensembl gene ID.
type Gene struct {
	Symbol string
	id     string
	idSet  bool
}

// NewGene creates a gene with no ID.
func NewGene(symbol string) *Gene {
	return &Gene{Symbol: symbol}
}

// SetID sets the Ensembl gene ID. It may only be called once, even when the
// first ID was empty.
func (g *Gene) SetID(id string) error {
	if g.idSet {
		return ErrGeneIDAlreadySet
	}
	g.id = id
	g.idSet = true
	return nil
}

// ID returns the Ensembl gene ID, or "" if it has not been set.
func (g *Gene) ID() string {
	return g.id
}

// Equal reports whether both genes have the same symbol and ID.
func (g *Gene) Equal(other *Gene) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.Symbol == other.Symbol && g.id == other.id
}

// AlteredGene is a gene together with the alterations observed in it.
type AlteredGene struct {
	Gene        *Gene
	alterations []*Alteration
}

// NewAlteredGene creates an altered gene with no alterations.
func NewAlteredGene(gene *Gene) *AlteredGene {
	return &AlteredGene{Gene: gene}
}

// Symbol returns the symbol of the underlying gene.
func (ag *AlteredGene) Symbol() string {
	return ag.Gene.Symbol
}

// AddAlteration appends an alteration. Repeated identical alterations are kept.
func (ag *AlteredGene) AddAlteration(a *Alteration) {
	ag.alterations = append(ag.alterations, a)
}

// Alterations returns the alterations in the order they were added.
func (ag *AlteredGene) Alterations() []*Alteration {
	return ag.alterations
}
