package genomics

// Alteration is one genomic event (mutation or copy number change) on one
// gene. An empty transcript ID or HGVSp string means the value is absent.
type Alteration struct {
	gene         *AlteredGene
	transcriptID string
	term         string
	hgvsp        string
}

// NewAlteration creates an alteration belonging to gene. It does not add the
// alteration to the gene; use AlteredGene.AddAlteration for that.
func NewAlteration(gene *AlteredGene, transcriptID, term, hgvsp string) *Alteration {
	return &Alteration{
		gene:         gene,
		transcriptID: transcriptID,
		term:         term,
		hgvsp:        hgvsp,
	}
}

// AlteredGene returns the gene this alteration was observed on.
func (a *Alteration) AlteredGene() *AlteredGene { return a.gene }

// TranscriptID returns the Ensembl transcript ID, or "".
func (a *Alteration) TranscriptID() string { return a.transcriptID }

// SequenceOntologyTerm returns the alteration type, e.g. "missense_variant".
func (a *Alteration) SequenceOntologyTerm() string { return a.term }

// HGVSp returns the protein-level position string, or "" when the alteration
// carries no positional meaning (e.g. whole-gene loss).
func (a *Alteration) HGVSp() string { return a.hgvsp }

// HasPosition returns true if the alteration has an HGVSp position string.
func (a *Alteration) HasPosition() bool { return a.hgvsp != "" }

// Symbol returns the symbol of the owning gene.
func (a *Alteration) Symbol() string {
	if a.gene == nil {
		return ""
	}
	return a.gene.Symbol()
}
