package classify

import (
	"fmt"

	"github.com/clinseq/reportgen/internal/genomics"
)

// Classification is one rule table row: a pattern over consequence term,
// transcript and position that assigns Flag to matching alterations.
type Classification struct {
	Symbol       string
	Consequences map[string]struct{}
	TranscriptID string // empty matches any transcript
	Positions    []PositionSpec
	Flag         string
}

// NewClassification builds a classification, parsing every position
// specifier up front. An empty positions list means position is not
// discriminating.
func NewClassification(symbol string, consequences []string, transcriptID string, positions []string, flag string) (*Classification, error) {
	c := &Classification{
		Symbol:       symbol,
		Consequences: make(map[string]struct{}, len(consequences)),
		TranscriptID: transcriptID,
		Flag:         flag,
	}
	for _, term := range consequences {
		c.Consequences[term] = struct{}{}
	}
	for _, p := range positions {
		spec, err := ParsePositionSpec(p)
		if err != nil {
			return nil, fmt.Errorf("classification %s/%s: %w", symbol, flag, err)
		}
		c.Positions = append(c.Positions, spec)
	}
	return c, nil
}

// Match reports whether the alteration satisfies this classification.
func (c *Classification) Match(a *genomics.Alteration) bool {
	if _, ok := c.Consequences[a.SequenceOntologyTerm()]; !ok {
		return false
	}
	if c.TranscriptID != "" && a.TranscriptID() != c.TranscriptID {
		return false
	}
	if len(c.Positions) == 0 {
		return true
	}
	return c.MatchesPosition(a.HGVSp())
}

// MatchesPosition reports whether any of the position specs matches hgvsp.
func (c *Classification) MatchesPosition(hgvsp string) bool {
	for _, spec := range c.Positions {
		if spec.Matches(hgvsp) {
			return true
		}
	}
	return false
}
