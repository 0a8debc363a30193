// Package classify matches alterations against clinical classification rules
// and loads those rules from mutation table spreadsheets.
package classify

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidPositionSpec is returned for a position specifier that is not an
// exact substitution, an integer position or an integer range.
var ErrInvalidPositionSpec = errors.New("invalid position specifier")

var (
	substitutionRe = regexp.MustCompile(`^p\.[A-Z][a-z]{2}[0-9]+[A-Z][a-z]{2}$`)
	positionRe     = regexp.MustCompile(`^[0-9]+$`)
	rangeRe        = regexp.MustCompile(`^([0-9]+):([0-9]+)$`)
	digitsRe       = regexp.MustCompile(`[0-9]+`)
)

// PositionKind is the matching mode of a position specifier.
type PositionKind int

const (
	// PositionSubstitution matches one exact amino acid substitution, e.g. p.Val600Glu.
	PositionSubstitution PositionKind = iota
	// PositionCodon matches any change at one codon, e.g. 600.
	PositionCodon
	// PositionRange matches any change within an inclusive codon range, e.g. 340:670.
	PositionRange
)

func (k PositionKind) String() string {
	switch k {
	case PositionSubstitution:
		return "substitution"
	case PositionCodon:
		return "codon"
	case PositionRange:
		return "range"
	default:
		return fmt.Sprintf("PositionKind(%d)", int(k))
	}
}

// PositionSpec is a parsed position specifier from a rule table. The mode is
// chosen from the specifier's own syntax.
type PositionSpec struct {
	Raw   string
	Kind  PositionKind
	Start int // codon, or range start
	End   int // range end; equal to Start for a codon
}

// ParsePositionSpec parses one specifier.
func ParsePositionSpec(s string) (PositionSpec, error) {
	s = strings.TrimSpace(s)
	switch {
	case substitutionRe.MatchString(s):
		return PositionSpec{Raw: s, Kind: PositionSubstitution}, nil

	case positionRe.MatchString(s):
		n, err := strconv.Atoi(s)
		if err != nil {
			return PositionSpec{}, fmt.Errorf("%w %q: %v", ErrInvalidPositionSpec, s, err)
		}
		return PositionSpec{Raw: s, Kind: PositionCodon, Start: n, End: n}, nil

	case rangeRe.MatchString(s):
		m := rangeRe.FindStringSubmatch(s)
		start, err := strconv.Atoi(m[1])
		if err != nil {
			return PositionSpec{}, fmt.Errorf("%w %q: %v", ErrInvalidPositionSpec, s, err)
		}
		end, err := strconv.Atoi(m[2])
		if err != nil {
			return PositionSpec{}, fmt.Errorf("%w %q: %v", ErrInvalidPositionSpec, s, err)
		}
		if start > end {
			return PositionSpec{}, fmt.Errorf("%w %q: range start after end", ErrInvalidPositionSpec, s)
		}
		return PositionSpec{Raw: s, Kind: PositionRange, Start: start, End: end}, nil
	}

	return PositionSpec{}, fmt.Errorf("%w %q", ErrInvalidPositionSpec, s)
}

// Matches reports whether an alteration's HGVSp string satisfies the specifier.
// An empty HGVSp never matches. Substitutions require string equality; codon
// and range specs compare against the first run of digits in hgvsp.
func (ps PositionSpec) Matches(hgvsp string) bool {
	if hgvsp == "" {
		return false
	}
	if ps.Kind == PositionSubstitution {
		return ps.Raw == hgvsp
	}

	pos, ok := leadingPosition(hgvsp)
	if !ok {
		return false
	}
	return pos >= ps.Start && pos <= ps.End
}

// leadingPosition extracts the first integer in an HGVSp string,
// e.g. 61 from "p.Gln61His".
func leadingPosition(hgvsp string) (int, bool) {
	digits := digitsRe.FindString(hgvsp)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
