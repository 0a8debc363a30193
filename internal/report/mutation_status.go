package report

import (
	"fmt"

	"github.com/clinseq/reportgen/internal/genomics"
)

// Generic per-gene call values.
const (
	Mutated       = "Mutated"
	NotMutated    = "Not mutated"
	NotDetermined = "Not determined"
)

// FlaggedAlteration is one alteration recorded on a gene and the flag of the
// classification it matched. An empty HGVSp or Flag is reported as null.
type FlaggedAlteration struct {
	Alteration *genomics.Alteration // nil when decoded from a report dict
	HGVSp      string
	Flag       string
}

// MutationStatus is the call for one gene. The status is Mutated exactly
// when at least one alteration is recorded.
type MutationStatus struct {
	status      string
	alterations []FlaggedAlteration
}

// NewMutationStatus creates a Not mutated status.
func NewMutationStatus() *MutationStatus {
	return &MutationStatus{status: NotMutated}
}

// Status returns Mutated, Not mutated or Not determined.
func (ms *MutationStatus) Status() string {
	return ms.status
}

// Alterations returns the recorded alterations in insertion order.
func (ms *MutationStatus) Alterations() []FlaggedAlteration {
	return ms.alterations
}

// AddMutation records alt with flag ("" for unflagged) and marks the gene
// Mutated. It has no effect once the gene is Not determined.
func (ms *MutationStatus) AddMutation(alt *genomics.Alteration, flag string) {
	if ms.status == NotDetermined {
		return
	}
	ms.status = Mutated
	ms.alterations = append(ms.alterations, FlaggedAlteration{
		Alteration: alt,
		HGVSp:      alt.HGVSp(),
		Flag:       flag,
	})
}

// IsPositive reports whether the gene is Mutated.
func (ms *MutationStatus) IsPositive() bool {
	return ms.status == Mutated
}

// ToNotDetermined downgrades the call. Not determined is terminal and carries
// no alterations.
func (ms *MutationStatus) ToNotDetermined() {
	ms.status = NotDetermined
	ms.alterations = nil
}

// ToDict returns {"status": ..., "alterations": [{"hgvsp", "flag"}, ...]}.
func (ms *MutationStatus) ToDict() map[string]any {
	alts := make([]any, 0, len(ms.alterations))
	for _, fa := range ms.alterations {
		alts = append(alts, map[string]any{
			"hgvsp": nullable(fa.HGVSp),
			"flag":  nullable(fa.Flag),
		})
	}
	return map[string]any{
		"status":      ms.status,
		"alterations": alts,
	}
}

type mutationStatusDict struct {
	Status      string `mapstructure:"status"`
	Alterations []struct {
		HGVSp *string `mapstructure:"hgvsp"`
		Flag  *string `mapstructure:"flag"`
	} `mapstructure:"alterations"`
}

func (d mutationStatusDict) toStatus() (*MutationStatus, error) {
	switch d.Status {
	case Mutated:
		if len(d.Alterations) == 0 {
			return nil, fmt.Errorf("status %q without alterations", d.Status)
		}
	case NotMutated, NotDetermined:
		if len(d.Alterations) != 0 {
			return nil, fmt.Errorf("status %q with %d alterations", d.Status, len(d.Alterations))
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrInvalidCategory, d.Status)
	}

	ms := &MutationStatus{status: d.Status}
	for _, a := range d.Alterations {
		ms.alterations = append(ms.alterations, FlaggedAlteration{
			HGVSp: deref(a.HGVSp),
			Flag:  deref(a.Flag),
		})
	}
	return ms, nil
}

// nullable maps an absent (empty) value to JSON null.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
