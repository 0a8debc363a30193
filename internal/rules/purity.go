package rules

import (
	"fmt"

	"github.com/clinseq/reportgen/internal/report"
)

// PurityRule reports whether tumor purity was sufficient.
type PurityRule struct {
	ok bool
}

// NewPurityRule creates the rule from a purity verdict.
func NewPurityRule(ok bool) *PurityRule {
	return &PurityRule{ok: ok}
}

// PurityRuleFromQCCall maps a purity QC call to a verdict: OK is sufficient,
// FAIL is not. WARN is not a valid purity call.
func PurityRuleFromQCCall(call report.QCCall) (*PurityRule, error) {
	switch call {
	case report.QCOK:
		return NewPurityRule(true), nil
	case report.QCFail:
		return NewPurityRule(false), nil
	}
	return nil, fmt.Errorf("%w %q for purity", report.ErrInvalidQCCall, call)
}

func (r *PurityRule) Apply() (report.Feature, error) {
	return report.NewPurityReport(r.ok), nil
}
