package report

import "fmt"

// Action says which report calls a caveat downgrades to Not determined.
type Action string

const (
	Unchanged       Action = "UNCHANGED"
	NonPositiveToEB Action = "NON_POSITIVE_TO_EB"
	AllToEB         Action = "ALL_TO_EB"
)

// CaveatType names the QC signal a caveat is derived from.
type CaveatType string

const (
	CoverageCaveat      CaveatType = "coverage"
	PurityCaveat        CaveatType = "purity"
	ContaminationCaveat CaveatType = "contamination"
)

// caveatActions maps each caveat type's accepted QC calls to an action.
// A call missing from a type's row is rejected.
var caveatActions = map[CaveatType]map[QCCall]Action{
	CoverageCaveat: {
		QCOK:   Unchanged,
		QCWarn: NonPositiveToEB,
		QCFail: AllToEB,
	},
	PurityCaveat: {
		QCOK:   Unchanged,
		QCFail: NonPositiveToEB,
	},
	ContaminationCaveat: {
		QCOK:   Unchanged,
		QCWarn: AllToEB,
		QCFail: AllToEB,
	},
}

// Caveat is a QC-derived directive applied to report features after the
// rules have run.
type Caveat struct {
	Type   CaveatType
	Call   QCCall
	Action Action
}

// NewCaveat derives the action for call under the given caveat type.
func NewCaveat(typ CaveatType, call QCCall) (Caveat, error) {
	actions, ok := caveatActions[typ]
	if !ok {
		return Caveat{}, fmt.Errorf("unknown caveat type %q", typ)
	}
	action, ok := actions[call]
	if !ok {
		return Caveat{}, fmt.Errorf("%w %q for a %s caveat", ErrInvalidQCCall, call, typ)
	}
	return Caveat{Type: typ, Call: call, Action: action}, nil
}

// NewCoverageCaveat creates a caveat from a coverage QC call.
func NewCoverageCaveat(call QCCall) (Caveat, error) {
	return NewCaveat(CoverageCaveat, call)
}

// NewPurityCaveat creates a caveat from a purity QC call. WARN is rejected.
func NewPurityCaveat(call QCCall) (Caveat, error) {
	return NewCaveat(PurityCaveat, call)
}

// NewContaminationCaveat creates a caveat from a contamination QC call.
func NewContaminationCaveat(call QCCall) (Caveat, error) {
	return NewCaveat(ContaminationCaveat, call)
}

// AllToEB reports whether every call must become Not determined.
func (c Caveat) AllToEB() bool {
	return c.Action == AllToEB
}

// NonPositiveToEB reports whether non-positive calls must become Not determined.
func (c Caveat) NonPositiveToEB() bool {
	return c.Action == NonPositiveToEB
}

func (c Caveat) String() string {
	return fmt.Sprintf("%s(%s)=%s", c.Type, c.Call, c.Action)
}
