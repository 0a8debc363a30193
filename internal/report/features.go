// Package report holds the features of a compiled genomic report, the QC
// caveats that downgrade them and the compiler that assembles them.
package report

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"

	"github.com/clinseq/reportgen/internal/genomics"
)

// ErrInvalidCategory is returned when a decoded feature holds a value outside
// its category set.
var ErrInvalidCategory = errors.New("invalid category")

// Feature names, used as keys of the compiled report.
const (
	AlasccaClassReportName           = "alascca_class_report"
	MsiReportName                    = "msi_report"
	SimpleSomaticMutationsReportName = "simple_somatic_mutations_report"
	PurityReportName                 = "purity_report"
)

// ALASCCA pathway classes.
const (
	MutationClassA = "Mutation class A"
	MutationClassB = "Mutation class B"
	NoMutation     = "No mutation"
)

// MSI calls.
const (
	MSS     = "MSS/MSI-L"
	MSIHigh = "MSI-H"
)

// Feature is one named section of a compiled report.
type Feature interface {
	// Name returns the key the feature is stored under in the report.
	Name() string

	// ToDict returns a JSON-serializable representation.
	ToDict() map[string]any

	// FromDict replaces the feature's content with a decoded ToDict value.
	FromDict(map[string]any) error

	// ApplyCaveat downgrades calls to Not determined as the caveat requires.
	ApplyCaveat(Caveat)
}

// decode copies a dict into a tagged struct. Unknown and missing keys are
// errors.
func decode(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		ErrorUnset:  true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func oneOf(value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%w %q", ErrInvalidCategory, value)
}

// AlasccaClassReport holds the ALASCCA pathway class.
type AlasccaClassReport struct {
	Class string `mapstructure:"alascca_class"`
}

// NewAlasccaClassReport creates a report with the given class.
func NewAlasccaClassReport(class string) *AlasccaClassReport {
	return &AlasccaClassReport{Class: class}
}

func (r *AlasccaClassReport) Name() string { return AlasccaClassReportName }

func (r *AlasccaClassReport) ToDict() map[string]any {
	return map[string]any{"alascca_class": r.Class}
}

func (r *AlasccaClassReport) FromDict(d map[string]any) error {
	var v AlasccaClassReport
	if err := decode(d, &v); err != nil {
		return fmt.Errorf("%s: %w", AlasccaClassReportName, err)
	}
	if err := oneOf(v.Class, MutationClassA, MutationClassB, NoMutation, NotDetermined); err != nil {
		return fmt.Errorf("%s: %w", AlasccaClassReportName, err)
	}
	*r = v
	return nil
}

// ApplyCaveat downgrades the class under ALL_TO_EB, and under
// NON_POSITIVE_TO_EB only when no mutation class was found.
func (r *AlasccaClassReport) ApplyCaveat(c Caveat) {
	if c.AllToEB() || (c.NonPositiveToEB() && r.Class == NoMutation) {
		r.Class = NotDetermined
	}
}

// MsiReport holds the microsatellite instability call.
type MsiReport struct {
	Status string `mapstructure:"msi_status"`
}

// NewMsiReport creates a report with the given status.
func NewMsiReport(status string) *MsiReport {
	return &MsiReport{Status: status}
}

func (r *MsiReport) Name() string { return MsiReportName }

func (r *MsiReport) ToDict() map[string]any {
	return map[string]any{"msi_status": r.Status}
}

func (r *MsiReport) FromDict(d map[string]any) error {
	var v MsiReport
	if err := decode(d, &v); err != nil {
		return fmt.Errorf("%s: %w", MsiReportName, err)
	}
	if err := oneOf(v.Status, MSS, MSIHigh, NotDetermined); err != nil {
		return fmt.Errorf("%s: %w", MsiReportName, err)
	}
	*r = v
	return nil
}

// ApplyCaveat downgrades under both ALL_TO_EB and NON_POSITIVE_TO_EB: no MSI
// call counts as positive.
func (r *MsiReport) ApplyCaveat(c Caveat) {
	if c.AllToEB() || c.NonPositiveToEB() {
		r.Status = NotDetermined
	}
}

// SimpleSomaticMutationsReport holds a mutation status per rule table gene.
type SimpleSomaticMutationsReport struct {
	symbols  []string
	statuses map[string]*MutationStatus
}

// NewSimpleSomaticMutationsReport creates a report with no genes.
func NewSimpleSomaticMutationsReport() *SimpleSomaticMutationsReport {
	return &SimpleSomaticMutationsReport{statuses: make(map[string]*MutationStatus)}
}

func (r *SimpleSomaticMutationsReport) Name() string { return SimpleSomaticMutationsReportName }

// AddGene registers symbol as Not mutated. Registering a gene twice keeps
// its existing status.
func (r *SimpleSomaticMutationsReport) AddGene(symbol string) {
	if _, ok := r.statuses[symbol]; ok {
		return
	}
	r.symbols = append(r.symbols, symbol)
	r.statuses[symbol] = NewMutationStatus()
}

// AddMutation records alt against its gene, which must have been added.
func (r *SimpleSomaticMutationsReport) AddMutation(alt *genomics.Alteration, flag string) error {
	ms, ok := r.statuses[alt.Symbol()]
	if !ok {
		return fmt.Errorf("gene %s is not part of the report", alt.Symbol())
	}
	ms.AddMutation(alt, flag)
	return nil
}

// Symbols returns the genes in registration order.
func (r *SimpleSomaticMutationsReport) Symbols() []string {
	return r.symbols
}

// Status returns the status of symbol, or nil if the gene is not reported.
func (r *SimpleSomaticMutationsReport) Status(symbol string) *MutationStatus {
	return r.statuses[symbol]
}

func (r *SimpleSomaticMutationsReport) ToDict() map[string]any {
	out := make(map[string]any, len(r.statuses))
	for symbol, ms := range r.statuses {
		out[symbol] = ms.ToDict()
	}
	return out
}

func (r *SimpleSomaticMutationsReport) FromDict(d map[string]any) error {
	var raw map[string]mutationStatusDict
	if err := decode(d, &raw); err != nil {
		return fmt.Errorf("%s: %w", SimpleSomaticMutationsReportName, err)
	}

	symbols := make([]string, 0, len(raw))
	for symbol := range raw {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	statuses := make(map[string]*MutationStatus, len(raw))
	for _, symbol := range symbols {
		ms, err := raw[symbol].toStatus()
		if err != nil {
			return fmt.Errorf("%s: gene %s: %w", SimpleSomaticMutationsReportName, symbol, err)
		}
		statuses[symbol] = ms
	}

	r.symbols = symbols
	r.statuses = statuses
	return nil
}

// ApplyCaveat evaluates every gene on its own: ALL_TO_EB downgrades all of
// them, NON_POSITIVE_TO_EB only those that are not Mutated.
func (r *SimpleSomaticMutationsReport) ApplyCaveat(c Caveat) {
	for _, ms := range r.statuses {
		if c.AllToEB() || (c.NonPositiveToEB() && !ms.IsPositive()) {
			ms.ToNotDetermined()
		}
	}
}

// PurityReport says whether tumor purity was sufficient.
type PurityReport struct {
	OK bool `mapstructure:"purity"`
}

// NewPurityReport creates a purity report.
func NewPurityReport(ok bool) *PurityReport {
	return &PurityReport{OK: ok}
}

func (r *PurityReport) Name() string { return PurityReportName }

func (r *PurityReport) ToDict() map[string]any {
	return map[string]any{"purity": r.OK}
}

func (r *PurityReport) FromDict(d map[string]any) error {
	var v PurityReport
	if err := decode(d, &v); err != nil {
		return fmt.Errorf("%s: %w", PurityReportName, err)
	}
	*r = v
	return nil
}

// ApplyCaveat is a no-op; purity is itself a QC signal.
func (r *PurityReport) ApplyCaveat(Caveat) {}

// NewFeature returns an empty feature for a report key.
func NewFeature(name string) (Feature, error) {
	switch name {
	case AlasccaClassReportName:
		return &AlasccaClassReport{}, nil
	case MsiReportName:
		return &MsiReport{}, nil
	case SimpleSomaticMutationsReportName:
		return NewSimpleSomaticMutationsReport(), nil
	case PurityReportName:
		return &PurityReport{}, nil
	}
	return nil, fmt.Errorf("unknown report feature %q", name)
}

// ExtractFeature loads f from its entry in a compiled report dict.
func ExtractFeature(report map[string]any, f Feature) error {
	raw, ok := report[f.Name()]
	if !ok {
		return fmt.Errorf("report has no %s", f.Name())
	}
	d, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("%s: expected an object, got %T", f.Name(), raw)
	}
	return f.FromDict(d)
}

// DecodeReport decodes every feature of a compiled report dict, keyed by name.
func DecodeReport(report map[string]any) (map[string]Feature, error) {
	features := make(map[string]Feature, len(report))
	for name := range report {
		f, err := NewFeature(name)
		if err != nil {
			return nil, err
		}
		if err := ExtractFeature(report, f); err != nil {
			return nil, err
		}
		features[name] = f
	}
	return features, nil
}
