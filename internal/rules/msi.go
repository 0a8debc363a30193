package rules

import (
	"errors"
	"fmt"

	"github.com/clinseq/reportgen/internal/genomics"
	"github.com/clinseq/reportgen/internal/report"
)

// MsiThresholds are the cutoffs for calling MSI status.
type MsiThresholds struct {
	MinTotalSites float64 // fewer sites give Not determined
	Low           float64 // percent below this is MSS/MSI-L
	High          float64 // percent above this is MSI-H
}

// DefaultMsiThresholds returns the cutoffs in clinical use.
func DefaultMsiThresholds() MsiThresholds {
	return MsiThresholds{MinTotalSites: 50, Low: 5, High: 30}
}

// Validate checks that the thresholds are usable.
func (t MsiThresholds) Validate() error {
	if t.MinTotalSites < 0 {
		return fmt.Errorf("msi min total sites %v is negative", t.MinTotalSites)
	}
	if t.Low > t.High {
		return fmt.Errorf("msi low threshold %v above high threshold %v", t.Low, t.High)
	}
	return nil
}

// MsiStatusRule calls MSI status from a microsatellite measurement.
type MsiStatusRule struct {
	status     *genomics.MSIStatus
	thresholds MsiThresholds
}

// NewMsiStatusRule creates the rule for a measurement.
func NewMsiStatusRule(status *genomics.MSIStatus, thresholds MsiThresholds) *MsiStatusRule {
	return &MsiStatusRule{status: status, thresholds: thresholds}
}

// Apply returns Not determined below the minimum site count, MSI-H above the
// high threshold, MSS/MSI-L below the low threshold and Not determined in
// between.
func (r *MsiStatusRule) Apply() (report.Feature, error) {
	if r.status == nil {
		return nil, errors.New("msi rule: no MSI status")
	}
	if err := r.thresholds.Validate(); err != nil {
		return nil, err
	}

	var call string
	switch {
	case r.status.TotalSites < r.thresholds.MinTotalSites:
		call = report.NotDetermined
	case r.status.Percent > r.thresholds.High:
		call = report.MSIHigh
	case r.status.Percent < r.thresholds.Low:
		call = report.MSS
	default:
		call = report.NotDetermined
	}
	return report.NewMsiReport(call), nil
}
