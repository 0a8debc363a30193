package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinseq/reportgen/internal/report"
)

func TestPurityRuleFromQCCall(t *testing.T) {
	tests := []struct {
		call report.QCCall
		want bool
	}{
		{report.QCOK, true},
		{report.QCFail, false},
	}
	for _, tt := range tests {
		rule, err := PurityRuleFromQCCall(tt.call)
		require.NoError(t, err)
		f, err := rule.Apply()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"purity": tt.want}, f.ToDict())
	}

	_, err := PurityRuleFromQCCall(report.QCWarn)
	assert.ErrorIs(t, err, report.ErrInvalidQCCall)
}
