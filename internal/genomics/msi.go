package genomics

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// MSI status file header tokens, in order.
var msiHeader = []string{"Total_Number_of_Sites", "Number_of_Somatic_Sites", "%"}

// MSIStatus is a microsatellite instability measurement for one sample.
type MSIStatus struct {
	TotalSites   float64
	SomaticSites float64
	Percent      float64
}

// MSIParseError reports a malformed MSI status file.
type MSIParseError struct {
	Line    int
	Message string
}

func (e *MSIParseError) Error() string {
	return fmt.Sprintf("msi parse error at line %d: %s", e.Line, e.Message)
}

// ParseMSIStatus reads an MSI status file: a tab-delimited header whose first
// three tokens are Total_Number_of_Sites, Number_of_Somatic_Sites and %,
// followed by one line of exactly three numbers in that order.
func ParseMSIStatus(r io.Reader) (*MSIStatus, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read msi header: %w", err)
		}
		return nil, &MSIParseError{Line: 1, Message: "missing header"}
	}
	header := strings.Split(strings.TrimSpace(scanner.Text()), "\t")
	if len(header) < len(msiHeader) {
		return nil, &MSIParseError{Line: 1, Message: fmt.Sprintf("invalid header %q", scanner.Text())}
	}
	for i, want := range msiHeader {
		if header[i] != want {
			return nil, &MSIParseError{Line: 1, Message: fmt.Sprintf("invalid header %q", scanner.Text())}
		}
	}

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read msi values: %w", err)
		}
		return nil, &MSIParseError{Line: 2, Message: "missing values"}
	}
	tokens := strings.Split(strings.TrimSpace(scanner.Text()), "\t")
	if len(tokens) != 3 {
		return nil, &MSIParseError{Line: 2, Message: fmt.Sprintf("expected 3 values, found %d", len(tokens))}
	}
	vals := make([]float64, 3)
	for i, tok := range tokens {
		f, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &MSIParseError{Line: 2, Message: fmt.Sprintf("invalid value %q", tok)}
		}
		vals[i] = f
	}

	return &MSIStatus{
		TotalSites:   vals[0],
		SomaticSites: vals[1],
		Percent:      vals[2],
	}, nil
}
