package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInvalidQCCall is returned for a QC call outside OK, WARN and FAIL, or
// one that a caveat type does not accept.
var ErrInvalidQCCall = errors.New("invalid QC call")

// QCCall is the verdict of one pipeline QC check.
type QCCall string

const (
	QCOK   QCCall = "OK"
	QCWarn QCCall = "WARN"
	QCFail QCCall = "FAIL"
)

// ParseQCCall validates s as a QC call.
func ParseQCCall(s string) (QCCall, error) {
	switch c := QCCall(s); c {
	case QCOK, QCWarn, QCFail:
		return c, nil
	}
	return "", fmt.Errorf("%w %q", ErrInvalidQCCall, s)
}

// qcDocument is the QC file schema written by the pipeline.
type qcDocument struct {
	Call *string `json:"CALL"`
}

// ReadQCCall reads a {"CALL": "OK"|"WARN"|"FAIL"} document.
func ReadQCCall(r io.Reader) (QCCall, error) {
	var doc qcDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode QC call: %w", err)
	}
	if doc.Call == nil {
		return "", fmt.Errorf("%w: missing CALL field", ErrInvalidQCCall)
	}
	return ParseQCCall(*doc.Call)
}

// ReadQCCallFile reads a QC call document from path.
func ReadQCCallFile(path string) (QCCall, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open QC file: %w", err)
	}
	defer f.Close()

	call, err := ReadQCCall(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return call, nil
}
