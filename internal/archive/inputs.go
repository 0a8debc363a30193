package archive

import (
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime().UTC(),
	}, nil
}

// Input is one file a report was compiled from, e.g. role "vcf" or
// "alascca_rules".
type Input struct {
	Role string
	FileFingerprint
}

// NewInput fingerprints path as an input with the given role.
func NewInput(role, path string) (Input, error) {
	fp, err := StatFile(path)
	if err != nil {
		return Input{}, err
	}
	return Input{Role: role, FileFingerprint: fp}, nil
}
