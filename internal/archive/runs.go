package archive

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinseq/reportgen/internal/report"
)

// Run is one archived compile of a sample's report.
type Run struct {
	ID        string
	SampleID  string
	CreatedAt time.Time
	Caveats   []report.Caveat
	Inputs    []Input
}

// SaveRun archives a compiled report dict with the caveats that were applied
// to it and the inputs it was built from. Everything is written in one
// transaction.
func (s *Store) SaveRun(sampleID string, dict map[string]any, caveats []report.Caveat, inputs []Input) (*Run, error) {
	if sampleID == "" {
		return nil, errors.New("archive run: empty sample ID")
	}
	run := &Run{
		ID:        uuid.NewString(),
		SampleID:  sampleID,
		CreatedAt: s.now().Truncate(time.Microsecond),
		Caveats:   caveats,
		Inputs:    inputs,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs VALUES (?, ?, ?)`,
		run.ID, run.SampleID, run.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	for name, feature := range dict {
		payload, err := json.Marshal(feature)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		if _, err := tx.Exec(`INSERT INTO run_features VALUES (?, ?, ?)`,
			run.ID, name, string(payload)); err != nil {
			return nil, fmt.Errorf("insert feature %s: %w", name, err)
		}
	}

	for i, c := range caveats {
		if _, err := tx.Exec(`INSERT INTO run_caveats VALUES (?, ?, ?, ?, ?)`,
			run.ID, i, string(c.Type), string(c.Call), string(c.Action)); err != nil {
			return nil, fmt.Errorf("insert caveat: %w", err)
		}
	}

	for _, in := range inputs {
		if _, err := tx.Exec(`INSERT INTO run_inputs VALUES (?, ?, ?, ?, ?)`,
			run.ID, in.Role, in.Path, in.Size, in.ModTime); err != nil {
			return nil, fmt.Errorf("insert input: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit archive transaction: %w", err)
	}
	return run, nil
}

// Runs returns a sample's archived runs, newest first, without caveats or
// inputs.
func (s *Store) Runs(sampleID string) ([]Run, error) {
	rows, err := s.db.Query(`SELECT run_id, sample_id, created_at
		FROM runs
		WHERE sample_id=?
		ORDER BY created_at DESC, run_id`, sampleID)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SampleID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LatestRun returns the newest run for a sample with its caveats and inputs.
func (s *Store) LatestRun(sampleID string) (*Run, error) {
	var r Run
	err := s.db.QueryRow(`SELECT run_id, sample_id, created_at
		FROM runs
		WHERE sample_id=?
		ORDER BY created_at DESC, run_id
		LIMIT 1`, sampleID).Scan(&r.ID, &r.SampleID, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sample %s: %w", sampleID, ErrNoRuns)
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}

	if r.Caveats, err = s.caveats(r.ID); err != nil {
		return nil, err
	}
	if r.Inputs, err = s.inputs(r.ID); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) caveats(runID string) ([]report.Caveat, error) {
	rows, err := s.db.Query(`SELECT caveat_type, qc_call, action
		FROM run_caveats
		WHERE run_id=?
		ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query caveats: %w", err)
	}
	defer rows.Close()

	var caveats []report.Caveat
	for rows.Next() {
		var typ, call, action string
		if err := rows.Scan(&typ, &call, &action); err != nil {
			return nil, fmt.Errorf("scan caveat: %w", err)
		}
		caveats = append(caveats, report.Caveat{
			Type:   report.CaveatType(typ),
			Call:   report.QCCall(call),
			Action: report.Action(action),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate caveats: %w", err)
	}
	return caveats, nil
}

func (s *Store) inputs(runID string) ([]Input, error) {
	rows, err := s.db.Query(`SELECT role, path, size, mod_time
		FROM run_inputs
		WHERE run_id=?
		ORDER BY role, path`, runID)
	if err != nil {
		return nil, fmt.Errorf("query inputs: %w", err)
	}
	defer rows.Close()

	var inputs []Input
	for rows.Next() {
		var in Input
		if err := rows.Scan(&in.Role, &in.Path, &in.Size, &in.ModTime); err != nil {
			return nil, fmt.Errorf("scan input: %w", err)
		}
		inputs = append(inputs, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inputs: %w", err)
	}
	return inputs, nil
}

// LoadReport returns the compiled report dict stored for a run.
func (s *Store) LoadReport(runID string) (map[string]any, error) {
	rows, err := s.db.Query(`SELECT feature, payload FROM run_features WHERE run_id=?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	dict := make(map[string]any)
	for rows.Next() {
		var name, payload string
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		var v any
		if err := json.Unmarshal([]byte(payload), &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		dict[name] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate features: %w", err)
	}
	return dict, nil
}
