package recorder

import (
	"context"
	"fmt"

	"github.com/caseweave/caseweave/internal/canon"
	"github.com/caseweave/caseweave/internal/manifest"
)

// Run is one recorded expansion snapshot.
type Run struct {
	// ID identifies the run. UUIDv7 in production, so IDs sort by
	// creation time.
	ID string `json:"id"`

	// MatrixName is the manifest's name at recording time.
	MatrixName string `json:"matrix_name"`

	// SnapshotDigest is the content digest of the rendered expansion.
	// Equal digests mean equal case sets.
	SnapshotDigest string `json:"snapshot_digest"`

	// CaseCount is the number of distinct cases in the snapshot.
	CaseCount int `json:"case_count"`

	// ExpectedCount is how many of those cases were marked as
	// expected successes.
	ExpectedCount int `json:"expected_count"`

	// CreatedSeq orders runs. Wall-clock nanoseconds in production.
	CreatedSeq int64 `json:"created_seq"`
}

// CaseRecord is one stored case row.
type CaseRecord struct {
	RunID       string `json:"run_id"`
	ID          string `json:"id"`
	Description string `json:"description"`
	Fields      string `json:"fields"` // canonical JSON
	Expected    bool   `json:"expected"`
}

// RecordRun stores one expansion snapshot and returns the run row.
//
// The run and its cases are written in a single transaction. Case
// inserts use ON CONFLICT DO NOTHING so re-recording an identical
// expansion under a fresh run ID cannot fail on replayed rows.
func (r *Recorder) RecordRun(ctx context.Context, matrixName string, cases []manifest.Case) (*Run, error) {
	snapshot, err := manifest.Snapshot(matrixName, cases)
	if err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}

	run := &Run{
		ID:             r.runIDs.Generate(),
		MatrixName:     matrixName,
		SnapshotDigest: canon.RunDigest(snapshot),
		CaseCount:      len(cases),
		CreatedSeq:     r.seq.Next(),
	}
	for _, c := range cases {
		if c.Expected {
			run.ExpectedCount++
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, matrix_name, snapshot_digest, case_count, expected_count, created_seq)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.MatrixName,
		run.SnapshotDigest,
		run.CaseCount,
		run.ExpectedCount,
		run.CreatedSeq,
	)
	if err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}

	for _, c := range cases {
		fieldsJSON, err := canon.Marshal(c.Fields)
		if err != nil {
			return nil, fmt.Errorf("record run: case %q: %w", c.ID, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO cases
			(run_id, id, description, fields, expected)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`,
			run.ID,
			c.ID,
			c.Description,
			string(fieldsJSON),
			c.Expected,
		)
		if err != nil {
			return nil, fmt.Errorf("record run: case %q: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}

	return run, nil
}

// ListRuns returns recorded runs ordered by creation, oldest first.
// An empty matrixName lists runs for every matrix.
func (r *Recorder) ListRuns(ctx context.Context, matrixName string) ([]Run, error) {
	query := `
		SELECT id, matrix_name, snapshot_digest, case_count, expected_count, created_seq
		FROM runs
	`
	var args []any
	if matrixName != "" {
		query += ` WHERE matrix_name = ?`
		args = append(args, matrixName)
	}
	query += ` ORDER BY created_seq, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		err := rows.Scan(
			&run.ID,
			&run.MatrixName,
			&run.SnapshotDigest,
			&run.CaseCount,
			&run.ExpectedCount,
			&run.CreatedSeq,
		)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}

// ReadRunCases returns the stored cases of a run, ordered by
// description then ID, matching the expansion's rendering order.
func (r *Recorder) ReadRunCases(ctx context.Context, runID string) ([]CaseRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT run_id, id, description, fields, expected
		FROM cases
		WHERE run_id = ?
		ORDER BY description, id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read run cases: %w", err)
	}
	defer rows.Close()

	var records []CaseRecord
	for rows.Next() {
		var rec CaseRecord
		if err := rows.Scan(&rec.RunID, &rec.ID, &rec.Description, &rec.Fields, &rec.Expected); err != nil {
			return nil, fmt.Errorf("read run cases: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read run cases: %w", err)
	}

	return records, nil
}
