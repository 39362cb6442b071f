package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// DivergenceRecord is a stored divergence. Detail holds the full
// divergence as JSON.
type DivergenceRecord struct {
	Ordinal int             `json:"ordinal"`
	Kind    string          `json:"kind"`
	Path    string          `json:"path"`
	Detail  json.RawMessage `json:"detail"`
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all.
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT seq, id, command, reference_path, candidate_path, policy, status, divergence_count
		FROM runs
		ORDER BY seq DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns the run with the given ID and its divergences in order.
// Returns ErrRunNotFound if the run does not exist.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, []DivergenceRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, command, reference_path, candidate_path, policy, status, divergence_count
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ordinal, kind, path, detail
		FROM divergences
		WHERE run_id = ?
		ORDER BY ordinal ASC
	`, id)
	if err != nil {
		return Run{}, nil, fmt.Errorf("query divergences: %w", err)
	}
	defer rows.Close()

	records := []DivergenceRecord{}
	for rows.Next() {
		var rec DivergenceRecord
		var detail string
		if err := rows.Scan(&rec.Ordinal, &rec.Kind, &rec.Path, &detail); err != nil {
			return Run{}, nil, fmt.Errorf("scan divergence: %w", err)
		}
		rec.Detail = json.RawMessage(detail)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return Run{}, nil, fmt.Errorf("iterate divergences: %w", err)
	}
	return run, records, nil
}

// KindCounts returns how many divergences of each kind a run recorded.
func (s *Store) KindCounts(ctx context.Context, id string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*)
		FROM divergences
		WHERE run_id = ?
		GROUP BY kind
		ORDER BY kind ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query kind counts: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan kind count: %w", err)
		}
		counts[kind] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kind counts: %w", err)
	}
	return counts, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	err := row.Scan(
		&run.Seq,
		&run.ID,
		&run.Command,
		&run.ReferencePath,
		&run.CandidatePath,
		&run.Policy,
		&run.Status,
		&run.DivergenceCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}
