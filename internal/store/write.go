package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/replaycheck/internal/compare"
)

// Run statuses.
const (
	StatusIdentical = "identical"
	StatusDiverged  = "diverged"
)

// Run is one recorded comparison.
type Run struct {
	Seq             int64  `json:"seq,omitempty"`
	ID              string `json:"id"`
	Command         string `json:"command"`
	ReferencePath   string `json:"reference_path"`
	CandidatePath   string `json:"candidate_path"`
	Policy          string `json:"policy"`
	Status          string `json:"status"`
	DivergenceCount int    `json:"divergence_count"`
}

// NewRun describes a comparison result as a Run ready to be written.
// The policy is stored as JSON.
func NewRun(id, command, refPath, candPath string, policy compare.Policy, res compare.Result) (Run, error) {
	policyJSON, err := json.Marshal(policy)
	if err != nil {
		return Run{}, fmt.Errorf("marshal policy: %w", err)
	}
	status := StatusIdentical
	if !res.Equal() {
		status = StatusDiverged
	}
	return Run{
		ID:              id,
		Command:         command,
		ReferencePath:   refPath,
		CandidatePath:   candPath,
		Policy:          string(policyJSON),
		Status:          status,
		DivergenceCount: len(res.Divergences),
	}, nil
}

// WriteRun inserts a run and its divergences in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - rewriting a run ID is
// silently ignored, divergences included.
func (s *Store) WriteRun(ctx context.Context, run Run, divergences []compare.Divergence) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, command, reference_path, candidate_path, policy, status, divergence_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Command,
		run.ReferencePath,
		run.CandidatePath,
		run.Policy,
		run.Status,
		run.DivergenceCount,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run: rows affected: %w", err)
	}
	if inserted == 0 {
		return tx.Commit()
	}

	for i, d := range divergences {
		detail, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("write run: marshal divergence %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO divergences (run_id, ordinal, kind, path, detail)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, i, string(d.Kind), d.Path.String(), string(detail))
		if err != nil {
			return fmt.Errorf("write run: divergence %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}
