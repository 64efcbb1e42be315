package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/cellpatch/internal/patch"
)

const runColumns = `id, seq, document, dest, plan, plan_origin, input_hash, output_hash,
	cell_count, examined, mutated, dry_run, written`

// ListRuns returns the most recent runs, oldest first. An empty document
// lists runs for every document; limit <= 0 means no limit. Results are not
// loaded; use Results for a run's patch rows.
//
// Returns an empty slice (not nil) when nothing matches.
func (j *Journal) ListRuns(ctx context.Context, document string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+runColumns+` FROM (
			SELECT `+runColumns+` FROM runs
			WHERE (? = '' OR document = ?)
			ORDER BY seq DESC
			LIMIT ?
		)
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, document, document, limit)
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

// Latest returns the newest run for document with its results. found is
// false when the document has never been recorded.
func (j *Journal) Latest(ctx context.Context, document string) (run Run, found bool, err error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+runColumns+` FROM runs
		WHERE document = ?
		ORDER BY seq DESC
		LIMIT 1
	`, document)
	run, err = scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	run.Results, err = j.Results(ctx, run.ID)
	if err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

// Results returns the patch rows of a run in plan order.
func (j *Journal) Results(ctx context.Context, runID string) ([]PatchResult, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT position, patch, status, cell, detail, ops
		FROM patch_results
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := []PatchResult{}
	for rows.Next() {
		var (
			res     PatchResult
			status  string
			opsJSON string
		)
		if err := rows.Scan(&res.Position, &res.Patch, &status, &res.Cell, &res.Detail, &opsJSON); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		res.Status = patch.Status(status)
		if opsJSON != "" && opsJSON != "[]" {
			if err := json.Unmarshal([]byte(opsJSON), &res.Ops); err != nil {
				return nil, fmt.Errorf("unmarshal ops for %s: %w", res.Patch, err)
			}
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var run Run
	err := s.Scan(
		&run.ID,
		&run.Seq,
		&run.Document,
		&run.Dest,
		&run.Plan,
		&run.PlanOrigin,
		&run.InputHash,
		&run.OutputHash,
		&run.CellCount,
		&run.Examined,
		&run.Mutated,
		&run.DryRun,
		&run.Written,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}
