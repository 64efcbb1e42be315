package journal

import (
	"context"
	"encoding/json"
	"fmt"
)

// RecordRun stores run and its results in one transaction. The id is
// generated when empty; seq is always assigned as the next logical value.
// The stored run is returned.
func (j *Journal) RecordRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = j.ids.Generate()
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("record run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, document, dest, plan, plan_origin, input_hash, output_hash,
		 cell_count, examined, mutated, dry_run, written)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.Document,
		run.Dest,
		run.Plan,
		run.PlanOrigin,
		run.InputHash,
		run.OutputHash,
		run.CellCount,
		run.Examined,
		run.Mutated,
		run.DryRun,
		run.Written,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	for i := range run.Results {
		res := &run.Results[i]
		res.Position = i
		opsJSON, err := marshalOps(res)
		if err != nil {
			return Run{}, fmt.Errorf("record run: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO patch_results (run_id, position, patch, status, cell, detail, ops)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, run.ID, i, res.Patch, string(res.Status), res.Cell, res.Detail, opsJSON)
		if err != nil {
			return Run{}, fmt.Errorf("record run: result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: commit: %w", err)
	}
	return run, nil
}

func marshalOps(res *PatchResult) (string, error) {
	if len(res.Ops) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(res.Ops)
	if err != nil {
		return "", fmt.Errorf("marshal ops for %s: %w", res.Patch, err)
	}
	return string(b), nil
}
