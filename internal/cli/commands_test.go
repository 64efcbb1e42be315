package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cellpatch/internal/testutil"
)

func writeNotebook(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drift_analysis.ipynb")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writePlan(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func decodeResponse(t *testing.T, out string) (CLIResponse, map[string]any) {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

func resultStatuses(t *testing.T, data map[string]any) []string {
	t.Helper()
	report, ok := data["report"].(map[string]any)
	require.True(t, ok, "missing report in %v", data)
	var statuses []string
	for _, r := range report["results"].([]any) {
		statuses = append(statuses, r.(map[string]any)["status"].(string))
	}
	return statuses
}

func TestApply_InPlaceThenIdempotent(t *testing.T) {
	path := writeNotebook(t, testutil.DriftNotebook())

	out, _, err := execute(t, "apply", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ psi-trend-plots: patched (cell 17)")
	assert.Contains(t, out, "✓ statistics-trend-plots: patched (cell 12)")
	assert.Contains(t, out, "Wrote "+path)

	patched, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(patched), "table_trend_folder = "))
	assert.Equal(t, 1, strings.Count(string(patched), "table_stats_folder = "))

	out, _, err = execute(t, "apply", path)
	require.NoError(t, err)
	assert.Contains(t, out, "· psi-trend-plots: already-patched (cell 17)")
	assert.Contains(t, out, "No changes to "+path)

	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, patched, again)
}

func TestApply_JSON(t *testing.T) {
	path := writeNotebook(t, testutil.DriftNotebook())

	out, _, err := execute(t, "--format", "json", "apply", path)
	require.NoError(t, err)

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"patched", "patched"}, resultStatuses(t, data))
	assert.Equal(t, true, data["written"])
	assert.Equal(t, "drift-psi", data["plan"])
}

func TestApply_DryRunAndOut(t *testing.T) {
	input := testutil.DriftNotebook()
	path := writeNotebook(t, input)

	out, _, err := execute(t, "apply", "--dry-run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run: "+path+" not written")
	unchanged, _ := os.ReadFile(path)
	assert.Equal(t, input, unchanged)

	dest := filepath.Join(t.TempDir(), "patched.ipynb")
	_, _, err = execute(t, "apply", "--out", dest, "--style", "string", path)
	require.NoError(t, err)
	unchanged, _ = os.ReadFile(path)
	assert.Equal(t, input, unchanged)

	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(written), `"source": "# Monthly PSI trends\n`)
}

func TestApply_InvalidStyle(t *testing.T) {
	path := writeNotebook(t, testutil.DriftNotebook())
	_, _, err := execute(t, "apply", "--style", "yaml", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestApply_MalformedNotebook(t *testing.T) {
	path := writeNotebook(t, []byte(`{"cells": [{"cell_type": "code"}]}`))

	out, _, err := execute(t, "--format", "json", "apply", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp, _ := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeFormat, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "cells[0].source")
}

func TestApply_MissingNotebook(t *testing.T) {
	out, _, err := execute(t, "apply", filepath.Join(t.TempDir(), "absent.ipynb"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E011]")
}

func TestApply_UnknownBuiltin(t *testing.T) {
	path := writeNotebook(t, testutil.DriftNotebook())
	out, _, err := execute(t, "apply", "--builtin", "nope", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestApply_PlanFile(t *testing.T) {
	path := writeNotebook(t, testutil.NotebookJSON(
		testutil.Markdown("# Report"),
		testutil.Code("result = compute(1)\nprint(result)\n"),
	))
	planPath := writePlan(t, "footer.yaml", `
name: footer
patches:
  - name: log-result
    select: {index: 1}
    marker: "# logged"
    ops:
      - kind: insert_after_anchor
        anchor: ["result = compute("]
        lines: ["# logged", "logger.info(result)"]
`)

	out, _, err := execute(t, "apply", "--plan", planPath, path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ log-result: patched (cell 1)")

	data, _ := os.ReadFile(path)
	assert.Contains(t, string(data), `"logger.info(result)\n"`)
}

func TestApply_JournalAndHistory(t *testing.T) {
	path := writeNotebook(t, testutil.DriftNotebook())
	db := filepath.Join(t.TempDir(), "journal.db")

	out, _, err := execute(t, "apply", "--db", db, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Journaled run ")

	_, _, err = execute(t, "apply", "--db", db, path)
	require.NoError(t, err)

	out, _, err = execute(t, "history", "--db", db, "--results")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 ")
	assert.Contains(t, out, "2 cell(s) mutated, written")
	assert.Contains(t, out, "#2 ")
	assert.Contains(t, out, "0 cell(s) mutated, unchanged")
	assert.Contains(t, out, "· psi-trend-plots: already-patched")

	out, _, err = execute(t, "--format", "json", "history", "--db", db, "--document", path, "--limit", "1")
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	runs := resp.Data.([]any)
	require.Len(t, runs, 1)
	assert.Equal(t, float64(2), runs[0].(map[string]any)["seq"])
}

func TestApply_DatabaseFromEnv(t *testing.T) {
	path := writeNotebook(t, testutil.DriftNotebook())
	db := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("CELLPATCH_DB", db)

	_, _, err := execute(t, "apply", path)
	require.NoError(t, err)

	out, _, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 ")
}

func TestHistory_Errors(t *testing.T) {
	t.Setenv("CELLPATCH_DB", "")

	_, _, err := execute(t, "history")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "history", "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestStatus(t *testing.T) {
	path := writeNotebook(t, testutil.DriftNotebook())

	out, _, err := execute(t, "status", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ 2 patch(es) pending: psi-trend-plots, statistics-trend-plots")

	_, _, err = execute(t, "apply", path)
	require.NoError(t, err)

	out, _, err = execute(t, "status", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Notebook is up to date")
}

func TestStatus_JSONMissing(t *testing.T) {
	path := writeNotebook(t, testutil.NotebookJSON(testutil.Code("x = 1\n")))
	input, _ := os.ReadFile(path)

	out, _, err := execute(t, "--format", "json", "status", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeMissing, resp.Error.Code)
	assert.Equal(t, []string{"cell-not-found", "cell-not-found"}, resultStatuses(t, data))

	after, _ := os.ReadFile(path)
	assert.Equal(t, input, after, "status never writes")
}

func TestValidate(t *testing.T) {
	valid := writePlan(t, "ok.yaml", `
name: ok
patches:
  - name: rename
    select: {contains: ["old_name"]}
    ops:
      - {kind: replace_literal, from: "old_name(", to: "new_name("}
`)
	out, _, err := execute(t, "validate", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Plan ok valid (1 patch(es))")

	out, _, err = execute(t, "--format", "json", "validate", valid)
	require.NoError(t, err)
	resp, data := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, true, data["valid"])
}

func TestValidate_ValidationErrors(t *testing.T) {
	invalid := writePlan(t, "bad.yaml", `
name: bad
patches:
  - name: no-marker
    select: {index: 0}
    ops:
      - {kind: insert_after_anchor, anchor: [x], lines: [y]}
`)
	out, _, err := execute(t, "validate", invalid)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "[E207] no-marker")

	out, _, err = execute(t, "--format", "json", "validate", invalid)
	require.Error(t, err)
	resp, data := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E207", resp.Error.Code)
	assert.Equal(t, false, data["valid"])
}

func TestValidate_LoadErrors(t *testing.T) {
	typo := writePlan(t, "typo.yaml", "name: typo\npatchez: []\n")
	out, _, err := execute(t, "validate", typo)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E004]")

	_, _, err = execute(t, "validate", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E005")
}

func TestPlans(t *testing.T) {
	out, _, err := execute(t, "plans")
	require.NoError(t, err)
	assert.Contains(t, out, "drift-psi (default)")
	assert.Contains(t, out, "  - psi-trend-plots")
	assert.Contains(t, out, "  - statistics-trend-plots")

	out, _, err = execute(t, "--format", "json", "plans")
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	plans := resp.Data.([]any)
	require.NotEmpty(t, plans)
	assert.Equal(t, "drift-psi", plans[0].(map[string]any)["name"])
}
