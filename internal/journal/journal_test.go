package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cellpatch/internal/patch"
)

func createTestJournal(t *testing.T, ids ...string) *Journal {
	t.Helper()
	var opts []Option
	if len(ids) > 0 {
		opts = append(opts, WithIDGenerator(NewFixedGenerator(ids...)))
	}
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func sampleRun(document string) Run {
	return Run{
		Document:   document,
		Dest:       document,
		Plan:       "drift-psi",
		PlanOrigin: "builtin:drift-psi",
		InputHash:  "in",
		OutputHash: "out",
		CellCount:  18,
		Examined:   14,
		Mutated:    2,
		Written:    true,
		Results: []PatchResult{
			{Patch: "psi-trend-plots", Status: patch.StatusPatched, Cell: 17, Ops: []patch.OpResult{
				{Kind: patch.OpInsertAfterAnchor, Applied: true, Line: 6},
				{Kind: patch.OpReplaceLiteral, Applied: true, Line: -1, Replacements: 1},
			}},
			{Patch: "statistics-trend-plots", Status: patch.StatusAnchorNotFound, Cell: 12, Detail: "anchor not found"},
		},
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	for i := 0; i < 3; i++ {
		j, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, j.Close())
	}

	_, err := os.Stat(path)
	require.NoError(t, err)

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	var version int
	require.NoError(t, j.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)

	var mode string
	require.NoError(t, j.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	for _, table := range []string{"runs", "patch_results"} {
		var name string
		err := j.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestRecordRun_AssignsIDAndSeq(t *testing.T) {
	ctx := context.Background()
	j := createTestJournal(t, "run-1", "run-2")

	first, err := j.RecordRun(ctx, sampleRun("a.ipynb"))
	require.NoError(t, err)
	assert.Equal(t, "run-1", first.ID)
	assert.Equal(t, int64(1), first.Seq)

	second, err := j.RecordRun(ctx, sampleRun("b.ipynb"))
	require.NoError(t, err)
	assert.Equal(t, "run-2", second.ID)
	assert.Equal(t, int64(2), second.Seq)

	explicit := sampleRun("a.ipynb")
	explicit.ID = "chosen"
	third, err := j.RecordRun(ctx, explicit)
	require.NoError(t, err)
	assert.Equal(t, "chosen", third.ID)
	assert.Equal(t, int64(3), third.Seq)
}

func TestRecordRun_DuplicateIDRollsBack(t *testing.T) {
	ctx := context.Background()
	j := createTestJournal(t)

	run := sampleRun("a.ipynb")
	run.ID = "dup"
	_, err := j.RecordRun(ctx, run)
	require.NoError(t, err)
	_, err = j.RecordRun(ctx, run)
	require.Error(t, err)

	results, err := j.Results(ctx, "dup")
	require.NoError(t, err)
	assert.Len(t, results, 2, "failed insert left no extra rows")
}

func TestResults_RoundTrip(t *testing.T) {
	ctx := context.Background()
	j := createTestJournal(t, "run-1")

	stored, err := j.RecordRun(ctx, sampleRun("a.ipynb"))
	require.NoError(t, err)

	results, err := j.Results(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Results, results)
	assert.Equal(t, 1, results[1].Position)
	assert.Nil(t, results[1].Ops)
}

func TestResults_UnknownRun(t *testing.T) {
	results, err := createTestJournal(t).Results(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	j := createTestJournal(t, "r1", "r2", "r3", "r4")

	for _, doc := range []string{"a.ipynb", "b.ipynb", "a.ipynb", "a.ipynb"} {
		_, err := j.RecordRun(ctx, sampleRun(doc))
		require.NoError(t, err)
	}

	all, err := j.ListRuns(ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, runIDs(all))
	assert.Nil(t, all[0].Results)

	onlyA, err := j.ListRuns(ctx, "a.ipynb", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r3", "r4"}, runIDs(onlyA))

	recent, err := j.ListRuns(ctx, "a.ipynb", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r4"}, runIDs(recent), "limit keeps newest, listed oldest first")

	none, err := j.ListRuns(ctx, "c.ipynb", 0)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestLatest(t *testing.T) {
	ctx := context.Background()
	j := createTestJournal(t, "r1", "r2")

	_, found, err := j.Latest(ctx, "a.ipynb")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = j.RecordRun(ctx, sampleRun("a.ipynb"))
	require.NoError(t, err)
	dry := sampleRun("a.ipynb")
	dry.DryRun = true
	dry.Written = false
	_, err = j.RecordRun(ctx, dry)
	require.NoError(t, err)

	latest, found, err := j.Latest(ctx, "a.ipynb")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "r2", latest.ID)
	assert.True(t, latest.DryRun)
	assert.False(t, latest.Written)
	assert.Len(t, latest.Results, 2)
}

func TestResultsFromReport(t *testing.T) {
	assert.Nil(t, ResultsFromReport(nil))

	report := &patch.Report{Results: []patch.Result{
		{Patch: "a", Status: patch.StatusPatched, Cell: 3},
		{Patch: "b", Status: patch.StatusCellNotFound, Cell: -1, Err: &patch.SelectionError{Index: 40, Reason: "out of range"}},
	}}
	rows := ResultsFromReport(report)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[1].Position)
	assert.Equal(t, patch.StatusCellNotFound, rows[1].Status)
	assert.Equal(t, report.Results[1].Detail(), rows[1].Detail)
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("x")
	assert.Equal(t, "x", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestUUIDv7Generator(t *testing.T) {
	a, b := UUIDv7Generator{}.Generate(), UUIDv7Generator{}.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func runIDs(runs []Run) []string {
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	return ids
}
