package testutil

import "fmt"

// PSICellIndex is where DriftNotebook places the monthly PSI cell.
const PSICellIndex = 17

// StatsCellIndex is where DriftNotebook places the monthly statistics cell.
const StatsCellIndex = 12

// DriftCellCount is the number of cells in DriftNotebook.
const DriftCellCount = 18

// PSICellSource is the monthly PSI trends cell before any patch.
const PSICellSource = `# Monthly PSI trends
MONTHLY_TRENDS_PLOT_PATH = PLOT_PATH + "monthly_trends/"
dbutils.fs.mkdirs(MONTHLY_TRENDS_PLOT_PATH)

for table_name, df_spark in tables.items():
    if table_name in monthly_psi:
        if monthly_psi[table_name]:
            monthly_psi_df = pd.DataFrame(monthly_psi[table_name])
            save_pandas_to_csv_adls(monthly_psi_df, f"{TABLE_PATH}{table_name}_psi_monthly_trends.csv")
            print(f"  ✓ Saved monthly PSI trends")
`

// PSIAnchorLine is the line of PSICellSource the PSI plots go after.
const PSIAnchorLine = `            save_pandas_to_csv_adls(monthly_psi_df, f"{TABLE_PATH}{table_name}_psi_monthly_trends.csv")`

// StatsCellSource is the monthly statistics cell before any patch.
const StatsCellSource = `# ===== MONTHLY STATISTICS (MEDIAN & AVERAGE) =====
for table_name, df_spark in tables.items():
    if table_name in monthly_stats:
        if monthly_stats[table_name]:
            stats_df = pd.DataFrame(monthly_stats[table_name])
            save_pandas_to_csv_adls(stats_df, f"{TABLE_PATH}{table_name}_monthly_statistics_trends.csv")
            print(f"  ✓ Saved monthly statistics")
`

// StatsAnchorLine is the line of StatsCellSource the statistics plots go after.
const StatsAnchorLine = `            save_pandas_to_csv_adls(stats_df, f"{TABLE_PATH}{table_name}_monthly_statistics_trends.csv")`

// DriftCells returns the cells of an 18-cell drift-analysis notebook. The
// PSI cell is stored as a line array, the statistics cell as a string, and
// the remaining cells alternate between markdown and filler code.
func DriftCells() []CellFixture {
	cells := make([]CellFixture, DriftCellCount)
	for i := range cells {
		switch {
		case i == PSICellIndex:
			cells[i] = CodeLines(PSICellSource)
		case i == StatsCellIndex:
			cells[i] = Code(StatsCellSource)
		case i%2 == 0:
			cells[i] = Markdown(fmt.Sprintf("## Section %d\n\nNotes for section %d.", i, i))
		default:
			cells[i] = Code(fmt.Sprintf("# step %d\nresult_%d = compute(%d)\n", i, i, i))
		}
	}
	return cells
}

// DriftNotebook renders DriftCells as notebook JSON.
func DriftNotebook() []byte {
	return NotebookJSON(DriftCells()...)
}
