// Package plan loads patch plans: named, ordered lists of patch specs stored
// as YAML or CUE files.
//
// Plan file layout (YAML shown, CUE uses the same field names):
//
//	name: drift-psi
//	description: Add trend plots to the drift analysis notebook
//	patches:
//	  - name: psi-trend-plots
//	    select: {index: 17, contains: ["save_pandas_to_csv_adls(monthly_psi_df"]}
//	    marker: "table_trend_folder = "
//	    ops:
//	      - kind: insert_after_anchor
//	        anchor: ["save_pandas_to_csv_adls(monthly_psi_df", "psi_monthly_trends"]
//	        lines_file: psi_trend_plots.txt
//
// Inserted blocks can be given inline (lines) or as a payload file
// (lines_file) resolved next to the plan. Payloads are opaque text.
//
// YAML files reject unknown fields. CUE files are unified with a closed
// schema, so typos surface as CUE errors with file positions. Every plan is
// checked with patch.ValidateAll before it is returned.
package plan
