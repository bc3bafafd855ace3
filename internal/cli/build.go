package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-olist-etl/internal/pipeline"
)

var stagingCmd = &cobra.Command{
	Use:   "staging [table...]",
	Short: "Rebuild the stg_* staging tables",
	Long: `Drop and recreate the staging tables from the raw tables. With no
arguments every staging table is rebuilt; otherwise only the named ones.

Example:
  pgedge-olist-etl staging
  pgedge-olist-etl staging stg_orders stg_items`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, []string{pipeline.StageStaging}, args)
	},
}

var martsCmd = &cobra.Command{
	Use:   "marts [table...]",
	Short: "Rebuild fact_orders, fact_daily_orders and dim_date",
	Long: `Drop and recreate the mart tables from the staging tables. Marts
depend on each other in the order fact_orders, fact_daily_orders, dim_date;
rebuilding one does not rebuild the tables after it.

Example:
  pgedge-olist-etl marts
  pgedge-olist-etl marts dim_date`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, []string{pipeline.StageMarts}, args)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load the raw tables, then rebuild staging and marts",
	Long: `Run the full pipeline: raw load, staging rebuild, mart rebuild.
The first failing stage stops the run; stages already completed keep
their results.

Example:
  pgedge-olist-etl run --data-dir ./data/raw`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateLoad(); err != nil {
			return err
		}
		return runStages(cmd, pipeline.Sequence, nil)
	},
}

func runStages(cmd *cobra.Command, stages []string, tables []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	pool, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	results, err := pipeline.Run(ctx, pool, stages, stageOptions(tables))
	printStageResults(cmd, results)
	return err
}

func printStageResults(cmd *cobra.Command, results []pipeline.Result) {
	if len(results) == 0 {
		return
	}

	ok := color.New(color.FgGreen).SprintFunc()
	out := cmd.OutOrStdout()
	for _, r := range results {
		unit := "tables"
		if r.Stage == pipeline.StageRaw {
			unit = "rows"
		}
		fmt.Fprintf(out, "%-8s %s %d %s in %s\n",
			r.Stage, ok("done"), r.Count, unit, r.Duration.Round(time.Millisecond))
	}
}
