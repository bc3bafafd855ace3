package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-olist-etl/internal/verify"
)

var verifyChecks bool

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare source file row counts with the raw tables",
	Long: `Count the records in each CSV extract and compare them with the rows
in the matching raw table. With --checks, also confirm mart grain, the
dim_date calendar and the staging city normalization.

The command fails when any count differs or a structural check fails.
City normalization differences are reported as warnings only.

Example:
  pgedge-olist-etl verify --checks`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyChecks, "checks", false,
		"also run grain, calendar and city normalization checks on the marts")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	pool, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	out := cmd.OutOrStdout()
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	counts, err := verify.ReconcileRowCounts(ctx, pool, cfg.DataDir)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, bold("Row counts"))
	mismatches := 0
	for _, c := range counts {
		status := pass("ok")
		if !c.Match() {
			status = fail("MISMATCH")
			mismatches++
		}
		fmt.Fprintf(out, "  %-12s csv=%-9d db=%-9d %s\n", c.Table, c.CSVRows, c.DBRows, status)
	}

	failed := 0
	if verifyChecks {
		results, err := verify.RunChecks(ctx, pool)
		if err != nil {
			return err
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, bold("Checks"))
		for _, r := range results {
			status := pass("ok")
			switch {
			case !r.Passed && r.Advisory:
				status = warn("warning")
			case !r.Passed:
				status = fail("FAILED")
			}
			fmt.Fprintf(out, "  %-26s %-8s %s\n", r.Name, status, r.Detail)
		}
		failed = len(verify.Failed(results))
	}

	if mismatches > 0 || failed > 0 {
		return fmt.Errorf("verification failed: %d row count mismatches, %d failed checks",
			mismatches, failed)
	}
	return nil
}
