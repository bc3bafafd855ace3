package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-olist-etl/internal/db"
	"github.com/pgEdge/pgedge-olist-etl/internal/pipeline"
	"github.com/pgEdge/pgedge-olist-etl/internal/raw"
	"github.com/pgEdge/pgedge-olist-etl/internal/schema"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last run of each pipeline stage",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the database answers SELECT 1",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		pool, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		v, err := db.Ping(ctx, pool)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "DB connection OK. SELECT 1 -> %d\n", v)
		return nil
	},
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	pool, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	out := cmd.OutOrStdout()
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	exists, err := schema.Exists(ctx, pool, raw.Tables())
	if err != nil {
		return err
	}
	if !exists {
		fmt.Fprintln(out, color.YellowString("Raw tables missing; run 'pgedge-olist-etl init' first"))
	}

	hasMeta, err := db.MetadataExists(ctx, pool)
	if err != nil {
		return err
	}
	if !hasMeta {
		fmt.Fprintln(out, "No pipeline runs recorded")
		return nil
	}

	meta, err := db.GetAllMetadata(ctx, pool)
	if err != nil {
		return err
	}

	for _, stage := range pipeline.Sequence {
		runID, ok := meta[stage+".run_id"]
		if !ok {
			fmt.Fprintf(out, "%s %s\n", bold(fmt.Sprintf("%-8s", stage)), dim("never run"))
			continue
		}
		fmt.Fprintf(out, "%s finished %s in %s, count %s %s\n",
			bold(fmt.Sprintf("%-8s", stage)),
			meta[stage+".finished_at"],
			meta[stage+".duration"],
			meta[stage+".count"],
			dim("(run "+runID+")"))
	}
	v, err := db.GetMetadataValue(ctx, pool, "version")
	switch {
	case err == nil:
		fmt.Fprintf(out, "%s\n", dim("written by version "+v))
	case !errors.Is(err, db.ErrNoMetadata):
		return err
	}
	return nil
}
