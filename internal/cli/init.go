package cli

import (
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-olist-etl/internal/db"
	"github.com/pgEdge/pgedge-olist-etl/internal/logging"
	"github.com/pgEdge/pgedge-olist-etl/internal/schema"
)

var initDropExisting bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the raw tables and the unaccent extension",
	Long: `Create the nine raw tables the loader appends to, and the unaccent
extension used by the staging city normalization. Existing tables are
left in place unless --drop-existing is given.

Example:
  pgedge-olist-etl init --connection "postgres://..."`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop the raw tables and run metadata before creating them")
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	pool, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if initDropExisting {
		logging.Warn().Msg("Dropping existing raw tables")
		if err := schema.Drop(ctx, pool); err != nil {
			return err
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	return schema.Create(ctx, pool)
}
