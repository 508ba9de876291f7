package cmd

import (
	"github.com/Lumos-Labs-HQ/edutech-seed/internal/database"
	"github.com/Lumos-Labs-HQ/edutech-seed/internal/seeder"
	"github.com/fatih/color"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Empty every course table",
	Long: `
Truncate all nine course tables and restart their id sequences.

⚠️  WARNING: This permanently deletes the data in the course schema!

Use --force to skip the confirmation prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if !askUserConfirmation(cmd, "Are you sure you want to empty the course tables?") {
			color.Yellow("❌ Reset cancelled")
			return nil
		}

		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := cmd.Context()
		pool, err := connect(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		color.Yellow("🗑️  Truncating tables...")
		err = database.InTx(ctx, pool, func(tx pgx.Tx) error {
			return seeder.Reset(ctx, tx)
		})
		if err != nil {
			return err
		}
		color.Green("✅ Course tables emptied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
