package cmd

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/edutech-seed/internal/database"
	"github.com/Lumos-Labs-HQ/edutech-seed/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show row counts of the course tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
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

		tables := seeder.InsertionOrder()
		counts, err := database.CountRows(ctx, pool, tables)
		if err != nil {
			return err
		}

		color.Cyan("📊 Course schema %q", cfg.Database.Schema)
		var total int64
		for _, table := range tables {
			fmt.Printf("   %-16s %8d\n", table, counts[table])
			total += counts[table]
		}
		fmt.Printf("   %-16s %8d\n", "total", total)

		if total == 0 {
			color.Yellow("ℹ️  The schema is empty. Run 'edutech-seed seed' to populate it.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
