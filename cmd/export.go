package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Lumos-Labs-HQ/edutech-seed/internal/database"
	"github.com/Lumos-Labs-HQ/edutech-seed/internal/export"
	"github.com/Lumos-Labs-HQ/edutech-seed/internal/seeder"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the course tables",
	Long: `
Export the nine course tables to various formats.
Supported formats: json (default), csv, sqlite

Examples:
  edutech-seed export
  edutech-seed export --sqlite
  edutech-seed export --csv --output snapshots`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		format := "json"
		if csv, _ := cmd.Flags().GetBool("csv"); csv {
			format = "csv"
		} else if sqlite, _ := cmd.Flags().GetBool("sqlite"); sqlite {
			format = "sqlite"
		}

		exportPath := cfg.ExportPath
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			exportPath = out
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

		read := func(ctx context.Context, table string) (*database.TableData, error) {
			return database.ReadTable(ctx, pool, table)
		}
		snap, err := export.Collect(ctx, read, cfg.Database.Schema, seeder.InsertionOrder(), time.Now())
		if err != nil {
			return err
		}

		path, err := export.PerformExport(snap, exportPath, format)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Export completed: %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().Bool("json", false, "Export as JSON (default)")
	exportCmd.Flags().Bool("csv", false, "Export as one CSV file per table")
	exportCmd.Flags().Bool("sqlite", false, "Export as a SQLite database")
	exportCmd.Flags().StringP("output", "o", "", "Directory to write to (default is export_path from the config)")
	exportCmd.MarkFlagsMutuallyExclusive("json", "csv", "sqlite")

	rootCmd.AddCommand(exportCmd)
}
