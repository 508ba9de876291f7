package cmd

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/edutech-seed/internal/verify"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the populated data for consistency",
	Long: `
Run consistency checks against the course schema: contiguous module and
lesson positions, unique enrollments, completion dates, paid amounts,
progress bounds and evaluation eligibility.

Exits with a non-zero status when any check finds violations.`,
	Args: cobra.NoArgs,
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

		color.Cyan("🔍 Verifying course schema %q...", cfg.Database.Schema)
		results, err := verify.Run(ctx, pool, verify.Checks(cfg.Distribution.MaxDiscount))
		if err != nil {
			return err
		}
		verify.Print(results)

		if failed := verify.Failed(results); failed > 0 {
			return fmt.Errorf("%d of %d checks failed", failed, len(results))
		}
		color.Green("🎉 All %d checks passed", len(results))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
