package cmd

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/edutech-seed/internal/config"
	"github.com/Lumos-Labs-HQ/edutech-seed/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the course schema with synthetic data",
	Long: `
Generate categories, instructors, courses with their modules and lessons,
students, enrollments, lesson progress and evaluations in dependency order.

All inserts share one transaction. Any failure rolls back every row written
by the run, including the optional --reset truncation.

Examples:
  edutech-seed seed
  edutech-seed seed --students 200 --enrollments 600 --reset
  edutech-seed seed --seed 42 --report out/run.yaml`,
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

		runner, err := seeder.NewRunner(pool, log)
		if err != nil {
			return err
		}

		report, runErr := runner.Run(ctx, seeder.OptionsFromConfig(cfg))
		if report != nil {
			report.Print()
			if cfg.Seed.Report != "" {
				if err := report.WriteFile(cfg.Seed.Report); err != nil {
					color.Yellow("⚠️  %v", err)
				} else {
					fmt.Printf("📝 Report written to %s\n", cfg.Seed.Report)
				}
			}
		}
		return runErr
	},
}

func init() {
	defaults := config.DefaultConfig().Seed
	flags := seedCmd.Flags()

	flags.Int("categories", defaults.Categories, "Number of categories (at least 5, at most the pool size)")
	flags.Int("instructors", defaults.Instructors, "Number of instructors")
	flags.Int("courses", defaults.Courses, "Number of courses")
	flags.Int("students", defaults.Students, "Number of students")
	flags.Int("enrollments", defaults.Enrollments, "Number of enrollments to attempt")
	flags.Int("min-modules", defaults.MinModules, "Minimum modules per course")
	flags.Int("max-modules", defaults.MaxModules, "Maximum modules per course")
	flags.Int("min-lessons", defaults.MinLessons, "Minimum lessons per module")
	flags.Int("max-lessons", defaults.MaxLessons, "Maximum lessons per module")
	flags.Bool("reset", defaults.Reset, "Truncate all course tables first, inside the same transaction")
	flags.Int64("seed", defaults.RandomSeed, "Random seed (0 picks a time-based seed)")
	flags.String("report", "", "Write the run report to a .json or .yaml file")

	bindings := map[string]string{
		"seed.categories":  "categories",
		"seed.instructors": "instructors",
		"seed.courses":     "courses",
		"seed.students":    "students",
		"seed.enrollments": "enrollments",
		"seed.min_modules": "min-modules",
		"seed.max_modules": "max-modules",
		"seed.min_lessons": "min-lessons",
		"seed.max_lessons": "max-lessons",
		"seed.reset":       "reset",
		"seed.random_seed": "seed",
		"seed.report":      "report",
	}
	for key, flag := range bindings {
		viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(seedCmd)
}
