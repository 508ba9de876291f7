package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lumos-Labs-HQ/edutech-seed/internal/config"
	"github.com/Lumos-Labs-HQ/edutech-seed/internal/database"
	"github.com/Lumos-Labs-HQ/edutech-seed/template"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var applySchema bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config, .env and course schema DDL",
	Long: `
Initialize a project with edutech.config.json, a DATABASE_URL entry in .env
and the reference DDL of the course schema.

With --apply the DDL is also executed against the database.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		tmpl := template.NewProjectTemplate(cfg)
		if err := cfg.EnsureDirectories(); err != nil {
			return fmt.Errorf("failed to create directories: %w", err)
		}

		written, err := writeProjectFiles(tmpl, cfg, force)
		if err != nil {
			return err
		}
		if err := handleEnvFile(tmpl.GetEnvTemplate(), cfg.Database.URLEnv); err != nil {
			return fmt.Errorf("failed to handle .env file: %w", err)
		}

		color.Green("✅ Project initialized")
		for _, path := range written {
			fmt.Printf("   %s\n", path)
		}

		if applySchema {
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

			n, err := database.ApplySQL(ctx, pool, tmpl.GetSchema())
			if err != nil {
				return err
			}
			color.Green("✅ Applied %d schema statements to %q", n, cfg.Database.Schema)
		}

		fmt.Println()
		fmt.Printf("🚀 Next steps:\n")
		if !applySchema {
			fmt.Printf("   edutech-seed init --apply     # Create the course schema\n")
		}
		fmt.Printf("   edutech-seed seed             # Populate it\n")
		fmt.Printf("   edutech-seed verify           # Check the result\n")
		return nil
	},
}

func writeProjectFiles(tmpl *template.ProjectTemplate, cfg *config.Config, force bool) ([]string, error) {
	configJSON, err := tmpl.GetConfig()
	if err != nil {
		return nil, err
	}

	files := []struct {
		path    string
		content string
	}{
		{config.FileName, configJSON},
		{cfg.SchemaPath, tmpl.GetSchema()},
	}

	var written []string
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil && !force {
			color.Yellow("ℹ️  Skipped %s (already exists, use --force to overwrite)", f.path)
			continue
		}
		if dir := filepath.Dir(f.path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return nil, fmt.Errorf("failed to create file %s: %w", f.path, err)
		}
		written = append(written, f.path)
	}
	return written, nil
}

// handleEnvFile appends the connection variable to .env unless it is already there.
func handleEnvFile(defaultEnvContent, urlEnv string) error {
	envPath := ".env"

	existingContent, err := os.ReadFile(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(envPath, []byte(defaultEnvContent), 0644)
		}
		return err
	}

	existingStr := string(existingContent)
	if strings.Contains(existingStr, urlEnv+"=") {
		return nil
	}

	if len(existingStr) > 0 && !strings.HasSuffix(existingStr, "\n") {
		existingStr += "\n"
	}
	existingStr += "\n# Added by edutech-seed\n" + defaultEnvContent

	return os.WriteFile(envPath, []byte(existingStr), 0644)
}

func init() {
	initCmd.Flags().BoolVar(&applySchema, "apply", false, "Execute the schema DDL against the database")
	rootCmd.AddCommand(initCmd)
}
