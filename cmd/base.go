package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Lumos-Labs-HQ/edutech-seed/internal/config"
	"github.com/Lumos-Labs-HQ/edutech-seed/internal/database"
	"github.com/Lumos-Labs-HQ/edutech-seed/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger() (*logger.Logger, error) {
	log, err := logger.New(viper.GetBool("verbose"))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

func connect(ctx context.Context, cfg *config.Config, log *logger.Logger) (*pgxpool.Pool, error) {
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}

	log.Debug("connecting", "dsn", dbURL, "schema", cfg.Database.Schema)
	pool, err := database.Connect(ctx, dbURL, cfg.Database.Schema)
	if err != nil {
		return nil, err
	}
	log.Info("connected", "target", config.MaskDSN(dbURL), "search_path", database.SearchPath(cfg.Database.Schema))
	return pool, nil
}

func askUserConfirmation(cmd *cobra.Command, message string) bool {
	if force, _ := cmd.Flags().GetBool("force"); force {
		return true
	}

	fmt.Printf("🤔 %s (y/N): ", message)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y"
}
