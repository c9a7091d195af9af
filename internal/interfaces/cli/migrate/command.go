package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/config"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/database"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/migration"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/constants"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
)

var (
	env        string
	configPath string
	name       string
	dir        string
	steps      int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations: apply or roll back the embedded scripts, check status and create new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and the state of every script.`,
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create a new SQL migration file for the configured database driver.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVar(&dir, "dir", "", "Target directory (default: ./internal/infrastructure/migration/scripts/<driver>)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func initEnv() (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

func openDB() (*gorm.DB, *migration.GooseStrategy, error) {
	cfg, log, err := initEnv()
	if err != nil {
		return nil, nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return database.Get(), migration.NewGooseStrategy(log), nil
}

func runUp(cmd *cobra.Command, args []string) error {
	db, strategy, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := strategy.Migrate(db); err != nil {
		return err
	}

	version, err := strategy.GetVersion(db)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "database is at version %d\n", version)
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	db, strategy, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := strategy.MigrateDown(db, steps); err != nil {
		return err
	}

	version, err := strategy.GetVersion(db)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "database is at version %d\n", version)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	db, strategy, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	version, err := strategy.GetVersion(db)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "current version: %d\n", version)

	return strategy.Status(db)
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, log, err := initEnv()
	if err != nil {
		return err
	}

	target := dir
	if target == "" {
		driver := cfg.Database.Driver
		if driver == "" {
			driver = database.DriverSQLite
		}
		target = filepath.Join("internal", "infrastructure", "migration", "scripts", driver)
	}

	return migration.NewGooseStrategy(log).Create(target, name)
}
