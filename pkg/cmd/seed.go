package cmd

import (
	"context"
	"fmt"

	"github.com/nekruzvatanshoev/carlot/pkg/carlot/config"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/convert"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/dal"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/store"
	"github.com/spf13/cobra"
)

func init() {
	SeedCmd.Flags().String(inputFlag, defaultSeed, "JSON file produced by convert")
	SeedCmd.Flags().String(driverFlag, "", "storage driver: memory, mongo or postgres")
}

var SeedCmd = &cobra.Command{
	Use:   SeedCmdName,
	Short: SeedCmdShort,
	Long:  SeedCmdLong,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg.Log)
		if err := checkSeedDriver(cfg.Storage.Driver); err != nil {
			return err
		}
		input, _ := cmd.Flags().GetString(inputFlag)

		records, err := convert.Load(input)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		repo, err := store.Open(ctx, cfg.Storage, logger)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer repo.Close(context.Background())

		logger.Warn("seeding bypasses listing validation", "input", input, "records", len(records))
		inserted, invalid, err := seed(ctx, repo, records)
		if err != nil {
			return err
		}
		logger.Info("seed finished", "inserted", inserted, "would_fail_validation", invalid)
		return nil
	},
}

// checkSeedDriver rejects storage that does not outlive the process.
func checkSeedDriver(driver string) error {
	if driver == config.DriverMemory || driver == "" {
		return fmt.Errorf("seed needs persistent storage: set storage.driver to %s or %s",
			config.DriverMongo, config.DriverPostgres)
	}
	return nil
}

func seed(ctx context.Context, repo store.Repository, records []convert.Record) (inserted, invalid int, err error) {
	for i, rec := range records {
		car := rec.Car()
		if dal.Validate(car) != nil {
			invalid++
		}
		if _, err := repo.Create(ctx, car); err != nil {
			return inserted, invalid, fmt.Errorf("insert record %d: %w", i, err)
		}
		inserted++
	}
	return inserted, invalid, nil
}
