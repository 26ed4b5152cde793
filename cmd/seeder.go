package cmd

import (
	"context"
	"log"

	"github.com/barefootnomad/backend/internal/seed"
	"github.com/barefootnomad/backend/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with roles and a sample company, users and facility for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		initLogger(cfg)
		lg := logger.LoggerWrapper()

		db, err := sqlx.Connect("pgx", cfg.Database.GetDSN())
		if err != nil {
			log.Fatalf("failed to connect db: %v", err)
		}
		defer db.Close()

		ctx := context.Background()
		seeder := seed.New(db, cfg.Security.BCryptCost, lg)

		if clearData {
			if err := seeder.Clear(ctx); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
		}

		if err := seeder.Run(ctx); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		lg.Info("database seeded", "company", seed.SampleCompany)
	},
}
