package main

import (
	"context"
	"flag"
	"os"

	"employee-system/pkg/config"
	"employee-system/pkg/database/migrations"
	"employee-system/pkg/database/postgresql"
	applogger "employee-system/pkg/logger"
	"employee-system/seeders"

	"go.uber.org/zap"
)

func main() {
	runRoles := flag.Bool("roles", false, "Seed the role catalog (Admin, Manager, Employee)")
	runAdmin := flag.Bool("admin", false, "Create the first Admin with a login account")
	runAll := flag.Bool("all", false, "Run every seeder (equivalent to -roles -admin)")
	flag.Parse()

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer func() { _ = logger.Sync() }()

	if !*runRoles && !*runAdmin && !*runAll {
		logger.Warn("no seeder selected, available flags follow")
		flag.PrintDefaults()
		os.Exit(2)
	}

	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	if err := migrations.Up(dbPool); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	ctx := context.Background()
	seeder := seeders.New(dbPool, logger)

	if *runAll || *runRoles {
		if err := seeder.SeedRoles(ctx); err != nil {
			logger.Fatal("role seeding failed", zap.Error(err))
		}
	}
	if *runAll || *runAdmin {
		if err := seeder.SeedAdmin(ctx, &cfg.Seed); err != nil {
			logger.Fatal("admin seeding failed", zap.Error(err))
		}
	}

	logger.Info("seeding finished")
}
