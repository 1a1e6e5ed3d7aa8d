package main

import (
	"context"
	"os"

	"github.com/D3konR3kon/alx-backend-graphql-crm/config"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/database"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/logger"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/migrate"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	db := database.ConnectDB(&cfg.DB, log)
	defer database.CloseDB(db, log)

	if err := migrate.MigrateCRMDB(context.Background(), db, log, migrate.DefaultMigrateOptions()); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("migration completed")
}
