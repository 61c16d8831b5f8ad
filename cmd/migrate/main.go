package main

import (
	"context"
	"flag"
	"log"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"tarsier/migrations"
	"tarsier/pkg/config"
	"tarsier/pkg/database/postgresql"
	applogger "tarsier/pkg/logger"
)

func main() {
	command := flag.String("command", "up", "команда goose: up, down, status, redo, reset")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		log.Fatalf("БД: %v", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("goose: %v", err)
	}
	if err := goose.RunContext(ctx, *command, db, "."); err != nil {
		log.Fatalf("❌ миграции (%s): %v", *command, err)
	}
	log.Printf("✅ миграции: %s выполнено", *command)
}
