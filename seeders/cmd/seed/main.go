package main

import (
	"context"
	"flag"
	"log"

	"tarsier/pkg/config"
	"tarsier/pkg/database/postgresql"
	applogger "tarsier/pkg/logger"
	"tarsier/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runCore := flag.Bool("core", false, "Наполнить справочники (типы миссий, периодичность контроля)")
	runAdmin := flag.Bool("admin", false, "Создать администратора из SEED_ADMIN_*")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -core -admin)")
	flag.Parse()

	if !*runCore && !*runAdmin && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -core")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("❌ конфигурация: %v", err)
	}
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		log.Fatalf("❌ БД: %v", err)
	}
	defer dbPool.Close()

	if *runAll || *runCore {
		if err := seeders.SeedDictionaries(ctx, dbPool); err != nil {
			log.Fatalf("❌ %v", err)
		}
		log.Println("======================================================")
	}

	if *runAll || *runAdmin {
		if err := seeders.SeedAdmin(ctx, dbPool, cfg.Seed); err != nil {
			log.Fatalf("❌ %v", err)
		}
		log.Println("======================================================")
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
}
