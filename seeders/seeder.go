package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"tarsier/pkg/config"
)

// SeedDictionaries наполняет типы миссий и настройки периодичности контроля.
func SeedDictionaries(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("▶️  Запуск наполнения справочников...")

	if err := seedMissionTypes(ctx, db); err != nil {
		return fmt.Errorf("типы миссий: %w", err)
	}
	if err := seedControlFrequency(ctx, db); err != nil {
		return fmt.Errorf("периодичность контроля: %w", err)
	}
	log.Println("✅ Наполнение справочников завершено!")
	return nil
}

// SeedAdmin создаёт администратора из переменных окружения.
func SeedAdmin(ctx context.Context, db *pgxpool.Pool, cfg config.SeedConfig) error {
	log.Println("▶️  Создание администратора...")
	if err := seedAdmin(ctx, db, cfg); err != nil {
		return fmt.Errorf("администратор: %w", err)
	}
	log.Println("✅ Администратор готов!")
	return nil
}
