package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tarsier/pkg/config"
	"tarsier/pkg/utils"
)

func seedAdmin(ctx context.Context, db *pgxpool.Pool, cfg config.SeedConfig) error {
	log.Printf("  - Создание пользователя '%s'...", cfg.AdminEmail)

	var userID uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", cfg.AdminEmail).Scan(&userID)
	if err == nil {
		log.Println("    - Администратор уже существует. Пропускаем.")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка при проверке существования пользователя: %w", err)
	}

	// Без пароля администратор задаёт его сам через create-password.
	var password *string
	if cfg.AdminPassword != "" {
		hashed, err := utils.HashPassword(cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("не удалось хешировать пароль: %w", err)
		}
		password = &hashed
	}

	_, err = db.Exec(ctx, `
		INSERT INTO users (first_name, last_name, email, password, is_admin, created_at)
		VALUES ($1, $2, $3, $4, TRUE, NOW())`,
		cfg.AdminFirstName, cfg.AdminLastName, cfg.AdminEmail, password,
	)
	if err != nil {
		return fmt.Errorf("не удалось создать администратора: %w", err)
	}
	log.Println("    - Администратор создан.")
	return nil
}
