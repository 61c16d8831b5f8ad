package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedMissionTypes(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'mission_types'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO mission_types (name, active) VALUES ($1, TRUE)
			  ON CONFLICT (name) DO NOTHING`

	for _, name := range missionTypesData {
		if _, err := tx.Exec(ctx, query, name); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
