package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// seedControlFrequency не трогает уже настроенную строку.
func seedControlFrequency(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'control_frequency'...")

	f := defaultFrequency
	_, err := db.Exec(ctx, `
		INSERT INTO control_frequency (id, band_0_100, band_100_500, band_500_1500, band_1500_plus, horizon)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		f.Band0To100, f.Band100To500, f.Band500To1500, f.Band1500Plus, f.Horizon,
	)
	return err
}
