package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tarsier/internal/entities"
)

type FrequencyRepositoryInterface interface {
	GetFrequency(ctx context.Context) (*entities.ControlFrequency, error)
	SaveFrequency(ctx context.Context, f entities.ControlFrequency) error
}

type FrequencyRepository struct {
	storage *pgxpool.Pool
}

func NewFrequencyRepository(storage *pgxpool.Pool) FrequencyRepositoryInterface {
	return &FrequencyRepository{storage: storage}
}

func scanFrequency(row pgx.Row) (*entities.ControlFrequency, error) {
	var f entities.ControlFrequency
	err := row.Scan(&f.ID, &f.Band0To100, &f.Band100To500, &f.Band500To1500, &f.Band1500Plus, &f.Horizon)
	if err != nil {
		return nil, scanErr("control frequency", err)
	}
	return &f, nil
}

func (r *FrequencyRepository) GetFrequency(ctx context.Context) (*entities.ControlFrequency, error) {
	builder := psql.Select("id", "band_0_100", "band_100_500", "band_500_1500", "band_1500_plus", "horizon").
		From("control_frequency").
		OrderBy("id").
		Limit(1)
	return fetchOne(ctx, r.storage, builder, scanFrequency)
}

// SaveFrequency - таблица держит одну строку с id = 1.
func (r *FrequencyRepository) SaveFrequency(ctx context.Context, f entities.ControlFrequency) error {
	query := `
		INSERT INTO control_frequency (id, band_0_100, band_100_500, band_500_1500, band_1500_plus, horizon)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			band_0_100 = EXCLUDED.band_0_100,
			band_100_500 = EXCLUDED.band_100_500,
			band_500_1500 = EXCLUDED.band_500_1500,
			band_1500_plus = EXCLUDED.band_1500_plus,
			horizon = EXCLUDED.horizon
	`
	_, err := r.storage.Exec(ctx, query, f.Band0To100, f.Band100To500, f.Band500To1500, f.Band1500Plus, f.Horizon)
	return err
}
