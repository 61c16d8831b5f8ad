package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tarsier/internal/entities"
)

// EquipmentChangeRepositoryInterface - журнал коэффициентов. Только вставка и чтение.
type EquipmentChangeRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, equipmentID uint64, factor float64, at time.Time) error
	ListByEquipment(ctx context.Context, equipmentID uint64) ([]entities.EquipmentFactorChange, error)
}

type EquipmentChangeRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentChangeRepository(storage *pgxpool.Pool) EquipmentChangeRepositoryInterface {
	return &EquipmentChangeRepository{storage: storage}
}

func scanFactorChange(row pgx.Row) (*entities.EquipmentFactorChange, error) {
	var c entities.EquipmentFactorChange
	if err := row.Scan(&c.ID, &c.EquipmentID, &c.Factor, &c.ChangeDate); err != nil {
		return nil, scanErr("equipment factor change", err)
	}
	return &c, nil
}

func (r *EquipmentChangeRepository) CreateInTx(ctx context.Context, tx pgx.Tx, equipmentID uint64, factor float64, at time.Time) error {
	query := `INSERT INTO equipment_factor_changes (equipment_id, factor, change_date) VALUES ($1, $2, $3)`
	_, err := tx.Exec(ctx, query, equipmentID, factor, at)
	return err
}

// ListByEquipment - весь журнал, новые записи первыми.
func (r *EquipmentChangeRepository) ListByEquipment(ctx context.Context, equipmentID uint64) ([]entities.EquipmentFactorChange, error) {
	builder := psql.Select("id", "equipment_id", "factor", "change_date").
		From("equipment_factor_changes").
		Where(sq.Eq{"equipment_id": equipmentID}).
		OrderBy("change_date DESC", "id DESC")
	return fetchAll(ctx, r.storage, builder, scanFactorChange)
}
