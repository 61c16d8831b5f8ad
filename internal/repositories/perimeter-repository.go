package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tarsier/internal/entities"
	"tarsier/internal/infrastructure/bd"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/types"
)

var perimeterMap = map[string]string{
	"id":         "p.id",
	"code":       "p.code",
	"statut":     "p.active",
	"created_at": "p.created_at",
	"updated_at": "p.updated_at",
}

var perimeterColumns = []string{
	"p.id", "p.code", "p.description", "p.active", "p.photo_url", "p.thumb_url",
	"p.created_by", "p.created_at", "p.updated_at",
}

type PerimeterRepositoryInterface interface {
	GetPerimeters(ctx context.Context, filter types.Filter) ([]entities.Perimeter, uint64, error)
	GetActivePerimeters(ctx context.Context) ([]entities.Perimeter, error)
	FindPerimeter(ctx context.Context, id uint64) (*entities.Perimeter, error)
	FindByCode(ctx context.Context, code string) (*entities.Perimeter, error)
	FindForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Perimeter, error)
	CreatePerimeter(ctx context.Context, tx pgx.Tx, perimeter entities.Perimeter) (uint64, error)
	UpdatePerimeter(ctx context.Context, tx pgx.Tx, perimeter entities.Perimeter) error
	DeletePerimeter(ctx context.Context, id uint64) error
	AddPlanChange(ctx context.Context, tx pgx.Tx, change entities.PerimeterPlanChange) error
	ListPlanChanges(ctx context.Context, perimeterID uint64) ([]entities.PerimeterPlanChange, error)
}

type PerimeterRepository struct {
	storage *pgxpool.Pool
}

func NewPerimeterRepository(storage *pgxpool.Pool) PerimeterRepositoryInterface {
	return &PerimeterRepository{storage: storage}
}

func scanPerimeter(row pgx.Row) (*entities.Perimeter, error) {
	var p entities.Perimeter
	err := row.Scan(&p.ID, &p.Code, &p.Description, &p.Active, &p.PhotoURL, &p.ThumbURL,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, scanErr("perimeter", err)
	}
	return &p, nil
}

func scanPlanChange(row pgx.Row) (*entities.PerimeterPlanChange, error) {
	var c entities.PerimeterPlanChange
	if err := row.Scan(&c.ID, &c.PerimeterID, &c.PhotoURL, &c.ThumbURL, &c.ChangeDate); err != nil {
		return nil, scanErr("perimeter plan", err)
	}
	return &c, nil
}

func (r *PerimeterRepository) GetPerimeters(ctx context.Context, filter types.Filter) ([]entities.Perimeter, uint64, error) {
	countBuilder := bd.ApplySearch(psql.Select("COUNT(p.id)").From("perimeters p"), filter.Search, "p.code", "p.description")
	countBuilder = bd.ApplyListParams(countBuilder, bd.CountFilter(filter), perimeterMap)

	selectBuilder := bd.ApplySearch(psql.Select(perimeterColumns...).From("perimeters p"), filter.Search, "p.code", "p.description")
	if len(filter.Sort) == 0 {
		selectBuilder = selectBuilder.OrderBy("p.code")
	}
	selectBuilder = bd.ApplyListParams(selectBuilder, filter, perimeterMap)

	return fetchPage(ctx, r.storage, countBuilder, selectBuilder, scanPerimeter)
}

func (r *PerimeterRepository) GetActivePerimeters(ctx context.Context) ([]entities.Perimeter, error) {
	builder := psql.Select(perimeterColumns...).From("perimeters p").Where(sq.Eq{"p.active": true}).OrderBy("p.code")
	return fetchAll(ctx, r.storage, builder, scanPerimeter)
}

func (r *PerimeterRepository) FindPerimeter(ctx context.Context, id uint64) (*entities.Perimeter, error) {
	return fetchOne(ctx, r.storage, psql.Select(perimeterColumns...).From("perimeters p").Where(sq.Eq{"p.id": id}), scanPerimeter)
}

func (r *PerimeterRepository) FindByCode(ctx context.Context, code string) (*entities.Perimeter, error) {
	return fetchOne(ctx, r.storage, psql.Select(perimeterColumns...).From("perimeters p").Where(sq.Eq{"p.code": code}), scanPerimeter)
}

func (r *PerimeterRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Perimeter, error) {
	builder := psql.Select(perimeterColumns...).From("perimeters p").Where(sq.Eq{"p.id": id}).Suffix("FOR UPDATE")
	return fetchOne(ctx, tx, builder, scanPerimeter)
}

func (r *PerimeterRepository) CreatePerimeter(ctx context.Context, tx pgx.Tx, p entities.Perimeter) (uint64, error) {
	query := `
		INSERT INTO perimeters (code, description, active, photo_url, thumb_url, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id
	`
	var id uint64
	err := tx.QueryRow(ctx, query, p.Code, p.Description, p.Active, p.PhotoURL, p.ThumbURL, p.CreatedBy).Scan(&id)
	if pgErrorCode(err) == pgUniqueViolation {
		return 0, apperrors.ErrPerimeterCodeExists
	}
	return id, err
}

func (r *PerimeterRepository) UpdatePerimeter(ctx context.Context, tx pgx.Tx, p entities.Perimeter) error {
	query := `
		UPDATE perimeters
		SET code = $1, description = $2, active = $3, photo_url = $4, thumb_url = $5, updated_at = NOW()
		WHERE id = $6
	`
	err := execAffecting(ctx, tx, query, p.Code, p.Description, p.Active, p.PhotoURL, p.ThumbURL, p.ID)
	if pgErrorCode(err) == pgUniqueViolation {
		return apperrors.ErrPerimeterCodeExists
	}
	return err
}

func (r *PerimeterRepository) DeletePerimeter(ctx context.Context, id uint64) error {
	return execAffecting(ctx, r.storage, `DELETE FROM perimeters WHERE id = $1`, id)
}

func (r *PerimeterRepository) AddPlanChange(ctx context.Context, tx pgx.Tx, c entities.PerimeterPlanChange) error {
	changeDate := c.ChangeDate
	if changeDate.IsZero() {
		changeDate = time.Now().UTC()
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO perimeter_plan_changes (perimeter_id, photo_url, thumb_url, change_date) VALUES ($1, $2, $3, $4)`,
		c.PerimeterID, c.PhotoURL, c.ThumbURL, changeDate,
	)
	return err
}

func (r *PerimeterRepository) ListPlanChanges(ctx context.Context, perimeterID uint64) ([]entities.PerimeterPlanChange, error) {
	builder := psql.Select("id", "perimeter_id", "photo_url", "thumb_url", "change_date").
		From("perimeter_plan_changes").
		Where(sq.Eq{"perimeter_id": perimeterID}).
		OrderBy("change_date DESC", "id DESC")
	return fetchAll(ctx, r.storage, builder, scanPlanChange)
}
