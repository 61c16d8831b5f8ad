package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tarsier/internal/entities"
	"tarsier/internal/infrastructure/bd"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/types"
)

var equipmentMap = map[string]string{
	"id":          "e.id",
	"code":        "e.code",
	"statut":      "e.active",
	"typeEquipId": "e.equipment_type_id",
	"facteur":     "e.factor",
	"created_at":  "e.created_at",
}

var equipmentColumns = []string{
	"e.id", "e.code", "e.description", "e.equipment_type_id", "e.active", "e.photo_url",
	"e.factor", "e.created_by", "e.created_at", "e.updated_at",
	"COALESCE(et.id, 0)", "COALESCE(et.name, '')",
}

// EquipmentFinder - чтение текущего состояния оборудования.
type EquipmentFinder interface {
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
}

type EquipmentRepositoryInterface interface {
	EquipmentFinder
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	GetActiveEquipments(ctx context.Context) ([]entities.Equipment, error)
	FindByCode(ctx context.Context, code string) (*entities.Equipment, error)
	FindForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, tx pgx.Tx, equipment entities.Equipment) (uint64, error)
	UpdateEquipment(ctx context.Context, tx pgx.Tx, equipment entities.Equipment) error
	DeleteEquipment(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	var et entities.CatalogItem
	err := row.Scan(
		&e.ID, &e.Code, &e.Description, &e.EquipmentTypeID, &e.Active, &e.PhotoURL,
		&e.Factor, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		&et.ID, &et.Name,
	)
	if err != nil {
		return nil, scanErr("equipment", err)
	}
	if et.ID > 0 {
		e.EquipmentType = &et
	}
	return &e, nil
}

func (r *EquipmentRepository) selectBuilder() sq.SelectBuilder {
	return psql.Select(equipmentColumns...).
		From("equipments e").
		LeftJoin("equipment_types et ON et.id = e.equipment_type_id")
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	countBuilder := bd.ApplySearch(psql.Select("COUNT(e.id)").From("equipments e"), filter.Search, "e.code", "e.description")
	countBuilder = bd.ApplyListParams(countBuilder, bd.CountFilter(filter), equipmentMap)

	selectBuilder := bd.ApplySearch(r.selectBuilder(), filter.Search, "e.code", "e.description")
	if len(filter.Sort) == 0 {
		selectBuilder = selectBuilder.OrderBy("e.id DESC")
	}
	selectBuilder = bd.ApplyListParams(selectBuilder, filter, equipmentMap)

	return fetchPage(ctx, r.storage, countBuilder, selectBuilder, scanEquipment)
}

func (r *EquipmentRepository) GetActiveEquipments(ctx context.Context) ([]entities.Equipment, error) {
	return fetchAll(ctx, r.storage, r.selectBuilder().Where(sq.Eq{"e.active": true}).OrderBy("e.code"), scanEquipment)
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	return fetchOne(ctx, r.storage, r.selectBuilder().Where(sq.Eq{"e.id": id}), scanEquipment)
}

func (r *EquipmentRepository) FindByCode(ctx context.Context, code string) (*entities.Equipment, error) {
	return fetchOne(ctx, r.storage, r.selectBuilder().Where(sq.Eq{"e.code": code}), scanEquipment)
}

// FindForUpdate блокирует строку до конца транзакции.
func (r *EquipmentRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	builder := r.selectBuilder().Where(sq.Eq{"e.id": id}).Suffix("FOR UPDATE OF e")
	return fetchOne(ctx, tx, builder, scanEquipment)
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, tx pgx.Tx, e entities.Equipment) (uint64, error) {
	query := `
		INSERT INTO equipments (code, description, equipment_type_id, active, photo_url, factor, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id
	`
	var id uint64
	err := tx.QueryRow(ctx, query,
		e.Code, e.Description, e.EquipmentTypeID, e.Active, e.PhotoURL, e.Factor, e.CreatedBy,
	).Scan(&id)
	if pgErrorCode(err) == pgUniqueViolation {
		return 0, apperrors.ErrEquipmentCodeExists
	}
	return id, err
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, tx pgx.Tx, e entities.Equipment) error {
	query := `
		UPDATE equipments
		SET code = $1, description = $2, equipment_type_id = $3, active = $4, photo_url = $5, factor = $6, updated_at = NOW()
		WHERE id = $7
	`
	err := execAffecting(ctx, tx, query, e.Code, e.Description, e.EquipmentTypeID, e.Active, e.PhotoURL, e.Factor, e.ID)
	if pgErrorCode(err) == pgUniqueViolation {
		return apperrors.ErrEquipmentCodeExists
	}
	return err
}

// DeleteEquipment возвращает удалённую строку, её коэффициент уходит в журнал.
func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	query := `
		DELETE FROM equipments WHERE id = $1
		RETURNING id, code, description, equipment_type_id, active, photo_url, factor, created_by, created_at, updated_at
	`
	var e entities.Equipment
	err := tx.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Code, &e.Description, &e.EquipmentTypeID, &e.Active, &e.PhotoURL,
		&e.Factor, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, scanErr("equipment", err)
	}
	return &e, nil
}
