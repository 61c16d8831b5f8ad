package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tarsier/internal/entities"
	"tarsier/internal/infrastructure/bd"
	"tarsier/pkg/types"
)

var catalogMap = map[string]string{
	"id":         "c.id",
	"name":       "c.name",
	"statut":     "c.active",
	"created_at": "c.created_at",
}

var catalogColumns = []string{
	"c.id", "c.name", "c.description", "c.active", "c.created_by", "c.created_at", "c.updated_at",
}

// CatalogRepositoryInterface обслуживает простые справочники с одинаковой схемой.
type CatalogRepositoryInterface interface {
	GetItems(ctx context.Context, filter types.Filter) ([]entities.CatalogItem, uint64, error)
	GetActiveItems(ctx context.Context) ([]entities.CatalogItem, error)
	FindItem(ctx context.Context, id uint64) (*entities.CatalogItem, error)
	FindByName(ctx context.Context, name string) (*entities.CatalogItem, error)
	CreateItem(ctx context.Context, item entities.CatalogItem) (uint64, error)
	UpdateItem(ctx context.Context, item entities.CatalogItem) error
	DeleteItem(ctx context.Context, id uint64) error
}

type CatalogRepository struct {
	storage *pgxpool.Pool
	table   string
}

func NewEquipmentTypeRepository(storage *pgxpool.Pool) CatalogRepositoryInterface {
	return &CatalogRepository{storage: storage, table: "equipment_types"}
}

func NewMissionTypeRepository(storage *pgxpool.Pool) CatalogRepositoryInterface {
	return &CatalogRepository{storage: storage, table: "mission_types"}
}

func scanCatalogItem(row pgx.Row) (*entities.CatalogItem, error) {
	var c entities.CatalogItem
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Active, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, scanErr("catalog item", err)
	}
	return &c, nil
}

func (r *CatalogRepository) from() string {
	return r.table + " c"
}

func (r *CatalogRepository) GetItems(ctx context.Context, filter types.Filter) ([]entities.CatalogItem, uint64, error) {
	countBuilder := bd.ApplySearch(psql.Select("COUNT(c.id)").From(r.from()), filter.Search, "c.name")
	countBuilder = bd.ApplyListParams(countBuilder, bd.CountFilter(filter), catalogMap)

	selectBuilder := bd.ApplySearch(psql.Select(catalogColumns...).From(r.from()), filter.Search, "c.name")
	if len(filter.Sort) == 0 {
		selectBuilder = selectBuilder.OrderBy("c.name")
	}
	selectBuilder = bd.ApplyListParams(selectBuilder, filter, catalogMap)

	return fetchPage(ctx, r.storage, countBuilder, selectBuilder, scanCatalogItem)
}

func (r *CatalogRepository) GetActiveItems(ctx context.Context) ([]entities.CatalogItem, error) {
	builder := psql.Select(catalogColumns...).From(r.from()).Where(sq.Eq{"c.active": true}).OrderBy("c.name")
	return fetchAll(ctx, r.storage, builder, scanCatalogItem)
}

func (r *CatalogRepository) FindItem(ctx context.Context, id uint64) (*entities.CatalogItem, error) {
	return fetchOne(ctx, r.storage, psql.Select(catalogColumns...).From(r.from()).Where(sq.Eq{"c.id": id}), scanCatalogItem)
}

func (r *CatalogRepository) FindByName(ctx context.Context, name string) (*entities.CatalogItem, error) {
	return fetchOne(ctx, r.storage, psql.Select(catalogColumns...).From(r.from()).Where(sq.Eq{"c.name": name}), scanCatalogItem)
}

func (r *CatalogRepository) CreateItem(ctx context.Context, item entities.CatalogItem) (uint64, error) {
	query, args, err := psql.Insert(r.table).
		Columns("name", "description", "active", "created_by", "created_at", "updated_at").
		Values(item.Name, item.Description, item.Active, item.CreatedBy, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id uint64
	err = r.storage.QueryRow(ctx, query, args...).Scan(&id)
	return id, err
}

func (r *CatalogRepository) UpdateItem(ctx context.Context, item entities.CatalogItem) error {
	query, args, err := psql.Update(r.table).
		Set("name", item.Name).
		Set("description", item.Description).
		Set("active", item.Active).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return err
	}
	return execAffecting(ctx, r.storage, query, args...)
}

func (r *CatalogRepository) DeleteItem(ctx context.Context, id uint64) error {
	query, args, err := psql.Delete(r.table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return execAffecting(ctx, r.storage, query, args...)
}
