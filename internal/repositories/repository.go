package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	apperrors "tarsier/pkg/errors"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type scanFunc[T any] func(row pgx.Row) (*T, error)

// fetchPage выполняет COUNT и затем SELECT. Нулевой total не делает второй запрос.
func fetchPage[T any](ctx context.Context, q Querier, countBuilder, selectBuilder sq.SelectBuilder, scan scanFunc[T]) ([]T, uint64, error) {
	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []T{}, 0, nil
	}

	items, err := fetchAll(ctx, q, selectBuilder, scan)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func fetchAll[T any](ctx context.Context, q Querier, builder sq.SelectBuilder, scan scanFunc[T]) ([]T, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func fetchOne[T any](ctx context.Context, q Querier, builder sq.SelectBuilder, scan scanFunc[T]) (*T, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return scan(q.QueryRow(ctx, query, args...))
}

// scanErr переводит pgx.ErrNoRows в ErrNotFound.
func scanErr(entity string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("ошибка сканирования %s: %w", entity, err)
}

func execAffecting(ctx context.Context, q Querier, query string, args ...interface{}) error {
	result, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
