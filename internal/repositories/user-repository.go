package repositories

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tarsier/internal/entities"
	"tarsier/internal/infrastructure/bd"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/types"
)

var userMap = map[string]string{
	"id":        "u.id",
	"email":     "u.email",
	"firstName": "u.first_name",
	"lastName":  "u.last_name",
	"isAdmin":   "u.is_admin",
	"createdOn": "u.created_at",
}

var userColumns = []string{
	"u.id", "u.first_name", "u.last_name", "u.email", "u.password",
	"u.is_admin", "u.created_by", "u.created_at", "u.last_sign_in",
}

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindAdmins(ctx context.Context) ([]entities.User, error)
	CreateUser(ctx context.Context, user entities.User) (uint64, error)
	UpdateUser(ctx context.Context, user entities.User) error
	DeleteUser(ctx context.Context, id uint64) error
	SetPassword(ctx context.Context, id uint64, hash string) error
	TouchLastSignIn(ctx context.Context, id uint64) error
}

type UserRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &UserRepository{storage: storage}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password,
		&u.IsAdmin, &u.CreatedBy, &u.CreatedAt, &u.LastSignIn,
	)
	if err != nil {
		return nil, scanErr("user", err)
	}
	return &u, nil
}

func (r *UserRepository) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	searchCols := []string{"u.first_name", "u.last_name", "u.email"}

	countBuilder := bd.ApplySearch(psql.Select("COUNT(u.id)").From("users u"), filter.Search, searchCols...)
	countBuilder = bd.ApplyListParams(countBuilder, bd.CountFilter(filter), userMap)

	selectBuilder := bd.ApplySearch(psql.Select(userColumns...).From("users u"), filter.Search, searchCols...)
	if len(filter.Sort) == 0 {
		selectBuilder = selectBuilder.OrderBy("u.last_name", "u.first_name")
	}
	selectBuilder = bd.ApplyListParams(selectBuilder, filter, userMap)

	return fetchPage(ctx, r.storage, countBuilder, selectBuilder, scanUser)
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	user, err := fetchOne(ctx, r.storage, psql.Select(userColumns...).From("users u").Where(sq.Eq{"u.id": id}), scanUser)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	return user, err
}

// FindByEmail сравнивает без учёта регистра.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	builder := psql.Select(userColumns...).From("users u").
		Where(sq.Expr("LOWER(u.email) = ?", strings.ToLower(strings.TrimSpace(email))))
	user, err := fetchOne(ctx, r.storage, builder, scanUser)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	return user, err
}

func (r *UserRepository) FindAdmins(ctx context.Context) ([]entities.User, error) {
	return fetchAll(ctx, r.storage, psql.Select(userColumns...).From("users u").Where(sq.Eq{"u.is_admin": true}), scanUser)
}

func (r *UserRepository) CreateUser(ctx context.Context, u entities.User) (uint64, error) {
	query := `
		INSERT INTO users (first_name, last_name, email, password, is_admin, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id
	`
	var id uint64
	err := r.storage.QueryRow(ctx, query,
		u.FirstName, u.LastName, strings.ToLower(strings.TrimSpace(u.Email)), u.Password, u.IsAdmin, u.CreatedBy,
	).Scan(&id)
	if pgErrorCode(err) == pgUniqueViolation {
		return 0, apperrors.ErrEmailExists
	}
	return id, err
}

func (r *UserRepository) UpdateUser(ctx context.Context, u entities.User) error {
	query := `UPDATE users SET first_name = $1, last_name = $2, email = $3, is_admin = $4 WHERE id = $5`
	err := execAffecting(ctx, r.storage, query, u.FirstName, u.LastName, strings.ToLower(strings.TrimSpace(u.Email)), u.IsAdmin, u.ID)
	if pgErrorCode(err) == pgUniqueViolation {
		return apperrors.ErrEmailExists
	}
	return err
}

func (r *UserRepository) DeleteUser(ctx context.Context, id uint64) error {
	return execAffecting(ctx, r.storage, `DELETE FROM users WHERE id = $1`, id)
}

func (r *UserRepository) SetPassword(ctx context.Context, id uint64, hash string) error {
	return execAffecting(ctx, r.storage, `UPDATE users SET password = $1 WHERE id = $2`, hash, id)
}

func (r *UserRepository) TouchLastSignIn(ctx context.Context, id uint64) error {
	return execAffecting(ctx, r.storage, `UPDATE users SET last_sign_in = NOW() WHERE id = $1`, id)
}
