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

var bookingMap = map[string]string{
	"id":            "b.id",
	"userId":        "b.user_id",
	"equipId":       "b.equipment_id",
	"perimeterId":   "b.perimeter_id",
	"typeMissionId": "b.mission_type_id",
	"statut":        "b.status",
	"start":         "b.start_at",
	"end":           "b.end_at",
	"createdOn":     "b.created_at",
}

var bookingColumns = []string{
	"b.id", "b.reservation_number", "b.user_id", "b.created_by", "b.equipment_id",
	"b.perimeter_id", "b.mission_type_id", "b.start_at", "b.end_at", "b.status", "b.created_at",
}

var bookingViewColumns = append(append([]string{}, bookingColumns...),
	"COALESCE(u.first_name || ' ' || u.last_name, '')",
	"COALESCE(e.code, '')",
	"COALESCE(p.code, '')",
	"COALESCE(mt.name, '')",
)

// BookingReservationStore - то, что нужно атомарной проверке и вставке бронирования.
type BookingReservationStore interface {
	LockEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) error
	FindOverlapping(ctx context.Context, tx pgx.Tx, equipmentID uint64, r entities.TimeRange) ([]entities.Booking, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, booking entities.Booking) (*entities.Booking, error)
}

type BookingRepositoryInterface interface {
	BookingReservationStore
	FindBooking(ctx context.Context, id uint64) (*entities.Booking, error)
	GetBookings(ctx context.Context, filter types.Filter) ([]entities.BookingView, uint64, error)
	GetBookingsInRange(ctx context.Context, r entities.TimeRange) ([]entities.BookingView, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	DeleteBooking(ctx context.Context, id uint64) error
}

type BookingRepository struct {
	storage *pgxpool.Pool
}

func NewBookingRepository(storage *pgxpool.Pool) BookingRepositoryInterface {
	return &BookingRepository{storage: storage}
}

func scanBooking(row pgx.Row) (*entities.Booking, error) {
	var b entities.Booking
	err := row.Scan(
		&b.ID, &b.ReservationNumber, &b.UserID, &b.CreatedBy, &b.EquipmentID,
		&b.PerimeterID, &b.MissionTypeID, &b.Start, &b.End, &b.Status, &b.CreatedAt,
	)
	if err != nil {
		return nil, scanErr("booking", err)
	}
	return &b, nil
}

func scanBookingView(row pgx.Row) (*entities.BookingView, error) {
	var v entities.BookingView
	b := &v.Booking
	err := row.Scan(
		&b.ID, &b.ReservationNumber, &b.UserID, &b.CreatedBy, &b.EquipmentID,
		&b.PerimeterID, &b.MissionTypeID, &b.Start, &b.End, &b.Status, &b.CreatedAt,
		&v.UserName, &v.EquipmentCode, &v.PerimeterCode, &v.MissionTypeName,
	)
	if err != nil {
		return nil, scanErr("booking", err)
	}
	return &v, nil
}

func (r *BookingRepository) viewBuilder(columns ...string) sq.SelectBuilder {
	return psql.Select(columns...).
		From("bookings b").
		LeftJoin("users u ON u.id = b.user_id").
		LeftJoin("equipments e ON e.id = b.equipment_id").
		LeftJoin("perimeters p ON p.id = b.perimeter_id").
		LeftJoin("mission_types mt ON mt.id = b.mission_type_id")
}

// overlapCondition - закрытые интервалы, касание концами считается пересечением.
func overlapCondition(tr entities.TimeRange) sq.Or {
	return sq.Or{
		sq.And{sq.GtOrEq{"b.start_at": tr.Start}, sq.LtOrEq{"b.start_at": tr.End}},
		sq.And{sq.GtOrEq{"b.end_at": tr.Start}, sq.LtOrEq{"b.end_at": tr.End}},
		sq.And{sq.LtOrEq{"b.start_at": tr.Start}, sq.GtOrEq{"b.end_at": tr.End}},
	}
}

// LockEquipment берёт транзакционный advisory lock по id оборудования.
// Конкурирующие бронирования того же оборудования ждут коммита или отката.
func (r *BookingRepository) LockEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) error {
	_, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", int64(equipmentID))
	return err
}

func (r *BookingRepository) FindOverlapping(ctx context.Context, tx pgx.Tx, equipmentID uint64, tr entities.TimeRange) ([]entities.Booking, error) {
	builder := psql.Select(bookingColumns...).
		From("bookings b").
		Where(sq.Eq{"b.equipment_id": equipmentID}).
		Where(overlapCondition(tr)).
		OrderBy("b.start_at")
	return fetchAll(ctx, pick(r.storage, tx), builder, scanBooking)
}

func (r *BookingRepository) CreateInTx(ctx context.Context, tx pgx.Tx, b entities.Booking) (*entities.Booking, error) {
	query := `
		INSERT INTO bookings (reservation_number, user_id, created_by, equipment_id, perimeter_id, mission_type_id, start_at, end_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, reservation_number, user_id, created_by, equipment_id, perimeter_id, mission_type_id, start_at, end_at, status, created_at
	`
	saved, err := scanBooking(tx.QueryRow(ctx, query,
		b.ReservationNumber, b.UserID, b.CreatedBy, b.EquipmentID,
		b.PerimeterID, b.MissionTypeID, b.Start, b.End, b.Status,
	))
	if pgErrorCode(err) == pgExclusionViolation {
		return nil, apperrors.ErrOverlap
	}
	return saved, err
}

func (r *BookingRepository) FindBooking(ctx context.Context, id uint64) (*entities.Booking, error) {
	return fetchOne(ctx, r.storage, psql.Select(bookingColumns...).From("bookings b").Where(sq.Eq{"b.id": id}), scanBooking)
}

func (r *BookingRepository) GetBookings(ctx context.Context, filter types.Filter) ([]entities.BookingView, uint64, error) {
	countBuilder := bd.ApplySearch(r.viewBuilder("COUNT(b.id)"), filter.Search, "b.reservation_number", "e.code", "p.code")
	countBuilder = bd.ApplyListParams(countBuilder, bd.CountFilter(filter), bookingMap)

	selectBuilder := bd.ApplySearch(r.viewBuilder(bookingViewColumns...), filter.Search, "b.reservation_number", "e.code", "p.code")
	if len(filter.Sort) == 0 {
		selectBuilder = selectBuilder.OrderBy("b.start_at DESC")
	}
	selectBuilder = bd.ApplyListParams(selectBuilder, filter, bookingMap)

	return fetchPage(ctx, r.storage, countBuilder, selectBuilder, scanBookingView)
}

// GetBookingsInRange - бронирования, пересекающие окно календаря.
func (r *BookingRepository) GetBookingsInRange(ctx context.Context, tr entities.TimeRange) ([]entities.BookingView, error) {
	builder := r.viewBuilder(bookingViewColumns...).Where(overlapCondition(tr)).OrderBy("b.start_at")
	return fetchAll(ctx, r.storage, builder, scanBookingView)
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	return execAffecting(ctx, r.storage, `UPDATE bookings SET status = $1 WHERE id = $2`, status, id)
}

func (r *BookingRepository) DeleteBooking(ctx context.Context, id uint64) error {
	return execAffecting(ctx, r.storage, `DELETE FROM bookings WHERE id = $1`, id)
}
