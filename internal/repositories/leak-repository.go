package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tarsier/internal/dto"
	"tarsier/internal/entities"
)

var leakColumns = []string{
	"l.id", "l.name", "l.booking_id", "l.leak_date",
	"l.gain", "l.db_rms", "l.k", "l.flow", "l.cost", "l.currency", "l.img_url", "l.coord",
	"l.action_pilot", "l.action_deadline", "l.action_description", "l.action_cost",
	"l.action_status", "l.action_type", "l.is_validated", "l.created_by", "l.created_at",
}

var leakReportColumns = append(append([]string{}, leakColumns...),
	"b.reservation_number", "b.start_at", "b.end_at",
	"COALESCE(u.first_name || ' ' || u.last_name, '')",
	"b.perimeter_id", "COALESCE(p.code, '')",
	"b.mission_type_id", "COALESCE(mt.name, '')",
	"b.equipment_id", "COALESCE(e.code, '')",
)

// finalGainExpr повторяет entities.Leak.FinalGain на стороне БД.
const finalGainExpr = "CASE WHEN l.action_status = 'Clôturé' THEN COALESCE(l.cost, 0) - COALESCE(l.action_cost, 0) ELSE 0 END"

type LeakRepositoryInterface interface {
	GetLeaks(ctx context.Context, filter dto.LeakFilterDTO) ([]entities.LeakReportItem, uint64, error)
	GetLeaksByBooking(ctx context.Context, bookingID uint64) ([]entities.Leak, error)
	FindLeak(ctx context.Context, id uint64) (*entities.Leak, error)
	CreateLeak(ctx context.Context, leak entities.Leak) (uint64, error)
	UpdateLeak(ctx context.Context, leak entities.Leak) error
	DeleteLeak(ctx context.Context, id uint64) error
	GainByPerimeter(ctx context.Context, from, to time.Time) ([]entities.GainBucket, error)
}

type LeakRepository struct {
	storage *pgxpool.Pool
}

func NewLeakRepository(storage *pgxpool.Pool) LeakRepositoryInterface {
	return &LeakRepository{storage: storage}
}

func leakScanTargets(l *entities.Leak) []interface{} {
	return []interface{}{
		&l.ID, &l.Name, &l.BookingID, &l.LeakDate,
		&l.Gain, &l.DbRms, &l.K, &l.Flow, &l.Cost, &l.Currency, &l.ImgURL, &l.Coord,
		&l.ActionPilot, &l.ActionDeadline, &l.ActionDescription, &l.ActionCost,
		&l.ActionStatus, &l.ActionType, &l.IsValidated, &l.CreatedBy, &l.CreatedAt,
	}
}

func scanLeak(row pgx.Row) (*entities.Leak, error) {
	var l entities.Leak
	if err := row.Scan(leakScanTargets(&l)...); err != nil {
		return nil, scanErr("leak", err)
	}
	return &l, nil
}

func scanLeakReportItem(row pgx.Row) (*entities.LeakReportItem, error) {
	var item entities.LeakReportItem
	targets := append(leakScanTargets(&item.Leak),
		&item.ReservationNumber, &item.BookingStart, &item.BookingEnd, &item.UserName,
		&item.PerimeterID, &item.PerimeterCode,
		&item.MissionTypeID, &item.MissionTypeName,
		&item.EquipmentID, &item.EquipmentCode,
	)
	if err := row.Scan(targets...); err != nil {
		return nil, scanErr("leak report", err)
	}
	return &item, nil
}

func (r *LeakRepository) reportBuilder(columns ...string) sq.SelectBuilder {
	return psql.Select(columns...).
		From("leaks l").
		Join("bookings b ON b.id = l.booking_id").
		LeftJoin("users u ON u.id = b.user_id").
		LeftJoin("perimeters p ON p.id = b.perimeter_id").
		LeftJoin("mission_types mt ON mt.id = b.mission_type_id").
		LeftJoin("equipments e ON e.id = b.equipment_id")
}

func applyLeakFilter(builder sq.SelectBuilder, f dto.LeakFilterDTO) sq.SelectBuilder {
	if f.PerimeterID > 0 {
		builder = builder.Where(sq.Eq{"b.perimeter_id": f.PerimeterID})
	}
	if f.MissionTypeID > 0 {
		builder = builder.Where(sq.Eq{"b.mission_type_id": f.MissionTypeID})
	}
	if f.ActionStatus != "" {
		builder = builder.Where(sq.Eq{"l.action_status": f.ActionStatus})
	}
	if f.ActionType != "" {
		builder = builder.Where(sq.Eq{"l.action_type": f.ActionType})
	}
	if f.Start != nil {
		builder = builder.Where(sq.GtOrEq{"b.start_at": *f.Start})
	}
	if f.End != nil {
		builder = builder.Where(sq.LtOrEq{"b.start_at": *f.End})
	}
	return builder
}

func (r *LeakRepository) GetLeaks(ctx context.Context, f dto.LeakFilterDTO) ([]entities.LeakReportItem, uint64, error) {
	countBuilder := applyLeakFilter(r.reportBuilder("COUNT(l.id)"), f)

	selectBuilder := applyLeakFilter(r.reportBuilder(leakReportColumns...), f).OrderBy("b.start_at DESC", "l.id DESC")
	if f.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(f.Offset))
	}

	return fetchPage(ctx, r.storage, countBuilder, selectBuilder, scanLeakReportItem)
}

func (r *LeakRepository) GetLeaksByBooking(ctx context.Context, bookingID uint64) ([]entities.Leak, error) {
	builder := psql.Select(leakColumns...).From("leaks l").Where(sq.Eq{"l.booking_id": bookingID}).OrderBy("l.id")
	return fetchAll(ctx, r.storage, builder, scanLeak)
}

func (r *LeakRepository) FindLeak(ctx context.Context, id uint64) (*entities.Leak, error) {
	return fetchOne(ctx, r.storage, psql.Select(leakColumns...).From("leaks l").Where(sq.Eq{"l.id": id}), scanLeak)
}

func (r *LeakRepository) CreateLeak(ctx context.Context, l entities.Leak) (uint64, error) {
	query, args, err := psql.Insert("leaks").
		Columns(
			"name", "booking_id", "leak_date", "gain", "db_rms", "k", "flow", "cost", "currency", "img_url", "coord",
			"action_pilot", "action_deadline", "action_description", "action_cost", "action_status", "action_type",
			"is_validated", "created_by", "created_at",
		).
		Values(
			l.Name, l.BookingID, l.LeakDate, l.Gain, l.DbRms, l.K, l.Flow, l.Cost, l.Currency, l.ImgURL, l.Coord,
			l.ActionPilot, l.ActionDeadline, l.ActionDescription, l.ActionCost, l.ActionStatus, l.ActionType,
			l.IsValidated, l.CreatedBy, sq.Expr("NOW()"),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id uint64
	err = r.storage.QueryRow(ctx, query, args...).Scan(&id)
	return id, err
}

func (r *LeakRepository) UpdateLeak(ctx context.Context, l entities.Leak) error {
	query, args, err := psql.Update("leaks").SetMap(map[string]interface{}{
		"name":               l.Name,
		"leak_date":          l.LeakDate,
		"gain":               l.Gain,
		"db_rms":             l.DbRms,
		"k":                  l.K,
		"flow":               l.Flow,
		"cost":               l.Cost,
		"currency":           l.Currency,
		"img_url":            l.ImgURL,
		"coord":              l.Coord,
		"action_pilot":       l.ActionPilot,
		"action_deadline":    l.ActionDeadline,
		"action_description": l.ActionDescription,
		"action_cost":        l.ActionCost,
		"action_status":      l.ActionStatus,
		"action_type":        l.ActionType,
		"is_validated":       l.IsValidated,
	}).Where(sq.Eq{"id": l.ID}).ToSql()
	if err != nil {
		return err
	}
	return execAffecting(ctx, r.storage, query, args...)
}

func (r *LeakRepository) DeleteLeak(ctx context.Context, id uint64) error {
	return execAffecting(ctx, r.storage, `DELETE FROM leaks WHERE id = $1`, id)
}

// GainByPerimeter суммирует итоговый выигрыш по дате начала бронирования и коду периметра.
func (r *LeakRepository) GainByPerimeter(ctx context.Context, from, to time.Time) ([]entities.GainBucket, error) {
	builder := psql.Select("b.start_at", "COALESCE(p.code, '')", "SUM("+finalGainExpr+")").
		From("leaks l").
		Join("bookings b ON b.id = l.booking_id").
		LeftJoin("perimeters p ON p.id = b.perimeter_id").
		Where(sq.GtOrEq{"b.start_at": from}).
		Where(sq.LtOrEq{"b.start_at": to}).
		GroupBy("b.start_at", "p.code").
		OrderBy("b.start_at", "p.code")

	return fetchAll(ctx, r.storage, builder, func(row pgx.Row) (*entities.GainBucket, error) {
		var g entities.GainBucket
		if err := row.Scan(&g.Date, &g.PerimeterCode, &g.TotalGain); err != nil {
			return nil, scanErr("gain bucket", err)
		}
		return &g, nil
	})
}
