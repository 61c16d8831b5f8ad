package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"tarsier/internal/authz"
	"tarsier/internal/dto"
	"tarsier/internal/entities"
	"tarsier/internal/repositories"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/types"
)

// BookingFinder - проверка существования бронирования при создании утечки.
type BookingFinder interface {
	FindBooking(ctx context.Context, id uint64) (*entities.Booking, error)
}

type LeakServiceInterface interface {
	GetLeaks(ctx context.Context, filter dto.LeakFilterDTO) (*dto.PaginatedResponse[entities.LeakReportItem], error)
	GetLeaksByBooking(ctx context.Context, bookingID uint64) ([]entities.Leak, error)
	FindLeak(ctx context.Context, id uint64) (*entities.Leak, error)
	CreateLeak(ctx context.Context, payload dto.CreateLeakDTO) (*entities.Leak, error)
	UpdateLeak(ctx context.Context, id uint64, payload dto.UpdateLeakDTO) (*entities.Leak, error)
	DeleteLeak(ctx context.Context, id uint64) error
	Gain(ctx context.Context, start, end *time.Time) ([]entities.GainBucket, error)
}

type LeakService struct {
	repo     repositories.LeakRepositoryInterface
	bookings BookingFinder
	factors  FactorResolverInterface
	users    ActorFinder
	logger   *zap.Logger
}

func NewLeakService(
	repo repositories.LeakRepositoryInterface,
	bookings BookingFinder,
	factors FactorResolverInterface,
	users ActorFinder,
	logger *zap.Logger,
) *LeakService {
	return &LeakService{repo: repo, bookings: bookings, factors: factors, users: users, logger: logger}
}

// GetLeaks дополняет строки отчёта коэффициентом оборудования на дату начала
// бронирования и расчётными полями.
func (s *LeakService) GetLeaks(ctx context.Context, filter dto.LeakFilterDTO) (*dto.PaginatedResponse[entities.LeakReportItem], error) {
	if _, err := authorize(ctx, s.users, authz.LeaksView, nil); err != nil {
		return nil, err
	}
	items, total, err := s.repo.GetLeaks(ctx, filter)
	if err != nil {
		return nil, storageError("list leaks", err)
	}
	if err := s.enrich(ctx, items); err != nil {
		return nil, err
	}

	page := 1
	if filter.Limit > 0 {
		page = filter.Offset/filter.Limit + 1
	}
	return &dto.PaginatedResponse[entities.LeakReportItem]{
		List:       items,
		Pagination: types.NewPagination(total, types.Filter{Limit: filter.Limit, Page: page}),
	}, nil
}

type factorKey struct {
	equipmentID uint64
	asOf        int64
}

func (s *LeakService) enrich(ctx context.Context, items []entities.LeakReportItem) error {
	resolved := make(map[factorKey]*float64)
	for i := range items {
		item := &items[i]
		item.CO2Value = item.CO2()
		item.FinalGainValue = item.FinalGain()

		key := factorKey{equipmentID: item.EquipmentID, asOf: item.BookingStart.UnixNano()}
		if f, ok := resolved[key]; ok {
			item.Factor = f
			continue
		}

		factor, err := s.factors.FactorAsOf(ctx, item.EquipmentID, item.BookingStart)
		switch {
		case err == nil:
			resolved[key] = &factor
		case errors.Is(err, apperrors.ErrNotFound):
			s.logger.Warn("Коэффициент оборудования не определён",
				zap.Uint64("equipmentID", item.EquipmentID),
				zap.Uint64("leakID", item.ID),
			)
			resolved[key] = nil
		default:
			return err
		}
		item.Factor = resolved[key]
	}
	return nil
}

func (s *LeakService) GetLeaksByBooking(ctx context.Context, bookingID uint64) ([]entities.Leak, error) {
	if _, err := authorize(ctx, s.users, authz.LeaksView, nil); err != nil {
		return nil, err
	}
	items, err := s.repo.GetLeaksByBooking(ctx, bookingID)
	return items, storageError("list booking leaks", err)
}

func (s *LeakService) FindLeak(ctx context.Context, id uint64) (*entities.Leak, error) {
	if _, err := authorize(ctx, s.users, authz.LeaksView, nil); err != nil {
		return nil, err
	}
	leak, err := s.repo.FindLeak(ctx, id)
	return leak, storageError("find leak", err)
}

func (s *LeakService) CreateLeak(ctx context.Context, payload dto.CreateLeakDTO) (*entities.Leak, error) {
	actor, err := authorize(ctx, s.users, authz.LeaksCreate, nil)
	if err != nil {
		return nil, err
	}
	if _, err := s.bookings.FindBooking(ctx, payload.BookingID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("bookingId", "booking %d does not exist", payload.BookingID)
		}
		return nil, storageError("find booking", err)
	}

	leak := entities.Leak{
		Name:              payload.Name,
		BookingID:         payload.BookingID,
		LeakDate:          payload.LeakDate,
		Gain:              payload.Gain,
		DbRms:             payload.DbRms,
		K:                 payload.K,
		Flow:              payload.Flow,
		Cost:              payload.Cost,
		Currency:          payload.Currency,
		ImgURL:            payload.ImgURL,
		Coord:             payload.Coord,
		ActionPilot:       payload.ActionPilot,
		ActionDeadline:    payload.ActionDeadline,
		ActionDescription: payload.ActionDescription,
		ActionCost:        payload.ActionCost,
		ActionStatus:      payload.ActionStatus,
		ActionType:        payload.ActionType,
		CreatedBy:         actor.ID,
	}
	if leak.ActionStatus == "" {
		leak.ActionStatus = entities.ActionStatusInProgress
	}
	if leak.ActionType == "" {
		leak.ActionType = entities.ActionTypeRepair
	}

	id, err := s.repo.CreateLeak(ctx, leak)
	if err != nil {
		return nil, storageError("create leak", err)
	}
	s.logger.Info("Утечка создана", zap.Uint64("leakID", id), zap.Uint64("bookingID", leak.BookingID))

	created, err := s.repo.FindLeak(ctx, id)
	return created, storageError("find leak", err)
}

func applyLeakPatch(l *entities.Leak, p dto.UpdateLeakDTO) {
	if p.Name.Valid {
		l.Name = p.Name.String
	}
	if p.LeakDate.Valid {
		t := p.LeakDate.Time
		l.LeakDate = &t
	}
	if p.Gain.Valid {
		l.Gain = p.Gain.Ptr()
	}
	if p.DbRms.Valid {
		l.DbRms = p.DbRms.Ptr()
	}
	if p.K.Valid {
		l.K = p.K.Ptr()
	}
	if p.Flow.Valid {
		l.Flow = p.Flow.Ptr()
	}
	if p.Cost.Valid {
		l.Cost = p.Cost.Ptr()
	}
	if p.Currency.Valid {
		l.Currency = p.Currency.String
	}
	if p.ImgURL.Valid {
		l.ImgURL = p.ImgURL.String
	}
	if p.Coord != nil {
		l.Coord = p.Coord
	}
	if p.ActionPilot.Valid {
		l.ActionPilot = p.ActionPilot.String
	}
	if p.ActionDeadline.Valid {
		t := p.ActionDeadline.Time
		l.ActionDeadline = &t
	}
	if p.ActionDescription.Valid {
		l.ActionDescription = p.ActionDescription.String
	}
	if p.ActionCost.Valid {
		l.ActionCost = p.ActionCost.Ptr()
	}
	if p.ActionStatus.Valid {
		l.ActionStatus = p.ActionStatus.String
	}
	if p.ActionType.Valid {
		l.ActionType = p.ActionType.String
	}
	if p.IsValidated.Valid {
		l.IsValidated = p.IsValidated.Bool
	}
}

func (s *LeakService) UpdateLeak(ctx context.Context, id uint64, payload dto.UpdateLeakDTO) (*entities.Leak, error) {
	actor, err := resolveActor(ctx, s.users)
	if err != nil {
		return nil, err
	}
	leak, err := s.repo.FindLeak(ctx, id)
	if err != nil {
		return nil, storageError("find leak", err)
	}
	if !authz.CanDo(authz.LeaksUpdate, authz.NewContext(actor, leak)) {
		return nil, apperrors.ErrForbidden
	}

	applyLeakPatch(leak, payload)
	if err := s.repo.UpdateLeak(ctx, *leak); err != nil {
		return nil, storageError("update leak", err)
	}
	return leak, nil
}

func (s *LeakService) DeleteLeak(ctx context.Context, id uint64) error {
	actor, err := resolveActor(ctx, s.users)
	if err != nil {
		return err
	}
	leak, err := s.repo.FindLeak(ctx, id)
	if err != nil {
		return storageError("find leak", err)
	}
	if !authz.CanDo(authz.LeaksDelete, authz.NewContext(actor, leak)) {
		return apperrors.ErrForbidden
	}

	if err := s.repo.DeleteLeak(ctx, id); err != nil {
		return storageError("delete leak", err)
	}
	s.logger.Info("Утечка удалена", zap.Uint64("leakID", id), zap.Uint64("deletedBy", actor.ID))
	return nil
}

// Gain: без границ берётся весь диапазон дат.
func (s *LeakService) Gain(ctx context.Context, start, end *time.Time) ([]entities.GainBucket, error) {
	if _, err := authorize(ctx, s.users, authz.ReportsView, nil); err != nil {
		return nil, err
	}
	from, to := DefaultRangeStart, DefaultRangeEnd
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	buckets, err := s.repo.GainByPerimeter(ctx, from, to)
	return buckets, storageError("gain by perimeter", err)
}
