package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tarsier/internal/authz"
	"tarsier/internal/dto"
	"tarsier/internal/entities"
	"tarsier/internal/events"
	"tarsier/internal/repositories"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/eventbus"
	"tarsier/pkg/types"
)

// Границы по умолчанию для выборок по датам без явного диапазона.
var (
	DefaultRangeStart = time.Unix(0, 0).UTC()
	DefaultRangeEnd   = time.Date(2085, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// EventPublisher - то, что сервису нужно от шины событий.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, payload dto.CreateBookingDTO) (*entities.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, payload dto.UpdateBookingStatusDTO) (*entities.Booking, error)
	GetBookingsInRange(ctx context.Context, start, end *time.Time) ([]entities.BookingView, error)
	GetBookings(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[entities.BookingView], error)
	FindBooking(ctx context.Context, id uint64) (*entities.Booking, error)
	DeleteBooking(ctx context.Context, id uint64) error
}

type BookingService struct {
	repo      repositories.BookingRepositoryInterface
	admission BookingAdmissionInterface
	equipment repositories.EquipmentFinder
	users     ActorFinder
	publisher EventPublisher
	logger    *zap.Logger
}

func NewBookingService(
	repo repositories.BookingRepositoryInterface,
	admission BookingAdmissionInterface,
	equipment repositories.EquipmentFinder,
	users ActorFinder,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		admission: admission,
		equipment: equipment,
		users:     users,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, payload dto.CreateBookingDTO) (*entities.Booking, error) {
	actor, err := authorize(ctx, s.users, authz.BookingsCreate, nil)
	if err != nil {
		return nil, err
	}
	// бронировать можно только существующее оборудование
	if _, err := s.equipment.FindEquipment(ctx, payload.EquipmentID); err != nil {
		return nil, storageError("find equipment", err)
	}

	saved, err := s.admission.CheckAndReserve(ctx, actor, entities.Booking{
		ReservationNumber: payload.ReservationNumber,
		EquipmentID:       payload.EquipmentID,
		PerimeterID:       payload.PerimeterID,
		MissionTypeID:     payload.MissionTypeID,
		Start:             payload.Start,
		End:               payload.End,
		Status:            payload.Status,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.BookingCreatedEvent{Booking: *saved, Actor: *actor})
	return saved, nil
}

func (s *BookingService) UpdateStatus(ctx context.Context, id uint64, payload dto.UpdateBookingStatusDTO) (*entities.Booking, error) {
	if _, err := authorize(ctx, s.users, authz.BookingsUpdateStatus, nil); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, payload.Status); err != nil {
		return nil, storageError("update booking status", err)
	}
	s.logger.Info("Статус бронирования изменён", zap.Uint64("bookingID", id), zap.String("status", payload.Status))

	booking, err := s.repo.FindBooking(ctx, id)
	return booking, storageError("find booking", err)
}

// GetBookingsInRange использует ту же семантику пересечения, что и допуск бронирований.
func (s *BookingService) GetBookingsInRange(ctx context.Context, start, end *time.Time) ([]entities.BookingView, error) {
	if _, err := authorize(ctx, s.users, authz.BookingsView, nil); err != nil {
		return nil, err
	}

	from, to := DefaultRangeStart, DefaultRangeEnd
	if start != nil && end != nil {
		from, to = *start, *end
	}
	items, err := s.repo.GetBookingsInRange(ctx, entities.NewTimeRange(from, to))
	return items, storageError("list bookings in range", err)
}

func (s *BookingService) GetBookings(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[entities.BookingView], error) {
	if _, err := authorize(ctx, s.users, authz.BookingsView, nil); err != nil {
		return nil, err
	}
	items, total, err := s.repo.GetBookings(ctx, filter)
	if err != nil {
		return nil, storageError("list bookings", err)
	}
	return &dto.PaginatedResponse[entities.BookingView]{List: items, Pagination: types.NewPagination(total, filter)}, nil
}

func (s *BookingService) FindBooking(ctx context.Context, id uint64) (*entities.Booking, error) {
	if _, err := authorize(ctx, s.users, authz.BookingsView, nil); err != nil {
		return nil, err
	}
	booking, err := s.repo.FindBooking(ctx, id)
	return booking, storageError("find booking", err)
}

func (s *BookingService) DeleteBooking(ctx context.Context, id uint64) error {
	actor, err := resolveActor(ctx, s.users)
	if err != nil {
		return err
	}
	booking, err := s.repo.FindBooking(ctx, id)
	if err != nil {
		return storageError("find booking", err)
	}
	if !authz.CanDo(authz.BookingsDelete, authz.NewContext(actor, booking)) {
		return apperrors.ErrForbidden
	}

	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return storageError("delete booking", err)
	}
	s.logger.Info("Бронирование удалено", zap.Uint64("bookingID", id), zap.Uint64("deletedBy", actor.ID))
	return nil
}
