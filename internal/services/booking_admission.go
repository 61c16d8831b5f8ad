package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"tarsier/internal/entities"
	"tarsier/internal/repositories"
	"tarsier/pkg/clock"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/keylock"
	"tarsier/pkg/metrics"
)

type BookingAdmissionInterface interface {
	CheckAndReserve(ctx context.Context, actor *entities.User, request entities.Booking) (*entities.Booking, error)
}

// BookingAdmission проверяет пересечения и сохраняет бронирование как одну
// неделимую операцию для каждого оборудования.
type BookingAdmission struct {
	txManager      repositories.TxManagerInterface
	store          repositories.BookingReservationStore
	locks          *keylock.KeyedMutex[uint64]
	clock          clock.Clock
	minStartMargin time.Duration
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

func NewBookingAdmission(
	txManager repositories.TxManagerInterface,
	store repositories.BookingReservationStore,
	clk clock.Clock,
	minStartMargin time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BookingAdmission {
	return &BookingAdmission{
		txManager:      txManager,
		store:          store,
		locks:          keylock.New[uint64](),
		clock:          clk,
		minStartMargin: minStartMargin,
		metrics:        m,
		logger:         logger,
	}
}

// CheckAndReserve нормализует интервал, отклоняет старт в прошлом и
// пересечения с существующими бронированиями того же оборудования.
// Проверка и вставка сериализованы: в процессе через мьютекс по оборудованию,
// между процессами через advisory lock в транзакции. Ограничение EXCLUDE в
// схеме остаётся последним рубежом.
func (a *BookingAdmission) CheckAndReserve(ctx context.Context, actor *entities.User, request entities.Booking) (*entities.Booking, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if request.EquipmentID == 0 {
		a.metrics.ObserveAdmission(metrics.OutcomeInvalid)
		return nil, apperrors.NewValidationError("equipId", "%q is required", "equipId")
	}
	if request.Start.IsZero() || request.End.IsZero() {
		a.metrics.ObserveAdmission(metrics.OutcomeInvalid)
		return nil, apperrors.NewValidationError("start", "%q and %q are required", "start", "end")
	}

	tr := entities.NewTimeRange(request.Start, request.End)
	request.Start, request.End = tr.Start, tr.End
	request.UserID = actor.ID
	request.CreatedBy = actor.ID

	if tr.Start.Before(a.clock.Now().Add(-a.minStartMargin)) {
		a.metrics.ObserveAdmission(metrics.OutcomePastStart)
		return nil, apperrors.ErrPastStart
	}

	unlock := a.locks.Lock(request.EquipmentID)
	defer unlock()

	var saved *entities.Booking
	err := a.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := a.store.LockEquipment(ctx, tx, request.EquipmentID); err != nil {
			return err
		}

		conflicts, err := a.store.FindOverlapping(ctx, tx, request.EquipmentID, tr)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			a.logger.Info("Бронирование отклонено: пересечение",
				zap.Uint64("equipmentID", request.EquipmentID),
				zap.Uint64("conflictID", conflicts[0].ID),
				zap.Time("start", tr.Start),
				zap.Time("end", tr.End),
			)
			return apperrors.ErrOverlap
		}

		saved, err = a.store.CreateInTx(ctx, tx, request)
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrOverlap) {
			a.metrics.ObserveAdmission(metrics.OutcomeOverlap)
			return nil, apperrors.ErrOverlap
		}
		a.metrics.ObserveAdmission(metrics.OutcomeError)
		a.logger.Error("Не удалось сохранить бронирование",
			zap.Uint64("equipmentID", request.EquipmentID),
			zap.Error(err),
		)
		return nil, apperrors.NewStorageError("reserve booking", err)
	}

	a.metrics.ObserveAdmission(metrics.OutcomeAccepted)
	a.logger.Info("Бронирование создано",
		zap.Uint64("bookingID", saved.ID),
		zap.Uint64("equipmentID", saved.EquipmentID),
		zap.Uint64("userID", actor.ID),
	)
	return saved, nil
}
