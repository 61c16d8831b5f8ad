package listeners

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"tarsier/internal/entities"
	"tarsier/internal/events"
	"tarsier/internal/services"
	"tarsier/pkg/eventbus"
)

// RecipientFinder - пользователи, которым уходит письмо о бронировании.
type RecipientFinder interface {
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindAdmins(ctx context.Context) ([]entities.User, error)
}

type BookingNotificationListener struct {
	notificationService services.NotificationServiceInterface
	users               RecipientFinder
	logger              *zap.Logger
}

func NewBookingNotificationListener(
	notificationService services.NotificationServiceInterface,
	users RecipientFinder,
	logger *zap.Logger,
) *BookingNotificationListener {
	return &BookingNotificationListener{
		notificationService: notificationService,
		users:               users,
		logger:              logger,
	}
}

func (l *BookingNotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.BookingCreated, l.handleBookingCreated)
	l.logger.Info("BookingNotificationListener подписан на событие 'booking.created'")
}

func (l *BookingNotificationListener) handleBookingCreated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.BookingCreatedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}

	recipients, err := l.recipients(ctx, e.Booking.UserID)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		l.logger.Warn("Нет получателей для уведомления о бронировании", zap.Uint64("bookingID", e.Booking.ID))
		return nil
	}

	subject := fmt.Sprintf("Nouvelle réservation %s", e.Booking.ReservationNumber)
	body := fmt.Sprintf(
		"Réservation %s créée par %s: équipement #%d du %s au %s.",
		e.Booking.ReservationNumber,
		e.Actor.FullName(),
		e.Booking.EquipmentID,
		e.Booking.Start.Format("02/01/2006 15:04"),
		e.Booking.End.Format("02/01/2006 15:04"),
	)
	return l.notificationService.Send(ctx, recipients, subject, body)
}

// recipients: владелец бронирования и все админы, без повторов.
func (l *BookingNotificationListener) recipients(ctx context.Context, ownerID uint64) ([]string, error) {
	seen := make(map[string]struct{})

	owner, err := l.users.FindUserByID(ctx, ownerID)
	if err != nil {
		l.logger.Warn("Владелец бронирования не найден", zap.Uint64("userID", ownerID), zap.Error(err))
	} else if owner.Email != "" {
		seen[owner.Email] = struct{}{}
	}

	admins, err := l.users.FindAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить администраторов: %w", err)
	}
	for _, a := range admins {
		if a.Email != "" {
			seen[a.Email] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for email := range seen {
		out = append(out, email)
	}
	sort.Strings(out)
	return out, nil
}
