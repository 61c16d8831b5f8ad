package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tarsier/internal/dto"
	"tarsier/internal/entities"
	"tarsier/internal/events"
	"tarsier/pkg/clock"
	apperrors "tarsier/pkg/errors"
)

func newBookingFixture() (*BookingService, *fakeBookingRepo, *recordingPublisher) {
	repo := newFakeBookingRepo()
	admission := NewBookingAdmission(&fakeTxManager{}, repo, clock.NewFake(admissionNow), time.Minute, nil, zap.NewNop())
	publisher := &recordingPublisher{}
	users := newFakeUserRepo(adminUser, regularUser)
	equipment := newFakeEquipmentRepo(
		entities.Equipment{ID: 1, Code: "EQ-1", Factor: 1},
		entities.Equipment{ID: 2, Code: "EQ-2", Factor: 1},
	)
	return NewBookingService(repo, admission, equipment, users, publisher, zap.NewNop()), repo, publisher
}

func bookingPayload(equipmentID uint64, start, end time.Time) dto.CreateBookingDTO {
	return dto.CreateBookingDTO{
		ReservationNumber: "R-100",
		EquipmentID:       equipmentID,
		PerimeterID:       1,
		MissionTypeID:     1,
		Start:             start,
		End:               end,
		Status:            "Réservé",
	}
}

func TestBookingService_CreatePublishesEvent(t *testing.T) {
	svc, _, publisher := newBookingFixture()

	saved, err := svc.CreateBooking(ctxWithUser(regularUser.ID), bookingPayload(1, hoursFromNow(1), hoursFromNow(2)))
	require.NoError(t, err)
	assert.Equal(t, regularUser.ID, saved.UserID)

	require.Len(t, publisher.events, 1)
	event, ok := publisher.events[0].(events.BookingCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, saved.ID, event.Booking.ID)
	assert.Equal(t, regularUser.ID, event.Actor.ID)
}

func TestBookingService_RejectedBookingPublishesNothing(t *testing.T) {
	svc, _, publisher := newBookingFixture()
	ctx := ctxWithUser(regularUser.ID)

	_, err := svc.CreateBooking(ctx, bookingPayload(1, hoursFromNow(1), hoursFromNow(3)))
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, bookingPayload(1, hoursFromNow(2), hoursFromNow(4)))
	assert.ErrorIs(t, err, apperrors.ErrOverlap)

	_, err = svc.CreateBooking(ctx, bookingPayload(2, hoursFromNow(-1), hoursFromNow(1)))
	assert.ErrorIs(t, err, apperrors.ErrPastStart)

	assert.Len(t, publisher.events, 1)
}

func TestBookingService_UnknownEquipmentIsNotFound(t *testing.T) {
	svc, repo, publisher := newBookingFixture()

	_, err := svc.CreateBooking(ctxWithUser(regularUser.ID), bookingPayload(999999, hoursFromNow(1), hoursFromNow(2)))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Empty(t, repo.bookings)
	assert.Empty(t, publisher.events)
}

func TestBookingService_RangeUsesClosedIntervals(t *testing.T) {
	svc, _, _ := newBookingFixture()
	ctx := ctxWithUser(regularUser.ID)

	_, err := svc.CreateBooking(ctx, bookingPayload(1, hoursFromNow(1), hoursFromNow(2)))
	require.NoError(t, err)
	_, err = svc.CreateBooking(ctx, bookingPayload(1, hoursFromNow(5), hoursFromNow(6)))
	require.NoError(t, err)

	start, end := hoursFromNow(2), hoursFromNow(4)
	items, err := svc.GetBookingsInRange(ctx, &start, &end)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	all, err := svc.GetBookingsInRange(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBookingService_DeleteOwnerOrAdmin(t *testing.T) {
	svc, repo, _ := newBookingFixture()
	other := &entities.User{ID: 3}
	svc.users = newFakeUserRepo(adminUser, regularUser, other)

	saved, err := svc.CreateBooking(ctxWithUser(regularUser.ID), bookingPayload(1, hoursFromNow(1), hoursFromNow(2)))
	require.NoError(t, err)

	err = svc.DeleteBooking(ctxWithUser(other.ID), saved.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, svc.DeleteBooking(ctxWithUser(regularUser.ID), saved.ID))
	assert.Equal(t, []uint64{saved.ID}, repo.deleted)

	second, err := svc.CreateBooking(ctxWithUser(regularUser.ID), bookingPayload(1, hoursFromNow(1), hoursFromNow(2)))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteBooking(ctxWithUser(adminUser.ID), second.ID))

	err = svc.DeleteBooking(ctxWithUser(adminUser.ID), 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBookingService_UpdateStatusAdminOnly(t *testing.T) {
	svc, _, _ := newBookingFixture()

	saved, err := svc.CreateBooking(ctxWithUser(regularUser.ID), bookingPayload(1, hoursFromNow(1), hoursFromNow(2)))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctxWithUser(regularUser.ID), saved.ID, dto.UpdateBookingStatusDTO{Status: "Terminé"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := svc.UpdateStatus(ctxWithUser(adminUser.ID), saved.ID, dto.UpdateBookingStatusDTO{Status: "Terminé"})
	require.NoError(t, err)
	assert.Equal(t, "Terminé", updated.Status)
}

func TestBookingService_Unauthenticated(t *testing.T) {
	svc, _, _ := newBookingFixture()
	_, err := svc.CreateBooking(context.Background(), bookingPayload(1, hoursFromNow(1), hoursFromNow(2)))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
