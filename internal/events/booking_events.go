package events

import "tarsier/internal/entities"

const BookingCreated = "booking.created"

// BookingCreatedEvent публикуется после успешной вставки бронирования.
type BookingCreatedEvent struct {
	Booking entities.Booking
	Actor   entities.User
}

func (e BookingCreatedEvent) Name() string {
	return BookingCreated
}
