package entities

import "time"

type Booking struct {
	ID                uint64    `json:"id"`
	ReservationNumber string    `json:"num_reservation"`
	UserID            uint64    `json:"userId"`
	CreatedBy         uint64    `json:"createdBy"`
	EquipmentID       uint64    `json:"equipId"`
	PerimeterID       uint64    `json:"perimeterId"`
	MissionTypeID     uint64    `json:"typeMissionId"`
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	Status            string    `json:"statut"`
	CreatedAt         time.Time `json:"createdOn"`
}

func (b *Booking) Range() TimeRange {
	return TimeRange{Start: b.Start, End: b.End}
}

// BookingView - бронирование вместе с названиями связанных сущностей.
type BookingView struct {
	Booking
	UserName        string `json:"userName"`
	EquipmentCode   string `json:"equipCode"`
	PerimeterCode   string `json:"perimeterCode"`
	MissionTypeName string `json:"typeMission"`
}

// TimeRange - закрытый интервал [Start, End].
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange меняет границы местами, если они переданы в обратном порядке.
func NewTimeRange(start, end time.Time) TimeRange {
	if start.After(end) {
		start, end = end, start
	}
	return TimeRange{Start: start, End: end}
}

func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Overlaps: интервалы имеют хотя бы одну общую точку, касание концами тоже считается.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Contains(o.Start) || r.Contains(o.End) ||
		(!o.Start.After(r.Start) && !o.End.Before(r.End))
}
