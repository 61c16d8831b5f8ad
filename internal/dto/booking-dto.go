package dto

import "time"

type CreateBookingDTO struct {
	ReservationNumber string    `json:"num_reservation" validate:"required,max=64"`
	EquipmentID       uint64    `json:"equipId" validate:"required,gt=0"`
	PerimeterID       uint64    `json:"perimeterId" validate:"required,gt=0"`
	MissionTypeID     uint64    `json:"typeMissionId" validate:"required,gt=0"`
	Start             time.Time `json:"start" validate:"required"`
	End               time.Time `json:"end" validate:"required"`
	Status            string    `json:"statut" validate:"required,max=64"`
}

type UpdateBookingStatusDTO struct {
	Status string `json:"statut" validate:"required,max=64"`
}
