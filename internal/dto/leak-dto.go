package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CreateLeakDTO struct {
	Name      string     `json:"leakName" validate:"required,max=255"`
	BookingID uint64     `json:"bookingId" validate:"required,gt=0"`
	LeakDate  *time.Time `json:"leakDate"`

	Gain     *float64  `json:"leakGain" validate:"omitempty,gte=0"`
	DbRms    *float64  `json:"leakDbRms"`
	K        *float64  `json:"leakK"`
	Flow     *float64  `json:"leakFlow" validate:"omitempty,gte=0"`
	Cost     *float64  `json:"leakCost" validate:"omitempty,gte=0"`
	Currency string    `json:"leakCurrency" validate:"omitempty,currency"`
	ImgURL   string    `json:"leakImgUrl" validate:"omitempty,url"`
	Coord    []float64 `json:"leakCoord" validate:"coords"`

	ActionPilot       string     `json:"actionPilote"`
	ActionDeadline    *time.Time `json:"actionDelai"`
	ActionDescription string     `json:"actionDesc"`
	ActionCost        *float64   `json:"actionCost" validate:"omitempty,gte=0"`
	ActionStatus      string     `json:"actionStatut" validate:"omitempty,oneof='En cours' 'Clôturé'"`
	ActionType        string     `json:"type_action" validate:"omitempty,oneof='Réparation' 'Contrôle'"`
}

// UpdateLeakDTO: невалидное null-значение означает "не менять".
type UpdateLeakDTO struct {
	Name     null.String  `json:"leakName" validate:"omitempty,max=255"`
	LeakDate null.Time    `json:"leakDate"`
	Gain     null.Float64 `json:"leakGain" validate:"omitempty,gte=0"`
	DbRms    null.Float64 `json:"leakDbRms"`
	K        null.Float64 `json:"leakK"`
	Flow     null.Float64 `json:"leakFlow" validate:"omitempty,gte=0"`
	Cost     null.Float64 `json:"leakCost" validate:"omitempty,gte=0"`
	Currency null.String  `json:"leakCurrency" validate:"omitempty,currency"`
	ImgURL   null.String  `json:"leakImgUrl" validate:"omitempty,url"`
	Coord    []float64    `json:"leakCoord" validate:"coords"`

	ActionPilot       null.String  `json:"actionPilote"`
	ActionDeadline    null.Time    `json:"actionDelai"`
	ActionDescription null.String  `json:"actionDesc"`
	ActionCost        null.Float64 `json:"actionCost" validate:"omitempty,gte=0"`
	ActionStatus      null.String  `json:"actionStatut" validate:"omitempty,oneof='En cours' 'Clôturé'"`
	ActionType        null.String  `json:"type_action" validate:"omitempty,oneof='Réparation' 'Contrôle'"`
	IsValidated       null.Bool    `json:"isValidated"`
}

// LeakFilterDTO - фильтры списка и выгрузки утечек.
type LeakFilterDTO struct {
	PerimeterID   uint64
	MissionTypeID uint64
	ActionStatus  string
	ActionType    string
	Start         *time.Time
	End           *time.Time
	Limit         int
	Offset        int
}
