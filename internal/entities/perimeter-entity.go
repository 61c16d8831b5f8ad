package entities

import (
	"time"

	"tarsier/pkg/types"
)

type Perimeter struct {
	ID          uint64 `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Active      bool   `json:"statut"`
	PhotoURL    string `json:"photoUrl"`
	ThumbURL    string `json:"thumbUrl"`
	CreatedBy   uint64 `json:"createdBy"`

	types.BaseEntity
}

// PerimeterPlanChange - история планов периметра, по аналогии с журналом коэффициентов.
type PerimeterPlanChange struct {
	ID          uint64    `json:"id"`
	PerimeterID uint64    `json:"perimeterId"`
	PhotoURL    string    `json:"photoUrl"`
	ThumbURL    string    `json:"thumbUrl"`
	ChangeDate  time.Time `json:"changeDate"`
}
