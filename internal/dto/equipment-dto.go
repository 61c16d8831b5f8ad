package dto

type CreateEquipmentDTO struct {
	Code            string  `json:"code" validate:"required,max=64"`
	Description     string  `json:"description" validate:"required"`
	EquipmentTypeID uint64  `json:"typeEquipId" validate:"required,gt=0"`
	Active          *bool   `json:"statut" validate:"required"`
	PhotoURL        string  `json:"photoUrl" validate:"omitempty,url"`
	Factor          float64 `json:"facteur" validate:"gte=0"`
}

type UpdateEquipmentDTO struct {
	Code            *string  `json:"code,omitempty" validate:"omitempty,max=64"`
	Description     *string  `json:"description,omitempty"`
	EquipmentTypeID *uint64  `json:"typeEquipId,omitempty" validate:"omitempty,gt=0"`
	Active          *bool    `json:"statut,omitempty"`
	PhotoURL        *string  `json:"photoUrl,omitempty" validate:"omitempty,url"`
	Factor          *float64 `json:"facteur,omitempty" validate:"omitempty,gte=0"`
}

type FactorDTO struct {
	EquipmentID uint64  `json:"equipId"`
	Date        string  `json:"date"`
	Factor      float64 `json:"facteur"`
}
