package dto

type CreatePerimeterDTO struct {
	Code        string `json:"code" validate:"required,max=64"`
	Description string `json:"description" validate:"required"`
	Active      *bool  `json:"statut" validate:"required"`
	PhotoURL    string `json:"photoUrl" validate:"omitempty,url"`
	ThumbURL    string `json:"thumbUrl" validate:"omitempty,url"`
}

type UpdatePerimeterDTO struct {
	Code        *string `json:"code,omitempty" validate:"omitempty,max=64"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"statut,omitempty"`
	PhotoURL    *string `json:"photoUrl,omitempty" validate:"omitempty,url"`
	ThumbURL    *string `json:"thumbUrl,omitempty" validate:"omitempty,url"`
}
