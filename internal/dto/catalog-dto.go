package dto

// CreateCatalogItemDTO используется для типов оборудования и типов миссий.
type CreateCatalogItemDTO struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Active      *bool  `json:"statut"`
}

type UpdateCatalogItemDTO struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"statut,omitempty"`
}
