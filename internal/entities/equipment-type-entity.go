package entities

import "tarsier/pkg/types"

// CatalogItem - элемент простого справочника: типы оборудования и типы миссий.
type CatalogItem struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Active      bool    `json:"statut"`
	CreatedBy   *uint64 `json:"createdBy,omitempty"`

	types.BaseEntity
}
