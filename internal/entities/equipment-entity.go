package entities

import (
	"time"

	"tarsier/pkg/types"
)

type Equipment struct {
	ID              uint64  `json:"id"`
	Code            string  `json:"code"`
	Description     string  `json:"description"`
	EquipmentTypeID uint64  `json:"typeEquipId"`
	Active          bool    `json:"statut"`
	PhotoURL        string  `json:"photoUrl"`
	Factor          float64 `json:"facteur"`
	CreatedBy       uint64  `json:"createdBy"`

	types.BaseEntity

	EquipmentType *CatalogItem `json:"typeEquip,omitempty" db:"-"`
}

// EquipmentFactorChange - запись журнала коэффициентов. Журнал только дополняется
// и переживает удаление оборудования.
type EquipmentFactorChange struct {
	ID          uint64    `json:"id"`
	EquipmentID uint64    `json:"equipement"`
	Factor      float64   `json:"facteur"`
	ChangeDate  time.Time `json:"changeDate"`
}

// LatestFactorChangeAsOf выбирает последнюю запись с ChangeDate <= asOf.
// При равных датах побеждает более поздняя вставка.
func LatestFactorChangeAsOf(changes []EquipmentFactorChange, asOf time.Time) (EquipmentFactorChange, bool) {
	var best EquipmentFactorChange
	found := false
	for _, c := range changes {
		if c.ChangeDate.After(asOf) {
			continue
		}
		if !found || c.ChangeDate.After(best.ChangeDate) ||
			(c.ChangeDate.Equal(best.ChangeDate) && c.ID > best.ID) {
			best = c
			found = true
		}
	}
	return best, found
}
