package entities

import "time"

const (
	ActionStatusInProgress = "En cours"
	ActionStatusClosed     = "Clôturé"

	ActionTypeRepair  = "Réparation"
	ActionTypeControl = "Contrôle"

	// Перевод стоимости утечки в тонны CO2.
	co2PerCostUnit = 12.8205 * 0.4281 / 1000
)

type Leak struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"leakName"`
	BookingID uint64     `json:"bookingId"`
	LeakDate  *time.Time `json:"leakDate"`

	Gain     *float64  `json:"leakGain"`
	DbRms    *float64  `json:"leakDbRms"`
	K        *float64  `json:"leakK"`
	Flow     *float64  `json:"leakFlow"`
	Cost     *float64  `json:"leakCost"`
	Currency string    `json:"leakCurrency"`
	ImgURL   string    `json:"leakImgUrl"`
	Coord    []float64 `json:"leakCoord"`

	ActionPilot       string     `json:"actionPilote"`
	ActionDeadline    *time.Time `json:"actionDelai"`
	ActionDescription string     `json:"actionDesc"`
	ActionCost        *float64   `json:"actionCost"`
	ActionStatus      string     `json:"actionStatut"`
	ActionType        string     `json:"type_action"`

	IsValidated bool      `json:"isValidated"`
	CreatedBy   uint64    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdOn"`
}

func (l *Leak) CO2() float64 {
	return valueOf(l.Cost) * co2PerCostUnit
}

// FinalGain считается только для закрытых действий.
func (l *Leak) FinalGain() float64 {
	if l.ActionStatus != ActionStatusClosed {
		return 0
	}
	return valueOf(l.Cost) - valueOf(l.ActionCost)
}

// LeakReportItem - строка отчёта по утечкам с данными бронирования.
type LeakReportItem struct {
	Leak
	ReservationNumber string    `json:"num_reservation"`
	BookingStart      time.Time `json:"bookingStart"`
	BookingEnd        time.Time `json:"bookingEnd"`
	UserName          string    `json:"userName"`
	PerimeterID       uint64    `json:"perimeterId"`
	PerimeterCode     string    `json:"perimeterCode"`
	MissionTypeID     uint64    `json:"typeMissionId"`
	MissionTypeName   string    `json:"typeMission"`
	EquipmentID       uint64    `json:"equipId"`
	EquipmentCode     string    `json:"equipCode"`

	// Коэффициент оборудования на дату начала бронирования.
	Factor         *float64 `json:"facteur"`
	CO2Value       float64  `json:"co2"`
	FinalGainValue float64  `json:"finalGain"`
}

// GainBucket - суммарный итоговый выигрыш по дате бронирования и периметру.
type GainBucket struct {
	Date          time.Time `json:"date"`
	PerimeterCode string    `json:"perimeter"`
	TotalGain     float64   `json:"totalGain"`
}

func valueOf(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
