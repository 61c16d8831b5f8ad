package entities

// ControlFrequency - единственная запись настроек периодичности контроля
// по диапазонам стоимости утечки.
type ControlFrequency struct {
	ID            uint64 `json:"id"`
	Band0To100    int    `json:"_0_100euro"`
	Band100To500  int    `json:"_100_500euro"`
	Band500To1500 int    `json:"_500_1500euro"`
	Band1500Plus  int    `json:"_1500euro"`
	Horizon       int    `json:"horizon"`
}

// IntervalForCost - число месяцев между контролями для утечки данной стоимости.
func (f *ControlFrequency) IntervalForCost(cost float64) int {
	switch {
	case cost < 100:
		return f.Band0To100
	case cost < 500:
		return f.Band100To500
	case cost < 1500:
		return f.Band500To1500
	default:
		return f.Band1500Plus
	}
}
