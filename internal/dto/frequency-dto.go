package dto

type UpdateFrequencyDTO struct {
	Band0To100    int `json:"_0_100euro" validate:"gte=0"`
	Band100To500  int `json:"_100_500euro" validate:"gte=0"`
	Band500To1500 int `json:"_500_1500euro" validate:"gte=0"`
	Band1500Plus  int `json:"_1500euro" validate:"gte=0"`
	Horizon       int `json:"horizon" validate:"gt=0"`
}
