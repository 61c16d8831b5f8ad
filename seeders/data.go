package seeders

var missionTypesData = []string{
	"Etalonnage",
	"Réparation",
	"Mission de détection des fuites",
	"Formation",
}

// Периодичность контроля в месяцах по диапазонам стоимости утечки.
var defaultFrequency = struct {
	Band0To100, Band100To500, Band500To1500, Band1500Plus, Horizon int
}{12, 6, 3, 1, 12}
