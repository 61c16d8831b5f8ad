package utils

import (
	"fmt"
	"time"

	apperrors "tarsier/pkg/errors"
)

var acceptedTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime принимает RFC3339 и короткие форматы дат. Время без зоны считается UTC.
func ParseTime(field, raw string) (time.Time, error) {
	for _, layout := range acceptedTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperrors.NewBadRequestError(fmt.Sprintf("%q must be a valid date", field))
}
