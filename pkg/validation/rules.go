package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var currencyRe = regexp.MustCompile(`^([A-Z]{3}|€|\$|£)$`)

func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("currency", isCurrency); err != nil {
		return err
	}
	return v.RegisterValidation("coords", isCoordinatePair)
}

// isCurrency - код ISO 4217 или символ валюты.
func isCurrency(fl validator.FieldLevel) bool {
	return currencyRe.MatchString(fl.Field().String())
}

// isCoordinatePair - пустой срез или ровно две координаты на плане.
func isCoordinatePair(fl validator.FieldLevel) bool {
	n := fl.Field().Len()
	return n == 0 || n == 2
}
