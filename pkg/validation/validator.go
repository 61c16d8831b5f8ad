package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New собирает валидатор: json-имена полей в ошибках, null-типы и свои правила.
func New() (*validator.Validate, error) {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	registerNullTypes(v)

	if err := registerRules(v); err != nil {
		return nil, err
	}
	return v, nil
}
