package validation

import (
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-wardrobe-api/internal/items"
)

// New returns a configured validator with the item tags registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// report json / form names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = v.RegisterValidation("category", validateCategory)
	_ = v.RegisterValidation("isodate", validateISODate)

	return v
}

func validateCategory(fl validatorv10.FieldLevel) bool {
	return items.Category(fl.Field().String()).Valid()
}

func validateISODate(fl validatorv10.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}
