package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Scenes are an open set of reporting tags, not an enum; the engine only
// constrains their shape so reporting queries stay sane.
var sceneRe = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,63}$`)

// RegisterCustomValidators installs the credit ledger's custom binding
// validators on the given validator engine (gin's binding validator).
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("scene", func(fl validator.FieldLevel) bool {
		return sceneRe.MatchString(fl.Field().String())
	})
}
