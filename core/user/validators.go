package user

import (
	"github.com/go-playground/validator/v10"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/authz"
)

var (
	cargoTag  = "cargo"
	cargoText = "unknown cargo"
)

func init() {
	_ = core.Validate.RegisterValidation(cargoTag, cargoValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, cargoTag, cargoText)
}

// cargoValidation only allows roles from the closed authz enumeration.
func cargoValidation(fl validator.FieldLevel) bool {
	return authz.Role(fl.Field().String()).Valid()
}
