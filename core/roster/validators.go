package roster

import (
	"github.com/go-playground/validator/v10"

	"github.com/escoladigital/secretaria/core"
)

var (
	classCodeTag  = "classcode"
	classCodeText = "unknown turma"
)

func init() {
	_ = core.Validate.RegisterValidation(classCodeTag, classCodeValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, classCodeTag, classCodeText)
}

func classCodeValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, code := range ClassCodes {
		if val == code {
			return true
		}
	}
	return false
}
