package staff

import (
	"github.com/go-playground/validator/v10"

	"github.com/escoladigital/secretaria/core"
)

var (
	disciplineTag  = "disciplina"
	disciplineText = "unknown disciplina"
)

func init() {
	_ = core.Validate.RegisterValidation(disciplineTag, disciplineValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, disciplineTag, disciplineText)
}

func disciplineValidation(fl validator.FieldLevel) bool {
	_, ok := DisciplineLabels[fl.Field().String()]
	return ok
}
