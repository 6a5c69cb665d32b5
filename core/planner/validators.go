package planner

import (
	"github.com/go-playground/validator/v10"

	"github.com/escoladigital/secretaria/core"
	// Plans validate against the roster turmas and staff disciplinas;
	// importing them registers the "classcode" and "disciplina" tags.
	_ "github.com/escoladigital/secretaria/core/roster"
	_ "github.com/escoladigital/secretaria/core/staff"
)

var (
	shiftTag  = "turno"
	shiftText = "unknown turno"
)

func init() {
	_ = core.Validate.RegisterValidation(shiftTag, shiftValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, shiftTag, shiftText)
}

func shiftValidation(fl validator.FieldLevel) bool {
	_, ok := ShiftLabels[fl.Field().String()]
	return ok
}
