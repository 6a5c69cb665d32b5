package calendar

import (
	"github.com/go-playground/validator/v10"

	"github.com/escoladigital/secretaria/core"
)

var (
	eventTypeTag  = "eventotipo"
	eventTypeText = "unknown tipo de evento"
)

func init() {
	_ = core.Validate.RegisterValidation(eventTypeTag, eventTypeValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, eventTypeTag, eventTypeText)
}

func eventTypeValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, t := range EventTypes {
		if val == t {
			return true
		}
	}
	return false
}
