package conduct

import (
	"github.com/go-playground/validator/v10"

	"github.com/escoladigital/secretaria/core"
)

var (
	warningReasonTag     = "advmotivo"
	warningReasonText    = "unknown motivo de advertência"
	suspensionReasonTag  = "suspmotivo"
	suspensionReasonText = "unknown motivo de suspensão"
)

func init() {
	_ = core.Validate.RegisterValidation(warningReasonTag, func(fl validator.FieldLevel) bool {
		_, ok := WarningReasons[fl.Field().String()]
		return ok
	})
	core.RegisterCustomTranslation(core.Validate, core.Translator, warningReasonTag, warningReasonText)

	_ = core.Validate.RegisterValidation(suspensionReasonTag, func(fl validator.FieldLevel) bool {
		_, ok := SuspensionReasons[fl.Field().String()]
		return ok
	})
	core.RegisterCustomTranslation(core.Validate, core.Translator, suspensionReasonTag, suspensionReasonText)
}
