package facility

import (
	"github.com/go-playground/validator/v10"

	"github.com/escoladigital/secretaria/core"
)

var (
	roomTypeTag  = "salatipo"
	roomTypeText = "unknown tipo de sala"
)

func init() {
	_ = core.Validate.RegisterValidation(roomTypeTag, roomTypeValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, roomTypeTag, roomTypeText)
}

func roomTypeValidation(fl validator.FieldLevel) bool {
	_, ok := RoomTypeLabels[fl.Field().String()]
	return ok
}
