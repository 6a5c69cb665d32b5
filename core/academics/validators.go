package academics

import (
	"github.com/go-playground/validator/v10"

	"github.com/escoladigital/secretaria/core"
	// Grades validate against the staff discipline codes; importing staff
	// registers its "disciplina" tag.
	_ "github.com/escoladigital/secretaria/core/staff"
)

var (
	taskStatusTag  = "atividadestatus"
	taskStatusText = "unknown status de atividade"
)

func init() {
	_ = core.Validate.RegisterValidation(taskStatusTag, taskStatusValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, taskStatusTag, taskStatusText)
}

func taskStatusValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, s := range TaskStatuses {
		if val == s {
			return true
		}
	}
	return false
}
