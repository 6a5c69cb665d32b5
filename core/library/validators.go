package library

import (
	"github.com/go-playground/validator/v10"

	"github.com/escoladigital/secretaria/core"
)

var (
	loanTypeTag  = "emprestimotipo"
	loanTypeText = "unknown tipo de empréstimo"
)

func init() {
	_ = core.Validate.RegisterValidation(loanTypeTag, loanTypeValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, loanTypeTag, loanTypeText)
}

func loanTypeValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, t := range LoanTypes {
		if val == t {
			return true
		}
	}
	return false
}
