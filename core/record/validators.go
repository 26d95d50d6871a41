package record

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/cgpa/core"
)

var (
	rawGradeTag  = "rawgrade"
	rawGradeText = "grade must be blank or a whole number from 0 to 10"
)

// InitValidators registers the record validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(rawGradeTag, rawGradeValidation)
	core.RegisterCustomTranslation(validate, translator, rawGradeTag, rawGradeText)
}

// Custom Validators

// rawGradeValidation only allows "" and the whole numbers "0" to "10".
func rawGradeValidation(fl validator.FieldLevel) bool {
	if g, ok := fl.Field().Interface().(string); ok {
		_, valid := parseGrade(g)
		return valid
	}
	return false
}
