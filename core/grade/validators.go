package grade

import (
	"fmt"
	"reflect"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"
)

var (
	gradeTag  = "grade"
	gradeText = "{0} is not a valid grade"

	gradePointTag  = "gradepoint"
	gradePointText = "{0} must be a grade point from 0 to 10"

	// suggestions below this similarity are not worth showing
	minSuggestRatio = 0.5
)

// InitValidators registers the grade validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(gradeTag, gradeValidation)
	_ = validate.RegisterTranslation(
		gradeTag, translator,
		func(t ut.Translator) error { return t.Add(gradeTag, gradeText, true) },
		translateGradeErr,
	)

	_ = validate.RegisterValidation(gradePointTag, gradePointValidation)
	_ = validate.RegisterTranslation(
		gradePointTag, translator,
		func(t ut.Translator) error { return t.Add(gradePointTag, gradePointText, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(gradePointTag, fe.Field())
			return s
		},
	)
}

// Suggest returns the scale symbol closest to an unknown grade, or "" if none is close enough.
func Suggest(grade string) string {
	g := normalize(grade)
	if g == "" {
		return ""
	}
	var (
		best      string
		bestRatio float64
	)
	for _, s := range Scale {
		ratio := difflib.NewMatcher(strings.Split(g, ""), strings.Split(s.Symbol, "")).Ratio()
		if ratio > bestRatio {
			best, bestRatio = s.Symbol, ratio
		}
	}
	if bestRatio < minSuggestRatio {
		return ""
	}
	return best
}

// Custom Validators

// gradeValidation only allows symbols of the grading scale.
func gradeValidation(fl validator.FieldLevel) bool {
	if g, ok := fl.Field().Interface().(string); ok {
		return Recognized(g)
	}
	return false
}

// gradePointValidation only allows numeric scores within the scale's range.
func gradePointValidation(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		p := fl.Field().Float()
		return p >= 0 && p <= MaxPoints
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		p := fl.Field().Int()
		return p >= 0 && p <= MaxPoints
	}
	return false
}

func translateGradeErr(t ut.Translator, fe validator.FieldError) string {
	val := fmt.Sprintf("%q", fmt.Sprint(fe.Value()))
	msg, _ := t.T(gradeTag, val)
	if s := Suggest(fmt.Sprint(fe.Value())); s != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", s)
	}
	return msg
}
