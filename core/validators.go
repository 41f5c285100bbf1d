package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	roleTag  = "role"
	roleText = "must be either student or teacher"

	gradeTag  = "grade"
	gradeText = "must be a known grade or level"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"

	// grade labels offered by the posts board
	knownGrades = []string{
		"Grade 1", "Grade 2", "Grade 3", "Grade 4", "Grade 5",
		"Grade 6", "Grade 7", "Grade 8", "Grade 9", "Grade 10",
		"Grade 11", "O/L", "A/L", "University",
	}
)

func init() {
	Validate = validator.New()
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	Translator, _ = uni.GetTranslator("en")
	InitValidators(Validate, Translator)
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(roleTag, roleValidation)
	RegisterCustomTranslation(validate, translator, roleTag, roleText)

	_ = validate.RegisterValidation(gradeTag, gradeValidation)
	RegisterCustomTranslation(validate, translator, gradeTag, gradeText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// roleValidation only allows the two marketplace roles.
func roleValidation(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	return role == "student" || role == "teacher"
}

// gradeValidation only allows grade labels the board knows about.
func gradeValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, g := range knownGrades {
		if val == g {
			return true
		}
	}
	return false
}
