package report

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Dharshini-7v/report-card/core"
)

var (
	noStudentsTag  = "nostudents"
	noStudentsText = ErrNoStudents.Error()
)

// InitValidators registers the report validations. core.InitValidators must run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(submitRequestStructValidation, SubmitRequest{})
	core.RegisterCustomTranslation(validate, translator, noStudentsTag, noStudentsText)
}

// Validate trims student names and checks the request.
func (sr *SubmitRequest) Validate(validate *validator.Validate) error {
	for i := range sr.Students {
		sr.Students[i].Name = core.CleanString(sr.Students[i].Name)
	}
	return validate.Struct(sr)
}

// submitRequestStructValidation reports an empty batch with the processor's own message.
func submitRequestStructValidation(sl validator.StructLevel) {
	if sr, ok := sl.Current().Interface().(SubmitRequest); ok {
		if sr.Students != nil && len(sr.Students) == 0 {
			sl.ReportError(sr.Students, "students", "Students", noStudentsTag, "")
		}
	}
}
