package validation

import (
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

func (v *Validator) Struct(s interface{}) error {
	return v.v.Struct(s)
}

func (v *Validator) ValidationErrors(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok {
		return ve
	}
	return nil
}

// FieldFailed reports whether the given struct field is among the
// validation failures.
func (v *Validator) FieldFailed(err error, field string) bool {
	for _, fe := range v.ValidationErrors(err) {
		if fe.Field() == field {
			return true
		}
	}
	return false
}
