package rsvp

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NoGuestsMessage is shown inline when both guest counters are zero.
const NoGuestsMessage = "There should be at least one Vegetarian or Non-vegetarian guest."

// PasswordIncorrectMessage is the field message for a code that fails the submit gate.
const PasswordIncorrectMessage = "Password incorrect"

const (
	NameRequiredMessage  = "Name is required"
	EmailRequiredMessage = "Email is required"
	EmailInvalidMessage  = "Invalid email address"
	CodeRequiredMessage  = "Code is required"
)

var ErrNoGuests = errors.New("rsvp: at least one guest is required")

// FieldError is a recoverable, per-field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that blocks a submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "rsvp: invalid submission: " + strings.Join(parts, "; ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// CodeChecker verifies the access code or password typed into the form.
type CodeChecker interface {
	Verify(code string) bool
}

// Validator applies the submission rules. The same instance backs the client form and the
// write endpoint so both sides reject exactly the same drafts.
type Validator struct {
	validate *validator.Validate
	codes    CodeChecker
}

// NewValidator returns a Validator. A nil checker means the code is only required to be present.
func NewValidator(codes CodeChecker) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v, codes: codes}
}

// Normalize trims every text field.
func Normalize(d Draft) Draft {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Code = strings.TrimSpace(d.Code)
	return d
}

// Validate returns a *ValidationError when any field is invalid, ErrNoGuests when the fields
// are fine but both counters are zero, and nil otherwise. Text fields are checked after trimming.
func (v *Validator) Validate(d Draft) error {
	d = Normalize(d)

	var fields []FieldError

	if err := v.validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: messageFor(fe)})
		}
	}

	if d.Code != "" && v.codes != nil && !v.codes.Verify(d.Code) {
		fields = append(fields, FieldError{Field: "code", Message: PasswordIncorrectMessage})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if d.Veg == 0 && d.NonVeg == 0 {
		return ErrNoGuests
	}

	return nil
}

func messageFor(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		return NameRequiredMessage
	case "email":
		if fe.Tag() == "email" {
			return EmailInvalidMessage
		}
		return EmailRequiredMessage
	case "code":
		return CodeRequiredMessage
	case "veg", "nonVeg":
		if fe.Tag() == "lte" {
			return fmt.Sprintf("People count cannot exceed %d", MaxGuestsPerMeal)
		}
		return "People count cannot be negative"
	}
	return "Invalid value"
}
