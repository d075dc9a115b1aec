package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrTermsNotAccepted = errors.New("terms and conditions must be accepted")

// Draft carries the transient customer and billing data collected across
// checkout steps. It exists only while checkout is in progress and is never
// persisted.
type Draft struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" validate:"required,min=2"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company,omitempty"`

	Address string `json:"address" validate:"required,min=5"`
	City    string `json:"city" validate:"required,min=2"`
	State   string `json:"state" validate:"required,min=2"`
	ZipCode string `json:"zipCode" validate:"required,min=3"`
	Country string `json:"country" validate:"required,min=2"`

	AgreeToTerms        bool `json:"agreeToTerms"`
	SubscribeNewsletter bool `json:"subscribeNewsletter"`
}

// ValidationError carries field-level messages for a blocked transition.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return fmt.Sprintf("checkout draft validation failed: %s", strings.Join(names, ", "))
}

var draftValidator = validator.New()

// ValidateContact checks the contact and billing portion of the draft,
// the guard for leaving the Information step. Terms acceptance is
// deliberately excluded; that guard belongs to the Review submit.
func (d Draft) ValidateContact() error {
	err := draftValidator.Struct(d)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return err
	}
	fields := map[string]string{}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			fields[jsonField(fe.StructField())] = fieldMessage(fe)
		}
	}
	return &ValidationError{Fields: fields}
}

// ValidateTerms guards the Review submit: the terms box must be ticked,
// newsletter opt-in stays optional.
func (d Draft) ValidateTerms() error {
	if !d.AgreeToTerms {
		return ErrTermsNotAccepted
	}
	return nil
}

func jsonField(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Email":
		return "Invalid email address"
	case "FirstName":
		return "First name must be at least 2 characters"
	case "LastName":
		return "Last name must be at least 2 characters"
	case "Address":
		return "Address must be at least 5 characters"
	case "City":
		return "City is required"
	case "State":
		return "State/Province is required"
	case "ZipCode":
		return "ZIP/Postal code is required"
	case "Country":
		return "Country is required"
	default:
		return fmt.Sprintf("%s is invalid", jsonField(fe.StructField()))
	}
}
