package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Result is the outcome of validating one input. Callers must check Valid
// before using the input; expected-invalid input never produces an error
// value, only entries in Errors.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validator wraps the struct validator with the custom rules the input
// shapes use.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the notblank rule registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{validate: v}
}

// Check validates a tagged input struct and flattens field errors into
// human-readable messages.
func (v *Validator) Check(input interface{}) Result {
	err := v.validate.Struct(input)
	if err == nil {
		return Result{Valid: true}
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{Valid: false, Errors: []string{err.Error()}}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, messageFor(fe))
	}
	return Result{Valid: false, Errors: messages}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// InvoiceInput is the write shape for a new invoice row
type InvoiceInput struct {
	InvoiceNumber string  `json:"invoice_number" validate:"notblank"`
	CustomerName  string  `json:"customer_name" validate:"notblank"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	Status        string  `json:"status" validate:"oneof=unpaid partial paid void"`
	DueDate       string  `json:"due_date" validate:"notblank"`
}

// JobOrderInput is the write shape for a new job order row
type JobOrderInput struct {
	JobNumber    string  `json:"job_number" validate:"notblank"`
	CustomerName string  `json:"customer_name" validate:"notblank"`
	ServiceType  string  `json:"service_type" validate:"oneof=import export domestic warehousing"`
	Value        float64 `json:"value" validate:"gte=0"`
}

// PreferenceInput is the write shape for notification preferences
type PreferenceInput struct {
	Digest          string `json:"digest" validate:"oneof=immediate hourly daily"`
	QuietHoursStart string `json:"quiet_hours_start" validate:"omitempty,len=5"`
	QuietHoursEnd   string `json:"quiet_hours_end" validate:"omitempty,len=5"`
}
