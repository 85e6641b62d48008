package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes one invalid configuration key.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidationErrors collects every invalid key found in one pass.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Canonical encoding names accepted by csv_settings.encoding.
const (
	EncodingUTF8        = "UTF-8"
	EncodingISO88591    = "ISO-8859-1"
	EncodingWindows1252 = "Windows-1252"
)

var encodingAliases = map[string]string{
	"UTF-8":        EncodingUTF8,
	"UTF8":         EncodingUTF8,
	"ISO-8859-1":   EncodingISO88591,
	"LATIN1":       EncodingISO88591,
	"LATIN-1":      EncodingISO88591,
	"WINDOWS-1252": EncodingWindows1252,
	"CP1252":       EncodingWindows1252,
}

// CanonicalEncoding maps an encoding name or alias to its canonical form.
// Empty means UTF-8. Unknown names return "".
func CanonicalEncoding(name string) string {
	if strings.TrimSpace(name) == "" {
		return EncodingUTF8
	}
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "_", "-"))
	return encodingAliases[key]
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report yaml key names instead of Go field names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	if err := v.RegisterValidation("encoding", func(fl validator.FieldLevel) bool {
		return CanonicalEncoding(fl.Field().String()) != ""
	}); err != nil {
		panic(fmt.Sprintf("failed to register 'encoding' validator: %v", err))
	}

	return v
}

// Validate checks c against its struct tags.
func (c *MainConfig) Validate() error {
	return validateMainConfig(c)
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if err := validate.Struct(config); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	validationErrors := make(ValidationErrors, 0, len(errs))

	for _, err := range errs {
		field := fieldPath(err)
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = "is required"
		case "required_if":
			message = fmt.Sprintf("is required when %s", err.Param())
		case "min":
			message = fmt.Sprintf("must be at least %s", err.Param())
		case "max":
			message = fmt.Sprintf("must be at most %s", err.Param())
		case "gte":
			message = fmt.Sprintf("must be >= %s", err.Param())
		case "lte":
			message = fmt.Sprintf("must be <= %s", err.Param())
		case "gtfield":
			message = fmt.Sprintf("must be greater than %s", err.Param())
		case "oneof":
			message = fmt.Sprintf("must be one of [%s]", err.Param())
		case "encoding":
			message = fmt.Sprintf("must be one of [%s %s %s]", EncodingUTF8, EncodingISO88591, EncodingWindows1252)
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   field,
			Message: message,
		})
	}

	return validationErrors
}

// fieldPath drops the root struct name from the namespace:
// "MainConfig.matching.threshold" becomes "matching.threshold".
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
