package utils

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/currency"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Same tag gin uses, so request DTOs validate identically outside HTTP
	validate.SetTagName("binding")

	// Use JSON tag names for validation errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("currency_code", validateCurrencyCode)
}

// Validator exposes the shared instance so gin binding can register the same
// custom tags.
func Validator() *validator.Validate {
	return validate
}

// RegisterCustomValidations adds the custom tags to another validator, e.g.
// the one gin uses for ShouldBindJSON.
func RegisterCustomValidations(v *validator.Validate) error {
	return v.RegisterValidation("currency_code", validateCurrencyCode)
}

var ginValidatorsOnce sync.Once

// RegisterGinValidators installs the custom tags on gin's binding validator.
// Safe to call more than once.
func RegisterGinValidators() error {
	var err error
	ginValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
			return
		}
		err = RegisterCustomValidations(v)
	})
	return err
}

// validateCurrencyCode accepts empty values (use omitempty/required to
// control presence) and three-letter ISO 4217 codes.
func validateCurrencyCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if code == "" {
		return true
	}
	return IsCurrencyCode(code)
}

// IsCurrencyCode reports whether code is a known ISO 4217 currency code.
func IsCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	_, err := currency.ParseISO(code)
	return err == nil
}

// ValidateStruct validates a struct and returns a user-friendly error
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return errors.NewValidationError("Validation failed", err.Error())
	}

	var errorMessages []string
	for _, fieldError := range validationErrors {
		errorMessages = append(errorMessages, getFieldErrorMessage(fieldError))
	}

	return errors.NewValidationError(
		"Validation failed",
		strings.Join(errorMessages, "; "),
	)
}

// getFieldErrorMessage returns a user-friendly error message for a field validation error
func getFieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "numeric":
		return fmt.Sprintf("%s must be a valid number", field)
	case "currency_code":
		return fmt.Sprintf("%s must be a three-letter ISO 4217 currency code", field)
	default:
		return fmt.Sprintf("%s failed validation for '%s'", field, tag)
	}
}
