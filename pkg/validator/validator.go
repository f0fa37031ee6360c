package validator

import (
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("id", validateID)
	return &CustomValidator{
		validator: v,
	}
}

// validateID accepts a positive base-10 integer written with digits only that
// fits in an int64.
func validateID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	return err == nil && id > 0
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errs[field] = field + " is required"
			case "email":
				errs[field] = field + " must be a valid email address"
			case "min":
				if e.Kind() == reflect.Slice {
					errs[field] = "select at least " + e.Param() + " " + strings.ToLower(field)
					break
				}
				errs[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errs[field] = field + " must be at most " + e.Param() + " characters"
			case "gt", "gte":
				errs[field] = field + " must be greater than " + e.Param()
			case "numeric", "number":
				errs[field] = field + " must be a number"
			case "id":
				errs[field] = field + " must be a valid id"
			case "oneof":
				errs[field] = field + " must be one of: " + e.Param()
			case "datetime":
				errs[field] = field + " must be a date in the form YYYY-MM-DD"
			default:
				errs[field] = field + " is invalid"
			}
		}
	}

	return errs
}

// Summary joins the formatted errors into one sentence, ordered by field name.
func (cv *CustomValidator) Summary(err error) string {
	errs := cv.FormatValidationErrors(err)
	if len(errs) == 0 {
		if err != nil {
			return "Invalid input"
		}
		return ""
	}

	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, len(fields))
	for i, field := range fields {
		messages[i] = errs[field]
	}
	return strings.Join(messages, "; ")
}
