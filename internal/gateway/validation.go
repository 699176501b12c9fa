package gateway

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"shareit/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var timeType = reflect.TypeOf(time.Time{})

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// В ошибках используем имена из json-тегов
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "storable", storableTime)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// storableTime rejects moments the server cannot persist.
func storableTime(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	return ok && models.StorableTime(t)
}

func fieldErrors(err error) []FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fields := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, FieldError{Field: e.Field(), Message: validationMessage(e)})
	}
	return fields
}

func validationMessage(e validator.FieldError) string {
	isTime := e.Type() == timeType
	switch e.Tag() {
	case "required":
		return "must be present"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid email"
	case "storable":
		return "must be between " + models.MinBookingTime.Format(time.RFC3339) + " and " + models.MaxBookingTime.Format(time.RFC3339)
	case "gte":
		if isTime {
			return "must not be in the past"
		}
		return "must be greater than or equal to " + e.Param()
	case "gt":
		if isTime {
			return "must be in the future"
		}
		return "must be greater than " + e.Param()
	default:
		return "is invalid"
	}
}
