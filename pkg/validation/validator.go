package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
)

// DOBLayout is the wire format for dates of birth.
const DOBLayout = "2006-01-02"

// MinSignupAge is enforced at the registration boundary.
const MinSignupAge = 13

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags and the minage13 date-of-birth rule.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("minage13", minAge13)
		// Aliases for common semantics
		v.RegisterAlias("pwd", "min=8")      // password minimum length
		v.RegisterAlias("fullname", "min=2") // display name minimum length
		v.RegisterAlias("phone", "min=10")   // phone number minimum digits
	}
}

// minAge13 validates a dob string: it must parse as a date and yield an age of
// at least MinSignupAge today, computed with calendar arithmetic so a user
// turning 13 on the submission date passes.
func minAge13(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	dob, err := time.Parse(DOBLayout, s)
	if err != nil {
		return false
	}
	return entity.AgeAt(dob, time.Now().UTC()) >= MinSignupAge
}

// ToDetails converts validation/binding errors into a map[field]message
// suitable for the error field of the API envelope.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	// Validation errors from validator.v10
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "e164":
		return "must be a valid phone number"
	case "minage13":
		return fmt.Sprintf("must imply an age of at least %d years", MinSignupAge)
	case "datetime":
		if param != "" {
			return "must match date format: " + param
		}
		return "must be a valid date"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "len":
		if param != "" {
			return fmt.Sprintf("must be exactly %s characters long", param)
		}
		return "invalid length"
	case "min", "pwd", "fullname", "phone":
		p := param
		if p == "" {
			switch tag {
			case "pwd":
				p = "8"
			case "fullname":
				p = "2"
			case "phone":
				p = "10"
			}
		}
		if p != "" {
			if isNumberKind(kind) {
				return "must be at least " + p
			}
			return "must be at least " + p + " characters long"
		}
		return "too small"
	case "max":
		if param != "" {
			if isNumberKind(kind) {
				return "must be at most " + param
			}
			return "must be at most " + param + " characters long"
		}
		return "too large"
	case "eqfield":
		return "must be equal to " + param + " field"
	case "alphanum":
		return "must contain alphanumeric characters only"
	case "lowercase":
		return "must be in lowercase"
	case "boolean":
		return "must be a boolean value"
	case "numeric":
		return "must be numeric"
	case "jwt":
		return "must be a valid token"
	default:
		return "is invalid"
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
