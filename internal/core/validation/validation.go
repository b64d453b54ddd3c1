// Package validation wraps go-playground/validator with the field naming used on the wire.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rivo/uniseg"
)

// MaxTextGraphemes bounds post and comment text
const MaxTextGraphemes = 144

var usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("graphemes", func(fl validator.FieldLevel) bool {
		return TextLength(fl.Field().String()) <= MaxTextGraphemes
	})
}

// FieldError names the first offending field of a struct
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Struct validates v and returns the first failure as a *FieldError
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &FieldError{Field: fe.Field(), Message: message(fe)}
}

// TextLength counts user-perceived characters
func TextLength(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// CheckText enforces the 1..144 grapheme rule for posts and comments
func CheckText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &FieldError{Field: "text", Message: "This field may not be blank."}
	}
	if TextLength(text) > MaxTextGraphemes {
		return &FieldError{Field: "text", Message: fmt.Sprintf("Ensure this field has no more than %d characters.", MaxTextGraphemes)}
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url", "http_url":
		return "Enter a valid URL."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "graphemes":
		return fmt.Sprintf("Ensure this field has no more than %d characters.", MaxTextGraphemes)
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "datetime":
		return "Date has wrong format. Use YYYY-MM-DD."
	case "eqfield":
		return "Password fields didn't match."
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
