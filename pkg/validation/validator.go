package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError is one failed constraint on a named form field.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

// FieldErrors keeps validation failures in struct field order.
type FieldErrors []FieldError

func (fe FieldErrors) Has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Get returns the first message recorded for field, or "".
func (fe FieldErrors) Get(field string) string {
	for _, e := range fe {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// Add records a message unless field already has one.
func (fe *FieldErrors) Add(field, tag, message string) {
	if fe.Has(field) {
		return
	}
	*fe = append(*fe, FieldError{Field: field, Tag: tag, Message: message})
}

// Map is the template-friendly view: field -> first message.
func (fe FieldErrors) Map() map[string]string {
	out := make(map[string]string, len(fe))
	for _, e := range fe {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

var validate = configure(validator.New())

func configure(v *validator.Validate) *validator.Validate {
	v.RegisterTagNameFunc(fieldName)
	v.RegisterAlias("pwd", "min=6")
	return v
}

// fieldName prefers the form tag, then json, so errors line up with the
// submitted input names.
func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"form", "json"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Init configures the validator used by Gin's binding the same way as Struct.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

// Struct validates s and returns its failures, or nil.
func Struct(s any) FieldErrors {
	return ToFieldErrors(validate.Struct(s))
}

// ToFieldErrors converts validator errors into FieldErrors. Other errors
// become a single "form" entry.
func ToFieldErrors(err error) FieldErrors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{{Field: "form", Tag: "invalid", Message: "The submitted form is invalid."}}
	}
	out := make(FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		out.Add(fe.Field(), fe.Tag(), formatFieldError(fe))
	}
	return out
}

func formatFieldError(fe validator.FieldError) string {
	label := humanize(fe.Field())
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return label + " must be a valid email address."
	case "min":
		if isNumberKind(fe.Kind()) {
			return fmt.Sprintf("%s must be at least %s.", label, param)
		}
		return fmt.Sprintf("%s must be at least %s characters long.", label, param)
	case "max":
		if isNumberKind(fe.Kind()) {
			return fmt.Sprintf("%s must be at most %s.", label, param)
		}
		return fmt.Sprintf("%s must be at most %s characters long.", label, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", label, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s.", label, param)
	case "eqfield":
		return "The password fields must match."
	case "number", "numeric":
		return label + " must be a number."
	case "oneof":
		return label + " must be one of: " + strings.Join(strings.Fields(param), ", ") + "."
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}

// humanize turns "user[date_from]" or "password_confirm" into a label.
func humanize(field string) string {
	if i := strings.LastIndex(field, "["); i >= 0 {
		field = strings.TrimSuffix(field[i+1:], "]")
	}
	field = strings.ReplaceAll(field, "_", " ")
	if field == "" {
		return "Value"
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
