// Package validation checks request structs with go-playground/validator and
// reports failures as a list of per-field errors.
//
// Struct fields declare their rules in the `validate` tag and the message
// reported to clients in the `msg` tag. A `msg_<rule>` tag overrides `msg`
// for one rule. The field path is taken from the `json` tag.
//
// Besides the built-in rules, `maxbytes=N` limits a string's length in
// bytes rather than characters.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= n
	})
	return v
}

// FieldError describes one rejected request field.
type FieldError struct {
	Type     string      `json:"type"`
	Value    interface{} `json:"value"`
	Msg      string      `json:"msg"`
	Path     string      `json:"path"`
	Location string      `json:"location"`
}

// Field builds an Error for a single field.
func Field(path string, value interface{}, msg string) *Error {
	return &Error{Errors: []FieldError{{
		Type:     "field",
		Value:    value,
		Msg:      msg,
		Path:     path,
		Location: "body",
	}}}
}

// Error is returned when a request fails validation.
type Error struct {
	Errors []FieldError
}

func (e *Error) Error() string {
	paths := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		paths = append(paths, fe.Path)
	}
	return fmt.Sprintf("invalid fields: %s", strings.Join(paths, ", "))
}

// Struct validates v, which must be a struct or a pointer to one. It returns
// nil or an *Error listing every failing field in declaration order.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := &Error{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Type:     "field",
			Value:    fe.Value(),
			Msg:      message(t, fe),
			Path:     fe.Field(),
			Location: "body",
		})
	}
	return out
}

func message(t reflect.Type, fe validator.FieldError) string {
	if f, ok := t.FieldByName(fe.StructField()); ok {
		if msg := f.Tag.Get("msg_" + fe.Tag()); msg != "" {
			return msg
		}
		if msg := f.Tag.Get("msg"); msg != "" {
			return msg
		}
	}
	return "Invalid value"
}
