// Package validation turns request bodies into checked request structs and
// reports problems as a map of field path to messages.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SchemaField collects errors that do not belong to a single field.
const SchemaField = "_schema"

// RequiredMessage is reported for a field that was not supplied.
const RequiredMessage = "Missing data for required field."

// Errors maps a dotted field path to its messages.
type Errors map[string][]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Merge copies other into e with every field prefixed by prefix.
func (e Errors) Merge(prefix string, other Errors) {
	for field, messages := range other {
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		e[key] = append(e[key], messages...)
	}
}

// Collect merges the field errors carried by err into e under prefix. Any
// other non-nil error is returned unchanged.
func (e Errors) Collect(prefix string, err error) error {
	if err == nil {
		return nil
	}
	if fieldErrs, ok := IsErrors(err); ok {
		e.Merge(prefix, fieldErrs)
		return nil
	}
	return err
}

// Err returns nil when e holds no errors, so callers can write
// `return errs.Err()`.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Normalizer is implemented by request structs that clean up their input
// (for example dropping empty optional values) before validation.
type Normalizer interface {
	Normalize()
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// Body is embedded by request structs whose decode errors must wait until the
// target record has been looked up and authorized. Decode stores the error on
// the Body instead of returning it, and Struct reports it first.
type Body struct {
	decodeErr error
}

func (b *Body) recordDecodeErr(err error) { b.decodeErr = err }

func (b *Body) recordedDecodeErr() error { return b.decodeErr }

type decodeRecorder interface {
	recordDecodeErr(err error)
	recordedDecodeErr() error
}

// DecodeError returns the decode error recorded on obj's embedded Body, if
// any.
func DecodeError(obj interface{}) error {
	if r, ok := obj.(decodeRecorder); ok {
		return r.recordedDecodeErr()
	}
	return nil
}

// Decode reads a JSON object from body into obj and normalizes it. An empty
// body decodes as an empty object. If obj embeds Body a malformed body is
// recorded there and Decode returns nil.
func Decode(body io.Reader, obj interface{}) error {
	if body != nil {
		err := json.NewDecoder(body).Decode(obj)
		if err != nil && !errors.Is(err, io.EOF) {
			errs := decodeErrors(err)
			if r, ok := obj.(decodeRecorder); ok {
				r.recordDecodeErr(errs)
				return nil
			}
			return errs
		}
	}
	if n, ok := obj.(Normalizer); ok {
		n.Normalize()
	}
	return nil
}

func decodeErrors(err error) Errors {
	errs := Errors{}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		errs.Add(typeErr.Field, fmt.Sprintf("Not a valid %s.", kindName(typeErr.Type)))
		return errs
	}

	errs.Add(SchemaField, "Invalid input type.")
	return errs
}

func kindName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return t.Kind().String()
	}
}

// Struct runs the binding tags of obj and returns the failures, or nil. A
// decode error recorded on an embedded Body is returned instead.
func Struct(obj interface{}) error {
	if err := DecodeError(obj); err != nil {
		return err
	}

	err := binding.Validator.ValidateStruct(obj)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := Errors{}
	for _, fe := range fieldErrs {
		errs.Add(fieldPath(fe.Namespace()), message(fe))
	}
	return errs
}

// fieldPath drops the root struct name from a validator namespace such as
// "createGameRequest.title".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return RequiredMessage
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Shorter than minimum length %s.", fe.Param())
		}
		return fmt.Sprintf("Must be greater than or equal to %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Longer than maximum length %s.", fe.Param())
		}
		return fmt.Sprintf("Must be less than or equal to %s.", fe.Param())
	case "datetime":
		return "Not a valid date."
	case "url":
		return "Not a valid URL."
	default:
		return fmt.Sprintf("Failed %s validation.", fe.Tag())
	}
}

// IsErrors reports whether err carries field errors.
func IsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}
