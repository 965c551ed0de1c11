// Package validation decodes JSON request bodies into typed payloads and
// checks them against their `validate` struct tags. A rejected payload is
// reported as the first failing field only.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DetailContext names the field a Detail refers to.
type DetailContext struct {
	Label string `json:"label"`
	Key   string `json:"key,omitempty"`
}

// Detail describes a single validation failure.
type Detail struct {
	Message string        `json:"message"`
	Path    []string      `json:"path"`
	Type    string        `json:"type"`
	Context DetailContext `json:"context"`
}

// Error is returned by Decode when the payload is rejected.
type Error struct {
	Detail Detail
}

func (e *Error) Error() string {
	return e.Detail.Message
}

// ErrMalformedJSON is returned when the body is not parseable JSON.
var ErrMalformedJSON = errors.New("malformed json body")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	return v
}

// Decode parses body into T and validates it. An empty body is treated as {}.
//
// Declared fields are checked in struct order, each one for type, then presence,
// then its remaining rules. Keys T does not declare are reported after every
// declared field passed, in document order. Numeric strings are accepted for
// number fields and an explicit null is rejected as the wrong type.
func Decode[T any](body []byte) (T, error) {
	var out T
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		return out, ErrMalformedJSON
	}

	keys, fields, err := readObject(body)
	if err != nil {
		return out, err
	}

	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.Struct {
		return out, fmt.Errorf("validation: %T is not a struct", out)
	}
	rt := rv.Type()

	declared := make(map[string]bool, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		key := jsonName(sf)
		if key == "" || !sf.IsExported() {
			continue
		}
		declared[key] = true

		if raw, ok := fields[key]; ok {
			if err := decodeField(rv.Field(i), key, raw); err != nil {
				return out, err
			}
		}
		if err := validate.StructPartial(out, sf.Name); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
				return out, fieldError(fieldErrs[0])
			}
			return out, err
		}
	}

	for _, key := range keys {
		if !declared[key] {
			return out, newError(key, "object.unknown", fmt.Sprintf("%q is not allowed", key))
		}
	}
	return out, nil
}

// readObject splits a valid JSON document into its top-level members, keeping
// the order in which keys first appear.
func readObject(body []byte) ([]string, map[string]json.RawMessage, error) {
	notObject := newError("value", "object.base", `"value" must be of type object`)

	dec := json.NewDecoder(bytes.NewReader(body))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil, nil, notObject
	}

	var keys []string
	fields := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, notObject
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		if _, seen := fields[key]; !seen {
			keys = append(keys, key)
		}
		fields[key] = raw
	}
	return keys, fields, nil
}

func jsonName(sf reflect.StructField) string {
	name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return sf.Name
	}
	return name
}

func decodeField(fv reflect.Value, key string, raw json.RawMessage) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return typeError(key, fv.Type())
	}

	target := reflect.New(fv.Type())
	err := json.Unmarshal(raw, target.Interface())
	if err == nil {
		fv.Set(target.Elem())
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if f, ok := numericString(raw); ok && setFloat(fv, f) {
		return nil
	}
	return typeError(key, fv.Type())
}

// numericString reports the value of a JSON string holding a finite number.
func numericString(raw json.RawMessage) (float64, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func setFloat(fv reflect.Value, f float64) bool {
	t := fv.Type()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Float32 && t.Kind() != reflect.Float64 {
		return false
	}
	v := reflect.New(t)
	v.Elem().SetFloat(f)
	if fv.Kind() == reflect.Ptr {
		fv.Set(v)
	} else {
		fv.Set(v.Elem())
	}
	return true
}

func typeError(key string, t reflect.Type) *Error {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return newError(key, "string.base", fmt.Sprintf("%q must be a string", key))
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return newError(key, "number.base", fmt.Sprintf("%q must be a number", key))
	case reflect.Bool:
		return newError(key, "boolean.base", fmt.Sprintf("%q must be a boolean", key))
	default:
		return newError(key, "any.invalid", fmt.Sprintf("%q contains an invalid value", key))
	}
}

func fieldError(fe validator.FieldError) *Error {
	key := fe.Field()
	switch fe.Tag() {
	case "required":
		return newError(key, "any.required", fmt.Sprintf("%q is required", key))
	case "min":
		v := reflect.Indirect(reflect.ValueOf(fe.Value()))
		if v.Kind() == reflect.String && v.Len() == 0 {
			return newError(key, "string.empty", fmt.Sprintf("%q is not allowed to be empty", key))
		}
		return newError(key, "string.min", fmt.Sprintf("%q length must be at least %s characters long", key, fe.Param()))
	default:
		return newError(key, "any.invalid", fmt.Sprintf("%q contains an invalid value", key))
	}
}

func newError(key, typ, message string) *Error {
	return &Error{Detail: Detail{
		Message: message,
		Path:    []string{key},
		Type:    typ,
		Context: DetailContext{Label: key, Key: key},
	}}
}
