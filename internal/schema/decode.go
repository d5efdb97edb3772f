// Package schema decodes raw JSON payloads into typed entities and enforces
// their field constraints.
//
// Fields are declared on the model structs:
//
//	json:"name"          wire and document name
//	schema:"required"    the field must be present in the payload
//	validate:"gte=0"     range and length rules (go-playground/validator)
//
// Pointer fields are optional and accept null. Every other field rejects null.
// Absent fields keep the value set by the model's SetDefaults method.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/safar/jewelry-store/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	return v
}

// Decode fills dst, a pointer to a model struct, from the JSON object in body.
// All violations are collected into a single *ValidationError.
func Decode(body []byte, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("schema: decode target must be a non-nil struct pointer, got %T", dst)
	}

	verr := &ValidationError{Entity: entityName(dst)}

	fields, err := objectFields(body)
	if err != nil {
		verr.add(FieldError{Field: "body", Constraint: ConstraintType, Message: "must be a JSON object"})
		return verr
	}

	decodeStruct("", fields, rv.Elem(), verr)
	checkRules(dst, verr)

	return verr.orNil()
}

// Validate checks the rules of an already typed entity.
func Validate(entity any) error {
	verr := &ValidationError{Entity: entityName(entity)}
	checkRules(entity, verr)
	return verr.orNil()
}

func decodeStruct(prefix string, fields map[string]json.RawMessage, v reflect.Value, verr *ValidationError) {
	if d, ok := v.Addr().Interface().(models.Defaulter); ok {
		d.SetDefaults()
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := jsonName(sf)
		if name == "" {
			continue
		}

		path := joinPath(prefix, name)
		fv := v.Field(i)
		raw, present := fields[name]

		if !present {
			if isRequired(sf) {
				verr.add(newFieldError(path, ConstraintMissing, ""))
			}
			continue
		}
		decodeValue(path, raw, fv, verr)
	}
}

// decodeValue stores one present JSON value into fv. Only pointers accept null,
// and list elements are checked one by one.
func decodeValue(path string, raw json.RawMessage, fv reflect.Value, verr *ValidationError) {
	if isNull(raw) {
		if fv.Kind() == reflect.Pointer {
			fv.SetZero()
		} else {
			verr.add(newFieldError(path, ConstraintNull, ""))
		}
		return
	}

	switch {
	case fv.Kind() == reflect.Pointer:
		elem := reflect.New(fv.Type().Elem())
		before := len(verr.Fields)
		decodeValue(path, raw, elem.Elem(), verr)
		if len(verr.Fields) == before {
			fv.Set(elem)
		}
	case isStructSlice(fv.Type()):
		decodeStructSlice(path, raw, fv, verr)
	case fv.Kind() == reflect.Slice:
		decodeSlice(path, raw, fv, verr)
	case isInteger(fv.Kind()):
		decodeInteger(path, raw, fv, verr)
	default:
		if err := json.Unmarshal(raw, fv.Addr().Interface()); err != nil {
			verr.add(typeError(path, fv.Type()))
		}
	}
}

func decodeSlice(path string, raw json.RawMessage, fv reflect.Value, verr *ValidationError) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		verr.add(typeError(path, fv.Type()))
		return
	}

	out := reflect.MakeSlice(fv.Type(), len(elems), len(elems))
	for i, elem := range elems {
		decodeValue(fmt.Sprintf("%s[%d]", path, i), elem, out.Index(i), verr)
	}
	fv.Set(out)
}

// decodeInteger accepts any JSON number without a fractional part, so 3 and
// 3.0 both decode to 3. Strings are never read as numbers.
func decodeInteger(path string, raw json.RawMessage, fv reflect.Value, verr *ValidationError) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		verr.add(typeError(path, fv.Type()))
		return
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		verr.add(typeError(path, fv.Type()))
		return
	}

	n, ok := wholeNumber(num)
	if !ok || fv.OverflowInt(n) {
		verr.add(typeError(path, fv.Type()))
		return
	}
	fv.SetInt(n)
}

func wholeNumber(num json.Number) (int64, bool) {
	if n, err := num.Int64(); err == nil {
		return n, true
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func decodeStructSlice(path string, raw json.RawMessage, fv reflect.Value, verr *ValidationError) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		verr.add(typeError(path, fv.Type()))
		return
	}

	out := reflect.MakeSlice(fv.Type(), len(elems), len(elems))
	for i, elem := range elems {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		if isNull(elem) {
			verr.add(newFieldError(elemPath, ConstraintNull, ""))
			continue
		}
		obj, err := objectFields(elem)
		if err != nil {
			verr.add(typeError(elemPath, fv.Type().Elem()))
			continue
		}
		decodeStruct(elemPath, obj, out.Index(i), verr)
	}
	fv.Set(out)
}

func checkRules(v any, verr *ValidationError) {
	err := validate.Struct(v)
	var ruleErrs validator.ValidationErrors
	if !errors.As(err, &ruleErrs) {
		return
	}
	for _, fe := range ruleErrs {
		path := namespacePath(fe.Namespace())
		// A field that failed to decode holds its default; its rules are moot.
		if verr.has(path) {
			continue
		}
		verr.add(newFieldError(path, fe.Tag(), fe.Param()))
	}
}

func objectFields(body []byte) (map[string]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	if body[0] != '{' {
		return nil, errors.New("not a JSON object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func newFieldError(path, constraint, param string) FieldError {
	return FieldError{
		Field:      path,
		Constraint: constraint,
		Param:      param,
		Message:    constraintMessage(constraint, param),
	}
}

func typeError(path string, t reflect.Type) FieldError {
	return FieldError{
		Field:      path,
		Constraint: ConstraintType,
		Message:    "must be " + typeName(t),
	}
}

func jsonName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return sf.Name
	}
	return name
}

func isRequired(sf reflect.StructField) bool {
	for _, opt := range strings.Split(sf.Tag.Get("schema"), ",") {
		if opt == "required" {
			return true
		}
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isStructSlice(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Struct
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// namespacePath drops the struct name validator puts in front of a field path.
func namespacePath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func entityName(v any) string {
	if e, ok := v.(models.Entity); ok {
		return e.Kind().Collection()
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return strings.ToLower(t.Name())
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "a list"
	case reflect.Struct, reflect.Map:
		return "an object"
	}
	return t.String()
}
