package schema

import (
	"fmt"
	"strings"
)

const (
	ConstraintMissing = "missing"
	ConstraintType    = "type"
	ConstraintNull    = "null"
)

type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Param      string `json:"param,omitempty"`
	Message    string `json:"message"`
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationError lists every field of a payload that broke a constraint.
type ValidationError struct {
	Entity string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

func (e *ValidationError) add(fe FieldError) {
	e.Fields = append(e.Fields, fe)
}

func (e *ValidationError) has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field || strings.HasPrefix(field, f.Field+".") || strings.HasPrefix(field, f.Field+"[") {
			return true
		}
	}
	return false
}

// Field returns the first violation recorded for field.
func (e *ValidationError) Field(field string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f, true
		}
	}
	return FieldError{}, false
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func constraintMessage(tag, param string) string {
	switch tag {
	case ConstraintMissing:
		return "field required"
	case ConstraintNull:
		return "must not be null"
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "min":
		return "must have at least " + param + " element(s) or character(s)"
	default:
		if param != "" {
			return fmt.Sprintf("failed %s=%s", tag, param)
		}
		return "failed " + tag
	}
}
