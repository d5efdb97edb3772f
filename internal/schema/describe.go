package schema

import (
	"reflect"
	"strings"

	"github.com/safar/jewelry-store/internal/models"
)

type FieldSchema struct {
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	Required    bool          `json:"required"`
	Nullable    bool          `json:"nullable"`
	Default     any           `json:"default,omitempty"`
	Constraints []string      `json:"constraints,omitempty"`
	Items       []FieldSchema `json:"items,omitempty"`
}

type CollectionSchema struct {
	Entity     string        `json:"entity"`
	Collection string        `json:"collection"`
	Fields     []FieldSchema `json:"fields"`
}

var prototypes = map[models.Kind]func() models.Entity{
	models.KindUser:           func() models.Entity { return &models.User{} },
	models.KindProduct:        func() models.Entity { return &models.Product{} },
	models.KindJewelryProduct: func() models.Entity { return &models.JewelryProduct{} },
	models.KindOrder:          func() models.Entity { return &models.Order{} },
}

// New returns an empty entity of kind k, or nil for an unknown kind.
func New(k models.Kind) models.Entity {
	if fn, ok := prototypes[k]; ok {
		return fn()
	}
	return nil
}

func Describe(k models.Kind) (CollectionSchema, bool) {
	e := New(k)
	if e == nil {
		return CollectionSchema{}, false
	}
	return CollectionSchema{
		Entity:     k.String(),
		Collection: k.Collection(),
		Fields:     describeStruct(reflect.ValueOf(e).Elem()),
	}, true
}

func DescribeAll() []CollectionSchema {
	out := make([]CollectionSchema, 0, len(models.Kinds))
	for _, k := range models.Kinds {
		if s, ok := Describe(k); ok {
			out = append(out, s)
		}
	}
	return out
}

func describeStruct(v reflect.Value) []FieldSchema {
	if d, ok := v.Addr().Interface().(models.Defaulter); ok {
		d.SetDefaults()
	}

	t := v.Type()
	fields := make([]FieldSchema, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name := jsonName(sf)
		if !sf.IsExported() || name == "" {
			continue
		}

		fs := FieldSchema{
			Name:        name,
			Type:        jsonType(sf.Type),
			Required:    isRequired(sf),
			Nullable:    sf.Type.Kind() == reflect.Pointer,
			Constraints: ruleList(sf.Tag.Get("validate")),
		}
		if !fs.Required && !fs.Nullable {
			fs.Default = v.Field(i).Interface()
		}
		if isStructSlice(sf.Type) {
			fs.Items = describeStruct(reflect.New(sf.Type.Elem()).Elem())
		}
		fields = append(fields, fs)
	}
	return fields
}

func ruleList(tag string) []string {
	var rules []string
	for _, r := range strings.Split(tag, ",") {
		switch r {
		case "", "omitempty", "dive":
			continue
		}
		rules = append(rules, r)
	}
	return rules
}

func jsonType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice:
		return "array"
	}
	return "object"
}
