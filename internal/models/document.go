package models

const (
	FieldID        = "_id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// Document is the storage-native form of an entity. Documents returned by a
// store always carry FieldID as a string.
type Document map[string]any

func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// Clone returns a shallow copy of d.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Condition is one field == value clause of a Filter.
type Condition struct {
	Field string
	Value any
}

// Filter is an equality filter. Conditions keep the order they were added in.
type Filter struct {
	conds []Condition
}

func NewFilter() *Filter {
	return &Filter{}
}

// Eq adds field == value, replacing an earlier condition on the same field.
func (f *Filter) Eq(field string, value any) *Filter {
	for i := range f.conds {
		if f.conds[i].Field == field {
			f.conds[i].Value = value
			return f
		}
	}
	f.conds = append(f.conds, Condition{Field: field, Value: value})
	return f
}

func (f *Filter) Conditions() []Condition {
	if f == nil {
		return nil
	}
	return f.conds
}

func (f *Filter) Empty() bool {
	return f == nil || len(f.conds) == 0
}

// Map returns the filter as a field -> value map.
func (f *Filter) Map() map[string]any {
	m := make(map[string]any, len(f.Conditions()))
	for _, c := range f.Conditions() {
		m[c.Field] = c.Value
	}
	return m
}
