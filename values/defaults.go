package values

import "fmt"

// DefaultRegistry is a caller-populated table of per-field default
// values, keyed by record identity (package + name) and field name. It
// stands in for the external record-default-constructor spec §6
// describes (createRecordValueWithDefaultValues): in a full type-system
// implementation this would consult the record's declared default
// expressions, which are out of scope here (spec §1).
type DefaultRegistry struct {
	defaults map[string]map[string]any
}

// NewDefaultRegistry returns an empty registry. A nil *DefaultRegistry is
// valid and behaves as if empty (every field falls back to nil).
func NewDefaultRegistry() *DefaultRegistry {
	return &DefaultRegistry{defaults: make(map[string]map[string]any)}
}

// Register records the default value for pkg.name's field.
func (r *DefaultRegistry) Register(pkg, name, field string, value any) {
	key := pkg + "." + name
	if r.defaults[key] == nil {
		r.defaults[key] = make(map[string]any)
	}
	r.defaults[key][field] = value
}

func (r *DefaultRegistry) lookup(pkg, name, field string) (any, bool) {
	if r == nil {
		return nil, false
	}
	fields, ok := r.defaults[pkg+"."+name]
	if !ok {
		return nil, false
	}
	v, ok := fields[field]
	return v, ok
}

// CreateRecordValueWithDefaultValues returns a fresh MapValue populated
// with the registry's defaults for notProvidedFieldNames, falling back
// to nil for any field the registry doesn't know about — the caller (the
// core parser's finalisation step) is responsible for rejecting a nil
// default against a required field before ever reaching this call.
func (r *DefaultRegistry) CreateRecordValueWithDefaultValues(pkg, name string, notProvidedFieldNames []string) (*MapValue, error) {
	if pkg == "" || name == "" {
		return nil, fmt.Errorf("values: record identity must include package and name")
	}
	rec := NewMapValue()
	for _, field := range notProvidedFieldNames {
		v, _ := r.lookup(pkg, name, field)
		if err := rec.PutForcefully(field, v); err != nil {
			return nil, err
		}
	}
	return rec, nil
}
