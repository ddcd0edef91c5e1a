// Package schema is the type-descriptor library the core parser consumes
// by reference (spec §3). It never parses JSON and never imports the
// core package: it is a closed, comparable-by-construction description
// of the shapes a caller wants materialised.
package schema

import "fmt"

// Kind is the closed tag set a Type can carry.
type Kind uint8

const (
	Int Kind = iota
	Signed8
	Signed16
	Signed32
	Unsigned8
	Unsigned16
	Unsigned32
	Byte
	Float
	Decimal
	String
	Boolean
	Null
	Map
	Record
	Array
	Tuple
	Union
	JSON

	// Reference and Intersection are not primitive tags in their own
	// right; ImpliedType strips them down to a Kind from the list above.
	Reference
	Intersection

	// ReadOnly is the synthetic marker member an Intersection carries to
	// represent Ballerina-style `T & readonly`; it never appears as the
	// result of ImpliedType.
	ReadOnly
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Signed8:
		return "int:Signed8"
	case Signed16:
		return "int:Signed16"
	case Signed32:
		return "int:Signed32"
	case Unsigned8:
		return "int:Unsigned8"
	case Unsigned16:
		return "int:Unsigned16"
	case Unsigned32:
		return "int:Unsigned32"
	case Byte:
		return "byte"
	case Float:
		return "float"
	case Decimal:
		return "decimal"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case Null:
		return "()"
	case Map:
		return "map"
	case Record:
		return "record"
	case Array:
		return "array"
	case Tuple:
		return "tuple"
	case Union:
		return "union"
	case JSON:
		return "json"
	case Reference:
		return "reference"
	case Intersection:
		return "intersection"
	case ReadOnly:
		return "readonly"
	default:
		return fmt.Sprintf("<unknown kind %d>", uint8(k))
	}
}

// ArrayState distinguishes a fixed-size ("closed") array from an
// open-ended one.
type ArrayState uint8

const (
	Open ArrayState = iota
	Closed
)

// Field is one declared RECORD member.
type Field struct {
	Name     string
	Type     *Type
	Required bool
}

// Type is the tagged-union type descriptor. Only the fields relevant to
// Kind are meaningful; the zero value of every irrelevant field is
// ignored by the core.
type Type struct {
	Kind Kind

	// MAP
	Elem *Type

	// RECORD
	Fields     []Field
	RestField  *Type
	Sealed     bool
	ReadOnly   bool
	Package    string
	Name       string

	// ARRAY
	ArrayElem      *Type
	ArraySize      int
	ArrayState     ArrayState
	HasFillerValue bool

	// TUPLE
	TupleElems []*Type
	TupleRest  *Type

	// UNION
	Members []*Type

	// REFERENCE
	RefTarget *Type

	// INTERSECTION
	IntersectionOf []*Type
}

// Field looks up a declared RECORD field by name.
func (t *Type) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ImpliedType strips reference and intersection wrappers down to a
// canonical, directly-inspectable Type. See DESIGN.md for the
// intersection-collapsing rule (not specified by spec.md).
func ImpliedType(t *Type) *Type {
	for t != nil {
		switch t.Kind {
		case Reference:
			t = t.RefTarget
		case Intersection:
			t = firstConcrete(t.IntersectionOf)
		default:
			return t
		}
	}
	return &Type{Kind: Null}
}

func firstConcrete(members []*Type) *Type {
	for _, m := range members {
		if m == nil {
			continue
		}
		if m.Kind == ReadOnly {
			continue
		}
		return m
	}
	if len(members) > 0 {
		return members[0]
	}
	return &Type{Kind: Null}
}

// IsPrimitive reports whether k is one of the scalar convertValues tags.
func IsPrimitive(k Kind) bool {
	switch k {
	case Int, Signed8, Signed16, Signed32, Unsigned8, Unsigned16, Unsigned32,
		Byte, Float, Decimal, String, Boolean, Null:
		return true
	default:
		return false
	}
}

// AssignableFromString reports whether a quoted JSON string lexeme may be
// stored directly at a position declared with this type (spec §4.4).
func AssignableFromString(t *Type) bool {
	implied := ImpliedType(t)
	switch implied.Kind {
	case String, JSON:
		return true
	case Union:
		for _, m := range implied.Members {
			if AssignableFromString(m) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
