package tjson

import (
	"testing"

	"github.com/tjson/tjson/schema"
	"github.com/tjson/tjson/values"
)

// TestScenarioS1 matches a RECORD target field-for-field.
func TestScenarioS1(t *testing.T) {
	target := &schema.Type{Kind: schema.Record, Fields: []schema.Field{
		{Name: "a", Required: true, Type: &schema.Type{Kind: schema.Int}},
		{Name: "b", Required: true, Type: &schema.Type{Kind: schema.String}},
	}}
	got, err := ParseString(`{"a":1,"b":"x"}`, target)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	m := got.(*values.MapValue)
	if a, _ := m.Get("a"); a != int64(1) {
		t.Errorf("a = %v, want 1", a)
	}
	if b, _ := m.Get("b"); b != "x" {
		t.Errorf("b = %v, want x", b)
	}
}

// TestScenarioS2 matches a TUPLE target positionally.
func TestScenarioS2(t *testing.T) {
	target := &schema.Type{Kind: schema.Tuple, TupleElems: []*schema.Type{
		{Kind: schema.Int}, {Kind: schema.String}, {Kind: schema.Boolean},
	}}
	got, err := ParseString(`[1, "two", true]`, target)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	l := got.(*values.ListValue)
	if l.At(0) != int64(1) || l.At(1) != "two" || l.At(2) != true {
		t.Errorf("got %v", l.Elems())
	}
}

// TestScenarioS3 rejects a string value against a declared int field.
func TestScenarioS3(t *testing.T) {
	target := &schema.Type{Kind: schema.Record, Sealed: true, Fields: []schema.Field{
		{Name: "k", Required: true, Type: &schema.Type{Kind: schema.Int}},
	}}
	_, err := ParseString(`{"k":"v"}`, target)
	if err == nil {
		t.Fatal("expected a type mismatch error")
	}
}

// TestScenarioS4 rejects a missing required field.
func TestScenarioS4(t *testing.T) {
	target := &schema.Type{Kind: schema.Record, Fields: []schema.Field{
		{Name: "a", Required: true, Type: &schema.Type{Kind: schema.Int}},
		{Name: "b", Required: true, Type: &schema.Type{Kind: schema.Int}},
	}}
	_, err := ParseString(`{"a":1}`, target)
	if err == nil {
		t.Fatal("expected a missing-required-field error")
	}
}

// TestScenarioS5: when both union members could accept the value, the
// first one listed wins.
func TestScenarioS5(t *testing.T) {
	mapBranch := &schema.Type{Kind: schema.Record, Fields: []schema.Field{
		{Name: "a", Required: true, Type: &schema.Type{Kind: schema.Map, Elem: &schema.Type{Kind: schema.Int}}},
	}}
	recordBranch := &schema.Type{Kind: schema.Record, Fields: []schema.Field{
		{Name: "a", Required: true, Type: &schema.Type{Kind: schema.Record, Fields: []schema.Field{
			{Name: "x", Required: true, Type: &schema.Type{Kind: schema.Int}},
		}}},
	}}
	target := &schema.Type{Kind: schema.Union, Members: []*schema.Type{mapBranch, recordBranch}}

	got, err := ParseString(`{"a":{"x":1}}`, target)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	outer := got.(*values.MapValue)
	a, _ := outer.Get("a")
	inner := a.(*values.MapValue)
	if v, _ := inner.Get("x"); v != int64(1) {
		t.Errorf("x = %v, want 1", v)
	}
}

// TestScenarioS6 pads a closed array with filler values.
func TestScenarioS6(t *testing.T) {
	target := &schema.Type{
		Kind: schema.Array, ArrayElem: &schema.Type{Kind: schema.Int},
		ArrayState: schema.Closed, ArraySize: 4, HasFillerValue: true,
	}
	got, err := ParseString(`[1,2,3]`, target)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	l := got.(*values.ListValue)
	want := []any{int64(1), int64(2), int64(3), int64(0)}
	if l.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", l.Len(), len(want))
	}
	for i, w := range want {
		if l.At(i) != w {
			t.Errorf("At(%d) = %v, want %v", i, l.At(i), w)
		}
	}
}

// TestScenarioS7 decodes a unicode escape.
func TestScenarioS7(t *testing.T) {
	got, err := ParseString("\"\\u00e9\"", &schema.Type{Kind: schema.String})
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if got != "é" {
		t.Errorf("got %q, want %q", got, "é")
	}
}

// TestNegativeZeroInfersAsFloat covers the "-0" carve-out in InferJSON:
// under a JSON target (no declared primitive type to coerce against),
// "-0" is treated as a float rather than a decimal/integer, because
// "-0" as an integer loses the sign.
func TestNegativeZeroInfersAsFloat(t *testing.T) {
	got, err := ParseString(`-0`, &schema.Type{Kind: schema.JSON})
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	f, ok := got.(float64)
	if !ok {
		t.Fatalf("got %T, want float64", got)
	}
	if f != 0 {
		t.Errorf("got %v, want 0", f)
	}
}
