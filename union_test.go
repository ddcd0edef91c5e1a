package tjson

import (
	"testing"

	"github.com/tjson/tjson/schema"
	"github.com/tjson/tjson/values"
)

func intOrString() *schema.Type {
	return &schema.Type{Kind: schema.Union, Members: []*schema.Type{
		{Kind: schema.Int},
		{Kind: schema.String},
	}}
}

func TestParseUnionScalarTriesMembersInOrder(t *testing.T) {
	target := intOrString()
	got, err := ParseString(`42`, target)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if got != int64(42) {
		t.Errorf("got %#v, want int64(42)", got)
	}

	got, err = ParseString(`"hi"`, target)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if got != "hi" {
		t.Errorf("got %#v, want \"hi\"", got)
	}
}

func TestParseUnionNoMemberAccepts(t *testing.T) {
	target := &schema.Type{Kind: schema.Union, Members: []*schema.Type{
		{Kind: schema.Boolean},
	}}
	_, err := ParseString(`42`, target)
	if err == nil {
		t.Fatal("expected an error: no union member accepts 42")
	}
}

func recordA() *schema.Type {
	return &schema.Type{
		Kind: schema.Record, Name: "A", Package: "test", Sealed: true,
		Fields: []schema.Field{
			{Name: "kind", Required: true, Type: &schema.Type{Kind: schema.String}},
			{Name: "count", Required: true, Type: &schema.Type{Kind: schema.Int}},
		},
	}
}

func recordB() *schema.Type {
	return &schema.Type{
		Kind: schema.Record, Name: "B", Package: "test", Sealed: true,
		Fields: []schema.Field{
			{Name: "kind", Required: true, Type: &schema.Type{Kind: schema.String}},
			{Name: "label", Required: true, Type: &schema.Type{Kind: schema.String}},
		},
	}
}

func TestParseUnionObjectNarrowsByFieldName(t *testing.T) {
	target := &schema.Type{Kind: schema.Union, Members: []*schema.Type{recordA(), recordB()}}

	got, err := ParseString(`{"kind": "a", "count": 3}`, target)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	m := got.(*values.MapValue)
	if v, _ := m.Get("count"); v != int64(3) {
		t.Errorf("count = %v, want 3", v)
	}

	got, err = ParseString(`{"kind": "b", "label": "x"}`, target)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	m = got.(*values.MapValue)
	if v, _ := m.Get("label"); v != "x" {
		t.Errorf("label = %v, want x", v)
	}
}

func TestParseUnionObjectAmbiguousFieldDeferredToClose(t *testing.T) {
	// With both candidates unsealed, neither "kind" nor "label" narrows
	// the candidate set while the fields are read; the close-time
	// conversion attempt rejects A (its required "count" is missing) and
	// picks B.
	a, b := recordA(), recordB()
	a.Sealed, b.Sealed = false, false
	target := &schema.Type{Kind: schema.Union, Members: []*schema.Type{a, b}}
	got, err := ParseString(`{"kind": "b", "label": "y"}`, target)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	m := got.(*values.MapValue)
	if _, ok := m.Get("count"); ok {
		t.Errorf("resolved to the wrong union member: has 'count'")
	}
}

func TestParseUnionObjectNoEligibleField(t *testing.T) {
	target := &schema.Type{Kind: schema.Union, Members: []*schema.Type{recordA(), recordB()}}
	_, err := ParseString(`{"nope": 1}`, target)
	if err == nil {
		t.Fatal("expected an error: no candidate accepts field 'nope'")
	}
}

func TestParseUnionNoContainerMember(t *testing.T) {
	target := intOrString()
	_, err := ParseString(`{}`, target)
	if err == nil {
		t.Fatal("expected an error: union has no map/record member to open '{' against")
	}
}

func TestParseUnionPicksArrayMemberForArrayInput(t *testing.T) {
	target := &schema.Type{Kind: schema.Union, Members: []*schema.Type{
		{Kind: schema.Array, ArrayState: schema.Open, ArrayElem: &schema.Type{Kind: schema.Int}},
		{Kind: schema.Record, Fields: []schema.Field{
			{Name: "x", Required: true, Type: &schema.Type{Kind: schema.Int}},
		}},
	}}
	got, err := ParseString(`[1, 2, 3]`, target)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	l := got.(*values.ListValue)
	if l.Len() != 3 {
		t.Errorf("Len() = %d, want 3", l.Len())
	}
}
