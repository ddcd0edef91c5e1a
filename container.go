package tjson

import (
	"github.com/tjson/tjson/schema"
	"github.com/tjson/tjson/values"
)

// resolveValueTarget computes the declared type governing whatever comes
// next at the current position (spec §4.2 step 1 / §4.5's FIELD and
// ARRAY_ELEMENT lookup rules), before it's known whether that's a
// container or a scalar. A frame already staging a UNION (isUnion) or a
// plain JSON target always answers JSON: nested positions under either
// one are untyped until the enclosing container is finalised (spec
// §4.7), so there is nothing further to resolve per-position.
func (p *Parser) resolveValueTarget(kind valueKind) (*schema.Type, error) {
	f := p.top()
	if f == nil {
		return p.rootTarget, nil
	}
	if f.target.Kind == schema.JSON {
		return &schema.Type{Kind: schema.JSON}, nil
	}
	switch kind {
	case kindField:
		return p.fieldType(f), nil
	case kindArrayElement:
		return p.elementType(f)
	default:
		return &schema.Type{Kind: schema.JSON}, nil
	}
}

func (p *Parser) fieldType(f *frame) *schema.Type {
	switch f.target.Kind {
	case schema.Map:
		return f.target.Elem
	case schema.Record:
		if field, ok := f.target.Field(f.pendingField); ok {
			return field.Type
		}
		if f.target.RestField != nil {
			return f.target.RestField
		}
		return &schema.Type{Kind: schema.JSON}
	default:
		return &schema.Type{Kind: schema.JSON}
	}
}

func (p *Parser) elementType(f *frame) (*schema.Type, error) {
	switch f.target.Kind {
	case schema.Array:
		if f.target.ArrayState == schema.Closed && f.listIndex >= f.target.ArraySize {
			return nil, p.errorf("array size exceeded")
		}
		return f.target.ArrayElem, nil
	case schema.Tuple:
		if f.listIndex < len(f.target.TupleElems) {
			return f.target.TupleElems[f.listIndex], nil
		}
		if f.target.TupleRest != nil {
			return f.target.TupleRest, nil
		}
		return nil, p.errorf("tuple size exceeded")
	default:
		return &schema.Type{Kind: schema.JSON}, nil
	}
}

// openContainer implements spec §4.2's container-open rules, generalised
// symmetrically to `[` the way it is literally written for `{` only — see
// DESIGN.md's note on this resolved ambiguity.
func (p *Parser) openContainer(ch byte, rawTarget *schema.Type) error {
	target := schema.ImpliedType(rawTarget)

	var isUnion bool
	var candidates []*schema.Type
	if target.Kind == schema.Union {
		members := flattenUnion(target)
		for _, m := range members {
			im := schema.ImpliedType(m)
			if ch == '{' && (im.Kind == schema.Map || im.Kind == schema.Record) {
				candidates = append(candidates, m)
			}
			if ch == '[' && (im.Kind == schema.Array || im.Kind == schema.Tuple) {
				candidates = append(candidates, m)
			}
		}
		if len(candidates) == 0 {
			if ch == '{' {
				return p.errorf("target union type contains no map or record member")
			}
			return p.errorf("target union type contains no array or tuple member")
		}
		isUnion = true
		target = &schema.Type{Kind: schema.JSON}
	}

	f := &frame{target: target, isUnion: isUnion, candidates: candidates}

	switch {
	case ch == '{' && (target.Kind == schema.Map || target.Kind == schema.Record || target.Kind == schema.JSON):
		f.mapNode = values.NewMapValue()
		if err := p.push(f); err != nil {
			return err
		}
		p.setState(stateFirstFieldReady)
		return nil
	case ch == '[' && (target.Kind == schema.Array || target.Kind == schema.Tuple || target.Kind == schema.JSON):
		f.listNode = values.NewListValue()
		if err := p.push(f); err != nil {
			return err
		}
		p.setState(stateFirstArrayElemReady)
		return nil
	case ch == '{':
		return p.errorf("target type %v cannot be opened with '{'", target.Kind)
	default:
		return p.errorf("target type %v cannot be opened with '['", target.Kind)
	}
}

// flattenUnion expands nested UNION members (spec §4.2's "flatten nested
// unions") into one flat member list.
func flattenUnion(t *schema.Type) []*schema.Type {
	var out []*schema.Type
	var walk func(*schema.Type)
	walk = func(m *schema.Type) {
		im := schema.ImpliedType(m)
		if im.Kind == schema.Union {
			for _, mm := range im.Members {
				walk(mm)
			}
			return
		}
		out = append(out, m)
	}
	for _, m := range t.Members {
		walk(m)
	}
	return out
}

func (p *Parser) closeContainer(ch byte) error {
	f := p.pop()
	if (ch == '}') != f.isMap() {
		return p.errorf("internal error: mismatched closing bracket")
	}
	value, err := p.finalizeFrame(f)
	if err != nil {
		return err
	}
	return p.attach(value)
}
