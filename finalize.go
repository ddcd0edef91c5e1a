package tjson

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/tjson/tjson/schema"
	"github.com/tjson/tjson/values"
)

// finalizeFrame implements spec §4.7: the per-kind checks and filling-in
// that happen when a container's closing bracket is seen.
func (p *Parser) finalizeFrame(f *frame) (any, error) {
	if f.isUnion {
		return p.finalizeUnion(f)
	}
	if f.mapNode != nil {
		return p.finalizeMap(f)
	}
	return p.finalizeList(f)
}

func (p *Parser) finalizeMap(f *frame) (any, error) {
	switch f.target.Kind {
	case schema.Map, schema.JSON:
		f.mapNode.Freeze()
		return f.mapNode, nil
	case schema.Record:
		var missing, notProvided []string
		for _, field := range f.target.Fields {
			if f.mapNode.Has(field.Name) {
				continue
			}
			if field.Required {
				missing = append(missing, field.Name)
				continue
			}
			notProvided = append(notProvided, field.Name)
		}
		if len(missing) > 0 {
			return nil, p.errorf("missing required field(s): %s", strings.Join(missing, ", "))
		}
		if len(notProvided) > 0 {
			defaults, err := p.records.CreateRecordValueWithDefaultValues(f.target.Package, f.target.Name, notProvided)
			if err != nil {
				return nil, p.errorf("%v", err)
			}
			for _, name := range notProvided {
				v, _ := defaults.Get(name)
				if err := f.mapNode.PutForcefully(name, v); err != nil {
					return nil, err
				}
			}
		}
		f.mapNode.Freeze()
		return f.mapNode, nil
	default:
		return nil, p.errorf("internal error: map-shaped frame with target %v", f.target.Kind)
	}
}

func (p *Parser) finalizeList(f *frame) (any, error) {
	switch f.target.Kind {
	case schema.JSON:
		f.listNode.Freeze()
		return f.listNode, nil
	case schema.Array:
		if f.target.ArrayState == schema.Closed && f.listIndex < f.target.ArraySize {
			if !f.target.HasFillerValue {
				return nil, p.errorf("array size mismatch: expected %d, got %d", f.target.ArraySize, f.listIndex)
			}
			for i := f.listIndex; i < f.target.ArraySize; i++ {
				if err := f.listNode.AddRefValue(i, fillerValue(f.target.ArrayElem)); err != nil {
					return nil, err
				}
			}
		}
		f.listNode.Freeze()
		return f.listNode, nil
	case schema.Tuple:
		if f.listIndex < len(f.target.TupleElems) {
			return nil, p.errorf("tuple arity mismatch: expected at least %d, got %d", len(f.target.TupleElems), f.listIndex)
		}
		f.listNode.Freeze()
		return f.listNode, nil
	default:
		return nil, p.errorf("internal error: list-shaped frame with target %v", f.target.Kind)
	}
}

// finalizeUnion implements the UNION-staging-close bullet of spec §4.7:
// try each surviving candidate, in declared order, attempting a full
// conversion of the staged generic value; the first that succeeds wins.
func (p *Parser) finalizeUnion(f *frame) (any, error) {
	var lastErr error
	for _, c := range f.candidates {
		ic := schema.ImpliedType(c)
		var v any
		var err error
		if f.mapNode != nil {
			v, err = p.convertStagedMap(ic, f.mapNode)
		} else {
			v, err = p.convertStagedList(ic, f.listNode)
		}
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		return nil, p.errorf("no candidate type survived narrowing")
	}
	return nil, p.errorf("no union member could be constructed from the staged value: %v", lastErr)
}

// convertStagedValue re-coerces one value that was staged generically
// (while its enclosing union hadn't yet committed to a branch) against a
// specific candidate's declared type.
func (p *Parser) convertStagedValue(target *schema.Type, v any) (any, error) {
	implied := schema.ImpliedType(target)

	if implied.Kind == schema.JSON {
		return v, nil
	}
	if implied.Kind == schema.Union {
		var lastErr error
		for _, m := range implied.Members {
			cv, err := p.convertStagedValue(m, v)
			if err == nil {
				return cv, nil
			}
			lastErr = err
		}
		return nil, p.errorf("no union member accepts staged value: %v", lastErr)
	}

	switch mv := v.(type) {
	case *values.MapValue:
		return p.convertStagedMap(implied, mv)
	case *values.ListValue:
		return p.convertStagedList(implied, mv)
	case string:
		if schema.AssignableFromString(implied) {
			return mv, nil
		}
		return nil, p.errorf("string not assignable to target type %v", implied.Kind)
	}

	lexeme, ok := valueLexeme(v)
	if !ok || !schema.IsPrimitive(implied.Kind) {
		return nil, p.errorf("cannot reconcile staged value against target type %v", implied.Kind)
	}
	return p.converter.ConvertValues(implied, lexeme)
}

func (p *Parser) convertStagedMap(target *schema.Type, mv *values.MapValue) (any, error) {
	switch target.Kind {
	case schema.Map:
		out := values.NewMapValue()
		var err error
		mv.Range(func(key string, val any) {
			if err != nil {
				return
			}
			cv, cerr := p.convertStagedValue(target.Elem, val)
			if cerr != nil {
				err = cerr
				return
			}
			err = out.PutForcefully(key, cv)
		})
		if err != nil {
			return nil, err
		}
		out.Freeze()
		return out, nil
	case schema.Record:
		out := values.NewMapValue()
		var notProvided []string
		for _, field := range target.Fields {
			val, has := mv.Get(field.Name)
			if !has {
				if field.Required {
					return nil, p.errorf("missing required field %q", field.Name)
				}
				notProvided = append(notProvided, field.Name)
				continue
			}
			cv, err := p.convertStagedValue(field.Type, val)
			if err != nil {
				return nil, err
			}
			if err := out.PutForcefully(field.Name, cv); err != nil {
				return nil, err
			}
		}
		if target.Sealed {
			for _, key := range mv.Keys() {
				if _, ok := target.Field(key); !ok {
					return nil, p.errorf("unknown field %q", key)
				}
			}
		} else {
			rest := target.RestField
			if rest == nil {
				rest = &schema.Type{Kind: schema.JSON}
			}
			for _, key := range mv.Keys() {
				if _, ok := target.Field(key); ok {
					continue
				}
				val, _ := mv.Get(key)
				cv, err := p.convertStagedValue(rest, val)
				if err != nil {
					return nil, err
				}
				if err := out.PutForcefully(key, cv); err != nil {
					return nil, err
				}
			}
		}
		if len(notProvided) > 0 {
			defaults, err := p.records.CreateRecordValueWithDefaultValues(target.Package, target.Name, notProvided)
			if err != nil {
				return nil, err
			}
			for _, name := range notProvided {
				v, _ := defaults.Get(name)
				if err := out.PutForcefully(name, v); err != nil {
					return nil, err
				}
			}
		}
		out.Freeze()
		return out, nil
	default:
		return nil, p.errorf("target type %v cannot accept an object", target.Kind)
	}
}

func (p *Parser) convertStagedList(target *schema.Type, lv *values.ListValue) (any, error) {
	switch target.Kind {
	case schema.Array:
		out := values.NewListValue()
		for i := 0; i < lv.Len(); i++ {
			if target.ArrayState == schema.Closed && i >= target.ArraySize {
				return nil, p.errorf("array size exceeded")
			}
			cv, err := p.convertStagedValue(target.ArrayElem, lv.At(i))
			if err != nil {
				return nil, err
			}
			if err := out.AddRefValue(i, cv); err != nil {
				return nil, err
			}
		}
		if target.ArrayState == schema.Closed && lv.Len() < target.ArraySize {
			if !target.HasFillerValue {
				return nil, p.errorf("array size mismatch: expected %d, got %d", target.ArraySize, lv.Len())
			}
			for i := lv.Len(); i < target.ArraySize; i++ {
				if err := out.AddRefValue(i, fillerValue(target.ArrayElem)); err != nil {
					return nil, err
				}
			}
		}
		out.Freeze()
		return out, nil
	case schema.Tuple:
		out := values.NewListValue()
		for i := 0; i < lv.Len(); i++ {
			var elemType *schema.Type
			switch {
			case i < len(target.TupleElems):
				elemType = target.TupleElems[i]
			case target.TupleRest != nil:
				elemType = target.TupleRest
			default:
				return nil, p.errorf("tuple size exceeded")
			}
			cv, err := p.convertStagedValue(elemType, lv.At(i))
			if err != nil {
				return nil, err
			}
			if err := out.AddRefValue(i, cv); err != nil {
				return nil, err
			}
		}
		if lv.Len() < len(target.TupleElems) {
			return nil, p.errorf("tuple arity mismatch: expected at least %d, got %d", len(target.TupleElems), lv.Len())
		}
		out.Freeze()
		return out, nil
	default:
		return nil, p.errorf("target type %v cannot accept an array", target.Kind)
	}
}

// fillerValue returns the kind-appropriate zero value used to pad a
// closed ARRAY that declares HasFillerValue (spec §4.7).
func fillerValue(t *schema.Type) any {
	switch schema.ImpliedType(t).Kind {
	case schema.Int, schema.Signed8, schema.Signed16, schema.Signed32, schema.Byte:
		return int64(0)
	case schema.Unsigned8, schema.Unsigned16, schema.Unsigned32:
		return uint64(0)
	case schema.Float:
		return float64(0)
	case schema.Decimal:
		return apd.New(0, 0)
	case schema.Boolean:
		return false
	case schema.String:
		return ""
	default:
		return nil
	}
}

// valueLexeme renders an already-inferred primitive value back to text,
// so a staged value can be re-run through TypeConverter.ConvertValues
// against a different candidate type (spec §4.7's UNION-close bullet).
func valueLexeme(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "null", true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	case *apd.Decimal:
		return t.String(), true
	default:
		return "", false
	}
}
