package tjson

import "github.com/tjson/tjson/schema"

// state is the parser's current position in the grammar (spec §4.1).
// Named states mirror spec.md directly except for the escape/unicode
// sub-states — see the lexContext comment below and DESIGN.md.
type state uint8

const (
	stateDocStart state = iota
	stateDocEnd

	stateFirstFieldReady
	stateNonFirstFieldReady
	stateFieldEnd

	stateFirstArrayElemReady
	stateNonFirstArrayElemReady
	stateArrayElemEnd

	stateFieldName
	stateEndFieldName
	stateFieldValueReady

	stateStringFieldValue
	stateNonStringFieldValue
	stateStringArrayElem
	stateNonStringArrayElem
	stateStringValue
	stateNonStringValue

	stateEscape
	stateUnicodeHex
)

// lexContext records which lexeme the parser was accumulating before a
// backslash interrupted it, so stateEscape/stateUnicodeHex know what to
// resume into. Spec.md names eight distinct escape/unicode-hex states
// (one pair per lexeme context); this collapses them to two states plus
// this four-valued "return address" field — see DESIGN.md.
type lexContext uint8

const (
	ctxFieldName lexContext = iota
	ctxStringValue
	ctxStringFieldValue
	ctxStringArrayElem
)

// valueKind distinguishes the three positions a value can be read into
// (spec §4.5's FIELD/ARRAY_ELEMENT/VALUE), used to resolve the declared
// type at that position and to choose which lexeme state to enter;
// attachment afterwards looks at the construction stack directly and
// doesn't need to remember this.
type valueKind uint8

const (
	kindValue valueKind = iota
	kindField
	kindArrayElement
)

func stringStateFor(kind valueKind) state {
	switch kind {
	case kindField:
		return stateStringFieldValue
	case kindArrayElement:
		return stateStringArrayElem
	default:
		return stateStringValue
	}
}

func nonStringStateFor(kind valueKind) state {
	switch kind {
	case kindField:
		return stateNonStringFieldValue
	case kindArrayElement:
		return stateNonStringArrayElem
	default:
		return stateNonStringValue
	}
}

func escContextForState(s state) lexContext {
	switch s {
	case stateStringFieldValue:
		return ctxStringFieldValue
	case stateStringArrayElem:
		return ctxStringArrayElem
	default:
		return ctxStringValue
	}
}

func (p *Parser) setState(s state) { p.state = s }

// feed processes one real input byte.
func (p *Parser) feed(c byte) error {
	if err := p.dispatch(c); err != nil {
		return err
	}
	if c == '\n' {
		p.line++
		p.col = 0
	} else {
		p.col++
	}
	return nil
}

// feedEOF processes the synthetic end-of-input marker (spec §4.1).
func (p *Parser) feedEOF() error {
	switch p.state {
	case stateDocEnd:
		return nil
	case stateDocStart:
		return p.errorf("empty JSON document")
	case stateNonStringValue:
		if err := p.endNonStringValue(); err != nil {
			return err
		}
		return p.feedEOF()
	default:
		return p.errorf("unexpected end of input")
	}
}

func (p *Parser) dispatch(c byte) error {
	switch p.state {
	case stateDocStart:
		return p.onDocStart(c)
	case stateDocEnd:
		return p.onDocEnd(c)
	case stateFirstFieldReady, stateNonFirstFieldReady:
		return p.onFieldReady(c)
	case stateFieldEnd:
		return p.onFieldEnd(c)
	case stateFirstArrayElemReady, stateNonFirstArrayElemReady:
		return p.onArrayElemReady(c)
	case stateArrayElemEnd:
		return p.onArrayElemEnd(c)
	case stateFieldName:
		return p.onFieldName(c)
	case stateEndFieldName:
		return p.onEndFieldName(c)
	case stateFieldValueReady:
		return p.onFieldValueReady(c)
	case stateStringFieldValue, stateStringArrayElem, stateStringValue:
		return p.onStringLexeme(c)
	case stateNonStringFieldValue, stateNonStringArrayElem, stateNonStringValue:
		return p.onNonStringLexeme(c)
	case stateEscape:
		return p.onEscape(c)
	case stateUnicodeHex:
		return p.onUnicodeHex(c)
	default:
		return p.errorf("internal error: unknown parser state")
	}
}

func (p *Parser) onDocStart(c byte) error {
	if classify(c) == classWhitespace {
		return nil
	}
	return p.beginValue(kindValue, c)
}

func (p *Parser) onDocEnd(c byte) error {
	if classify(c) == classWhitespace {
		return nil
	}
	return p.errorf("unexpected character after end of document")
}

func (p *Parser) onFieldReady(c byte) error {
	switch classify(c) {
	case classWhitespace:
		return nil
	case classQuote:
		p.quote = c
		p.buf.reset()
		p.setState(stateFieldName)
		return nil
	case classRBrace:
		if p.state == stateFirstFieldReady {
			return p.closeContainer('}')
		}
		return p.errorf("unexpected '}' after ','")
	default:
		return p.errorf("expected a quoted field name")
	}
}

func (p *Parser) onFieldEnd(c byte) error {
	switch classify(c) {
	case classWhitespace:
		return nil
	case classComma:
		p.setState(stateNonFirstFieldReady)
		return nil
	case classRBrace:
		return p.closeContainer('}')
	default:
		return p.errorf("expected ',' or '}'")
	}
}

func (p *Parser) onArrayElemReady(c byte) error {
	switch classify(c) {
	case classWhitespace:
		return nil
	case classRBracket:
		if p.state == stateFirstArrayElemReady {
			return p.closeContainer(']')
		}
		return p.errorf("unexpected ']' after ','")
	default:
		return p.beginValue(kindArrayElement, c)
	}
}

func (p *Parser) onArrayElemEnd(c byte) error {
	switch classify(c) {
	case classWhitespace:
		return nil
	case classComma:
		p.setState(stateNonFirstArrayElemReady)
		return nil
	case classRBracket:
		return p.closeContainer(']')
	default:
		return p.errorf("expected ',' or ']'")
	}
}

func (p *Parser) onFieldName(c byte) error {
	if c == p.quote {
		return p.endFieldName()
	}
	if classify(c) == classBackslash {
		p.escCtx = ctxFieldName
		p.setState(stateEscape)
		return nil
	}
	p.buf.appendByte(c)
	return nil
}

func (p *Parser) endFieldName() error {
	name := p.buf.String()
	f := p.top()
	if f == nil {
		return p.errorf("internal error: field name seen outside an object")
	}
	if err := p.validateFieldName(f, name); err != nil {
		return err
	}
	f.pendingField = name
	p.setState(stateEndFieldName)
	return nil
}

// validateFieldName implements spec §4.3's field-eligibility rules.
func (p *Parser) validateFieldName(f *frame, name string) error {
	if f.isUnion {
		var kept []*schema.Type
		for _, c := range f.candidates {
			ic := schema.ImpliedType(c)
			switch ic.Kind {
			case schema.Map:
				kept = append(kept, c)
			case schema.Record:
				if _, ok := ic.Field(name); ok || !ic.Sealed {
					kept = append(kept, c)
				}
			}
		}
		if len(kept) == 0 {
			return p.errorf("no eligible type accepts field %q", name)
		}
		f.candidates = kept
		return nil
	}
	if f.target.Kind == schema.Record && f.target.Sealed {
		if _, ok := f.target.Field(name); !ok {
			return p.errorf("unknown field %q", name)
		}
	}
	return nil
}

func (p *Parser) onEndFieldName(c byte) error {
	switch classify(c) {
	case classWhitespace:
		return nil
	case classColon:
		p.setState(stateFieldValueReady)
		return nil
	default:
		return p.errorf("expected ':'")
	}
}

func (p *Parser) onFieldValueReady(c byte) error {
	if classify(c) == classWhitespace {
		return nil
	}
	return p.beginValue(kindField, c)
}

// beginValue dispatches on the first byte of a value in any of the three
// positions a value can occupy (spec §4.2/§4.5's FIELD/ARRAY_ELEMENT/VALUE).
func (p *Parser) beginValue(kind valueKind, ch byte) error {
	switch classify(ch) {
	case classLBrace, classLBracket:
		rawTarget, err := p.resolveValueTarget(kind)
		if err != nil {
			return err
		}
		return p.openContainer(ch, rawTarget)
	case classQuote:
		target, err := p.resolveValueTarget(kind)
		if err != nil {
			return err
		}
		p.scalarTarget = schema.ImpliedType(target)
		p.quote = ch
		p.buf.reset()
		p.setState(stringStateFor(kind))
		return nil
	case classOther:
		target, err := p.resolveValueTarget(kind)
		if err != nil {
			return err
		}
		p.scalarTarget = schema.ImpliedType(target)
		p.buf.reset()
		p.buf.appendByte(ch)
		p.setState(nonStringStateFor(kind))
		return nil
	default:
		return p.errorf("expected '{', '[', '\"' or a value")
	}
}

func (p *Parser) onStringLexeme(c byte) error {
	if c == p.quote {
		return p.endStringValue()
	}
	if classify(c) == classBackslash {
		p.escCtx = escContextForState(p.state)
		p.setState(stateEscape)
		return nil
	}
	p.buf.appendByte(c)
	return nil
}

func (p *Parser) endStringValue() error {
	if !schema.AssignableFromString(p.scalarTarget) {
		return p.errorf("a string value is not assignable to target type %v", p.scalarTarget.Kind)
	}
	return p.attach(p.buf.String())
}

func (p *Parser) onNonStringLexeme(c byte) error {
	if isValueTerminator(c) {
		if err := p.endNonStringValue(); err != nil {
			return err
		}
		return p.dispatch(c)
	}
	p.buf.appendByte(c)
	return nil
}

// endNonStringValue implements spec §4.5's non-string conversion rules.
func (p *Parser) endNonStringValue() error {
	lexeme := p.buf.String()
	target := p.scalarTarget

	if target.Kind == schema.Union {
		return p.attachUnionScalar(lexeme)
	}

	if f := p.top(); f != nil && f.isUnion {
		v, err := p.converter.InferJSON(lexeme)
		if err != nil {
			return p.errorf("%v", err)
		}
		if err := p.narrowStagedCandidates(f, lexeme); err != nil {
			return err
		}
		return p.attach(v)
	}

	if target.Kind == schema.JSON {
		v, err := p.converter.InferJSON(lexeme)
		if err != nil {
			return p.errorf("%v", err)
		}
		return p.attach(v)
	}

	v, err := p.converter.ConvertValues(target, lexeme)
	if err != nil {
		return p.errorf("%v", err)
	}
	return p.attach(v)
}

// attachUnionScalar implements the VALUE-kind union rule of spec §4.5,
// generalised to FIELD/ARRAY_ELEMENT positions whose own declared type is
// directly a UNION (as opposed to a staged container - see
// narrowStagedCandidates for that case): try each member in declared
// order, first successful conversion wins.
func (p *Parser) attachUnionScalar(lexeme string) error {
	for _, m := range p.scalarTarget.Members {
		im := schema.ImpliedType(m)
		if !schema.IsPrimitive(im.Kind) {
			continue
		}
		v, err := p.converter.ConvertValues(im, lexeme)
		if err == nil {
			return p.attach(v)
		}
	}
	return p.errorf("no member of the union type accepts %q", lexeme)
}

// narrowStagedCandidates implements the ARRAY_ELEMENT/FIELD union bullets
// of spec §4.5: a non-string value seen while staging a UNION against an
// open map/list narrows the surviving candidates to those whose own
// declared type at this position could plausibly accept the lexeme.
func (p *Parser) narrowStagedCandidates(f *frame, lexeme string) error {
	var kept []*schema.Type
	for _, c := range f.candidates {
		ic := schema.ImpliedType(c)
		var posType *schema.Type
		switch ic.Kind {
		case schema.Map:
			posType = ic.Elem
		case schema.Record:
			if field, ok := ic.Field(f.pendingField); ok {
				posType = field.Type
			} else if ic.RestField != nil {
				posType = ic.RestField
			} else {
				posType = &schema.Type{Kind: schema.JSON}
			}
		case schema.Array:
			posType = ic.ArrayElem
		case schema.Tuple:
			if f.listIndex < len(ic.TupleElems) {
				posType = ic.TupleElems[f.listIndex]
			} else if ic.TupleRest != nil {
				posType = ic.TupleRest
			}
		}
		if posType != nil && p.valueShapeCompatible(posType, lexeme) {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return p.errorf("no eligible type accepts value %q", lexeme)
	}
	f.candidates = kept
	return nil
}

func (p *Parser) valueShapeCompatible(t *schema.Type, lexeme string) bool {
	im := schema.ImpliedType(t)
	switch im.Kind {
	case schema.JSON:
		return true
	case schema.Union:
		for _, m := range im.Members {
			if p.valueShapeCompatible(m, lexeme) {
				return true
			}
		}
		return false
	default:
		if !schema.IsPrimitive(im.Kind) {
			return false
		}
		_, err := p.converter.ConvertValues(im, lexeme)
		return err == nil
	}
}

// attach stores a fully-constructed value (scalar or finalised container)
// wherever it belongs: as the document root, as the pending field of the
// innermost map-shaped frame, or as the next element of the innermost
// list-shaped frame. Unlike spec.md's parallel description in terms of
// FIELD/ARRAY_ELEMENT/VALUE, the destination here is fully determined by
// the construction stack, so one function serves all three positions.
func (p *Parser) attach(value any) error {
	f := p.top()
	if f == nil {
		p.root = value
		p.haveRoot = true
		p.setState(stateDocEnd)
		return nil
	}
	if f.isMap() {
		if err := f.mapNode.PutForcefully(f.pendingField, value); err != nil {
			return err
		}
		p.setState(stateFieldEnd)
		return nil
	}
	if err := f.listNode.AddRefValue(f.listIndex, value); err != nil {
		return err
	}
	f.listIndex++
	p.setState(stateArrayElemEnd)
	return nil
}

func (p *Parser) onEscape(c byte) error {
	if c == 'u' {
		p.hexLen = 0
		p.setState(stateUnicodeHex)
		return nil
	}
	decoded, ok := decodeEscape(c)
	if !ok {
		return p.errorf("invalid escape character %q", string(c))
	}
	p.buf.appendByte(decoded)
	return p.resumeFromEscape()
}

func (p *Parser) onUnicodeHex(c byte) error {
	v, ok := hexDigit(c)
	if !ok {
		return p.errorf("invalid unicode escape digit %q", string(c))
	}
	p.hex[p.hexLen] = v
	p.hexLen++
	if p.hexLen < 4 {
		return nil
	}
	cu := uint16(p.hex[0])<<12 | uint16(p.hex[1])<<8 | uint16(p.hex[2])<<4 | uint16(p.hex[3])
	p.buf.appendCodeUnit(cu)
	return p.resumeFromEscape()
}

func (p *Parser) resumeFromEscape() error {
	switch p.escCtx {
	case ctxFieldName:
		p.setState(stateFieldName)
	case ctxStringFieldValue:
		p.setState(stateStringFieldValue)
	case ctxStringArrayElem:
		p.setState(stateStringArrayElem)
	default:
		p.setState(stateStringValue)
	}
	return nil
}
