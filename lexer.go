package tjson

import "unicode/utf8"

// charClass is the column a byte maps to for structural dispatch. A plain
// untyped-JSON lexer needs a full grammar's worth of classes (one per
// number/literal character) because its state table drives parsing
// byte-by-byte; this parser only needs to recognise the handful of bytes
// that have structural meaning;
// non-string lexemes (numbers, true/false/null, and anything else) are
// accumulated as opaque text and handed to convert.ConvertValues /
// convert.InferJSON once a terminator is seen (spec §4.5).
type charClass int8

const (
	classWhitespace charClass = iota
	classLBrace
	classRBrace
	classLBracket
	classRBracket
	classColon
	classComma
	classQuote
	classBackslash
	classOther
	classEOF
)

// asciiClasses is a flat array indexed by byte value: branch-free
// classification of the structural bytes is the hottest part of the loop.
var asciiClasses = buildASCIIClasses()

func buildASCIIClasses() [256]charClass {
	var t [256]charClass
	for i := range t {
		t[i] = classOther
	}
	for _, c := range []byte{' ', '\t', '\n', '\r', '\f', '\v'} {
		t[c] = classWhitespace
	}
	t['{'] = classLBrace
	t['}'] = classRBrace
	t['['] = classLBracket
	t[']'] = classRBracket
	t[':'] = classColon
	t[','] = classComma
	t['"'] = classQuote
	t['\\'] = classBackslash
	return t
}

func classify(c byte) charClass {
	return asciiClasses[c]
}

// isValueTerminator reports whether c ends a non-string lexeme without
// being consumed by it (spec §4.5: "The terminator is not consumed").
func isValueTerminator(c byte) bool {
	switch classify(c) {
	case classWhitespace, classComma, classRBrace, classRBracket:
		return true
	default:
		return false
	}
}

// buffer is the growable lexeme/field-name scratch area (spec §3's
// "Lexer scratch state"). It doubles on overflow, same growth rule the
// spec calls out explicitly, implemented as an explicit capacity check
// rather than leaning on append's amortised growth so that growth is
// directly testable and the "doubles on overflow" language in spec.md is
// literally true rather than an implementation detail of the runtime.
type buffer struct {
	data []byte
}

func newBuffer() *buffer {
	return &buffer{data: make([]byte, 0, 64)}
}

func (b *buffer) reset() { b.data = b.data[:0] }

func (b *buffer) appendByte(c byte) {
	b.ensure(1)
	b.data = append(b.data, c)
}

func (b *buffer) appendRune(r rune) {
	b.ensure(utf8.UTFMax)
	b.data = utf8.AppendRune(b.data, r)
}

func (b *buffer) ensure(extra int) {
	if len(b.data)+extra <= cap(b.data) {
		return
	}
	next := make([]byte, len(b.data), 2*cap(b.data)+extra)
	copy(next, b.data)
	b.data = next
}

func (b *buffer) String() string { return string(b.data) }

// appendCodeUnit appends the UTF-16 code unit decoded from a \uXXXX
// escape. Surrogate pairs are not combined (spec §4.6): each half is
// emitted as its own code unit, verbatim. utf8.AppendRune would silently
// replace a lone surrogate with U+FFFD, which loses information the spec
// requires to survive unchanged, so a lone surrogate is instead encoded
// as its own 3-byte sequence (the same WTF-8 encoding real-world
// implementations that preserve unpaired surrogates use) rather than
// treated as invalid UTF-8.
func (b *buffer) appendCodeUnit(cu uint16) {
	if cu < 0xD800 || cu > 0xDFFF {
		b.appendRune(rune(cu))
		return
	}
	b.ensure(3)
	b.data = append(b.data,
		0xE0|byte(cu>>12),
		0x80|byte((cu>>6)&0x3F),
		0x80|byte(cu&0x3F),
	)
}

// decodeEscape maps the character following a backslash inside a string
// lexeme to its decoded form (spec §4.6). ok is false for any other
// character, which is a syntax error at the call site.
func decodeEscape(c byte) (decoded byte, ok bool) {
	switch c {
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case '/':
		return '/', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	default:
		return 0, false
	}
}

// hexDigit decodes a single case-insensitive hex digit.
func hexDigit(c byte) (v byte, ok bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
