// Package tjson implements a schema-directed streaming JSON parser: one
// that decides, character by character, how to construct a caller-chosen
// target type instead of building a generic JSON tree and converting it
// afterwards. See SPEC_FULL.md for the full design this implements.
package tjson

import (
	"bufio"
	"io"

	"github.com/tjson/tjson/convert"
	"github.com/tjson/tjson/schema"
	"github.com/tjson/tjson/values"
)

// TypeConverter is the external collaborator spec §6 calls
// TypeConverter.convertValues: it turns a lexed textual token into a
// concrete value of a primitive target type, and infers a generic JSON
// value when no target type is available (while a union is staged).
type TypeConverter interface {
	ConvertValues(target *schema.Type, lexeme string) (any, error)
	InferJSON(lexeme string) (any, error)
}

// RecordFactory is the external record-default-constructor collaborator
// spec §6 calls createRecordValueWithDefaultValues.
type RecordFactory interface {
	CreateRecordValueWithDefaultValues(pkg, name string, notProvidedFieldNames []string) (*values.MapValue, error)
}

// Parser is a reusable, resettable schema-directed JSON parser (spec §5).
// The zero value is not ready to use; construct one with NewParser.
type Parser struct {
	converter TypeConverter
	records   RecordFactory

	rootTarget *schema.Type

	state  state
	escCtx lexContext

	line int
	col  int

	quote byte
	buf   *buffer

	hex    [4]byte
	hexLen int

	frames []*frame

	scalarTarget *schema.Type

	root     any
	haveRoot bool
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithTypeConverter overrides the default convert.Default TypeConverter.
func WithTypeConverter(c TypeConverter) Option {
	return func(p *Parser) { p.converter = c }
}

// WithRecordFactory overrides the default (empty) record-default
// registry. Pass a *values.DefaultRegistry populated with the defaults
// your schema declares, or any other RecordFactory implementation.
func WithRecordFactory(r RecordFactory) Option {
	return func(p *Parser) { p.records = r }
}

// NewParser constructs a Parser targeting the given schema type. target
// may be any *schema.Type, including one whose ImpliedType is a UNION,
// MAP, RECORD, ARRAY, TUPLE, a primitive, or JSON.
func NewParser(target *schema.Type, opts ...Option) *Parser {
	p := &Parser{
		converter:  convert.Default{},
		records:    values.NewDefaultRegistry(),
		rootTarget: target,
		buf:        newBuffer(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.Reset()
	return p
}

// Reset returns the parser to its initial state so it can be reused for
// another document against the same target type (spec §5).
func (p *Parser) Reset() {
	p.state = stateDocStart
	p.escCtx = ctxFieldName
	p.line = 1
	p.col = 0
	p.quote = 0
	p.buf.reset()
	p.hexLen = 0
	p.frames = p.frames[:0]
	p.scalarTarget = nil
	p.root = nil
	p.haveRoot = false
}

// Parse reads a complete JSON document from r and constructs a value of
// the parser's target type. The parser is reset first, so a Parser may
// be reused across calls.
func (p *Parser) Parse(r io.Reader) (any, error) {
	p.Reset()

	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, 4096)
	}

	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			if ferr := p.feedEOF(); ferr != nil {
				return nil, ferr
			}
			break
		}
		if err != nil {
			return nil, err
		}
		if ferr := p.feed(c); ferr != nil {
			return nil, ferr
		}
	}

	return p.root, nil
}

// Parse constructs a fresh Parser for target and parses a complete
// document from r (spec §6's convenience entry point).
func Parse(r io.Reader, target *schema.Type) (any, error) {
	return NewParser(target).Parse(r)
}

// ParseString is Parse over an in-memory string.
func ParseString(s string, target *schema.Type) (any, error) {
	return NewParser(target).Parse(&stringReader{s: s})
}

// ParseBytes is Parse over an in-memory byte slice.
func ParseBytes(b []byte, target *schema.Type) (any, error) {
	return NewParser(target).Parse(&byteReader{b: b})
}

// stringReader/byteReader are minimal single-purpose io.Readers over
// in-memory input; bufio.NewReaderSize wraps either one identically to a
// file or network stream.
type stringReader struct {
	s string
	i int
}

func (r *stringReader) Read(p []byte) (int, error) {
	if r.i >= len(r.s) {
		return 0, io.EOF
	}
	n := copy(p, r.s[r.i:])
	r.i += n
	return n, nil
}

type byteReader struct {
	b []byte
	i int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.i >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.i:])
	r.i += n
	return n, nil
}
