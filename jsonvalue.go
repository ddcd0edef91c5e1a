package tjson

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/tjson/tjson/values"
)

// Serialize renders a value produced by parsing against target JSON (or
// any primitive/container value the parser produced) back into valid
// JSON text: parse -> serialise -> parse must be idempotent under target
// JSON.
func Serialize(v any) (string, error) {
	var b strings.Builder
	if err := serializeInto(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func serializeInto(b *strings.Builder, v any) error {
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case int64:
		b.WriteString(strconv.FormatInt(t, 10))
	case uint64:
		b.WriteString(strconv.FormatUint(t, 10))
	case float64:
		b.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	case *apd.Decimal:
		b.WriteString(t.String())
	case string:
		b.WriteString(strconv.Quote(t))
	case *values.MapValue:
		b.WriteByte('{')
		first := true
		var err error
		t.Range(func(key string, val any) {
			if err != nil {
				return
			}
			if !first {
				b.WriteByte(',')
			}
			first = false
			b.WriteString(strconv.Quote(key))
			b.WriteByte(':')
			err = serializeInto(b, val)
		})
		if err != nil {
			return err
		}
		b.WriteByte('}')
	case *values.ListValue:
		b.WriteByte('[')
		for i := 0; i < t.Len(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := serializeInto(b, t.At(i)); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	default:
		return fmt.Errorf("tjson: cannot serialize value of type %T", v)
	}
	return nil
}
