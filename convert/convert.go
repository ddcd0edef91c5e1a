// Package convert implements TypeConverter.convertValues (spec §4.5,
// §6): coercion of a lexed textual token into a target primitive type,
// plus the generic JSON-value inference used while a union is staged as
// a map/list (processNonStringValueAsJson in spec §4.5).
package convert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/tjson/tjson/schema"
)

// ErrUnrecognizedToken is wrapped into the error returned when a lexeme
// cannot be interpreted under any primitive rule.
var ErrUnrecognizedToken = errors.New("unrecognized token")

// ErrStringNotAllowed is returned when ConvertValues is asked to coerce
// a textual (non-string-lexeme) token into STRING: spec §4.5 says a
// string must always arrive quoted.
var ErrStringNotAllowed = errors.New("string expected to be quoted")

// decimalContext is shared because *apd.Context is stateless given fixed
// precision/rounding settings; apd's own docs recommend reusing one.
var decimalContext = apd.BaseContext.WithPrecision(64)

// ConvertValues coerces the textual lexeme into the primitive type
// named by target.Kind. target must already be the implied (dereferenced)
// type. Only the Kind values schema.IsPrimitive accepts are legal here.
func ConvertValues(target *schema.Type, lexeme string) (any, error) {
	switch target.Kind {
	case schema.Int, schema.Byte:
		return parseSignedRange(lexeme, 64)
	case schema.Signed8:
		return parseSignedRange(lexeme, 8)
	case schema.Signed16:
		return parseSignedRange(lexeme, 16)
	case schema.Signed32:
		return parseSignedRange(lexeme, 32)
	case schema.Unsigned8:
		return parseUnsignedRange(lexeme, 8)
	case schema.Unsigned16:
		return parseUnsignedRange(lexeme, 16)
	case schema.Unsigned32:
		return parseUnsignedRange(lexeme, 32)
	case schema.Decimal:
		d, _, err := decimalContext.NewFromString(lexeme)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid decimal %q: %v", ErrUnrecognizedToken, lexeme, err)
		}
		return d, nil
	case schema.Float:
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid float %q", ErrUnrecognizedToken, lexeme)
		}
		return f, nil
	case schema.Boolean:
		if lexeme == "true" {
			return true, nil
		}
		if lexeme == "false" {
			return false, nil
		}
		return nil, fmt.Errorf("%w: invalid boolean %q", ErrUnrecognizedToken, lexeme)
	case schema.Null:
		if lexeme == "null" {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: invalid null %q", ErrUnrecognizedToken, lexeme)
	case schema.String:
		return nil, ErrStringNotAllowed
	default:
		return nil, fmt.Errorf("unsupported type %v", target.Kind)
	}
}

func parseSignedRange(lexeme string, bits int) (int64, error) {
	v, err := strconv.ParseInt(lexeme, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid integer %q", ErrUnrecognizedToken, lexeme)
	}
	return v, nil
}

func parseUnsignedRange(lexeme string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(lexeme, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid integer %q", ErrUnrecognizedToken, lexeme)
	}
	return v, nil
}

// isNegativeZero reports whether lexeme is a '-' followed by digits
// whose numeric value is zero (spec §4.5's "-0" carve-out).
func isNegativeZero(lexeme string) bool {
	if !strings.HasPrefix(lexeme, "-") {
		return false
	}
	digits := lexeme[1:]
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r != '0' {
			return false
		}
	}
	return true
}

// InferJSON implements processNonStringValueAsJson: given a non-string
// lexeme with no declared target type, infer a primitive JSON value.
func InferJSON(lexeme string) (any, error) {
	switch {
	case strings.ContainsAny(lexeme, "."):
		if isNegativeZero(lexeme) {
			return strconv.ParseFloat(lexeme, 64)
		}
		d, _, err := decimalContext.NewFromString(lexeme)
		if err != nil {
			return nil, fmt.Errorf("%w '%s'", ErrUnrecognizedToken, lexeme)
		}
		return d, nil
	case lexeme == "true":
		return true, nil
	case lexeme == "false":
		return false, nil
	case lexeme == "null":
		return nil, nil
	case isNegativeZero(lexeme):
		return strconv.ParseFloat(lexeme, 64)
	case strings.ContainsAny(lexeme, "eE"):
		d, _, err := decimalContext.NewFromString(lexeme)
		if err != nil {
			return nil, fmt.Errorf("%w '%s'", ErrUnrecognizedToken, lexeme)
		}
		return d, nil
	default:
		v, err := strconv.ParseInt(lexeme, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w '%s'", ErrUnrecognizedToken, lexeme)
		}
		return v, nil
	}
}
