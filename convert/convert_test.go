package convert_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tjson/tjson/convert"
	"github.com/tjson/tjson/schema"
)

func TestConvertValuesInt(t *testing.T) {
	v, err := convert.ConvertValues(&schema.Type{Kind: schema.Int}, "42")
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestConvertValuesSigned8Overflow(t *testing.T) {
	_, err := convert.ConvertValues(&schema.Type{Kind: schema.Signed8}, "200")
	require.Error(t, err)
}

func TestConvertValuesUnsigned8(t *testing.T) {
	v, err := convert.ConvertValues(&schema.Type{Kind: schema.Unsigned8}, "200")
	require.NoError(t, err)
	require.Equal(t, uint64(200), v)
}

func TestConvertValuesFloat(t *testing.T) {
	v, err := convert.ConvertValues(&schema.Type{Kind: schema.Float}, "3.5")
	require.NoError(t, err)
	require.Equal(t, 3.5, v)
}

func TestConvertValuesDecimal(t *testing.T) {
	v, err := convert.ConvertValues(&schema.Type{Kind: schema.Decimal}, "3.14159265358979")
	require.NoError(t, err)
	require.Equal(t, "3.14159265358979", v.(interface{ String() string }).String())
}

func TestConvertValuesBooleanExact(t *testing.T) {
	v, err := convert.ConvertValues(&schema.Type{Kind: schema.Boolean}, "true")
	require.NoError(t, err)
	require.Equal(t, true, v)

	_, err = convert.ConvertValues(&schema.Type{Kind: schema.Boolean}, "True")
	require.Error(t, err)
}

func TestConvertValuesNullExact(t *testing.T) {
	v, err := convert.ConvertValues(&schema.Type{Kind: schema.Null}, "null")
	require.NoError(t, err)
	require.Nil(t, v)

	_, err = convert.ConvertValues(&schema.Type{Kind: schema.Null}, "nul")
	require.Error(t, err)
}

func TestConvertValuesStringAlwaysFails(t *testing.T) {
	_, err := convert.ConvertValues(&schema.Type{Kind: schema.String}, "abc")
	require.ErrorIs(t, err, convert.ErrStringNotAllowed)
}

func TestInferJSONNegativeZeroIsDouble(t *testing.T) {
	v, err := convert.InferJSON("-0")
	require.NoError(t, err)
	require.IsType(t, float64(0), v)
}

func TestInferJSONDottedNegativeZeroIsDecimal(t *testing.T) {
	// The "-0" double carve-out only fires for "-" followed by digits and
	// nothing else; "-0.00" contains '.' and takes the decimal branch like
	// any other dotted lexeme.
	v, err := convert.InferJSON("-0.00")
	require.NoError(t, err)
	require.Implements(t, (*interface{ String() string })(nil), v)
}

func TestInferJSONDecimalForDotted(t *testing.T) {
	v, err := convert.InferJSON("1.5")
	require.NoError(t, err)
	require.Implements(t, (*interface{ String() string })(nil), v)
}

func TestInferJSONLiterals(t *testing.T) {
	v, err := convert.InferJSON("true")
	require.NoError(t, err)
	require.Equal(t, true, v)

	v, err = convert.InferJSON("null")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestInferJSONExponentIsDecimal(t *testing.T) {
	v, err := convert.InferJSON("1e10")
	require.NoError(t, err)
	require.Implements(t, (*interface{ String() string })(nil), v)
}

func TestInferJSONIntegerFallback(t *testing.T) {
	v, err := convert.InferJSON("42")
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestInferJSONUnrecognizedToken(t *testing.T) {
	_, err := convert.InferJSON("abc")
	require.ErrorIs(t, err, convert.ErrUnrecognizedToken)
}
