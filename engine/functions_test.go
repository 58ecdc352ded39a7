package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wudi/shy/values"
)

func TestDoubleFuncSqrt(t *testing.T) {
	fn := StandardFunctions()["sqrt"]
	result := fn(values.Integer(16))
	assert.True(t, result.IsRational())
	assert.InDelta(t, 4.0, result.Float(), 1e-9)
}

func TestDoubleToBoolFuncIsNan(t *testing.T) {
	fn := StandardFunctions()["is_nan"]
	result := fn(values.Rational(math.NaN()))
	assert.True(t, result.IsBoolean())
	assert.True(t, result.Bool())
}

func TestIfFuncSelectsBranch(t *testing.T) {
	fn := StandardFunctions()["if"]
	args := values.Vector([]*values.Value{values.Boolean(false), values.Integer(1), values.Integer(2)})
	result := fn(args)
	assert.Equal(t, int64(2), result.Int())
}

func TestIsnullFuncOneArgument(t *testing.T) {
	fn := StandardFunctions()["isnull"]
	result := fn(values.Null())
	assert.True(t, result.Bool())

	result = fn(values.Integer(5))
	assert.False(t, result.Bool())
}

func TestIsnullFuncTwoArguments(t *testing.T) {
	fn := StandardFunctions()["isnull"]
	args := values.Vector([]*values.Value{values.Null(), values.Integer(42)})
	result := fn(args)
	assert.Equal(t, int64(42), result.Int())

	args = values.Vector([]*values.Value{values.Integer(7), values.Integer(42)})
	result = fn(args)
	assert.Equal(t, int64(7), result.Int())
}

func TestVotingMajority(t *testing.T) {
	fn := StandardFunctions()["majority"]
	args := values.Vector([]*values.Value{values.Boolean(false), values.Boolean(true), values.Boolean(true)})
	result := fn(args)
	assert.True(t, result.Bool())
}

func TestVotingEmptyVector(t *testing.T) {
	none := StandardFunctions()["none"](values.Vector(nil))
	assert.True(t, none.Bool())

	unanimous := StandardFunctions()["unanimous"](values.Vector(nil))
	assert.True(t, unanimous.Bool())

	any := StandardFunctions()["any"](values.Vector(nil))
	assert.False(t, any.Bool())
}

func TestSumReturnsRationalEvenForIntegers(t *testing.T) {
	fn := StandardFunctions()["sum"]
	args := values.Vector([]*values.Value{values.Integer(1), values.Integer(2), values.Integer(3)})
	result := fn(args)
	assert.True(t, result.IsRational())
	assert.InDelta(t, 6.0, result.Float(), 1e-9)
}

func TestMaxPreservesOriginalKind(t *testing.T) {
	fn := StandardFunctions()["max"]
	args := values.Vector([]*values.Value{values.Integer(1), values.Integer(2), values.Integer(3)})
	result := fn(args)
	assert.True(t, result.IsInteger())
	assert.Equal(t, int64(3), result.Int())
}

func TestMinPreservesOriginalKind(t *testing.T) {
	fn := StandardFunctions()["min"]
	args := values.Vector([]*values.Value{values.Integer(1), values.Integer(2), values.Integer(3)})
	result := fn(args)
	assert.True(t, result.IsInteger())
	assert.Equal(t, int64(1), result.Int())
}
