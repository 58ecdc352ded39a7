package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalarTruthiness(t *testing.T) {
	assert.False(t, Null().AsBool())
	assert.False(t, Integer(0).AsBool())
	assert.True(t, Integer(1).AsBool())
	assert.False(t, String("").AsBool())
	assert.True(t, String("x").AsBool())
	assert.False(t, Error("boom").AsBool())
}

func TestNumericEqualityCrossesIntAndRational(t *testing.T) {
	assert.True(t, Integer(2).Equal(Rational(2.0)))
	assert.False(t, Integer(2).Equal(Rational(2.5)))
}

func TestVectorEquality(t *testing.T) {
	a := Vector([]*Value{Integer(1), String("x")})
	b := Vector([]*Value{Integer(1), String("x")})
	c := Vector([]*Value{Integer(1), String("y")})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestObjectCycleSafeEquality(t *testing.T) {
	a := NewObject()
	b := NewObject()
	_ = a.SetProperty("peer", Obj(b))
	_ = b.SetProperty("peer", Obj(a))

	other := NewObject()
	otherPeer := NewObject()
	_ = other.SetProperty("peer", Obj(otherPeer))
	_ = otherPeer.SetProperty("peer", Obj(other))

	assert.True(t, a.Equal(other, make(map[*Object]bool)))
	assert.NotPanics(t, func() { _ = a.String() })
}

func TestReadOnlyObjectRejectsSet(t *testing.T) {
	o := NewReadOnlyObject(map[string]*Value{"x": Integer(1)})
	assert.True(t, o.CanGetProperty("x"))
	assert.False(t, o.CanSetProperty("x"))
	assert.Error(t, o.SetProperty("x", Integer(2)))
}

func TestCompareOrdersNumericAndString(t *testing.T) {
	c, ok := Integer(1).Compare(Integer(2))
	assert.True(t, ok)
	assert.Equal(t, -1, c)

	c, ok = String("a").Compare(String("b"))
	assert.True(t, ok)
	assert.Equal(t, -1, c)

	_, ok = Boolean(true).Compare(String("b"))
	assert.False(t, ok)
}

func TestStandardConstants(t *testing.T) {
	consts := StandardConstants()
	pi, ok := consts["PI"]
	assert.True(t, ok)
	assert.InDelta(t, 3.14159, pi.Float(), 0.001)
	assert.Contains(t, consts, "φ")
}
