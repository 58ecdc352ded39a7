package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrecedenceOrdering(t *testing.T) {
	assert.Greater(t, Multiply.Precedence(), Add.Precedence())
	assert.Greater(t, Add.Precedence(), LessThan.Precedence())
	assert.Greater(t, LessThan.Precedence(), Equals.Precedence())
	assert.Greater(t, Equals.Precedence(), And.Precedence())
	assert.Greater(t, And.Precedence(), Or.Precedence())
	assert.Greater(t, Or.Precedence(), QuitIfFalse.Precedence())
	assert.Greater(t, QuitIfFalse.Precedence(), Assign.Precedence())
}

func TestAssociativity(t *testing.T) {
	assert.Equal(t, Right, Assign.Associativity())
	assert.Equal(t, Right, Exponentiation.Associativity())
	assert.Equal(t, Left, Add.Associativity())
}

func TestArgumentCounts(t *testing.T) {
	assert.Equal(t, 2, Add.Arguments())
	assert.Equal(t, 1, LogicalNot.Arguments())
	assert.Equal(t, 1, QuitIfFalse.Arguments())
}

func TestIsAssignment(t *testing.T) {
	assert.True(t, Assign.IsAssignment())
	assert.True(t, PlusAssign.IsAssignment())
	assert.False(t, Add.IsAssignment())
}
