package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wudi/shy/operator"
)

func opKinds(t []Token) []string {
	out := make([]string, len(t))
	for i, tok := range t {
		switch {
		case tok.HasOp:
			out[i] = "op:" + tok.Operator.String()
		default:
			out[i] = "val:" + tok.Value.String()
		}
	}
	return out
}

func compileOK(t *testing.T, source string) *Program {
	t.Helper()
	p, err := Compile(source)
	if err != nil {
		t.Fatalf("compile %q: %v", source, err)
	}
	return p
}

func TestCompileSimpleArithmetic(t *testing.T) {
	p := compileOK(t, "2 + 3 * 4 - 5")
	assert.Equal(t, []string{
		"val:2", "val:3", "val:4", "op:Multiply", "op:Add", "val:5", "op:Subtract",
	}, opKinds(p.Postfix))
}

func TestCompileParentheses(t *testing.T) {
	p := compileOK(t, "(2 + 3) * (4 - 5)")
	assert.Equal(t, []string{
		"val:2", "val:3", "op:Add", "val:4", "val:5", "op:Subtract", "op:Multiply",
	}, opKinds(p.Postfix))
}

func TestCompileUnbalancedClosingParenthesis(t *testing.T) {
	_, err := Compile("(2 + 3) * (4 - 5))")
	assert.Error(t, err)
}

func TestCompileUnbalancedOpeningParenthesis(t *testing.T) {
	_, err := Compile("((2 + 3) * (4 - 5)")
	assert.Error(t, err)
}

func TestCompileSimpleAssignmentInsertsNoLoadForLvalue(t *testing.T) {
	p := compileOK(t, "x = 1")
	assert.Equal(t, []string{"val:x", "val:1", "op:Assign"}, opKinds(p.Postfix))
}

func TestCompileAssociativityInsertsLoadsForRvalues(t *testing.T) {
	p := compileOK(t, "a = b + c * d")
	assert.Equal(t, []string{
		"val:a", "val:b", "op:Load", "val:c", "op:Load", "val:d", "op:Load",
		"op:Multiply", "op:Add", "op:Assign",
	}, opKinds(p.Postfix))
}

func TestCompileTrailingVariableGetsLoad(t *testing.T) {
	p := compileOK(t, "wedding_gifts.count ++")
	assert.Equal(t, []string{
		"val:wedding_gifts.count", "op:Load", "op:PostIncrement",
	}, opKinds(p.Postfix))
}

func TestCompileFunctionCall(t *testing.T) {
	p := compileOK(t, "0.5 + sin(x)")
	assert.Equal(t, []string{
		"val:0.5", "val:sin()", "val:x", "op:Load", "op:FunctionCall", "op:Add",
	}, opKinds(p.Postfix))
}

func TestCompilePowerExpandsToExponentiation(t *testing.T) {
	p := compileOK(t, "3*2¹⁰/5")
	assert.Equal(t, []string{
		"val:3", "val:2", "val:10", "op:Exponentiation", "op:Multiply", "val:5", "op:Divide",
	}, opKinds(p.Postfix))
}

func TestCompileSquareRoot(t *testing.T) {
	p := compileOK(t, "3*√2/5")
	assert.Equal(t, []string{
		"val:3", "val:2", "op:SquareRoot", "op:Multiply", "val:5", "op:Divide",
	}, opKinds(p.Postfix))
}

func TestCompileCommaSeparatesFunctionArguments(t *testing.T) {
	p := compileOK(t, "good_price = min(50000 / car.age, 30000)")
	assert.Equal(t, []string{
		"val:good_price", "val:min()", "val:50000", "val:car.age", "op:Load", "op:Divide",
		"val:30000", "op:Comma", "op:FunctionCall", "op:Assign",
	}, opKinds(p.Postfix))
}

func TestCompileSemicolonFlushesWithoutEmittingItself(t *testing.T) {
	p := compileOK(t, "x = 2*a; y = a^2")
	for _, tok := range p.Postfix {
		if tok.HasOp {
			assert.NotEqual(t, operator.Semicolon, tok.Operator)
		}
	}
}

func TestCompilePropertyChainIsTreatedAsOperand(t *testing.T) {
	p := compileOK(t, "person.address.zip")
	assert.Equal(t, []string{"val:person.address.zip", "op:Load"}, opKinds(p.Postfix))
}
