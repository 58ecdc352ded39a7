package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func kinds(tokens []Token) []TokenKind {
	ks := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		ks[i] = t.Kind
	}
	return ks
}

func TestTokenizeArithmeticExpression(t *testing.T) {
	tokens, err := Tokenize("1 + 2 * 3")
	assert.NoError(t, err)
	assert.Equal(t, []TokenKind{TokInteger, TokAdditiveOp, TokInteger, TokMultiplicativeOp, TokInteger}, kinds(tokens))
}

func TestTokenizeIdentifierAndPropertyChain(t *testing.T) {
	tokens, err := Tokenize("person.address.zip")
	assert.NoError(t, err)
	assert.Len(t, tokens, 1)
	assert.Equal(t, TokPropertyChain, tokens[0].Kind)
	assert.Equal(t, []string{"person", "address", "zip"}, tokens[0].Properties)
}

func TestTokenizeStringLiteralWithEscape(t *testing.T) {
	tokens, err := Tokenize(`"A \"literal\" string"`)
	assert.NoError(t, err)
	assert.Len(t, tokens, 1)
	assert.Equal(t, TokStringLiteral, tokens[0].Kind)
	assert.Equal(t, `A "literal" string`, tokens[0].Text)
}

func TestTokenizeExclamationDisambiguation(t *testing.T) {
	tokens, err := Tokenize("! (3! != 6)")
	assert.NoError(t, err)
	assert.Equal(t, []TokenKind{
		TokLogicalNotOp, TokOpenParenthesis, TokInteger, TokFactorialOp,
		TokEqualityOp, TokInteger, TokCloseParenthesis,
	}, kinds(tokens))
}

func TestTokenizeRegexAndMatchOperators(t *testing.T) {
	tokens, err := Tokenize("$x~/abcd/ && $x !~ /^ab/")
	assert.NoError(t, err)
	assert.Equal(t, []TokenKind{
		TokIdentifier, TokMatchOp, TokRegex, TokLogicalOp,
		TokIdentifier, TokMatchOp, TokRegex,
	}, kinds(tokens))
	assert.Equal(t, "abcd", tokens[2].Text)
	assert.Equal(t, "^ab", tokens[6].Text)
}

func TestTokenizeNumberForms(t *testing.T) {
	tokens, err := Tokenize("1 23 4.5 -6 +78. 1.02E+05 .5 -.5")
	assert.NoError(t, err)
	want := []string{"1", "23", "4.5", "-6", "+78.", "1.02E+05", ".5", "-.5"}
	assert.Len(t, tokens, len(want))
	for i, tk := range tokens {
		assert.Equal(t, want[i], tk.Text)
	}
}

func TestTokenizeSuperscriptPower(t *testing.T) {
	tokens, err := Tokenize("15³ - 2¹⁰")
	assert.NoError(t, err)
	assert.Equal(t, []TokenKind{TokInteger, TokPowerOp, TokAdditiveOp, TokInteger, TokPowerOp}, kinds(tokens))
	assert.Equal(t, "3", tokens[1].Text)
	assert.Equal(t, "10", tokens[4].Text)
}

func TestTokenizeCompoundAssignment(t *testing.T) {
	tokens, err := Tokenize("||= &&= += -= *= /= %=")
	assert.NoError(t, err)
	assert.Len(t, tokens, 7)
	for _, tk := range tokens {
		assert.Equal(t, TokAssignmentOp, tk.Kind)
	}
}

func TestTokenizeIllegalCharacterReturnsError(t *testing.T) {
	_, err := Tokenize("5 + #3")
	assert.Error(t, err)
}

func TestTokenizeEmptyExpression(t *testing.T) {
	tokens, err := Tokenize("   ")
	assert.NoError(t, err)
	assert.Empty(t, tokens)
}
