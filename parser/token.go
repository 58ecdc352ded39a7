// Package parser implements the shunting-yard algorithm that
// rearranges a lexer.Token stream from infix to postfix order, ready
// for the engine package's stack machine to execute. Grounded on
// original_source/src/parser/mod.rs (the ShuntingYard struct) and
// original_source/src/parser/shy_token.rs (the ParserToken -> ShyToken
// conversion).
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wudi/shy/lexer"
	"github.com/wudi/shy/operator"
	"github.com/wudi/shy/shyerr"
	"github.com/wudi/shy/values"
)

// Token is one entry of a Program's postfix-ordered token stream. It
// is either a Value, a bare Operator, or (for FunctionCall and
// Exponentiation) an Operator paired with the Value that must be
// pushed alongside it — the function name, or the exponent.
type Token struct {
	Value    *values.Value
	Operator operator.Operator
	HasValue bool
	HasOp    bool
}

func valueToken(v *values.Value) Token { return Token{Value: v, HasValue: true} }
func opToken(op operator.Operator) Token { return Token{Operator: op, HasOp: true} }
func opWithValueToken(op operator.Operator, v *values.Value) Token {
	return Token{Operator: op, Value: v, HasOp: true, HasValue: true}
}

func (t Token) String() string {
	switch {
	case t.HasOp && t.HasValue:
		return fmt.Sprintf("%s(%s)", t.Operator, t.Value)
	case t.HasOp:
		return t.Operator.String()
	case t.HasValue:
		return t.Value.String()
	default:
		return "<empty token>"
	}
}

// operatorFor classifies a lexer token the way
// shy_token.rs's `impl From<ParserToken> for ShyOperator` does:
// literal/identifier/property-chain tokens map to the sentinel
// operator.Operand (meaning "go build a Value instead"), Function maps
// to FunctionCall, and every other kind maps to its one matching
// operator.
//
// original_source's table has no arm for ParserToken::PropertyChain,
// which (being neither Operand nor a named operator) falls through to
// its `_ => ShyOperator::Error` default — silently turning every
// property-chain reference into a parse error. That is corrected here:
// PropertyChain classifies as Operand, same as Identifier.
func operatorFor(t lexer.Token) operator.Operator {
	switch t.Kind {
	case lexer.TokSemicolon:
		return operator.Semicolon
	case lexer.TokOpenParenthesis:
		return operator.OpenParenthesis
	case lexer.TokCloseParenthesis:
		return operator.CloseParenthesis
	case lexer.TokComma:
		return operator.Comma
	case lexer.TokOpenBracket:
		return operator.OpenBracket
	case lexer.TokCloseBracket:
		return operator.CloseBracket
	case lexer.TokMemberOp:
		return operator.Member
	case lexer.TokSignOp:
		if t.Text == "-" {
			return operator.PrefixMinusSign
		}
		return operator.PrefixPlusSign
	case lexer.TokIncrementDecrementOp:
		if t.Text == "--" {
			return operator.PostDecrement
		}
		return operator.PostIncrement
	case lexer.TokFactorialOp:
		return operator.Factorial
	case lexer.TokLogicalNotOp:
		return operator.LogicalNot
	case lexer.TokSquareRootOp:
		return operator.SquareRoot
	case lexer.TokPowerOp:
		// Parse splits this into two tokens: an Exponentiation operator
		// and an Operand holding the exponent's value (see toParserToken).
		return operator.Power
	case lexer.TokExponentiationOp:
		return operator.Exponentiation
	case lexer.TokMatchOp:
		if t.Text == "!~" {
			return operator.NotMatch
		}
		return operator.Match
	case lexer.TokMultiplicativeOp:
		switch t.Text {
		case "/":
			return operator.Divide
		case "%":
			return operator.Mod
		default:
			return operator.Multiply
		}
	case lexer.TokAdditiveOp:
		if t.Text == "-" {
			return operator.Subtract
		}
		return operator.Add
	case lexer.TokRelationalOp:
		switch t.Text {
		case "<":
			return operator.LessThan
		case "<=", "≤":
			return operator.LessThanOrEqualTo
		case ">":
			return operator.GreaterThan
		default:
			return operator.GreaterThanOrEqualTo
		}
	case lexer.TokEqualityOp:
		if t.Text == "==" {
			return operator.Equals
		}
		return operator.NotEquals
	case lexer.TokLogicalOp:
		if t.Text == "&&" {
			return operator.And
		}
		return operator.Or
	case lexer.TokQuestionMark, lexer.TokColon:
		return operator.QuitIfFalse
	case lexer.TokAssignmentOp:
		switch t.Text {
		case "+=":
			return operator.PlusAssign
		case "-=":
			return operator.MinusAssign
		case "*=":
			return operator.MultiplyAssign
		case "/=":
			return operator.DivideAssign
		case "%=":
			return operator.ModAssign
		case "&&=":
			return operator.AndAssign
		case "||=":
			return operator.OrAssign
		default:
			return operator.Assign
		}
	case lexer.TokInteger, lexer.TokRational, lexer.TokRegex, lexer.TokStringLiteral,
		lexer.TokIdentifier, lexer.TokPropertyChain:
		return operator.Operand
	case lexer.TokFunction:
		return operator.FunctionCall
	default:
		return operator.Error
	}
}

// valueFor builds the Value carried by an Operand or FunctionCall
// lexer token, mirroring shy_token.rs's `impl From<ParserToken> for
// ShyValue`.
func valueFor(t lexer.Token) (*values.Value, error) {
	switch t.Kind {
	case lexer.TokFunction:
		return values.FunctionName(t.Text), nil
	case lexer.TokIdentifier:
		switch t.Text {
		case "true":
			return values.Boolean(true), nil
		case "false":
			return values.Boolean(false), nil
		default:
			return values.Variable(t.Text), nil
		}
	case lexer.TokPropertyChain:
		return values.PropertyChain(t.Properties), nil
	case lexer.TokInteger:
		n, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer literal %q: %w", t.Text, err)
		}
		return values.Integer(n), nil
	case lexer.TokRational:
		f, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rational literal %q: %w", t.Text, err)
		}
		return values.Rational(f), nil
	case lexer.TokStringLiteral:
		return values.String(t.Text), nil
	case lexer.TokRegex:
		return values.String(t.Text), nil
	case lexer.TokPowerOp:
		n, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid exponent %q: %w", t.Text, err)
		}
		return values.Integer(n), nil
	default:
		return nil, fmt.Errorf("token %s has no operand value", t.Kind)
	}
}

// toParserToken converts one lexer token into the Token this package's
// shunting-yard operates on.
func toParserToken(t lexer.Token) (Token, error) {
	if t.Kind == lexer.TokError {
		if t.Err != nil {
			return Token{}, t.Err
		}
		return Token{}, shyerr.New(shyerr.LexError, "lexical error")
	}
	op := operatorFor(t)
	switch op {
	case operator.Operand:
		v, err := valueFor(t)
		if err != nil {
			return Token{}, err
		}
		return valueToken(v), nil
	case operator.FunctionCall:
		v, err := valueFor(t)
		if err != nil {
			return Token{}, err
		}
		return opWithValueToken(operator.FunctionCall, v), nil
	case operator.Power:
		v, err := valueFor(t)
		if err != nil {
			return Token{}, err
		}
		return opWithValueToken(operator.Exponentiation, v), nil
	case operator.Error:
		return Token{}, shyerr.New(shyerr.ParseError, fmt.Sprintf("unable to translate token %s %q", t.Kind, t.Val()))
	default:
		return opToken(op), nil
	}
}

func isVariableOrPropertyChain(t Token) bool {
	return t.HasValue && !t.HasOp && (t.Value.IsVariable() || t.Value.IsPropertyChain())
}

func displayTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
