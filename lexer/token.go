package lexer

import (
	"strings"

	"github.com/wudi/shy/shyerr"
)

// TokenKind identifies which alternative of Token is populated.
// Grounded on original_source/src/lexer/parser_token.rs's ParserToken
// enum.
//
// Note: MemberOp is produced only for a period that starts a token and
// is not followed by a digit. A period inside an identifier never is: a
// run of identifiers separated by bare periods is folded into a single
// PropertyChain token instead — disambiguating whether a chain is an
// lvalue or rvalue would need lookahead the shunting-yard parser
// doesn't otherwise require, so the lexer resolves it up front.
type TokenKind byte

const (
	TokStringLiteral TokenKind = iota
	TokIdentifier
	TokPropertyChain
	TokFunction
	TokLogicalNotOp
	TokFactorialOp
	TokInteger
	TokRational
	TokRegex
	TokOpenParenthesis
	TokCloseParenthesis
	TokComma
	TokQuestionMark
	TokColon
	TokSemicolon
	TokOpenBracket
	TokCloseBracket
	TokExponentiationOp
	TokPowerOp
	TokMemberOp
	TokMatchOp
	TokAssignmentOp
	TokMultiplicativeOp
	TokSignOp
	TokAdditiveOp
	TokIncrementDecrementOp
	TokRelationalOp
	TokEqualityOp
	TokLogicalOp
	TokSquareRootOp
	TokError
)

var tokenKindNames = map[TokenKind]string{
	TokStringLiteral: "StringLiteral", TokIdentifier: "Identifier",
	TokPropertyChain: "PropertyChain", TokFunction: "Function",
	TokLogicalNotOp: "LogicalNotOp", TokFactorialOp: "FactorialOp",
	TokInteger: "Integer", TokRational: "Rational", TokRegex: "Regex",
	TokOpenParenthesis: "OpenParenthesis", TokCloseParenthesis: "CloseParenthesis",
	TokComma: "Comma", TokQuestionMark: "QuestionMark", TokColon: "Colon",
	TokSemicolon: "Semicolon", TokOpenBracket: "OpenBracket", TokCloseBracket: "CloseBracket",
	TokExponentiationOp: "ExponentiationOp", TokPowerOp: "PowerOp", TokMemberOp: "MemberOp",
	TokMatchOp: "MatchOp", TokAssignmentOp: "AssignmentOp",
	TokMultiplicativeOp: "MultiplicativeOp", TokSignOp: "SignOp",
	TokAdditiveOp: "AdditiveOp", TokIncrementDecrementOp: "IncrementDecrementOp",
	TokRelationalOp: "RelationalOp", TokEqualityOp: "EqualityOp",
	TokLogicalOp: "LogicalOp", TokSquareRootOp: "SquareRootOp", TokError: "Error",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Token is the unit the lexer yields and the parser consumes. Text
// holds the literal/operator spelling for every kind except
// PropertyChain, which uses Properties instead, and Error, which uses
// Err.
type Token struct {
	Kind       TokenKind
	Text       string
	Properties []string
	Err        *shyerr.Error
	Position   shyerr.Position
}

func tok(kind TokenKind, text string) Token { return Token{Kind: kind, Text: text} }

// Val renders the token's payload as a single string, mirroring
// ParserToken::val() in the Rust source.
func (t Token) Val() string {
	switch t.Kind {
	case TokPropertyChain:
		return strings.Join(t.Properties, ".")
	case TokLogicalNotOp, TokFactorialOp:
		return "!"
	case TokOpenParenthesis:
		return "("
	case TokCloseParenthesis:
		return ")"
	case TokComma:
		return ","
	case TokQuestionMark:
		return "?"
	case TokColon:
		return ":"
	case TokSemicolon:
		return ";"
	case TokOpenBracket:
		return "["
	case TokCloseBracket:
		return "]"
	case TokExponentiationOp:
		return "^"
	case TokMemberOp:
		return "."
	case TokSquareRootOp:
		return "√"
	case TokError:
		if t.Err != nil {
			return t.Err.Error()
		}
		return "error"
	default:
		return t.Text
	}
}

func (t Token) String() string { return t.Val() }

// newPropertyChain splits a dotted identifier into its path segments.
func newPropertyChain(dotted string) Token {
	return Token{Kind: TokPropertyChain, Properties: strings.Split(dotted, ".")}
}

// toPropertyChain upgrades an Identifier token containing a "." into a
// PropertyChain; any other token (or a dot-free identifier) is returned
// unchanged.
func (t Token) toPropertyChain() Token {
	if t.Kind == TokIdentifier && strings.Contains(t.Text, ".") {
		return newPropertyChain(t.Text)
	}
	return t
}
