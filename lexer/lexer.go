// Package lexer implements shy's tokenizer: a push-down state machine
// that turns source text into a stream of Tokens for the shunting-yard
// parser. Grounded on original_source/src/lexer/mod.rs.
package lexer

import (
	"strings"

	"github.com/wudi/shy/shyerr"
)

// Lexer breaks an input string into Tokens one at a time via Next.
// Unlike the Rust source (which implements std::iter::Iterator), Go has
// no standard external-iterator protocol for this, so Next returns
// (Token, ok) the same way a map or channel read would.
type Lexer struct {
	state          State
	events         *eventIterator
	nextToken      strings.Builder
	tokenBuffer    *Token
	positionError  int
	enableLogging  bool
	transitionLog  strings.Builder
}

// New creates a Lexer over s, starting in the Start state.
func New(s string) *Lexer {
	return &Lexer{
		state:         StateStart,
		events:        newEventIterator(s),
		positionError: -1,
	}
}

// EnableLogging turns on transition logging, surfaced in LexError
// messages to help diagnose why a rule failed to tokenize.
func (lx *Lexer) EnableLogging(on bool) { lx.enableLogging = on }

func (lx *Lexer) HasReachedGoal() bool { return lx.state == StateGoal }
func (lx *Lexer) HasError() bool       { return lx.state == StateError }

// Tokenize drains the Lexer into a slice, stopping (and returning the
// error) as soon as a TokError token is produced.
func Tokenize(s string) ([]Token, error) {
	lx := New(s)
	var tokens []Token
	for {
		t, ok := lx.Next()
		if !ok {
			return tokens, nil
		}
		if t.Kind == TokError {
			return tokens, t.Err
		}
		tokens = append(tokens, t)
	}
}

func (lx *Lexer) push(e Event)        { lx.nextToken.WriteRune(e.Char) }
func (lx *Lexer) pushChar(c rune)     { lx.nextToken.WriteRune(c) }
func (lx *Lexer) yieldString() string {
	s := lx.nextToken.String()
	lx.nextToken.Reset()
	return s
}

func (lx *Lexer) doesNextMatch(filter func(Event) bool) bool {
	e, ok := lx.events.Peek()
	return ok && filter(e)
}

// Transition helpers, one per shape of state transition the Rust
// source names (transition_without_yield, transition_with_yield, ...).

func (lx *Lexer) transitionWithoutYield(s State) (Token, bool) {
	lx.state = s
	return Token{}, false
}

func (lx *Lexer) transitionWithYield(s State, t Token) (Token, bool) {
	lx.state = s
	return t, true
}

func (lx *Lexer) transitionWithDoubleYield(s State, makeTok func(string) Token, buffered Token) (Token, bool) {
	lx.state = s
	if lx.tokenBuffer != nil {
		panic("lexer buffer already full")
	}
	b := buffered
	lx.tokenBuffer = &b
	return makeTok(lx.yieldString()), true
}

func (lx *Lexer) transitionWithPush(s State, e Event) (Token, bool) {
	lx.state = s
	lx.push(e)
	return Token{}, false
}

func (lx *Lexer) transitionWithPushChar(s State, c rune) (Token, bool) {
	lx.state = s
	lx.pushChar(c)
	return Token{}, false
}

func (lx *Lexer) transitionWithPop(s State, makeTok func(string) Token) (Token, bool) {
	lx.state = s
	return makeTok(lx.yieldString()), true
}

// transitionWithPopPlusEvent appends the event's character to the
// popped text before building the token; an empty-string result from
// makeTok (meaning "no such operator") sends the lexer to the Error
// state instead.
func (lx *Lexer) transitionWithPopPlusEvent(s State, makeTok func(string) (Token, bool), e Event) (Token, bool) {
	text := lx.yieldString() + string(e.Char)
	if t, ok := makeTok(text); ok {
		return lx.transitionWithYield(s, t)
	}
	return lx.transitionToError(e)
}

func (lx *Lexer) transitionWithPutBack(s State, e Event) (Token, bool) {
	lx.state = s
	lx.events.PutBack(e)
	return Token{}, false
}

func (lx *Lexer) transitionWithPopAndPutBack(s State, makeTok func(string) Token, e Event) (Token, bool) {
	t := lx.transitionWithPopOnly(s, makeTok)
	lx.events.PutBack(e)
	return t, true
}

func (lx *Lexer) transitionWithPopOnly(s State, makeTok func(string) Token) Token {
	lx.state = s
	return makeTok(lx.yieldString())
}

func (lx *Lexer) reenterWithYield(t Token) (Token, bool) { return t, true }
func (lx *Lexer) reenterWithoutYield() (Token, bool)     { return Token{}, false }

func (lx *Lexer) reenterWithPush(e Event) (Token, bool) {
	lx.push(e)
	return Token{}, false
}

func (lx *Lexer) transitionToError(e Event) (Token, bool) {
	lx.state = StateError
	if lx.positionError < 0 {
		lx.positionError = lx.events.CurrentPosition()
	}
	errTok := Token{
		Kind: TokError,
		Err: shyerr.At(shyerr.LexError,
			"unexpected character '"+string(e.Char)+"'",
			shyerr.Position{Line: lx.events.CurrentLine(), Offset: lx.positionError}),
	}
	return errTok, true
}

// Next implements the lexer's main loop: pull events until a state
// method yields a Token or the input is exhausted.
func (lx *Lexer) Next() (Token, bool) {
	if lx.tokenBuffer != nil {
		t := *lx.tokenBuffer
		lx.tokenBuffer = nil
		return t, true
	}
	if lx.HasError() {
		return Token{}, false
	}
	for {
		e, ok := lx.events.Next()
		if !ok {
			return Token{}, false
		}
		var t Token
		var yielded bool
		prev := lx.state
		switch lx.state {
		case StateStart:
			t, yielded = lx.start(e)
		case StateGoal:
			return lx.goal(e)
		case StateEmpty:
			t, yielded = lx.empty(e)
		case StateString:
			t, yielded = lx.stringState(e)
		case StateStringEscape:
			t, yielded = lx.stringEscape(e)
		case StateIdentifier:
			t, yielded = lx.identifier(e)
		case StateFunctionName:
			t, yielded = lx.functionName(e)
		case StateContinuableOperator:
			t, yielded = lx.continuableOperator(e)
		case StateLogicalOperator:
			t, yielded = lx.logicalOperator(e)
		case StateExpectRegex:
			t, yielded = lx.expectRegex(e)
		case StateRegex:
			t, yielded = lx.regex(e)
		case StateRegexEscape:
			t, yielded = lx.regexEscape(e)
		case StateIntegerDigits:
			t, yielded = lx.integerDigits(e)
		case StateFractionalDigits:
			t, yielded = lx.fractionalDigits(e)
		case StateExponentSign:
			t, yielded = lx.exponentSign(e)
		case StateExponentDigits:
			t, yielded = lx.exponentDigits(e)
		case StatePower:
			t, yielded = lx.power(e)
		case StateExclamation:
			t, yielded = lx.exclamation(e)
		case StateError:
			return Token{}, false
		}
		if lx.enableLogging {
			lx.transitionLog.WriteString(prev.String() + " -> " + lx.state.String())
			if e.Char != 0 {
				lx.transitionLog.WriteString(" on '" + string(e.Char) + "'")
			}
			lx.transitionLog.WriteString("\n")
			if yielded && t.Kind == TokError && t.Err != nil {
				t.Err.Message += "\ntransition log:\n" + lx.transitionLog.String()
			}
		}
		if yielded {
			return t, true
		}
	}
}

func (lx *Lexer) start(e Event) (Token, bool) {
	if e.Kind == EventBOS {
		return lx.transitionWithoutYield(StateEmpty)
	}
	return lx.transitionToError(e)
}

func (lx *Lexer) goal(e Event) (Token, bool) {
	if e.Kind == EventEOS {
		return Token{}, false
	}
	return lx.transitionToError(e)
}

func isDigitEvent(e Event) bool { return e.Kind == EventDigit }
func isDigitOrPeriod(e Event) bool {
	return e.Kind == EventDigit || e.Kind == EventPeriod
}

func (lx *Lexer) empty(e Event) (Token, bool) {
	switch e.Kind {
	case EventSpace, EventNewline:
		return lx.reenterWithoutYield()
	case EventDoubleQuote:
		return lx.transitionWithoutYield(StateString)
	case EventExpressionStarter:
		if e.Char == '(' {
			return lx.reenterWithYield(tok(TokOpenParenthesis, "("))
		}
		return lx.reenterWithYield(tok(TokOpenBracket, "["))
	case EventExpressionEnder:
		switch e.Char {
		case ')':
			return lx.reenterWithYield(tok(TokCloseParenthesis, ")"))
		case ']':
			return lx.reenterWithYield(tok(TokCloseBracket, "]"))
		case ',':
			return lx.reenterWithYield(tok(TokComma, ","))
		case ';':
			return lx.reenterWithYield(tok(TokSemicolon, ";"))
		case '?':
			return lx.reenterWithYield(tok(TokQuestionMark, "?"))
		case ':':
			return lx.reenterWithYield(tok(TokColon, ":"))
		}
	case EventCaret:
		return lx.reenterWithYield(tok(TokExponentiationOp, "^"))
	case EventComparison:
		return lx.reenterWithYield(tok(TokRelationalOp, string(e.Char)))
	case EventOther:
		if e.Char == '√' {
			return lx.reenterWithYield(tok(TokSquareRootOp, "√"))
		}
	case EventPeriod:
		if lx.doesNextMatch(isDigitEvent) {
			return lx.transitionWithPush(StateFractionalDigits, e)
		}
		return lx.reenterWithYield(tok(TokMemberOp, "."))
	case EventLetter, EventDollarUnderscore:
		return lx.transitionWithPush(StateIdentifier, e)
	case EventMultiplicative, EventSlash, EventEquals, EventAngleBracket:
		return lx.transitionWithPush(StateContinuableOperator, e)
	case EventSign:
		if lx.doesNextMatch(isDigitOrPeriod) {
			return lx.transitionWithPush(StateIntegerDigits, e)
		}
		return lx.transitionWithPush(StateContinuableOperator, e)
	case EventAmpersandBar:
		return lx.transitionWithPush(StateLogicalOperator, e)
	case EventDigit:
		return lx.transitionWithPush(StateIntegerDigits, e)
	case EventSuperscript:
		return lx.transitionWithPush(StatePower, Event{Kind: EventDigit, Char: superscriptToDigit(e.Char)})
	case EventExclamationPoint:
		return lx.transitionWithPush(StateExclamation, e)
	case EventTilde:
		return lx.transitionWithYield(StateExpectRegex, tok(TokMatchOp, "~"))
	case EventEOS:
		return lx.transitionWithoutYield(StateGoal)
	}
	return lx.transitionToError(e)
}

func (lx *Lexer) stringState(e Event) (Token, bool) {
	switch e.Kind {
	case EventDoubleQuote:
		return lx.transitionWithPop(StateEmpty, func(s string) Token { return tok(TokStringLiteral, s) })
	case EventBackslash:
		return lx.transitionWithoutYield(StateStringEscape)
	default:
		return lx.reenterWithPush(e)
	}
}

func (lx *Lexer) stringEscape(e Event) (Token, bool) {
	if e.Kind == EventLetter {
		switch e.Char {
		case 'n':
			return lx.transitionWithPushChar(StateString, '\n')
		case 'r':
			return lx.transitionWithPushChar(StateString, '\r')
		case 't':
			return lx.transitionWithPushChar(StateString, '\t')
		}
	}
	return lx.transitionWithPush(StateString, e)
}

func matchToPropertyChain(s string) Token { return tok(TokIdentifier, s).toPropertyChain() }

func (lx *Lexer) identifier(e Event) (Token, bool) {
	switch e.Kind {
	case EventLetter, EventDigit, EventDollarUnderscore, EventPeriod:
		return lx.reenterWithPush(e)
	case EventExclamationPoint:
		if lx.doesNextMatch(func(e Event) bool { return e.Kind == EventEquals }) {
			return lx.transitionWithPopAndPutBack(StateEmpty, matchToPropertyChain, e)
		}
		return lx.transitionWithDoubleYield(StateEmpty, matchToPropertyChain, tok(TokFactorialOp, "!"))
	case EventExpressionStarter:
		if e.Char == '(' {
			return lx.transitionWithPopAndPutBack(StateEmpty, func(s string) Token { return tok(TokFunction, s) }, e)
		}
	case EventSpace:
		return lx.transitionWithoutYield(StateFunctionName)
	}
	return lx.transitionWithPopAndPutBack(StateEmpty, matchToPropertyChain, e)
}

func (lx *Lexer) functionName(e Event) (Token, bool) {
	switch e.Kind {
	case EventSpace:
		return lx.reenterWithoutYield()
	case EventExpressionStarter:
		if e.Char == '(' {
			return lx.transitionWithPopAndPutBack(StateEmpty, func(s string) Token { return tok(TokFunction, s) }, e)
		}
	}
	return lx.transitionWithPopAndPutBack(StateEmpty, matchToPropertyChain, e)
}

func (lx *Lexer) continuableOperator(e Event) (Token, bool) {
	switch e.Kind {
	case EventEquals:
		return lx.transitionWithPopPlusEvent(StateEmpty, func(s string) (Token, bool) {
			switch s {
			case "+=", "-=", "*=", "/=", "%=":
				return tok(TokAssignmentOp, s), true
			case "==":
				return tok(TokEqualityOp, s), true
			case "<=", ">=":
				return tok(TokRelationalOp, s), true
			default:
				return Token{}, false
			}
		}, e)
	case EventSign:
		return lx.transitionWithPopPlusEvent(StateEmpty, func(s string) (Token, bool) {
			switch s {
			case "++", "--":
				return tok(TokIncrementDecrementOp, s), true
			default:
				return Token{}, false
			}
		}, e)
	default:
		return lx.transitionWithPopAndPutBack(StateEmpty, func(s string) Token {
			switch s {
			case "*", "/", "%", "·":
				return tok(TokMultiplicativeOp, s)
			case "+", "-":
				return tok(TokAdditiveOp, s)
			case "=":
				return tok(TokAssignmentOp, s)
			case "<", ">":
				return tok(TokRelationalOp, s)
			default:
				return tok(TokError, s)
			}
		}, e)
	}
}

func (lx *Lexer) logicalOperator(e Event) (Token, bool) {
	switch e.Kind {
	case EventAmpersandBar:
		return lx.reenterWithPush(e)
	case EventEquals:
		return lx.transitionWithPopPlusEvent(StateEmpty, func(s string) (Token, bool) {
			switch s {
			case "&&=", "||=":
				return tok(TokAssignmentOp, s), true
			default:
				return Token{}, false
			}
		}, e)
	default:
		return lx.transitionWithPopAndPutBack(StateEmpty, func(s string) Token { return tok(TokLogicalOp, s) }, e)
	}
}

func (lx *Lexer) expectRegex(e Event) (Token, bool) {
	switch e.Kind {
	case EventSpace, EventNewline:
		return lx.reenterWithoutYield()
	case EventSlash:
		return lx.transitionWithoutYield(StateRegex)
	default:
		return lx.transitionToError(e)
	}
}

func (lx *Lexer) regex(e Event) (Token, bool) {
	switch e.Kind {
	case EventSlash:
		return lx.transitionWithPop(StateEmpty, func(s string) Token { return tok(TokRegex, s) })
	case EventBackslash:
		return lx.transitionWithPush(StateRegexEscape, e)
	default:
		return lx.reenterWithPush(e)
	}
}

func (lx *Lexer) regexEscape(e Event) (Token, bool) {
	return lx.transitionWithPush(StateRegex, e)
}

func (lx *Lexer) integerDigits(e Event) (Token, bool) {
	switch e.Kind {
	case EventDigit:
		return lx.reenterWithPush(e)
	case EventPeriod:
		return lx.transitionWithPush(StateFractionalDigits, e)
	case EventExclamationPoint:
		return lx.transitionWithDoubleYield(StateEmpty, func(s string) Token { return tok(TokInteger, s) }, tok(TokFactorialOp, "!"))
	default:
		return lx.transitionWithPopAndPutBack(StateEmpty, func(s string) Token { return tok(TokInteger, s) }, e)
	}
}

func (lx *Lexer) fractionalDigits(e Event) (Token, bool) {
	switch e.Kind {
	case EventDigit:
		return lx.reenterWithPush(e)
	case EventLetter:
		if e.Char == 'e' || e.Char == 'E' {
			return lx.transitionWithPush(StateExponentSign, e)
		}
	}
	return lx.transitionWithPopAndPutBack(StateEmpty, func(s string) Token { return tok(TokRational, s) }, e)
}

func (lx *Lexer) exponentSign(e Event) (Token, bool) {
	switch e.Kind {
	case EventDigit, EventSign:
		return lx.transitionWithPush(StateExponentDigits, e)
	default:
		return lx.transitionToError(e)
	}
}

func (lx *Lexer) exponentDigits(e Event) (Token, bool) {
	if e.Kind == EventDigit {
		return lx.reenterWithPush(e)
	}
	return lx.transitionWithPopAndPutBack(StateEmpty, func(s string) Token { return tok(TokRational, s) }, e)
}

func (lx *Lexer) power(e Event) (Token, bool) {
	if e.Kind == EventSuperscript {
		return lx.reenterWithPush(Event{Kind: EventDigit, Char: superscriptToDigit(e.Char)})
	}
	return lx.transitionWithPopAndPutBack(StateEmpty, func(s string) Token { return tok(TokPowerOp, s) }, e)
}

func (lx *Lexer) exclamation(e Event) (Token, bool) {
	switch e.Kind {
	case EventEquals:
		return lx.transitionWithPopPlusEvent(StateEmpty, func(s string) (Token, bool) {
			return tok(TokEqualityOp, s), true
		}, e)
	case EventExpressionEnder:
		return lx.transitionWithPopAndPutBack(StateEmpty, func(string) Token { return tok(TokFactorialOp, "!") }, e)
	case EventTilde:
		return lx.transitionWithPopPlusEvent(StateExpectRegex, func(s string) (Token, bool) {
			return tok(TokMatchOp, s), true
		}, e)
	default:
		return lx.transitionWithPopAndPutBack(StateEmpty, func(string) Token { return tok(TokLogicalNotOp, "!") }, e)
	}
}
