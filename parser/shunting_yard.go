package parser

import (
	"fmt"

	"github.com/wudi/shy/lexer"
	"github.com/wudi/shy/operator"
	"github.com/wudi/shy/shyerr"
)

// Program is a compiled expression: its original source and the
// postfix-ordered token stream the engine package executes.
type Program struct {
	Source  string
	Postfix []Token
}

// HasCompileError reports whether p failed to compile — mirrors
// Expression::had_compile_error in the Rust source, which tests for an
// empty or Error-tainted postfix stream. This port never produces a
// Program with an embedded error token (Compile returns an error
// instead), so this only ever reports true for a zero-value Program.
func (p *Program) HasCompileError() bool {
	return p == nil || len(p.Postfix) == 0
}

func (p *Program) String() string {
	return fmt.Sprintf("%s => [%s]", p.Source, displayTokens(p.Postfix))
}

// shuntingYard holds the working state of one compilation: the
// postfix output being built and the operator stack used to reorder
// infix input into it.
type shuntingYard struct {
	source        string
	infix         []Token
	postfix       []Token
	operatorStack []operator.Operator
}

// Compile lexes and parses source into a Program ready for execution.
// Grounded on ShuntingYard::parse/shunt in original_source/src/parser/
// mod.rs.
func Compile(source string) (*Program, error) {
	lexed, err := lexer.Tokenize(source)
	if err != nil {
		return nil, fmt.Errorf("lexical analysis failed: %w", err)
	}

	sy := &shuntingYard{source: source}
	for _, lt := range lexed {
		pt, err := toParserToken(lt)
		if err != nil {
			return nil, err
		}
		sy.infix = append(sy.infix, pt)
	}

	if err := sy.shunt(); err != nil {
		return nil, err
	}
	return &Program{Source: source, Postfix: sy.postfix}, nil
}

// shunt performs the shunting-yard algorithm proper, converting
// sy.infix into sy.postfix.
func (sy *shuntingYard) shunt() error {
	opSinceValue := 0
	for _, tok := range sy.infix {
		// Variable Rule: an rvalue reference sitting on top of the output
		// stack, not immediately followed by an assignment/increment
		// operator, must be loaded from the context before anything else
		// acts on it.
		if sy.isRvalueOnStack(tok) && opSinceValue == 0 {
			sy.postfix = append(sy.postfix, opToken(operator.Load))
		}
		opSinceValue++

		switch {
		case tok.HasValue && !tok.HasOp:
			opSinceValue = 0
			sy.postfix = append(sy.postfix, tok)

		case tok.HasOp && tok.Operator == operator.Semicolon:
			// A semicolon only forces a full reduction of whatever
			// operators are pending; it is never itself emitted into the
			// postfix stream. Each statement's result is simply left
			// sitting on the execution stack underneath the next
			// statement's — the engine's final result is always the
			// value on top, so nothing needs to explicitly clear between
			// statements.
			sy.reduceAll()

		case tok.HasOp && tok.Operator == operator.OpenParenthesis:
			sy.operatorStack = append(sy.operatorStack, operator.OpenParenthesis)

		case tok.HasOp && tok.Operator == operator.CloseParenthesis:
			if err := sy.closeParenthesis(); err != nil {
				return err
			}

		case tok.HasOp && tok.HasValue && tok.Operator == operator.FunctionCall:
			sy.postfix = append(sy.postfix, valueToken(tok.Value))
			sy.operatorStack = append(sy.operatorStack, operator.FunctionCall)

		case tok.HasOp && tok.HasValue && tok.Operator == operator.Exponentiation:
			sy.reduce(operator.Exponentiation)
			sy.postfix = append(sy.postfix, valueToken(tok.Value))
			sy.operatorStack = append(sy.operatorStack, operator.Exponentiation)

		case tok.HasOp:
			sy.reduce(tok.Operator)
			sy.operatorStack = append(sy.operatorStack, tok.Operator)

		default:
			sy.postfix = append(sy.postfix, tok)
		}
	}

	// Variable Rule, part 2: a trailing bare variable/property-chain
	// reference at the very end of input has no following token to
	// trigger the Load-insertion check above, so it must be added here,
	// before the operator stack is drained.
	if sy.isLastTokenVariable() {
		sy.postfix = append(sy.postfix, opToken(operator.Load))
	}

	for len(sy.operatorStack) > 0 {
		op := sy.operatorStack[len(sy.operatorStack)-1]
		sy.operatorStack = sy.operatorStack[:len(sy.operatorStack)-1]
		if op == operator.OpenParenthesis {
			return shyerr.New(shyerr.ParseError, "unbalanced opening parenthesis")
		}
		sy.postfix = append(sy.postfix, opToken(op))
	}
	return nil
}

func (sy *shuntingYard) closeParenthesis() error {
	for {
		if len(sy.operatorStack) == 0 {
			return shyerr.New(shyerr.ParseError, "unbalanced closing parenthesis")
		}
		op := sy.operatorStack[len(sy.operatorStack)-1]
		sy.operatorStack = sy.operatorStack[:len(sy.operatorStack)-1]
		if op == operator.OpenParenthesis {
			return nil
		}
		sy.postfix = append(sy.postfix, opToken(op))
	}
}

// isRvalueOnStack reports whether the top of the output stack holds a
// Variable/PropertyChain value that tok does not consume as an lvalue
// (i.e. tok is not an assignment/increment/decrement operator).
func (sy *shuntingYard) isRvalueOnStack(tok Token) bool {
	isAssignment := tok.HasOp && tok.Operator.IsAssignment()
	if len(sy.postfix) == 0 {
		return false
	}
	top := sy.postfix[len(sy.postfix)-1]
	return isVariableOrPropertyChain(top) && !isAssignment
}

func (sy *shuntingYard) isLastTokenVariable() bool {
	if len(sy.postfix) == 0 {
		return false
	}
	return isVariableOrPropertyChain(sy.postfix[len(sy.postfix)-1])
}

// reduce applies the precedence/associativity rules, moving operators
// from the operator stack to the postfix output until one is found
// that should not yield to op.
func (sy *shuntingYard) reduce(op operator.Operator) {
	for {
		if len(sy.operatorStack) == 0 {
			return
		}
		top := sy.operatorStack[len(sy.operatorStack)-1]
		if top == operator.OpenParenthesis || top == operator.CloseParenthesis {
			return
		}
		switch {
		case top.Precedence() > op.Precedence():
			sy.postfix = append(sy.postfix, opToken(top))
			sy.operatorStack = sy.operatorStack[:len(sy.operatorStack)-1]
		case top.Precedence() < op.Precedence():
			return
		case top.Associativity() == operator.Left:
			sy.postfix = append(sy.postfix, opToken(top))
			sy.operatorStack = sy.operatorStack[:len(sy.operatorStack)-1]
		default:
			// Equal precedence, right-associative (or no defined
			// associativity): stop popping so op binds tighter to the
			// right.
			return
		}
	}
}

// reduceAll moves every operator on the stack to the postfix output,
// used when a semicolon forces a full flush between statements.
func (sy *shuntingYard) reduceAll() {
	for len(sy.operatorStack) > 0 {
		op := sy.operatorStack[len(sy.operatorStack)-1]
		sy.operatorStack = sy.operatorStack[:len(sy.operatorStack)-1]
		sy.postfix = append(sy.postfix, opToken(op))
	}
}
