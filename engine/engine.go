// Package engine executes a compiled parser.Program as a postfix stack
// machine against a mutable Context, and extracts the variable
// References a Program defines or depends on. Grounded on
// original_source/src/parser/expression.rs (exec/operate),
// execution_context.rs (Context load/store/vivify), and references.rs
// (dependency bookkeeping).
package engine

import (
	"fmt"
	"math"
	"regexp"

	"github.com/wudi/shy/operator"
	"github.com/wudi/shy/parser"
	"github.com/wudi/shy/values"
)

// Exec runs prog's postfix token stream against ctx and returns the
// value left on top of the stack, mirroring Expression::exec. A
// QuitIfFalse whose popped test is falsey stops the loop early and
// clears ctx.IsApplicable, per spec.md §4.4; an empty stack at the end
// of execution (an expression with no tokens) yields NaN, matching the
// Rust source's semicolon handling of an empty statement.
func Exec(prog *parser.Program, ctx *Context) (*values.Value, error) {
	var stack []*values.Value
	for _, tok := range prog.Postfix {
		if tok.HasValue && !tok.HasOp {
			stack = append(stack, tok.Value)
			continue
		}
		if !tok.HasOp {
			continue
		}

		op := tok.Operator

		if op == operator.Load {
			if len(stack) < 1 {
				return nil, fmt.Errorf("%s: operand stack underflow", op)
			}
			top := stack[len(stack)-1]
			stack[len(stack)-1] = ctx.load(top)
			continue
		}

		n := op.Arguments()
		if len(stack) < n {
			return nil, fmt.Errorf("%s: operand stack underflow (need %d, have %d)", op, n, len(stack))
		}
		args := append([]*values.Value(nil), stack[len(stack)-n:]...)
		stack = stack[:len(stack)-n]

		result, err := ctx.operate(op, args)
		if err != nil {
			return nil, err
		}
		stack = append(stack, result)

		if op == operator.QuitIfFalse && !result.AsBool() {
			ctx.IsApplicable = false
			break
		}
	}

	if len(stack) == 0 {
		return values.Rational(math.NaN()), nil
	}
	return stack[len(stack)-1], nil
}

// load resolves a Variable or PropertyChain value against the
// context, returning Null when the name is unbound. Any other Kind of
// Value passes through unchanged — Load is only ever emitted ahead of
// an rvalue reference, but a defensive pass-through keeps a malformed
// postfix stream from panicking.
func (c *Context) load(v *values.Value) *values.Value {
	switch {
	case v.IsVariable():
		if loaded, ok := c.Load(v.Name()); ok {
			return loaded
		}
		return values.Null()
	case v.IsPropertyChain():
		if loaded, ok := c.LoadChain(v.PropertyPath()); ok {
			return loaded
		}
		return values.Null()
	default:
		return v
	}
}

// lvaluePath extracts the variable name or property-chain path an
// assignment/increment operator writes through, erroring if its
// operand isn't one of those two reference kinds.
func lvaluePath(v *values.Value) ([]string, error) {
	switch {
	case v.IsVariable():
		return []string{v.Name()}, nil
	case v.IsPropertyChain():
		return v.PropertyPath(), nil
	default:
		return nil, fmt.Errorf("assignment target must be a variable or property chain, got %s", v.Describe())
	}
}

// operate dispatches a single operator against its already-popped
// operands and returns the value to push back onto the stack.
// Mirrors Expression::operate's match over ShyOperator.
func (c *Context) operate(op operator.Operator, args []*values.Value) (*values.Value, error) {
	for _, a := range args {
		if a.IsError() {
			return a, nil
		}
	}

	switch op {
	case operator.FunctionCall:
		name := args[0]
		if !name.IsFunctionName() {
			return nil, fmt.Errorf("FunctionCall expects a function name, got %s", name.Describe())
		}
		return c.Call(name.Name(), args[1]), nil

	case operator.Comma:
		return comma(args[0], args[1]), nil

	case operator.PrefixPlusSign:
		if !args[0].IsNumeric() {
			return values.Error("unary + requires a numeric operand"), nil
		}
		return args[0], nil

	case operator.PrefixMinusSign:
		return negate(args[0]), nil

	case operator.LogicalNot:
		return values.Boolean(!args[0].AsBool()), nil

	case operator.SquareRoot:
		f, ok := args[0].AsFloat()
		if !ok {
			return values.Error("√ requires a numeric operand"), nil
		}
		return values.Rational(math.Sqrt(f)), nil

	case operator.Factorial:
		return factorial(args[0]), nil

	case operator.PostIncrement, operator.PostDecrement:
		return c.postStep(op, args[0])

	case operator.Power, operator.Exponentiation:
		return power(args[0], args[1]), nil

	case operator.Match, operator.NotMatch:
		return match(op, args[0], args[1]), nil

	case operator.Multiply, operator.Divide, operator.Mod, operator.Add, operator.Subtract:
		return arithmetic(op, args[0], args[1]), nil

	case operator.LessThan, operator.LessThanOrEqualTo, operator.GreaterThan, operator.GreaterThanOrEqualTo:
		return relational(op, args[0], args[1]), nil

	case operator.Equals:
		return values.Boolean(equalPromoted(args[0], args[1])), nil
	case operator.NotEquals:
		return values.Boolean(!equalPromoted(args[0], args[1])), nil

	case operator.And:
		return values.Boolean(args[0].AsBool() && args[1].AsBool()), nil
	case operator.Or:
		return values.Boolean(args[0].AsBool() || args[1].AsBool()), nil

	case operator.QuitIfFalse:
		return values.Boolean(args[0].AsBool()), nil

	case operator.Assign:
		return c.assign(args[0], args[1])
	case operator.PlusAssign, operator.MinusAssign, operator.MultiplyAssign,
		operator.DivideAssign, operator.ModAssign, operator.AndAssign, operator.OrAssign:
		return c.compoundAssign(op, args[0], args[1])

	case operator.CloseBracket:
		if args[0].IsVector() {
			return args[0], nil
		}
		return values.Vector([]*values.Value{args[0]}), nil

	case operator.Member:
		return nil, fmt.Errorf("Member operator is not supported")

	default:
		return nil, fmt.Errorf("operator %s has no execution behavior", op)
	}
}

// comma builds up a Vector incrementally: the first Comma(a,b)
// produces a 2-element Vector, and a subsequent Comma(vector, c)
// appends c. Grounded on the postfix layout that the parser package's
// TestCompileCommaSeparatesFunctionArguments checks.
func comma(left, right *values.Value) *values.Value {
	if left.IsVector() {
		return values.Vector(append(append([]*values.Value(nil), left.Items()...), right))
	}
	return values.Vector([]*values.Value{left, right})
}

func negate(v *values.Value) *values.Value {
	switch v.Kind {
	case values.KindInteger:
		return values.Integer(-v.Int())
	case values.KindRational:
		return values.Rational(-v.Float())
	default:
		return values.Error("unary - requires a numeric operand")
	}
}

// factorial dispatches to the exact [0,20] table, the approximate
// (20,170] table, or Error outside that range, per spec.md §4.4.
func factorial(v *values.Value) *values.Value {
	if !v.IsInteger() {
		return values.Error("factorial requires an integer operand")
	}
	n := v.Int()
	if n < 0 {
		return values.Error("factorial of a negative number is undefined")
	}
	if exact, ok := factorialExact(n); ok {
		return values.Integer(exact)
	}
	if approx, ok := factorialApprox(n); ok {
		return values.Rational(approx)
	}
	return values.Error("factorial argument out of range")
}

// power computes base^exponent. Integer base with non-negative
// Integer exponent stays Integer (overflow -> Error, per spec.md
// §4.4's arithmetic typing rule); anything else promotes to Rational.
func power(base, exponent *values.Value) *values.Value {
	if base.IsInteger() && exponent.IsInteger() && exponent.Int() >= 0 {
		result := int64(1)
		b := base.Int()
		for i := int64(0); i < exponent.Int(); i++ {
			next, ok := mulInt64(result, b)
			if !ok {
				return values.Error("integer overflow in exponentiation")
			}
			result = next
		}
		return values.Integer(result)
	}
	bf, bok := base.AsFloat()
	ef, eok := exponent.AsFloat()
	if !bok || !eok {
		return values.Error("exponentiation requires numeric operands")
	}
	return values.Rational(math.Pow(bf, ef))
}

// match compiles right (a string holding a regex literal or pattern)
// and tests it against left's string form, per spec.md §4.4's ~/!~
// operators.
func match(op operator.Operator, left, right *values.Value) *values.Value {
	if !right.IsString() {
		return values.Error("match operator requires a string/regex right operand")
	}
	re, err := regexp.Compile(right.Str())
	if err != nil {
		return values.Error(fmt.Sprintf("invalid regular expression %q: %v", right.Str(), err))
	}
	matched := re.MatchString(left.String())
	if op == operator.NotMatch {
		matched = !matched
	}
	return values.Boolean(matched)
}

// arithmetic implements spec.md §4.4's typing rule: Integer op
// Integer stays Integer (overflow -> Error); any Rational operand
// promotes the whole operation to Rational. Divide/Mod by a zero
// Integer is a domain Error; by a zero Rational it follows IEEE 754
// (±Inf/NaN).
func arithmetic(op operator.Operator, left, right *values.Value) *values.Value {
	if left.IsInteger() && right.IsInteger() {
		a, b := left.Int(), right.Int()
		switch op {
		case operator.Add:
			if r, ok := addInt64(a, b); ok {
				return values.Integer(r)
			}
			return values.Error("integer overflow in addition")
		case operator.Subtract:
			if r, ok := subInt64(a, b); ok {
				return values.Integer(r)
			}
			return values.Error("integer overflow in subtraction")
		case operator.Multiply:
			if r, ok := mulInt64(a, b); ok {
				return values.Integer(r)
			}
			return values.Error("integer overflow in multiplication")
		case operator.Divide:
			if b == 0 {
				return values.Error("integer division by zero")
			}
			return values.Integer(a / b)
		case operator.Mod:
			if b == 0 {
				return values.Error("integer modulo by zero")
			}
			return values.Integer(a % b)
		}
	}

	af, aok := left.AsFloat()
	bf, bok := right.AsFloat()
	if !aok || !bok {
		return values.Error(fmt.Sprintf("arithmetic requires numeric operands, got %s and %s", left.Kind, right.Kind))
	}
	switch op {
	case operator.Add:
		return values.Rational(af + bf)
	case operator.Subtract:
		return values.Rational(af - bf)
	case operator.Multiply:
		return values.Rational(af * bf)
	case operator.Divide:
		return values.Rational(af / bf)
	case operator.Mod:
		return values.Rational(math.Mod(af, bf))
	default:
		return values.Error("unsupported arithmetic operator")
	}
}

// relational compares two numeric or string scalars, promoting mixed
// numeric kinds to float the same way Value.Compare does.
func relational(op operator.Operator, left, right *values.Value) *values.Value {
	cmp, ok := left.Compare(right)
	if !ok {
		return values.Error(fmt.Sprintf("cannot compare %s and %s", left.Kind, right.Kind))
	}
	switch op {
	case operator.LessThan:
		return values.Boolean(cmp < 0)
	case operator.LessThanOrEqualTo:
		return values.Boolean(cmp <= 0)
	case operator.GreaterThan:
		return values.Boolean(cmp > 0)
	default:
		return values.Boolean(cmp >= 0)
	}
}

// equalPromoted compares two values for ==/!=, promoting mixed
// numeric kinds to float before comparing, per spec.md §4.4.
func equalPromoted(left, right *values.Value) bool {
	return left.Equal(right)
}

// assign stores right through left's name/chain and returns right,
// per spec.md §4.4: "pop top as RHS, next-from-top as an lvalue name
// or chain (not loaded), write through context, push assigned value".
func (c *Context) assign(lvalue, rhs *values.Value) (*values.Value, error) {
	path, err := lvaluePath(lvalue)
	if err != nil {
		return nil, err
	}
	if err := c.StoreChain(path, rhs); err != nil {
		return values.Error(err.Error()), nil
	}
	return rhs, nil
}

// compoundAssign implements +=, -=, *=, /=, %=, &&=, ||=: load the
// lvalue's current value (Null if unbound), combine it with rhs using
// the operator's non-assignment counterpart, store, and push the
// combined value.
func (c *Context) compoundAssign(op operator.Operator, lvalue, rhs *values.Value) (*values.Value, error) {
	path, err := lvaluePath(lvalue)
	if err != nil {
		return nil, err
	}
	current, ok := c.LoadChain(path)
	if !ok {
		current = values.Null()
	}

	var combined *values.Value
	switch op {
	case operator.PlusAssign:
		combined = arithmetic(operator.Add, current, rhs)
	case operator.MinusAssign:
		combined = arithmetic(operator.Subtract, current, rhs)
	case operator.MultiplyAssign:
		combined = arithmetic(operator.Multiply, current, rhs)
	case operator.DivideAssign:
		combined = arithmetic(operator.Divide, current, rhs)
	case operator.ModAssign:
		combined = arithmetic(operator.Mod, current, rhs)
	case operator.AndAssign:
		combined = values.Boolean(current.AsBool() && rhs.AsBool())
	case operator.OrAssign:
		combined = values.Boolean(current.AsBool() || rhs.AsBool())
	default:
		return nil, fmt.Errorf("%s is not a compound assignment operator", op)
	}

	if combined.IsError() {
		return combined, nil
	}
	if err := c.StoreChain(path, combined); err != nil {
		return values.Error(err.Error()), nil
	}
	return combined, nil
}

// postStep implements post-increment/post-decrement on a variable or
// property chain: load the current value (Integer(0) if unbound, so it
// increments to Integer(1)/decrements to Integer(-1)), store the
// stepped value, and push the new value. original_source/src/parser/
// mod.rs's exec_increment_existing_path/exec_increment_missing_path
// tests are marked #[ignore] and never pin down whether pre- or
// post-increment semantics apply; pushing the new value (rather than
// the pre-step value) is the simpler, chosen behavior.
func (c *Context) postStep(op operator.Operator, lvalue *values.Value) (*values.Value, error) {
	path, err := lvaluePath(lvalue)
	if err != nil {
		return nil, err
	}
	current, ok := c.LoadChain(path)
	if !ok {
		current = values.Integer(0)
	}
	delta := values.Integer(1)
	arithOp := operator.Add
	if op == operator.PostDecrement {
		arithOp = operator.Subtract
	}
	stepped := arithmetic(arithOp, current, delta)
	if stepped.IsError() {
		return stepped, nil
	}
	if err := c.StoreChain(path, stepped); err != nil {
		return values.Error(err.Error()), nil
	}
	return stepped, nil
}

// addInt64, subInt64, and mulInt64 perform overflow-checked int64
// arithmetic, surfacing shy's "overflow returns Error" policy
// (spec.md §4.4) instead of silently wrapping.
func addInt64(a, b int64) (int64, bool) {
	r := a + b
	if (b > 0 && r < a) || (b < 0 && r > a) {
		return 0, false
	}
	return r, true
}

func subInt64(a, b int64) (int64, bool) {
	r := a - b
	if (b < 0 && r < a) || (b > 0 && r > a) {
		return 0, false
	}
	return r, true
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if b == -1 && a == math.MinInt64 {
		return 0, false
	}
	r := a * b
	if r/b != a {
		return 0, false
	}
	return r, true
}
