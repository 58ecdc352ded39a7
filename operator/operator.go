// Package operator defines shy's operator table: precedence,
// associativity, and arity for every operator the shunting-yard parser
// and execution engine share. Grounded on
// original_source/src/parser/shy_operator.rs, which is the coherent of
// the Rust source's two precedence tables (the duplicate embedded in
// shy_token.rs disagrees with itself, giving LessThan a precedence of 1
// instead of 7 — that copy is not reproduced here).
package operator

// Associativity records which side a same-precedence run of operators
// groups from.
type Associativity byte

const (
	Left Associativity = iota
	Right
	None
)

// Operator (0-44) Load/Store/structural (0-9)
type Operator byte

const (
	// Structural / pseudo-operators (0-9)
	Load Operator = iota // push the value bound to a Variable token
	Store                // pop a value and bind it to a Variable token
	Semicolon            // flush the operator stack, starting a new statement
	FunctionCall
	OpenParenthesis
	CloseParenthesis
	Comma
	OpenBracket
	CloseBracket
	Member

	// Unary / prefix (10-16)
	PrefixPlusSign
	PrefixMinusSign
	PostIncrement
	PostDecrement
	Factorial
	SquareRoot
	LogicalNot

	// Power (17-18)
	Power          // superscript exponent (x²); the parser emits it as Exponentiation plus the exponent value
	Exponentiation // right-associative ^

	// Match (19-20)
	Match
	NotMatch

	// Arithmetic
	Multiply
	Divide
	Mod
	Add
	Subtract

	// Relational
	LessThan
	LessThanOrEqualTo
	GreaterThan
	GreaterThanOrEqualTo

	// Equality
	Equals
	NotEquals

	// Logical
	And
	Or

	// Conditional short-circuit: named QuitIfFalse per spec, not the
	// Rust source's internal "Ternary".
	QuitIfFalse

	// Assignment (right-associative)
	Assign
	PlusAssign
	MinusAssign
	MultiplyAssign
	DivideAssign
	ModAssign
	AndAssign
	OrAssign

	// Operand is how the operator parser hands control back to the
	// operand parser; it is never itself pushed onto the operator stack
	// for long.
	Operand
	// Error marks a token the operator table has no entry for.
	Error
)

var names = map[Operator]string{
	Load: "Load", Store: "Store", Semicolon: "Semicolon",
	FunctionCall: "FunctionCall", OpenParenthesis: "OpenParenthesis",
	CloseParenthesis: "CloseParenthesis", Comma: "Comma",
	OpenBracket: "OpenBracket", CloseBracket: "CloseBracket", Member: "Member",
	PrefixPlusSign: "PrefixPlusSign", PrefixMinusSign: "PrefixMinusSign",
	PostIncrement: "PostIncrement", PostDecrement: "PostDecrement",
	Factorial: "Factorial", SquareRoot: "SquareRoot", LogicalNot: "LogicalNot",
	Power: "Power", Exponentiation: "Exponentiation",
	Match: "Match", NotMatch: "NotMatch",
	Multiply: "Multiply", Divide: "Divide", Mod: "Mod", Add: "Add", Subtract: "Subtract",
	LessThan: "LessThan", LessThanOrEqualTo: "LessThanOrEqualTo",
	GreaterThan: "GreaterThan", GreaterThanOrEqualTo: "GreaterThanOrEqualTo",
	Equals: "Equals", NotEquals: "NotEquals",
	And: "And", Or: "Or", QuitIfFalse: "QuitIfFalse",
	Assign: "Assign", PlusAssign: "PlusAssign", MinusAssign: "MinusAssign",
	MultiplyAssign: "MultiplyAssign", DivideAssign: "DivideAssign",
	ModAssign: "ModAssign", AndAssign: "AndAssign", OrAssign: "OrAssign",
	Operand: "Operand", Error: "Error",
}

func (o Operator) String() string {
	if s, ok := names[o]; ok {
		return s
	}
	return "Unknown"
}

// info bundles the three facts the parser and engine need per operator.
type info struct {
	precedence    uint8
	associativity Associativity
	arguments     int
}

var table = map[Operator]info{
	Semicolon:        {18, Left, 0},
	Load:             {17, Left, 1},
	Store:            {17, Left, 1},
	// FunctionCall pops two operands: the function-name value pushed by
	// the parser ahead of the call's arguments, and the (possibly
	// Comma-built) argument value. shy_operator.rs's arguments() table
	// gives FunctionCall an arity of 1 — left over from thinking only
	// of the argument value — but its own operate() match arm calls
	// ShyValue::call(&arg1, &arg2, context), reading both operands, and
	// the postfix token layout (name value pushed, then argument
	// value(s), then the bare FunctionCall operator) only works if two
	// operands come off the stack. Arity 2 here.
	FunctionCall:     {16, Left, 2},
	OpenParenthesis:  {15, Left, 0},
	CloseParenthesis: {15, Left, 0},
	// Comma binds more loosely than every expression and assignment
	// operator, so each function argument is fully reduced before the
	// comma that ends it.
	Comma:            {1, Left, 2},
	OpenBracket:      {15, Left, 0},
	CloseBracket:     {15, Left, 1},
	Member:           {15, Left, 2},
	Power:            {14, Right, 2},
	Exponentiation:   {14, Right, 2},
	PrefixPlusSign:   {13, Left, 1},
	PrefixMinusSign:  {13, Left, 1},
	PostIncrement:    {13, Left, 1},
	PostDecrement:    {13, Left, 1},
	SquareRoot:       {13, Left, 1},
	LogicalNot:       {13, Left, 1},
	Factorial:        {11, Left, 1},
	Match:            {10, Left, 2},
	NotMatch:         {10, Left, 2},
	Multiply:         {9, Left, 2},
	Divide:           {9, Left, 2},
	Mod:              {9, Left, 2},
	Add:              {8, Left, 2},
	Subtract:         {8, Left, 2},
	LessThan:             {7, Left, 2},
	LessThanOrEqualTo:    {7, Left, 2},
	GreaterThan:          {7, Left, 2},
	GreaterThanOrEqualTo: {7, Left, 2},
	Equals:    {6, Left, 2},
	NotEquals: {6, Left, 2},
	And:       {5, Left, 2},
	Or:        {4, Left, 2},
	// QuitIfFalse pops and tests exactly one value; the source's own
	// arguments() table claims 3 (left over from when this operator was
	// a true three-part ternary), which would make every ordinary
	// "cond ?" usage fail the stack-size check before it could run.
	QuitIfFalse: {3, Left, 1},
	Assign:         {2, Right, 2},
	PlusAssign:     {2, Right, 2},
	MinusAssign:    {2, Right, 2},
	MultiplyAssign: {2, Right, 2},
	DivideAssign:   {2, Right, 2},
	ModAssign:      {2, Right, 2},
	AndAssign:      {2, Right, 2},
	OrAssign:       {2, Right, 2},
	Operand: {1, Left, 0},
	Error:   {0, Left, 0},
}

// Precedence returns the operator's binding power; higher binds tighter.
func (o Operator) Precedence() uint8 { return table[o].precedence }

// Associativity returns which side a run of equal-precedence operators
// of this kind groups from.
func (o Operator) Associativity() Associativity { return table[o].associativity }

// Arguments returns how many operand stack slots this operator consumes.
// FunctionCall is variable-arity in the source language, but its actual
// arguments are packed into a single Vector by the Comma operator before
// FunctionCall executes, so it consumes exactly two operands: the
// function-name value and that (possibly Comma-built) argument Vector.
func (o Operator) Arguments() int { return table[o].arguments }

// IsAssignment reports whether the operator stores its result into its
// first operand rather than just producing a new value.
func (o Operator) IsAssignment() bool {
	switch o {
	case Assign, PlusAssign, MinusAssign, MultiplyAssign, DivideAssign,
		ModAssign, AndAssign, OrAssign, PostIncrement, PostDecrement:
		return true
	default:
		return false
	}
}
