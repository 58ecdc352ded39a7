// Package values implements the shy value model: a tagged union of
// scalars, vectors, shared objects, and the unresolved reference forms
// (variable, property chain, function name) that the parser and engine
// pass around before they are loaded or called.
package values

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which alternative of the value union is populated.
type Kind byte

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindRational
	KindString
	KindError
	KindVector
	KindObject
	KindVariable
	KindPropertyChain
	KindFunctionName
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindRational:
		return "rational"
	case KindString:
		return "string"
	case KindError:
		return "error"
	case KindVector:
		return "vector"
	case KindObject:
		return "object"
	case KindVariable:
		return "variable"
	case KindPropertyChain:
		return "property_chain"
	case KindFunctionName:
		return "function_name"
	default:
		return "unknown"
	}
}

// Value is the single type every shy expression produces and consumes.
// Exactly one of the Data fields is meaningful for a given Kind; the
// others are left at their zero value.
type Value struct {
	Kind Kind

	boolData   bool
	intData    int64
	floatData  float64
	stringData string
	vectorData []*Value
	objectData *Object

	// Properties is the dotted path for KindPropertyChain ("a.b.c").
	Properties []string
}

// Scalar constructors.

func Null() *Value                 { return &Value{Kind: KindNull} }
func Boolean(b bool) *Value        { return &Value{Kind: KindBoolean, boolData: b} }
func Integer(i int64) *Value       { return &Value{Kind: KindInteger, intData: i} }
func Rational(f float64) *Value    { return &Value{Kind: KindRational, floatData: f} }
func String(s string) *Value       { return &Value{Kind: KindString, stringData: s} }
func Error(message string) *Value  { return &Value{Kind: KindError, stringData: message} }
func Vector(items []*Value) *Value { return &Value{Kind: KindVector, vectorData: items} }
func Obj(o *Object) *Value         { return &Value{Kind: KindObject, objectData: o} }
func Variable(name string) *Value  { return &Value{Kind: KindVariable, stringData: name} }

func FunctionName(name string) *Value {
	return &Value{Kind: KindFunctionName, stringData: name}
}

// PropertyChain builds a reference into a variable's nested properties,
// e.g. parts = ["cart", "total"] for the source text "cart.total".
func PropertyChain(parts []string) *Value {
	return &Value{Kind: KindPropertyChain, Properties: parts}
}

// Type predicates.

func (v *Value) IsNull() bool          { return v.Kind == KindNull }
func (v *Value) IsBoolean() bool       { return v.Kind == KindBoolean }
func (v *Value) IsInteger() bool       { return v.Kind == KindInteger }
func (v *Value) IsRational() bool      { return v.Kind == KindRational }
func (v *Value) IsNumeric() bool       { return v.Kind == KindInteger || v.Kind == KindRational }
func (v *Value) IsString() bool        { return v.Kind == KindString }
func (v *Value) IsError() bool         { return v.Kind == KindError }
func (v *Value) IsVector() bool        { return v.Kind == KindVector }
func (v *Value) IsObject() bool        { return v.Kind == KindObject }
func (v *Value) IsVariable() bool      { return v.Kind == KindVariable }
func (v *Value) IsPropertyChain() bool { return v.Kind == KindPropertyChain }
func (v *Value) IsFunctionName() bool  { return v.Kind == KindFunctionName }

// IsScalar matches the spec's Scalar{Null|Boolean|Integer|Rational|String|Error}.
func (v *Value) IsScalar() bool {
	switch v.Kind {
	case KindNull, KindBoolean, KindInteger, KindRational, KindString, KindError:
		return true
	default:
		return false
	}
}

// Accessors. Each is meaningful only for its matching Kind; callers that
// don't already know the Kind should switch on it first, the same
// IsX()-then-access convention the teacher's value.go uses.

func (v *Value) Bool() bool             { return v.boolData }
func (v *Value) Int() int64             { return v.intData }
func (v *Value) Float() float64         { return v.floatData }
func (v *Value) Str() string            { return v.stringData }
func (v *Value) Items() []*Value        { return v.vectorData }
func (v *Value) Object() *Object        { return v.objectData }
func (v *Value) Name() string           { return v.stringData }
func (v *Value) PropertyPath() []string { return v.Properties }

// AsFloat coerces any numeric/boolean/null/numeric-string scalar to a
// float64, the way shy's arithmetic operators widen mixed operands.
func (v *Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindInteger:
		return float64(v.intData), true
	case KindRational:
		return v.floatData, true
	case KindBoolean:
		if v.boolData {
			return 1, true
		}
		return 0, true
	case KindNull:
		return 0, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.stringData), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// falseyWords are the case-insensitive, trimmed string values that are
// falsey despite being non-empty strings, per spec.md §4.4's
// truthiness rule.
var falseyWords = map[string]bool{"false": true, "no": true, "0": true, "": true}

// AsBool implements shy's truthiness rule: Null and the zero value of
// any scalar type are false; non-empty vectors/objects are true; a
// nonempty string is truthy unless its case-insensitive trimmed value
// is one of a small set of falsey words ("false", "no", "0", "").
func (v *Value) AsBool() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBoolean:
		return v.boolData
	case KindInteger:
		return v.intData != 0
	case KindRational:
		return v.floatData != 0 && !math.IsNaN(v.floatData) && !math.IsInf(v.floatData, 0)
	case KindString:
		return !falseyWords[strings.ToLower(strings.TrimSpace(v.stringData))]
	case KindError:
		return false
	case KindVector:
		return len(v.vectorData) > 0
	case KindObject:
		return v.objectData != nil
	default:
		return false
	}
}

// String renders a Value for display and as the debug/print format. It
// does not guard against cyclic Objects on its own — callers that may
// hold cycles should go through Object's cycle-safe Equal/String instead.
func (v *Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBoolean:
		return strconv.FormatBool(v.boolData)
	case KindInteger:
		return strconv.FormatInt(v.intData, 10)
	case KindRational:
		return strconv.FormatFloat(v.floatData, 'g', -1, 64)
	case KindString:
		return v.stringData
	case KindError:
		return "error: " + v.stringData
	case KindVector:
		parts := make([]string, len(v.vectorData))
		for i, item := range v.vectorData {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		return v.objectData.String()
	case KindVariable:
		return v.stringData
	case KindPropertyChain:
		return strings.Join(v.Properties, ".")
	case KindFunctionName:
		return v.stringData + "()"
	default:
		return "?"
	}
}

// Equal compares two values for shy's `==` operator. Numeric kinds
// compare by value across Integer/Rational; Vectors and Objects compare
// element-wise/property-wise, with Objects going through a cycle-safe walk.
func (v *Value) Equal(other *Value) bool {
	if v.Kind != other.Kind {
		if v.IsNumeric() && other.IsNumeric() {
			lf, _ := v.AsFloat()
			rf, _ := other.AsFloat()
			return lf == rf
		}
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBoolean:
		return v.boolData == other.boolData
	case KindInteger:
		return v.intData == other.intData
	case KindRational:
		return v.floatData == other.floatData
	case KindString:
		return v.stringData == other.stringData
	case KindError:
		return v.stringData == other.stringData
	case KindVector:
		if len(v.vectorData) != len(other.vectorData) {
			return false
		}
		for i := range v.vectorData {
			if !v.vectorData[i].Equal(other.vectorData[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.objectData.Equal(other.objectData, make(map[*Object]bool))
	case KindVariable, KindFunctionName:
		return v.stringData == other.stringData
	case KindPropertyChain:
		if len(v.Properties) != len(other.Properties) {
			return false
		}
		for i := range v.Properties {
			if v.Properties[i] != other.Properties[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare orders two numeric or string scalars for the relational
// operators, returning -1/0/1 and false when the comparison is undefined
// (mismatched non-numeric kinds).
func (v *Value) Compare(other *Value) (int, bool) {
	if v.IsNumeric() && other.IsNumeric() {
		lf, _ := v.AsFloat()
		rf, _ := other.AsFloat()
		switch {
		case lf < rf:
			return -1, true
		case lf > rf:
			return 1, true
		default:
			return 0, true
		}
	}
	if v.Kind == KindString && other.Kind == KindString {
		return strings.Compare(v.stringData, other.stringData), true
	}
	return 0, false
}

// goldenRatio is (1+sqrt(5))/2; the standard library's math package
// does not define it.
var goldenRatio = (1 + math.Sqrt(5)) / 2

// StandardConstants is seeded into every new execution context, grounded
// on original_source/src/parser/execution_context.rs's constant table.
func StandardConstants() map[string]*Value {
	return map[string]*Value{
		"PI":  Rational(math.Pi),
		"π":   Rational(math.Pi),
		"E":   Rational(math.E),
		"PHI": Rational(goldenRatio),
		"φ":   Rational(goldenRatio),
	}
}

// SortVectorItems sorts a slice of scalar Values ascending.
func SortVectorItems(items []*Value) {
	sort.SliceStable(items, func(i, j int) bool {
		c, ok := items[i].Compare(items[j])
		return ok && c < 0
	})
}

// Describe formats a Value together with its Kind, used in error
// messages raised by the engine (e.g. "FunctionCall expects a function
// name, got string(x)").
func (v *Value) Describe() string {
	return fmt.Sprintf("%s(%s)", v.Kind, v.String())
}
