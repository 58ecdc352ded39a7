// Package engine executes a compiled parser.Program as a postfix stack
// machine against a mutable Context, and extracts the variable
// References a Program defines or depends on. Grounded on
// original_source/src/parser/expression.rs (exec/operate),
// execution_context.rs (Context load/store/vivify), and references.rs
// (dependency bookkeeping).
package engine

import (
	"fmt"

	"github.com/wudi/shy/values"
)

// Function is a built-in callable registered in a Context. It receives
// a single Value — a scalar for a one-argument call, or a Vector built
// up by the Comma operator for calls with more arguments — and returns
// a Value, which may itself be an Error.
type Function func(*values.Value) *values.Value

// Context holds the variables a Program reads and writes and the
// functions it may call, mirroring execution_context.rs's
// ExecutionContext. Unlike the Rust type, Context has no lifetime
// parameter to manage: functions are plain Go closures.
type Context struct {
	variables map[string]*values.Value
	functions map[string]Function

	// IsApplicable tracks whether the rule currently executing against
	// this Context still applies to it. It starts true for every rule
	// and is cleared by a QuitIfFalse that short-circuits execution,
	// letting a RuleSet tell "this predicate doesn't apply here" apart
	// from "this predicate applies and failed". Grounded on
	// original_source/src/rule/ruleset.rs's RuleSetResult.context.is_applicable,
	// which the distilled source declares and reads but never actually
	// assigns anywhere outside of its ExecutionContext::default seed —
	// this port makes the flag do the work its name promises.
	IsApplicable bool
}

// NewContext returns a Context preloaded with the standard constants
// (PI/π, E, PHI/φ) and built-in functions, the same seeding
// ExecutionContext::new/default perform.
func NewContext() *Context {
	c := &Context{
		variables:    make(map[string]*values.Value),
		functions:    make(map[string]Function),
		IsApplicable: true,
	}
	for name, v := range values.StandardConstants() {
		c.variables[name] = v
	}
	for name, fn := range StandardFunctions() {
		c.functions[name] = fn
	}
	return c
}

// NewContextFrom seeds a Context from a caller-supplied variable map in
// addition to the standard constants and functions, mirroring
// ExecutionContext::from(&HashMap<String,f64>) generalized to any Value.
func NewContextFrom(initial map[string]*values.Value) *Context {
	c := NewContext()
	for name, v := range initial {
		c.variables[name] = v
	}
	return c
}

// RegisterFunction adds or replaces a function in the context, letting
// a host extend the standard library (spec.md's host-embedding API).
func (c *Context) RegisterFunction(name string, fn Function) {
	c.functions[name] = fn
}

// Store binds name directly to val, overwriting any previous value.
func (c *Context) Store(name string, val *values.Value) {
	c.variables[name] = val
}

// Load retrieves the current value bound to name, if any.
func (c *Context) Load(name string) (*values.Value, bool) {
	v, ok := c.variables[name]
	return v, ok
}

// LoadChain retrieves the value reached by following a property chain,
// the first element of which must name a variable in the context.
// Grounded on ExecutionContext::load_chain.
func (c *Context) LoadChain(path []string) (*values.Value, bool) {
	if len(path) == 0 {
		return nil, false
	}
	cur, ok := c.Load(path[0])
	if !ok {
		return nil, false
	}
	for _, key := range path[1:] {
		if !cur.IsObject() {
			return nil, false
		}
		next, ok := cur.Object().GetProperty(key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// StoreChain writes val at the end of a property chain, autovivifying
// any missing intermediate Objects. Grounded on
// ExecutionContext::store_chain/vivify.
func (c *Context) StoreChain(path []string, val *values.Value) error {
	switch len(path) {
	case 0:
		return nil
	case 1:
		c.variables[path[0]] = val
		return nil
	default:
		parent, err := c.vivify(path[:len(path)-1])
		if err != nil {
			return err
		}
		leaf := path[len(path)-1]
		obj := parent.Object()
		if !obj.CanSetProperty(leaf) {
			return fmt.Errorf("cannot set property %q: read-only", leaf)
		}
		return obj.SetProperty(leaf, val)
	}
}

// vivify walks path from the top-level variable down, creating an
// empty Object at any missing link, and returns the final Object as a
// Value. It fails if any existing link along the way is a non-Object
// value or a property the backing Association refuses to set.
func (c *Context) vivify(path []string) (*values.Value, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("empty property chain")
	}
	top := path[0]
	cur, ok := c.variables[top]
	var obj *values.Object
	switch {
	case !ok:
		obj = values.NewObject()
		c.variables[top] = values.Obj(obj)
	case cur.IsObject():
		obj = cur.Object()
	default:
		return nil, fmt.Errorf("cannot use %q as an object: already holds a %s", top, cur.Kind)
	}
	for _, key := range path[1:] {
		if !obj.CanSetProperty(key) {
			return nil, fmt.Errorf("cannot set property %q: read-only", key)
		}
		if obj.CanGetProperty(key) {
			existing, _ := obj.GetProperty(key)
			if !existing.IsObject() {
				return nil, fmt.Errorf("cannot use property %q as an object: already holds a %s", key, existing.Kind)
			}
			obj = existing.Object()
			continue
		}
		child := values.NewObject()
		if err := obj.SetProperty(key, values.Obj(child)); err != nil {
			return nil, err
		}
		obj = child
	}
	return values.Obj(obj), nil
}

// Call invokes a registered function by name.
func (c *Context) Call(name string, args *values.Value) *values.Value {
	fn, ok := c.functions[name]
	if !ok {
		return values.Error(fmt.Sprintf("no function named %s in context", name))
	}
	return fn(args)
}
