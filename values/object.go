package values

import (
	"sort"
	"strings"
	"sync"
)

// Association is the capability interface shy objects implement,
// grounded on original_source/src/parser/shy_association.rs's
// ShyAssociation trait: a backend only needs to answer whether a
// property can be read/written and to get/set it, so the engine can
// treat an in-memory map, a read-only view, or a future JSON-backed
// object uniformly.
type Association interface {
	CanGetProperty(name string) bool
	CanSetProperty(name string) bool
	GetProperty(name string) (*Value, bool)
	SetProperty(name string, val *Value) error
	PropertyNames() []string
}

// Object is shy's shared, interior-mutable map-backed Association. The
// Rust original used Rc<RefCell<HashMap<...>>> for this sharing; a
// pointer to a mutex-guarded map is the idiomatic Go analogue, and it
// keeps Object safe to read and mutate concurrently the way
// execution_context.rs's variables map does implicitly through Rust's
// single-threaded Rc/RefCell.
type Object struct {
	mu       sync.RWMutex
	fields   map[string]*Value
	readOnly bool
}

// NewObject returns an empty, read-write Object.
func NewObject() *Object {
	return &Object{fields: make(map[string]*Value)}
}

// NewObjectFrom wraps an existing map as an Object without copying it,
// so callers that already have a map[string]*Value (e.g. from decoding
// a host's JSON payload) can hand it to the engine directly.
func NewObjectFrom(fields map[string]*Value) *Object {
	if fields == nil {
		fields = make(map[string]*Value)
	}
	return &Object{fields: fields}
}

// NewReadOnlyObject wraps a map so SetProperty always fails, used to
// expose host-provided context values a rule may read but never vivify.
func NewReadOnlyObject(fields map[string]*Value) *Object {
	o := NewObjectFrom(fields)
	o.readOnly = true
	return o
}

func (o *Object) CanGetProperty(name string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.fields[name]
	return ok
}

func (o *Object) CanSetProperty(name string) bool {
	return !o.readOnly
}

func (o *Object) GetProperty(name string) (*Value, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.fields[name]
	return v, ok
}

// SetProperty creates the property if absent (autovivification happens
// one level up, in engine.Context's vivify, which walks a PropertyChain
// and calls SetProperty at each missing link).
func (o *Object) SetProperty(name string, val *Value) error {
	if o.readOnly {
		return &readOnlyError{name: name}
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fields[name] = val
	return nil
}

func (o *Object) PropertyNames() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	names := make([]string, 0, len(o.fields))
	for name := range o.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type readOnlyError struct{ name string }

func (e *readOnlyError) Error() string { return "cannot set read-only property " + e.name }

// String renders an Object's properties in name order, guarding against
// reference cycles the same way Equal does below.
func (o *Object) String() string {
	return o.stringSeen(make(map[*Object]bool))
}

func (o *Object) stringSeen(seen map[*Object]bool) string {
	if seen[o] {
		return "{...}"
	}
	seen[o] = true
	o.mu.RLock()
	defer o.mu.RUnlock()
	names := make([]string, 0, len(o.fields))
	for name := range o.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		val := o.fields[name]
		var rendered string
		if val.IsObject() {
			rendered = val.Object().stringSeen(seen)
		} else {
			rendered = val.String()
		}
		parts = append(parts, name+": "+rendered)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Equal compares two Objects property-by-property. seen tracks object
// pairs already being compared up the call stack so a property cycle
// (a.b == a, for instance) terminates instead of recursing forever,
// matching the spec's Design Notes requirement that Object equality and
// printing be cycle-safe.
func (o *Object) Equal(other *Object, seen map[*Object]bool) bool {
	if o == other {
		return true
	}
	if seen[o] || seen[other] {
		return true
	}
	seen[o] = true
	seen[other] = true

	o.mu.RLock()
	other.mu.RLock()
	defer o.mu.RUnlock()
	defer other.mu.RUnlock()

	if len(o.fields) != len(other.fields) {
		return false
	}
	for name, val := range o.fields {
		ov, ok := other.fields[name]
		if !ok {
			return false
		}
		if val.IsObject() && ov.IsObject() {
			if !val.Object().Equal(ov.Object(), seen) {
				return false
			}
			continue
		}
		if !val.Equal(ov) {
			return false
		}
	}
	return true
}
