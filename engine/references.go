package engine

import (
	"strings"

	"github.com/wudi/shy/operator"
	"github.com/wudi/shy/parser"
)

// References records the variable and property-chain names one or
// more expressions define versus depend on, grounded on
// original_source/src/parser/references.rs's References struct.
//
// A name is a Dependency until the full set of expressions in a
// RuleSet has been seen; InferExternalDependencies then reclassifies
// the subset never defined anywhere as ExternalDependencies, which
// the host ExecutionContext is expected to supply.
type References struct {
	Definitions          []string
	Dependencies         []string
	ExternalDependencies []string
}

func propertyChainName(parts []string) string {
	return strings.Join(parts, ".")
}

// ExtractReferences walks prog's postfix stream and classifies each
// name's first occurrence: immediately followed by a Load operator,
// it's a read (Dependency); otherwise it's the lvalue of an
// assignment or increment (Definition). Grounded on expression.rs's
// lazy_init_variables_used / variables_used.
func ExtractReferences(prog *parser.Program) *References {
	refs := &References{}
	seen := make(map[string]bool)
	postfix := prog.Postfix

	for i, tok := range postfix {
		if !tok.HasValue || tok.HasOp {
			continue
		}
		var name string
		switch {
		case tok.Value.IsVariable():
			name = tok.Value.Name()
		case tok.Value.IsPropertyChain():
			name = propertyChainName(tok.Value.PropertyPath())
		default:
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		followedByLoad := i+1 < len(postfix) &&
			postfix[i+1].HasOp && !postfix[i+1].HasValue &&
			postfix[i+1].Operator == operator.Load
		if followedByLoad {
			refs.Dependencies = append(refs.Dependencies, name)
		} else {
			refs.Definitions = append(refs.Definitions, name)
		}
	}
	return refs
}

// referenceKind classifies variable within r, mirroring
// References::get_reference_type.
type referenceKind byte

const (
	refUnknown referenceKind = iota
	refDefinition
	refDependency
	refExternalDependency
)

func (r *References) kindOf(variable string) referenceKind {
	switch {
	case contains(r.Definitions, variable):
		return refDefinition
	case contains(r.Dependencies, variable):
		return refDependency
	case contains(r.ExternalDependencies, variable):
		return refExternalDependency
	default:
		return refUnknown
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// FollowBy computes the cumulative References of running the
// expression(s) behind r followed by the expression(s) behind next,
// reporting ok=false when next cannot validly follow r: a dependency
// in next that r neither defines nor already carries as an external
// dependency (an uninitialized read), or a definition/external
// dependency in next that contradicts r's own classification of that
// name (expressions processed out of order). Grounded on
// References::follow_by.
func (r *References) FollowBy(next *References) (*References, bool) {
	result := &References{
		Definitions:          append([]string(nil), r.Definitions...),
		Dependencies:         append([]string(nil), r.Dependencies...),
		ExternalDependencies: append([]string(nil), r.ExternalDependencies...),
	}

	for _, variable := range next.Dependencies {
		switch r.kindOf(variable) {
		case refDefinition, refExternalDependency:
		case refDependency, refUnknown:
			return nil, false
		}
	}

	for _, variable := range next.Definitions {
		switch r.kindOf(variable) {
		case refDefinition:
		case refDependency, refExternalDependency:
			return nil, false
		case refUnknown:
			result.Definitions = append(result.Definitions, variable)
		}
	}

	for _, variable := range next.ExternalDependencies {
		switch r.kindOf(variable) {
		case refExternalDependency:
		case refDefinition, refDependency:
			return nil, false
		case refUnknown:
			result.ExternalDependencies = append(result.ExternalDependencies, variable)
		}
	}

	return result, true
}

// HasNoDependencies reports whether r carries neither internal nor
// external dependencies.
func (r *References) HasNoDependencies() bool {
	return len(r.Dependencies) == 0 && len(r.ExternalDependencies) == 0
}

// HasInternalDependencyOn reports whether variable is listed among r's
// (not-yet-resolved) dependencies.
func (r *References) HasInternalDependencyOn(variable string) bool {
	return contains(r.Dependencies, variable)
}

// HasExternalDependencyOn reports whether variable is listed among r's
// external dependencies.
func (r *References) HasExternalDependencyOn(variable string) bool {
	return contains(r.ExternalDependencies, variable)
}

// InferExternalDependencies computes, across a set of References (one
// per expression in a RuleSet), the set of names that are depended on
// somewhere but never defined anywhere — the variables the host
// ExecutionContext is expected to supply. Grounded on
// References::infer_external_dependencies.
func InferExternalDependencies(all []*References) map[string]bool {
	definitions := make(map[string]bool)
	dependencies := make(map[string]bool)
	for _, r := range all {
		for _, d := range r.Definitions {
			definitions[d] = true
		}
		for _, d := range r.Dependencies {
			dependencies[d] = true
		}
	}
	external := make(map[string]bool)
	for d := range dependencies {
		if !definitions[d] {
			external[d] = true
		}
	}
	return external
}

// ApplyExternalDependencies moves every name in externals out of r's
// Dependencies and into r's ExternalDependencies.
//
// References::apply_external_dependencies searches for each external
// name's position in self.external_dependencies, then immediately
// swap_removes from self.dependencies at that same index — a
// source/target mismatch: the list being searched is never the list
// being mutated, so a dependency due for reclassification is never
// actually found (or, if the two slices happen to share a length, the
// wrong element is evicted from Dependencies entirely). Fixed here by
// searching Dependencies, the list apply_external_dependencies is
// documented to move entries out of.
func (r *References) ApplyExternalDependencies(externals map[string]bool) {
	var kept []string
	for _, dep := range r.Dependencies {
		if externals[dep] {
			r.ExternalDependencies = append(r.ExternalDependencies, dep)
		} else {
			kept = append(kept, dep)
		}
	}
	r.Dependencies = kept
}
