// Package rule implements the Rule and RuleSet orchestrator: a named,
// ordered collection of compiled expressions that tallies pass/fail
// outcomes under a configurable voting criteria. Grounded on
// original_source/src/rule/mod.rs and ruleset.rs.
package rule

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wudi/shy/engine"
	"github.com/wudi/shy/parser"
)

// Type classifies what a Rule's result means. Predicate is the
// pass/fail case; Property means the rule only sets values (typically
// metadata or derived properties) and never itself contributes to a
// RuleSet's pass/fail tally.
//
// original_source/src/rule/mod.rs declares exactly these two variants,
// but original_source/src/rule/ruleset.rs's exec() matches a third,
// RuleType::Category, that the enum never declares — an inconsistency
// in the distilled source (see SPEC_FULL.md §6). shy implements only
// the two the enum actually has.
type Type int

const (
	Predicate Type = iota
	Property
)

func (t Type) String() string {
	if t == Property {
		return "Property"
	}
	return "Predicate"
}

// Rule wraps a compiled expression with metadata either supplied by
// the caller or inferred by evaluating the expression once against a
// scratch Context: an expression that assigns to rule.name, rule.id,
// rule.description, rule.type, or rule.category sets that Rule field,
// the same way a RuleSet header assigns ruleset.* properties.
type Rule struct {
	// ID uniquely identifies the Rule. If the expression doesn't
	// assign one via rule.id, a UUID is generated.
	ID string

	// Name defaults to "Rule" + ID when the expression doesn't assign
	// rule.name.
	Name string

	// Description is the empty string unless the expression assigns
	// rule.description. For a Predicate, it is phrased as a yes/no
	// question about the rule's result; RuleSet.Exec counts a Predicate
	// as passing whenever it evaluates without an error.
	Description string

	// Type defaults to Predicate unless the expression assigns
	// rule.type = "Property".
	Type Type

	// Category is optional and not used in execution, only filtering.
	Category string

	// Source is the rule's original expression text.
	Source string

	program    *parser.Program
	references *engine.References
}

// New compiles source and derives Rule metadata by executing it once
// against a scratch Context (or ctx, if supplied) and reading back any
// rule.* property chains it set. Grounded on Rule::new, except that a
// failed dry-run execution is tolerated the same way the Rust source
// tolerates it (it discards the exec's Result entirely) rather than
// surfacing it as an error — only a failure to compile is fatal here.
func New(source string, ctx *engine.Context) (*Rule, error) {
	prog, err := parser.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("rule failed to compile: %w", err)
	}

	dryRun := ctx
	if dryRun == nil {
		dryRun = engine.NewContext()
	}
	_, _ = engine.Exec(prog, dryRun)

	id := stringProperty(dryRun, "rule", "id")
	if id == "" {
		id = uuid.NewString()
	}
	name := stringProperty(dryRun, "rule", "name")
	if name == "" {
		name = "Rule" + id
	}
	ruleType := Predicate
	if stringProperty(dryRun, "rule", "type") == "Property" {
		ruleType = Property
	}

	return &Rule{
		ID:          id,
		Name:        name,
		Description: stringProperty(dryRun, "rule", "description"),
		Type:        ruleType,
		Category:    stringProperty(dryRun, "rule", "category"),
		Source:      source,
		program:     prog,
		references:  ruleReferences(prog),
	}, nil
}

// stringProperty reads a two-segment property chain out of ctx,
// returning "" unless it holds a string, matching Rule::new's pattern
// of falling back to a default for every property chain it can't
// resolve to the expected ShyScalar kind.
func stringProperty(ctx *engine.Context, root, leaf string) string {
	v, ok := ctx.LoadChain([]string{root, leaf})
	if !ok || !v.IsString() {
		return ""
	}
	return v.Str()
}

// ruleReferences extracts prog's variable references, excluding any
// "rule."-prefixed chain: those carry Rule metadata common to every
// rule in a RuleSet and aren't part of its data dependencies. Grounded
// on Rule::definitions/Rule::dependencies.
func ruleReferences(prog *parser.Program) *engine.References {
	refs := engine.ExtractReferences(prog)
	return &engine.References{
		Definitions:  excludeRulePrefix(refs.Definitions),
		Dependencies: excludeRulePrefix(refs.Dependencies),
	}
}

func excludeRulePrefix(names []string) []string {
	var kept []string
	for _, name := range names {
		if !strings.HasPrefix(name, "rule.") {
			kept = append(kept, name)
		}
	}
	return kept
}

// Definitions lists the variables and property chains this Rule's
// expression defines, excluding rule.* metadata chains.
func (r *Rule) Definitions() []string {
	return append([]string(nil), r.references.Definitions...)
}

// Dependencies lists the variables and property chains this Rule's
// expression reads without also defining, excluding rule.* metadata
// chains.
func (r *Rule) Dependencies() []string {
	return append([]string(nil), r.references.Dependencies...)
}
