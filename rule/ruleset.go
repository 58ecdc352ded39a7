package rule

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wudi/shy/engine"
	"github.com/wudi/shy/shyerr"
	"github.com/wudi/shy/values"
)

// RuleSet is a named, ordered collection of Rules executed together to
// produce a single pass/fail decision (or, for a RuleSet built purely
// of Property rules, just a side-effect on the shared Context).
// Grounded on original_source/src/rule/ruleset.rs's RuleSet struct.
type RuleSet struct {
	// ID uniquely identifies the RuleSet; generated if not supplied.
	ID string

	// Name defaults to "Untitled" unless set via ruleset.name.
	Name string

	// ContextName is the presumed root of the property-chain paths
	// this RuleSet's rules read from the caller-supplied context, e.g.
	// "car" for rules about car.age, car.price, etc. Defaults to "$".
	ContextName string

	// Criteria decides how the RuleSet's Predicate rules combine into
	// an overall pass/fail. Defaults to LastPasses.
	Criteria SuccessCriteria

	// Category is optional and used only for filtering/lookup.
	Category string

	// Rules is kept in dependency order: no rule that depends on a
	// variable another rule defines is ordered before that rule.
	Rules []*Rule
}

// NewRuleSet builds a RuleSet from already-assembled rule source
// blocks, compiling and dry-running each one, then topologically
// sorting them by data dependency. Grounded on RuleSet::new, with one
// correction: the distilled source sets has_errors = false in the
// branch that detects a compile error (ruleset.rs:246), which would
// mean a RuleSet with an uncompilable rule is never actually reported
// as failed; this implementation reports it instead: if any rule fails
// to compile, NewRuleSet returns an error listing every failing rule
// and no RuleSet.
func NewRuleSet(name, contextName string, criteria SuccessCriteria, category string, sources []string) (*RuleSet, error) {
	rules := make([]*Rule, 0, len(sources))
	var errs shyerr.List
	for i, source := range sources {
		r, err := New(source, nil)
		if err != nil {
			errs.Add(shyerr.New(shyerr.ParseError, fmt.Sprintf("rule %d: %v", i+1, err)))
			continue
		}
		rules = append(rules, r)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("ruleset %q: %d rule(s) failed to compile: %v", name, len(errs), errs)
	}

	ordered, err := untangleRules(rules)
	if err != nil {
		return nil, fmt.Errorf("ruleset %q: %w", name, err)
	}

	return &RuleSet{
		ID:          uuid.NewString(),
		Name:        name,
		ContextName: contextName,
		Criteria:    criteria,
		Category:    category,
		Rules:       ordered,
	}, nil
}

// untangleRules applies InferExternalDependencies/
// ApplyExternalDependencies across every rule's references, then
// orders rules with engine.Untangle so a rule never runs before
// another rule that defines a variable it depends on. Grounded on
// RuleSet::new's call to Expression::sort via
// original_source/src/parser/expression.rs's untangle, wired through
// graph.Sort.
func untangleRules(rules []*Rule) ([]*Rule, error) {
	if len(rules) == 0 {
		return rules, nil
	}
	allRefs := make([]*engine.References, len(rules))
	for i, r := range rules {
		allRefs[i] = r.references
	}
	external := engine.InferExternalDependencies(allRefs)
	for _, r := range rules {
		r.references.ApplyExternalDependencies(external)
	}

	ordered, tangled := engine.Untangle(rules, func(r *Rule) *engine.References { return r.references })
	if len(tangled) > 0 {
		names := make([]string, len(tangled))
		for i, r := range tangled {
			names[i] = r.Name
		}
		return nil, fmt.Errorf("circular dependency among rules: %s", strings.Join(names, ", "))
	}
	return ordered, nil
}

// NewFromText builds a RuleSet from a single block of rule source
// text, splitting it into per-rule source blocks, then executing the
// result once to infer ruleset.name/context_name/criteria/category
// from any ruleset.* assignments in the text. Grounded on
// RuleSet::new_from_text.
//
// If singleNewlineSeparatesRules is true, each non-blank line is its
// own rule. Otherwise, rules may span multiple lines and are
// separated by one or more blank lines (a line holding only spaces or
// tabs, or nothing at all).
func NewFromText(rulesetText string, singleNewlineSeparatesRules bool) (*RuleSet, error) {
	sources := splitRuleSources(rulesetText, singleNewlineSeparatesRules)
	rs, err := NewRuleSet("Untitled", "$", LastPasses, "", sources)
	if err != nil {
		return nil, err
	}
	rs.applyRuleSetVariables()
	return rs, nil
}

func splitRuleSources(text string, singleNewlineSeparatesRules bool) []string {
	var sources []string
	var hold strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if hold.Len() > 0 {
				sources = append(sources, hold.String())
				hold.Reset()
			}
			continue
		}
		if singleNewlineSeparatesRules {
			sources = append(sources, line)
			continue
		}
		hold.WriteString(line)
		hold.WriteByte('\n')
	}
	if hold.Len() > 0 {
		sources = append(sources, hold.String())
	}
	return sources
}

// applyRuleSetVariables dry-runs the whole RuleSet once against a
// fresh Context and reads back ruleset.name, ruleset.context_name,
// ruleset.criteria, and ruleset.category, falling back to the current
// field value (the defaults New already assigned) for anything the
// text never sets. Grounded on RuleSet::apply_ruleset_variables.
func (rs *RuleSet) applyRuleSetVariables() {
	ctx := engine.NewContext()
	result := rs.Exec(ctx, false)

	if v, ok := result.Context.LoadChain([]string{"ruleset", "name"}); ok && v.IsString() {
		rs.Name = v.Str()
	}
	if v, ok := result.Context.LoadChain([]string{"ruleset", "context_name"}); ok && v.IsString() {
		rs.ContextName = v.Str()
	}
	if v, ok := result.Context.LoadChain([]string{"ruleset", "criteria"}); ok && v.IsString() {
		rs.Criteria = ParseSuccessCriteria(v.Str())
	}
	if v, ok := result.Context.LoadChain([]string{"ruleset", "category"}); ok && v.IsString() {
		rs.Category = v.Str()
	}
}

// RuleSetResult reports the outcome of executing a RuleSet once:
// per-type rule counts, the pass/fail tally for Predicate rules, and
// the final pass/fail decision under the RuleSet's SuccessCriteria.
// Grounded on RuleSetResult.
type RuleSetResult struct {
	Name     string
	Criteria SuccessCriteria

	// Context is the (possibly cloned-in) Context the RuleSet ran
	// against, left as it was after the last rule executed.
	Context *engine.Context

	RulesWithErrorsCount int
	PropertyRuleCount    int

	// ApplicableRuleCount and InapplicableRuleCount count Predicate
	// rules found applicable (Context.IsApplicable was true right
	// after the rule ran) or not, respectively.
	ApplicableRuleCount        int
	InapplicableRuleCount      int
	PassingApplicableRuleCount int

	// DidLastApplicableRulePass is true if the last Predicate rule
	// found applicable, in evaluation order, didn't have an error.
	DidLastApplicableRulePass bool

	// LastApplicableRuleValue is the value of the last Predicate rule
	// found applicable, or nil if none were.
	LastApplicableRuleValue *values.Value

	// Errors collects one formatted message per rule that raised a
	// runtime error or whose result was itself an Error value.
	Errors []string

	// Trace holds one line per rule, in evaluation order, when Exec
	// was called with trace=true.
	Trace []string

	DidRulesetPass bool
	DidRulesetFail bool
}

// Exec executes every Rule in rs, in order, against ctx, tallying
// pass/fail outcomes for Predicate rules and deciding whether the
// RuleSet as a whole passes under its SuccessCriteria. Grounded on
// RuleSet::exec, folding the RuleType::Category arm the distilled
// source references but never declares (see SPEC_FULL.md §6) away:
// only Property and Predicate are dispatched.
func (rs *RuleSet) Exec(ctx *engine.Context, trace bool) *RuleSetResult {
	result := &RuleSetResult{Name: rs.Name, Criteria: rs.Criteria, Context: ctx}

	for _, r := range rs.Rules {
		ctx.IsApplicable = true
		value, err := engine.Exec(r.program, ctx)

		ruleHadError := false
		switch {
		case err != nil:
			ruleHadError = true
			value = values.Error(err.Error())
			result.RulesWithErrorsCount++
			result.Errors = append(result.Errors, fmt.Sprintf("rule %q had error: %v", r.Name, err))
		case value.IsError():
			ruleHadError = true
			result.RulesWithErrorsCount++
			result.Errors = append(result.Errors, fmt.Sprintf("rule %q had error: %s", r.Name, value.Str()))
		}

		if trace {
			result.Trace = append(result.Trace, fmt.Sprintf("%s (%s) => %s", r.Name, r.Type, value.Describe()))
		}

		switch r.Type {
		case Property:
			result.PropertyRuleCount++
		case Predicate:
			if ctx.IsApplicable {
				result.ApplicableRuleCount++
				result.DidLastApplicableRulePass = !ruleHadError
				if !ruleHadError {
					result.PassingApplicableRuleCount++
				}
				result.LastApplicableRuleValue = value
			} else {
				result.InapplicableRuleCount++
			}
		}
	}

	return result.decidePassFail()
}

// decidePassFail applies rs.Criteria's formula to the tallies Exec
// accumulated. Grounded on RuleSetResult::decide_pass_fail.
func (result *RuleSetResult) decidePassFail() *RuleSetResult {
	switch result.Criteria {
	case NeverPass:
		result.DidRulesetPass, result.DidRulesetFail = false, true
	case AllPass:
		result.DidRulesetPass = result.PassingApplicableRuleCount == result.ApplicableRuleCount && result.ApplicableRuleCount > 0
		result.DidRulesetFail = result.PassingApplicableRuleCount < result.ApplicableRuleCount || result.ApplicableRuleCount == 0
	case MajorityPass:
		result.DidRulesetPass = result.PassingApplicableRuleCount > result.ApplicableRuleCount/2
		result.DidRulesetFail = result.PassingApplicableRuleCount <= result.ApplicableRuleCount/2
	case AnyPass:
		result.DidRulesetPass = result.PassingApplicableRuleCount > 0
		result.DidRulesetFail = result.PassingApplicableRuleCount == 0
	case LastPasses:
		result.DidRulesetPass = result.DidLastApplicableRulePass
		result.DidRulesetFail = !result.DidLastApplicableRulePass
	case AlwaysPass:
		result.DidRulesetPass, result.DidRulesetFail = true, false
	}
	return result
}
