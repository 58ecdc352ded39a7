package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wudi/shy/engine"
	"github.com/wudi/shy/values"
)

// carRuleSetText mirrors original_source/src/rule/ruleset.rs's
// CAR_RULESET test fixture: a RuleSet header (a Property rule setting
// ruleset.* metadata) followed by four Predicate rules, separated by
// blank lines so each rule may span multiple lines.
const carRuleSetText = `
rule.name = "RuleSet header";
rule.type = "Property";
ruleset.name = "Decide if car worth buying";
ruleset.context_name = "car";
ruleset.criteria = "MajorityPass";
ruleset.category = "Test";

rule.name = "car age";
rule.type = "Predicate";
not_too_old = car.age < 8 || (car.age < 12 && car.make == "Honda");

rule.name = "car price";
rule.type = "Predicate";
good_price = min(50000 / car.age, 30000);
not_too_expensive = car.price < good_price;

rule.name = "car miles driven";
rule.type = "Predicate";
good_miles_driven = car.miles_driven < 100000 || (car.miles_driven < 150000 && car.make == "Honda");

rule.name = "car accidents";
rule.type = "Predicate";
not_too_many_accidents = car.accidents == 0 || (car.accidents <= 1 && car.make == "BMW");
`

func TestNewFromTextOrderedMajorityPass(t *testing.T) {
	rs, err := NewFromText(carRuleSetText, false)
	require.NoError(t, err)

	require.Len(t, rs.Rules, 5)
	assert.Equal(t, "Decide if car worth buying", rs.Name)
	assert.Equal(t, "car", rs.ContextName)
	assert.Equal(t, MajorityPass, rs.Criteria)
	assert.Equal(t, "Test", rs.Category)

	ctx := engine.NewContext()
	require.NoError(t, ctx.StoreChain([]string{"car", "make"}, values.String("Honda")))
	require.NoError(t, ctx.StoreChain([]string{"car", "age"}, values.Integer(10)))
	require.NoError(t, ctx.StoreChain([]string{"car", "miles_driven"}, values.Integer(120000)))
	require.NoError(t, ctx.StoreChain([]string{"car", "price"}, values.Integer(4750)))
	require.NoError(t, ctx.StoreChain([]string{"car", "accidents"}, values.Integer(2)))

	result := rs.Exec(ctx, false)

	assert.True(t, result.DidRulesetPass)
	assert.Equal(t, 4, result.PassingApplicableRuleCount)
	assert.Equal(t, 4, result.ApplicableRuleCount)
}

func TestNewRuleSetRejectsCompileFailure(t *testing.T) {
	_, err := NewRuleSet("broken", "$", LastPasses, "", []string{"x = ("})
	assert.Error(t, err)
}

func TestNewRuleSetOrdersRulesByDependency(t *testing.T) {
	rs, err := NewRuleSet("order", "$", AllPass, "", []string{
		"derived = base * 2",
		"base = 10",
	})
	require.NoError(t, err)
	require.Len(t, rs.Rules, 2)

	ctx := engine.NewContext()
	result := rs.Exec(ctx, false)
	require.Empty(t, result.Errors)
	base, ok := ctx.Load("base")
	require.True(t, ok)
	assert.Equal(t, int64(10), base.Int())
	derived, ok := ctx.Load("derived")
	require.True(t, ok)
	assert.Equal(t, int64(20), derived.Int())
}

func TestNewRuleSetReportsCircularDependency(t *testing.T) {
	_, err := NewRuleSet("cycle", "$", LastPasses, "", []string{
		"a = b + 1",
		"b = a + 1",
	})
	assert.Error(t, err)
}

func TestDecidePassFailNeverAndAlwaysPass(t *testing.T) {
	rs, err := NewRuleSet("neverpass", "$", NeverPass, "", []string{"ok = true"})
	require.NoError(t, err)
	result := rs.Exec(engine.NewContext(), false)
	assert.False(t, result.DidRulesetPass)
	assert.True(t, result.DidRulesetFail)

	rs, err = NewRuleSet("alwayspass", "$", AlwaysPass, "", []string{"ok = false"})
	require.NoError(t, err)
	result = rs.Exec(engine.NewContext(), false)
	assert.True(t, result.DidRulesetPass)
	assert.False(t, result.DidRulesetFail)
}

func TestDecidePassFailAllPassRequiresApplicableRules(t *testing.T) {
	rs, err := NewRuleSet("allpass-empty", "$", AllPass, "", nil)
	require.NoError(t, err)
	result := rs.Exec(engine.NewContext(), false)
	assert.False(t, result.DidRulesetPass)
	assert.True(t, result.DidRulesetFail)
}

func TestExecTraceRecordsOneLinePerRule(t *testing.T) {
	rs, err := NewRuleSet("traced", "$", AlwaysPass, "", []string{"x = 1", "y = 2"})
	require.NoError(t, err)
	result := rs.Exec(engine.NewContext(), true)
	assert.Len(t, result.Trace, 2)
}

func TestExecMarksInapplicableWhenQuitIfFalseShortCircuits(t *testing.T) {
	rs, err := NewRuleSet("guarded", "$", MajorityPass, "", []string{
		"car.age < 100?",
		"car.make == \"Toyota\"?",
	})
	require.NoError(t, err)

	ctx := engine.NewContext()
	require.NoError(t, ctx.StoreChain([]string{"car", "age"}, values.Integer(5)))
	require.NoError(t, ctx.StoreChain([]string{"car", "make"}, values.String("Honda")))

	result := rs.Exec(ctx, false)
	assert.Equal(t, 1, result.ApplicableRuleCount)
	assert.Equal(t, 1, result.InapplicableRuleCount)
}
