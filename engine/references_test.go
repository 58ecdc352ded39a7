package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wudi/shy/parser"
)

func extractOK(t *testing.T, source string) *References {
	t.Helper()
	prog, err := parser.Compile(source)
	require.NoError(t, err)
	return ExtractReferences(prog)
}

func TestExtractReferencesClassifiesDefinitionVsDependency(t *testing.T) {
	refs := extractOK(t, "x=2*a")
	assert.Contains(t, refs.Definitions, "x")
	assert.Contains(t, refs.Dependencies, "a")
	assert.NotContains(t, refs.Dependencies, "x")
	assert.NotContains(t, refs.Definitions, "a")
}

func TestExtractReferencesFirstOccurrenceWins(t *testing.T) {
	// a is read (dependency) on the right of b's assignment, then written
	// (definition) by its own assignment; its classification is fixed by whichever
	// occurrence comes first in the postfix stream.
	refs := extractOK(t, "b=a;a=1")
	assert.Contains(t, refs.Dependencies, "a")
	assert.NotContains(t, refs.Definitions, "a")
	assert.Contains(t, refs.Definitions, "b")
}

func TestFollowByMergesDefinitions(t *testing.T) {
	first := extractOK(t, "x=2*a")
	second := extractOK(t, "y=x+1")
	merged, ok := first.FollowBy(second)
	require.True(t, ok)
	assert.Contains(t, merged.Definitions, "x")
	assert.Contains(t, merged.Definitions, "y")
	assert.Contains(t, merged.Dependencies, "a")
}

func TestFollowByRejectsUndefinedDependency(t *testing.T) {
	// second depends on y, which neither it nor first defines, so
	// following first by second must fail.
	first := extractOK(t, "x=2*a")
	second := extractOK(t, "z=y+1")
	_, ok := first.FollowBy(second)
	assert.False(t, ok)
}

func TestFollowByAllowsExternalDependencyCarryOver(t *testing.T) {
	first := &References{ExternalDependencies: []string{"a"}}
	second := extractOK(t, "x=2*a")
	merged, ok := first.FollowBy(second)
	require.True(t, ok)
	assert.Contains(t, merged.Definitions, "x")
}

func TestInferExternalDependencies(t *testing.T) {
	all := []*References{
		extractOK(t, "x=2*a"),
		extractOK(t, "y=x+b"),
	}
	external := InferExternalDependencies(all)
	assert.True(t, external["a"])
	assert.True(t, external["b"])
	assert.False(t, external["x"])
}

func TestApplyExternalDependenciesMovesFromDependencies(t *testing.T) {
	refs := extractOK(t, "y=x+b")
	require.Contains(t, refs.Dependencies, "x")
	require.Contains(t, refs.Dependencies, "b")

	refs.ApplyExternalDependencies(map[string]bool{"b": true})

	assert.NotContains(t, refs.Dependencies, "b")
	assert.Contains(t, refs.Dependencies, "x")
	assert.Contains(t, refs.ExternalDependencies, "b")
}
