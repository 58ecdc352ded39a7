package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedRefs struct {
	name string
	refs *References
}

func refsOfNamed(n namedRefs) *References { return n.refs }

func TestUntangleOrdersByDefinitionBeforeDependency(t *testing.T) {
	items := []namedRefs{
		{name: "uses-a", refs: extractRefs(t, "y=a+1")},
		{name: "defines-a", refs: extractRefs(t, "a=1")},
	}
	untangled, tangled := Untangle(items, refsOfNamed)
	require.Empty(t, tangled)
	require.Len(t, untangled, 2)
	assert.Equal(t, "defines-a", untangled[0].name)
	assert.Equal(t, "uses-a", untangled[1].name)
}

func TestUntangleLeavesIndependentItemsInPlace(t *testing.T) {
	items := []namedRefs{
		{name: "first", refs: extractRefs(t, "x=1")},
		{name: "second", refs: extractRefs(t, "y=2")},
	}
	untangled, tangled := Untangle(items, refsOfNamed)
	require.Empty(t, tangled)
	assert.Equal(t, "first", untangled[0].name)
	assert.Equal(t, "second", untangled[1].name)
}

func TestUntangleReportsCircularDependency(t *testing.T) {
	items := []namedRefs{
		{name: "needs-b", refs: extractRefs(t, "a=b+1")},
		{name: "needs-a", refs: extractRefs(t, "b=a+1")},
	}
	_, tangled := Untangle(items, refsOfNamed)
	assert.Len(t, tangled, 2)
}

func extractRefs(t *testing.T, source string) *References {
	t.Helper()
	return extractOK(t, source)
}
