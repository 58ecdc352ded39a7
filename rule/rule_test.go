package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDerivesMetadataFromRuleAssignments(t *testing.T) {
	r, err := New(`rule.name = "car age"; rule.id = "age-check"; rule.description = "Is the car young enough?"; rule.type = "Predicate"; not_too_old = car.age < 8`, nil)
	require.NoError(t, err)
	assert.Equal(t, "car age", r.Name)
	assert.Equal(t, "age-check", r.ID)
	assert.Equal(t, "Is the car young enough?", r.Description)
	assert.Equal(t, Predicate, r.Type)
}

func TestNewDefaultsNameFromGeneratedID(t *testing.T) {
	r, err := New("x=1", nil)
	require.NoError(t, err)
	assert.Equal(t, "Rule"+r.ID, r.Name)
	assert.NotEmpty(t, r.ID)
}

func TestNewDefaultsToPredicateType(t *testing.T) {
	r, err := New("x=1", nil)
	require.NoError(t, err)
	assert.Equal(t, Predicate, r.Type)
}

func TestNewRecognizesPropertyType(t *testing.T) {
	r, err := New(`rule.type = "Property"; discount = 0.1`, nil)
	require.NoError(t, err)
	assert.Equal(t, Property, r.Type)
}

func TestNewRejectsUncompilableSource(t *testing.T) {
	_, err := New("x = (", nil)
	assert.Error(t, err)
}

func TestDefinitionsAndDependenciesExcludeRuleMetadata(t *testing.T) {
	r, err := New(`rule.name = "car price"; not_too_expensive = car.price < good_price`, nil)
	require.NoError(t, err)
	assert.Contains(t, r.Dependencies(), "car.price")
	assert.Contains(t, r.Dependencies(), "good_price")
	assert.Contains(t, r.Definitions(), "not_too_expensive")
	assert.NotContains(t, r.Definitions(), "rule.name")
	assert.NotContains(t, r.Dependencies(), "rule.name")
}
