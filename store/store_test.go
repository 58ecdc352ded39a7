package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wudi/shy/rule"
)

func TestSaveGetDeleteRoundTrip(t *testing.T) {
	s, err := Open("sqlite::memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	rec := Record{
		Name:        "car-worthiness",
		ContextName: "car",
		Criteria:    rule.MajorityPass,
		Category:    "vehicles",
		RuleSource: []string{
			`rule.name = "car age"; not_too_old = car.age < 8`,
			`rule.name = "car price"; not_too_expensive = car.price < 30000`,
		},
	}
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Get(ctx, "car-worthiness")
	require.NoError(t, err)
	assert.Equal(t, rec.ContextName, got.ContextName)
	assert.Equal(t, rec.Criteria, got.Criteria)
	assert.Equal(t, rec.Category, got.Category)
	assert.Equal(t, rec.RuleSource, got.RuleSource)
	assert.False(t, got.CreatedAt.IsZero())

	rs, err := s.Load(ctx, "car-worthiness")
	require.NoError(t, err)
	assert.Len(t, rs.Rules, 2)
	assert.Equal(t, rule.MajorityPass, rs.Criteria)

	require.NoError(t, s.Delete(ctx, "car-worthiness"))
	_, err = s.Get(ctx, "car-worthiness")
	assert.Error(t, err)
}

func TestSaveOverwritesExistingRuleSet(t *testing.T) {
	s, err := Open("sqlite::memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, Record{
		Name:       "r",
		Criteria:   rule.AnyPass,
		RuleSource: []string{"x = 1", "y = 2"},
	}))
	require.NoError(t, s.Save(ctx, Record{
		Name:       "r",
		Criteria:   rule.AllPass,
		RuleSource: []string{"z = 3"},
	}))

	got, err := s.Get(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, rule.AllPass, got.Criteria)
	assert.Equal(t, []string{"z = 3"}, got.RuleSource)
}

func TestListFiltersByCategory(t *testing.T) {
	s, err := Open("sqlite::memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, Record{Name: "a", Category: "vehicles", RuleSource: []string{"x = 1"}}))
	require.NoError(t, s.Save(ctx, Record{Name: "b", Category: "vehicles", RuleSource: []string{"x = 1"}}))
	require.NoError(t, s.Save(ctx, Record{Name: "c", Category: "loans", RuleSource: []string{"x = 1"}}))

	all, err := s.List(ctx, "*")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, all)

	vehicles, err := s.List(ctx, "vehicles")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, vehicles)
}

func TestGetUnknownRuleSetReturnsError(t *testing.T) {
	s, err := Open("sqlite::memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(context.Background(), "nope")
	assert.Error(t, err)
}

func TestParseDSNVariants(t *testing.T) {
	d, err := parseDSN("mysql:host=db.internal;port=3307;dbname=rules;user=shy;password=secret")
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.driver)
	assert.Equal(t, "db.internal", d.host)
	assert.Equal(t, 3307, d.port)
	assert.Equal(t, "rules", d.database)
	assert.Equal(t, "shy:secret@tcp(db.internal:3307)/rules", d.mysqlDSN())

	d, err = parseDSN("postgres:host=db.internal;dbname=rules")
	require.NoError(t, err)
	assert.Equal(t, 5432, d.port)
	assert.Contains(t, d.postgresDSN(), "dbname=rules")

	d, err = parseDSN("sqlite:/var/lib/shy/rules.db")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/shy/rules.db", d.database)
}

func TestBindRewritesPlaceholdersOnlyForPostgres(t *testing.T) {
	mysqlStore := &RuleSetStore{driverName: "mysql"}
	assert.Equal(t, "WHERE name = ?", mysqlStore.bind("WHERE name = ?"))

	pgStore := &RuleSetStore{driverName: "postgres"}
	assert.Equal(t, "WHERE name = $1 AND category = $2", pgStore.bind("WHERE name = ? AND category = ?"))
}
