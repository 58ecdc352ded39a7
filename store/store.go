// Package store persists RuleSet source and metadata behind
// database/sql, so a host embedding shy can keep its rule library in
// whichever relational database it already runs rather than shipping
// rule text as files. Grounded on the teacher's pkg/pdo driver-wiring
// pattern (dsn.go, mysql_driver.go, pgsql_driver.go, sqlite_driver.go):
// a DSN prefix picks the driver, and that driver is blank-imported once
// per store so database/sql's global registry gains it, per
// SPEC_FULL.md §4's mandate that store wire mysql, lib/pq, and sqlite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/wudi/shy/rule"
)

// RuleSetStore saves and loads rule.RuleSet source/metadata from a SQL
// database. It does not itself compile rules: Save accepts the raw
// rule source blocks and criteria a caller already validated (or is
// about to, via rule.NewRuleSet), and Get/List hand the stored blocks
// back for the caller to rebuild a RuleSet with rule.NewRuleSet.
type RuleSetStore struct {
	db         *sql.DB
	driverName string
}

// Open parses dsn, opens the matching driver's connection, and returns
// a RuleSetStore backed by it. Supported DSN forms:
//
//	mysql:host=localhost;port=3306;dbname=rules;user=shy;password=secret
//	postgres:host=localhost;port=5432;dbname=rules;user=shy;password=secret
//	sqlite:/path/to/rules.db
func Open(dataSourceName string) (*RuleSetStore, error) {
	parsed, err := parseDSN(dataSourceName)
	if err != nil {
		return nil, err
	}

	var driverName, connStr string
	switch parsed.driver {
	case "mysql":
		driverName, connStr = "mysql", parsed.mysqlDSN()
	case "postgres", "pgsql":
		driverName, connStr = "postgres", parsed.postgresDSN()
	case "sqlite":
		driverName, connStr = "sqlite", parsed.database
	default:
		return nil, fmt.Errorf("unsupported ruleset store driver %q", parsed.driver)
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("opening ruleset store (%s): %w", driverName, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to ruleset store (%s): %w", driverName, err)
	}

	return open(db, driverName)
}

// OpenDB wraps an already-open *sql.DB, for callers that manage their
// own connection pool (e.g. sharing one pool across several stores).
// driverName must be one of "mysql", "postgres", or "sqlite", so the
// store knows which bind-parameter style to render queries with.
func OpenDB(db *sql.DB, driverName string) (*RuleSetStore, error) {
	return open(db, driverName)
}

func open(db *sql.DB, driverName string) (*RuleSetStore, error) {
	s := &RuleSetStore{db: db, driverName: driverName}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// bind rewrites a query written with "?" placeholders into the target
// driver's native style: mysql and sqlite accept "?" as-is, while
// lib/pq requires positional "$1", "$2", ... parameters.
func (s *RuleSetStore) bind(query string) string {
	if s.driverName != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *RuleSetStore) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS rulesets (
	name TEXT PRIMARY KEY,
	context_name TEXT NOT NULL,
	criteria TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("migrating rulesets table: %w", err)
	}
	_, err = s.db.Exec(`
CREATE TABLE IF NOT EXISTS ruleset_rules (
	ruleset_name TEXT NOT NULL,
	position INTEGER NOT NULL,
	source TEXT NOT NULL,
	PRIMARY KEY (ruleset_name, position)
)`)
	if err != nil {
		return fmt.Errorf("migrating ruleset_rules table: %w", err)
	}
	return nil
}

// Close releases the underlying database connection pool.
func (s *RuleSetStore) Close() error {
	return s.db.Close()
}

// Record is the stored shape of a RuleSet: enough to rebuild it via
// rule.NewRuleSet without re-deriving metadata from the rule text.
// Grounded on the request/response bodies of original_source/src/
// service/routes/add_ruleset.rs and get_ruleset.rs.
type Record struct {
	Name        string
	ContextName string
	Criteria    rule.SuccessCriteria
	Category    string
	RuleSource  []string
	CreatedAt   time.Time
}

// Save inserts or replaces the RuleSet named rec.Name. Grounded on
// add_ruleset.rs, which takes the ruleset name from the URL path and
// criteria/rule_source from the request body.
func (s *RuleSetStore) Save(ctx context.Context, rec Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving ruleset %q: %w", rec.Name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.bind(`DELETE FROM ruleset_rules WHERE ruleset_name = ?`), rec.Name); err != nil {
		return fmt.Errorf("saving ruleset %q: %w", rec.Name, err)
	}
	if _, err := tx.ExecContext(ctx, s.bind(`DELETE FROM rulesets WHERE name = ?`), rec.Name); err != nil {
		return fmt.Errorf("saving ruleset %q: %w", rec.Name, err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = tx.ExecContext(ctx,
		s.bind(`INSERT INTO rulesets (name, context_name, criteria, category, created_at) VALUES (?, ?, ?, ?, ?)`),
		rec.Name, rec.ContextName, rec.Criteria.String(), rec.Category, createdAt)
	if err != nil {
		return fmt.Errorf("saving ruleset %q: %w", rec.Name, err)
	}

	for i, source := range rec.RuleSource {
		_, err = tx.ExecContext(ctx,
			s.bind(`INSERT INTO ruleset_rules (ruleset_name, position, source) VALUES (?, ?, ?)`),
			rec.Name, i, source)
		if err != nil {
			return fmt.Errorf("saving ruleset %q: %w", rec.Name, err)
		}
	}

	return tx.Commit()
}

// Get loads the stored Record for name, in the order its rules were
// saved. Grounded on get_ruleset.rs, which returns the RuleSet plus a
// created timestamp.
func (s *RuleSetStore) Get(ctx context.Context, name string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		s.bind(`SELECT context_name, criteria, category, created_at FROM rulesets WHERE name = ?`), name)

	rec := &Record{Name: name}
	var criteria string
	if err := row.Scan(&rec.ContextName, &criteria, &rec.Category, &rec.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("ruleset %q not found", name)
		}
		return nil, fmt.Errorf("loading ruleset %q: %w", name, err)
	}
	rec.Criteria = rule.ParseSuccessCriteria(criteria)

	rows, err := s.db.QueryContext(ctx,
		s.bind(`SELECT source FROM ruleset_rules WHERE ruleset_name = ? ORDER BY position`), name)
	if err != nil {
		return nil, fmt.Errorf("loading ruleset %q rules: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("loading ruleset %q rules: %w", name, err)
		}
		rec.RuleSource = append(rec.RuleSource, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading ruleset %q rules: %w", name, err)
	}

	return rec, nil
}

// Load is a convenience wrapper around Get that rebuilds a compiled,
// ordered rule.RuleSet from the stored record.
func (s *RuleSetStore) Load(ctx context.Context, name string) (*rule.RuleSet, error) {
	rec, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return rule.NewRuleSet(rec.Name, rec.ContextName, rec.Criteria, rec.Category, rec.RuleSource)
}

// List returns the names of every stored RuleSet whose category
// matches, sorted alphabetically. A category of "" or "*" matches
// every RuleSet. Grounded on list_rulesets.rs, whose category query
// parameter defaults to "*" meaning "all categories".
func (s *RuleSetStore) List(ctx context.Context, category string) ([]string, error) {
	var rows *sql.Rows
	var err error
	if category == "" || category == "*" {
		rows, err = s.db.QueryContext(ctx, `SELECT name FROM rulesets ORDER BY name`)
	} else {
		rows, err = s.db.QueryContext(ctx, s.bind(`SELECT name FROM rulesets WHERE category = ? ORDER BY name`), category)
	}
	if err != nil {
		return nil, fmt.Errorf("listing rulesets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("listing rulesets: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes the stored RuleSet named name, if any. Grounded on
// delete_ruleset.rs.
func (s *RuleSetStore) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("deleting ruleset %q: %w", name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.bind(`DELETE FROM ruleset_rules WHERE ruleset_name = ?`), name); err != nil {
		return fmt.Errorf("deleting ruleset %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, s.bind(`DELETE FROM rulesets WHERE name = ?`), name); err != nil {
		return fmt.Errorf("deleting ruleset %q: %w", name, err)
	}
	return tx.Commit()
}
