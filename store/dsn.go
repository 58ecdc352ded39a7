package store

import (
	"fmt"
	"strconv"
	"strings"
)

// dsn holds the parsed components of a RuleSetStore connection string.
// Grounded on the teacher's pkg/pdo.ParseDSN/DSN: a driver prefix before
// the first colon, then either a bare file path (sqlite) or a run of
// semicolon-separated key=value pairs (mysql/postgres).
type dsn struct {
	driver   string
	host     string
	port     int
	database string
	username string
	password string
	options  map[string]string
}

// parseDSN parses connection strings of the form:
//
//	mysql:host=localhost;port=3306;dbname=rules;user=shy;password=secret
//	postgres:host=localhost;port=5432;dbname=rules;user=shy;password=secret
//	sqlite:/path/to/rules.db
func parseDSN(raw string) (*dsn, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid ruleset store DSN (want driver:options): %s", raw)
	}

	d := &dsn{driver: parts[0], options: make(map[string]string)}

	if d.driver == "sqlite" {
		d.database = parts[1]
		return d, nil
	}

	for _, pair := range strings.Split(parts[1], ";") {
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key, value := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
		switch key {
		case "host", "hostname":
			d.host = value
		case "port":
			port, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid port %q: %w", value, err)
			}
			d.port = port
		case "dbname", "database":
			d.database = value
		case "user", "username":
			d.username = value
		case "password", "pass":
			d.password = value
		default:
			d.options[key] = value
		}
	}

	switch d.driver {
	case "mysql":
		if d.port == 0 {
			d.port = 3306
		}
	case "postgres", "pgsql":
		if d.port == 0 {
			d.port = 5432
		}
	}

	return d, nil
}

// mysqlDSN renders d as a go-sql-driver/mysql DSN: user:password@tcp(host:port)/database.
func (d *dsn) mysqlDSN() string {
	var b strings.Builder
	if d.username != "" {
		b.WriteString(d.username)
		if d.password != "" {
			b.WriteString(":")
			b.WriteString(d.password)
		}
		b.WriteString("@")
	}
	host := d.host
	if host == "" {
		host = "localhost"
	}
	fmt.Fprintf(&b, "tcp(%s:%d)/%s", host, d.port, d.database)
	if len(d.options) > 0 {
		b.WriteString("?")
		first := true
		for k, v := range d.options {
			if !first {
				b.WriteString("&")
			}
			first = false
			fmt.Fprintf(&b, "%s=%s", k, v)
		}
	}
	return b.String()
}

// postgresDSN renders d as a lib/pq keyword/value DSN.
func (d *dsn) postgresDSN() string {
	var b strings.Builder
	host := d.host
	if host == "" {
		host = "localhost"
	}
	fmt.Fprintf(&b, "host=%s port=%d dbname=%s sslmode=disable", host, d.port, d.database)
	if d.username != "" {
		fmt.Fprintf(&b, " user=%s", d.username)
	}
	if d.password != "" {
		fmt.Fprintf(&b, " password=%s", d.password)
	}
	return b.String()
}
