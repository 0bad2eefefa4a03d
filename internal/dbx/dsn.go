package dbx

import (
	"errors"
	"fmt"
	"strings"
)

// Dialect identifies the SQL flavour behind a database URL.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// sqlitePragmas are appended to every SQLite DSN.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

var ErrUnsupportedDatabaseURL = errors.New("unsupported database url")

// Source is a parsed database URL ready for sql.Open.
type Source struct {
	Dialect    Dialect
	DriverName string
	DSN        string
	// File is the database file of a sqlite:// URL, empty otherwise.
	File string
}

// ParseDatabaseURL maps a connection string onto a driver and DSN.
//
// Accepted forms:
//
//	sqlite:///relative.db     file relative to the working directory
//	sqlite:////abs/path.db    absolute file
//	sqlite://                 in-memory database (also sqlite:///:memory:)
//	file:name.db?mode=...     passed to the SQLite driver as is
//	postgres://..., postgresql://...
//	host=... user=...         libpq key/value form
func ParseDatabaseURL(url string) (Source, error) {
	url = strings.TrimSpace(url)

	switch {
	case url == "":
		return Source{}, fmt.Errorf("%w: empty", ErrUnsupportedDatabaseURL)

	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		// sqlite:///x.db keeps one slash too many for relative paths
		path = strings.TrimPrefix(path, "/")
		if path == "" || path == ":memory:" {
			return Source{Dialect: DialectSQLite, DriverName: "sqlite", DSN: withSQLitePragmas(":memory:")}, nil
		}
		return Source{Dialect: DialectSQLite, DriverName: "sqlite", DSN: withSQLitePragmas(path), File: path}, nil

	case strings.HasPrefix(url, "file:"):
		return Source{Dialect: DialectSQLite, DriverName: "sqlite", DSN: withSQLitePragmas(url)}, nil

	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Source{Dialect: DialectPostgres, DriverName: "pgx", DSN: url}, nil

	case strings.Contains(url, "host="):
		return Source{Dialect: DialectPostgres, DriverName: "pgx", DSN: url}, nil
	}

	return Source{}, fmt.Errorf("%w: %q", ErrUnsupportedDatabaseURL, url)
}

func withSQLitePragmas(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}
	return dsn + "?" + sqlitePragmas
}
