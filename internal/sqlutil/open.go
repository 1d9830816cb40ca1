package sqlutil

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnsupportedURI = errors.New("unsupported or empty database uri")

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// DB is a connection together with the name of the driver it was opened with.
type DB struct {
	*sql.DB
	Driver string
}

// Driver maps a store URI to a driver name and the data source name handed to it.
func Driver(uri string) (string, string, error) {
	switch {
	case strings.HasPrefix(uri, "postgres:"), strings.HasPrefix(uri, "postgresql:"):
		return DriverPostgres, uri, nil
	case strings.HasPrefix(uri, "sqlite:"):
		return DriverSQLite, strings.TrimPrefix(strings.TrimPrefix(uri, "sqlite:"), "//"), nil
	case strings.HasPrefix(uri, "file:"):
		return DriverSQLite, uri, nil
	}
	return "", "", ErrUnsupportedURI
}

// Open returns the connection registered for uri in dbs and opens it on first use,
// so stores configured with the same uri share one pool.
func Open(dbs map[string]*DB, uri string) (*DB, error) {
	if db := dbs[uri]; db != nil {
		return db, nil
	}
	driver, dsn, err := Driver(uri)
	if err != nil {
		return nil, err
	}
	dbconn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	dbs[uri] = &DB{DB: dbconn, Driver: driver}
	return dbs[uri], nil
}

// Rebind rewrites $n placeholders into the form the driver understands.
func Rebind(driver, query string) string {
	if driver == DriverSQLite {
		return placeholderPattern.ReplaceAllString(query, "?$1")
	}
	return query
}
