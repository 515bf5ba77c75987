package database

import (
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ErrUnsupportedDSN is returned for connection strings naming an unknown backend.
var ErrUnsupportedDSN = errors.New("unsupported database url")

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// sqlitePragmas are appended to file-backed sqlite connection strings.
const sqlitePragmas = "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// Target is a parsed connection string ready to hand to gorm.
type Target struct {
	Dialect  Dialect
	DSN      string
	InMemory bool
}

// ParseURL accepts SQLAlchemy-style URLs ("postgresql+asyncpg://...",
// "sqlite+aiosqlite://...") as well as plain ones, and bare file paths
// which are treated as sqlite databases.
//
// For sqlite the part after "sqlite://" is used verbatim as the path, so
// "sqlite://./books.db" is relative and "sqlite:///var/books.db" is absolute.
func ParseURL(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, fmt.Errorf("%w: empty", ErrUnsupportedDSN)
	}

	scheme, rest, found := strings.Cut(raw, "://")
	if !found {
		if raw == ":memory:" {
			return memoryTarget(), nil
		}
		return sqliteFileTarget(raw), nil
	}

	// Drop the async driver suffix, e.g. "postgresql+asyncpg".
	scheme, _, _ = strings.Cut(strings.ToLower(scheme), "+")

	switch scheme {
	case "sqlite", "sqlite3":
		if rest == "" || rest == ":memory:" || rest == "/:memory:" {
			return memoryTarget(), nil
		}
		return sqliteFileTarget(rest), nil
	case "postgres", "postgresql":
		return Target{Dialect: DialectPostgres, DSN: "postgres://" + rest}, nil
	default:
		return Target{}, fmt.Errorf("%w: scheme %q", ErrUnsupportedDSN, scheme)
	}
}

func memoryTarget() Target {
	return Target{Dialect: DialectSQLite, DSN: ":memory:", InMemory: true}
}

func sqliteFileTarget(path string) Target {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return Target{Dialect: DialectSQLite, DSN: path + sep + sqlitePragmas}
}

// Dialector returns the gorm dialector for the target. Postgres goes
// through lib/pq.
func (t Target) Dialector() gorm.Dialector {
	switch t.Dialect {
	case DialectPostgres:
		return postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        t.DSN,
		})
	default:
		return sqlite.Open(t.DSN)
	}
}

// String hides credentials so the target can be logged.
func (t Target) String() string {
	if t.Dialect != DialectPostgres {
		return string(t.Dialect) + ":" + t.DSN
	}
	rest := strings.TrimPrefix(t.DSN, "postgres://")
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***@" + rest[at+1:]
	}
	return "postgres://" + rest
}
