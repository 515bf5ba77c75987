package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		dialect  Dialect
		dsn      string
		inMemory bool
	}{
		{"relative sqlite", "sqlite://./books.db", DialectSQLite, "./books.db?" + sqlitePragmas, false},
		{"absolute sqlite", "sqlite:///var/lib/books.db", DialectSQLite, "/var/lib/books.db?" + sqlitePragmas, false},
		{"async sqlite driver", "sqlite+aiosqlite://./books.db", DialectSQLite, "./books.db?" + sqlitePragmas, false},
		{"sqlite with query", "sqlite://./books.db?cache=shared", DialectSQLite, "./books.db?cache=shared&" + sqlitePragmas, false},
		{"empty sqlite path", "sqlite://", DialectSQLite, ":memory:", true},
		{"explicit memory", "sqlite://:memory:", DialectSQLite, ":memory:", true},
		{"bare memory", ":memory:", DialectSQLite, ":memory:", true},
		{"bare path", "./data/books.db", DialectSQLite, "./data/books.db?" + sqlitePragmas, false},
		{"postgres", "postgres://u:p@db:5432/books?sslmode=disable", DialectPostgres, "postgres://u:p@db:5432/books?sslmode=disable", false},
		{"postgresql alias", "postgresql://u:p@db/books", DialectPostgres, "postgres://u:p@db/books", false},
		{"async postgres driver", "postgresql+asyncpg://u:p@db/books", DialectPostgres, "postgres://u:p@db/books", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := ParseURL(tt.raw)
			require.NoError(t, err)

			assert.Equal(t, tt.dialect, target.Dialect)
			assert.Equal(t, tt.dsn, target.DSN)
			assert.Equal(t, tt.inMemory, target.InMemory)
			assert.NotNil(t, target.Dialector())
		})
	}

	t.Run("rejects unknown scheme", func(t *testing.T) {
		_, err := ParseURL("mysql://root@localhost/books")
		assert.ErrorIs(t, err, ErrUnsupportedDSN)
	})

	t.Run("rejects empty url", func(t *testing.T) {
		_, err := ParseURL("  ")
		assert.ErrorIs(t, err, ErrUnsupportedDSN)
	})
}

func TestTarget_String(t *testing.T) {
	target, err := ParseURL("postgres://books:secret@db:5432/books")
	require.NoError(t, err)

	assert.Equal(t, "postgres://***@db:5432/books", target.String())
	assert.NotContains(t, target.String(), "secret")

	target, err = ParseURL("sqlite://./books.db")
	require.NoError(t, err)
	assert.Contains(t, target.String(), "./books.db")
}
