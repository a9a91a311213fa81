package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB is a *sql.DB tagged with the SQL dialect it speaks.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// DialectFor picks the backend from the connection target: postgres:// and
// postgresql:// URLs go to PostgreSQL, anything else is a SQLite path.
func DialectFor(databaseURL string) Dialect {
	lower := strings.ToLower(databaseURL)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Open connects to databaseURL, verifies the connection and applies the
// embedded migrations for its dialect.
func Open(databaseURL string) (*DB, error) {
	if databaseURL == "" {
		return nil, errors.New("database url is empty")
	}

	dialect := DialectFor(databaseURL)
	driver, dsn := "sqlite", sqliteDSN(databaseURL)
	if dialect == DialectPostgres {
		driver, dsn = "pgx", databaseURL
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(sqlDB, dialect, databaseURL); err != nil {
		if cerr := sqlDB.Close(); cerr != nil {
			return nil, fmt.Errorf("failed to run migrations: %w (also failed to close db: %v)", err, cerr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{DB: sqlDB, Dialect: dialect}, nil
}

// Rebind rewrites ? placeholders into $n for PostgreSQL.
func (d *DB) Rebind(query string) string {
	if d.Dialect != DialectPostgres {
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

func sqliteDSN(databaseURL string) string {
	path := strings.TrimPrefix(databaseURL, "sqlite://")
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
}

func runMigrations(sqlDB *sql.DB, dialect Dialect, databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations/"+string(dialect))
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	var m *migrate.Migrate
	switch dialect {
	case DialectPostgres:
		// The pgx driver pins a connection for its lifetime, so it gets its
		// own handle that is released with m.Close.
		m, err = migrate.NewWithSourceInstance("iofs", src, pgx5URL(databaseURL))
		if err != nil {
			return fmt.Errorf("failed to init migrations: %w", err)
		}
		defer func() { _, _ = m.Close() }()
	default:
		// Closing this instance would close sqlDB, so it is left open.
		drv, err := migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
		if err != nil {
			return fmt.Errorf("failed to init migration driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite", drv)
		if err != nil {
			return fmt.Errorf("failed to init migrations: %w", err)
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func pgx5URL(databaseURL string) string {
	if i := strings.Index(databaseURL, "://"); i >= 0 {
		return "pgx5" + databaseURL[i:]
	}
	return databaseURL
}
