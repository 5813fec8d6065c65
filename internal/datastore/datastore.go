// Package datastore is the relational read model of the bounty marketplace.
package datastore

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names of the read model.
const (
	bountiesTable     = "bountyviz_bounties"
	fulfillmentsTable = "bountyviz_fulfillments"
	tipsTable         = "bountyviz_tips"
	profilesTable     = "bountyviz_profiles"
	statsTable        = "bountyviz_stats"
	dataPayloadsTable = "bountyviz_data_payloads"
)

// allTables lists the tables in dependency order.
var allTables = []string{
	bountiesTable, fulfillmentsTable, tipsTable, profilesTable, statsTable, dataPayloadsTable,
}

// sqliteTimeLayout is fixed-width so that stored timestamps sort and compare as text.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000000"

// Store implements the bounty store on top of database/sql.
type Store struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var (
	_ contract.BountyStore = &Store{} // Compile-time check
	_ contract.StoreAdmin  = &Store{} // Compile-time check
)

// openDB opens a connection pool for the backend and verifies it.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		// and to keep an in-memory database alive across queries.
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		driverName = "mysql"
		dsn, parseErr := mysql.ParseDSN(connStr)
		if parseErr != nil {
			return nil, "", fmt.Errorf("invalid MySQL connection string: %w. Check connection format: user:password@tcp(host:port)/dbname", parseErr)
		}
		dsn.ParseTime = true
		db, err = sql.Open(driverName, dsn.FormatDSN())
		if err != nil {
			return nil, "", fmt.Errorf("failed to open MySQL database: %w", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, "", fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, "", fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, driverName, nil
}

// NewStore opens the bounty store and brings its schema to the latest version.
func NewStore(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	if backend == schema.NoneBackend {
		// A store without a database answers every query with no records
		return &Store{backend: backend}, nil
	}

	db, driverName, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db, backend: backend, driverName: driverName, connStr: connStr}
	if backend == schema.SQLiteBackend {
		// SQLite migrates on the pool itself so that in-memory databases keep their tables
		_, err = migrateDB(db, backend, -1)
	} else {
		_, err = Migrate(backend, connStr, -1)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare bounty tables: %w", err)
	}
	return store, nil
}

// Backend returns the backend of the store.
func (s *Store) Backend() schema.DatabaseBackend {
	return s.backend
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// disabled reports whether the store has no database behind it.
func (s *Store) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// rebind converts ? placeholders into the backend's placeholder syntax.
func rebind(backend schema.DatabaseBackend, query string) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
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

// placeholders returns n comma-separated ? placeholders.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(sqliteTimeLayout)
	default:
		return t.UTC()
	}
}

// formatNullTime is formatTime for nullable columns.
func formatNullTime(t *time.Time, backend schema.DatabaseBackend) any {
	if t == nil {
		return nil
	}
	return formatTime(*t, backend)
}

// dbTime scans timestamps stored natively or as text.
type dbTime struct {
	Time  time.Time
	Valid bool
}

// dbTimeLayouts are tried in order when a timestamp arrives as text.
var dbTimeLayouts = []string{
	sqliteTimeLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Scan implements sql.Scanner.
func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into a timestamp", src)
	}
}

func (t *dbTime) parse(s string) error {
	for _, layout := range dbTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// Ptr returns nil for NULL timestamps.
func (t dbTime) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// nullFloatPtr returns nil for NULL numbers.
func nullFloatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// errNoDatabase is returned by maintenance operations on a store without a database.
var errNoDatabase = errors.New("store has no database (backend none)")
