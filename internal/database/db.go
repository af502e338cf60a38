package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// Dialect names a supported SQL backend.
type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite3"
)

// ParseDialect maps a DB_DRIVER value onto a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "mysql":
		return MySQL, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", s)
}

// MySQLDSN builds a DSN for the given server. parseTime=true turns DATETIME
// into time.Time and loc=UTC keeps times consistent. clientFoundRows makes
// UPDATE report matched rows rather than changed rows.
func MySQLDSN(user, pass, host, port, name string) string {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = pass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, port)
	cfg.DBName = name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// SQLiteDSN enables foreign keys (off by default in SQLite) and waits on
// locked databases instead of failing immediately.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_fk=on&_busy_timeout=5000&_journal_mode=WAL", path)
}

// SQLiteDriver is the database/sql name of the SQLite driver used by Open.
// Its connections fold case with RegisterSQLiteFuncs.
const SQLiteDriver = "sqlite3_directory"

var registerSQLite sync.Once

// RegisterSQLiteFuncs replaces SQLite's ASCII-only lower() with a Unicode
// aware one, so LOWER(name) folds the same way as strings.ToLower.
func RegisterSQLiteFuncs(conn *sqlite3.SQLiteConn) error {
	return conn.RegisterFunc("lower", unicodeLower, true)
}

func unicodeLower(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		// NULL arrives as a nil slice
		if s == nil {
			return nil
		}
		return strings.ToLower(string(s))
	}
	return v
}

func driverName(d Dialect) string {
	if d != SQLite {
		return string(d)
	}
	registerSQLite.Do(func() {
		sql.Register(SQLiteDriver, &sqlite3.SQLiteDriver{ConnectHook: RegisterSQLiteFuncs})
	})
	return SQLiteDriver
}

// Open connects using the dialect's driver and verifies the connection.
func Open(ctx context.Context, d Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName(d), dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	switch d {
	case MySQL:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	case SQLite:
		// one writer at a time; readers share the WAL
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	}

	// Ping with timeout
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
