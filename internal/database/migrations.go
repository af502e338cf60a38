package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Migration is one reversible schema step. Up and Down hold one statement
// per element for each dialect, executed in order.
type Migration struct {
	Version int
	Name    string
	Up      map[Dialect][]string
	Down    map[Dialect][]string
}

// MigrationStatus reports whether a migration has been applied.
type MigrationStatus struct {
	Version   int
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

// Migrations is the ordered schema history. Never edit an entry that has
// shipped; append a new one instead.
var Migrations = []Migration{
	{
		Version: 1,
		Name:    "create_venues",
		Up: map[Dialect][]string{
			MySQL: {`CREATE TABLE venues (
				id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
				name VARCHAR(120) NOT NULL,
				city VARCHAR(120) NOT NULL,
				state VARCHAR(120) NOT NULL,
				address VARCHAR(120) NOT NULL DEFAULT '',
				phone VARCHAR(120) NOT NULL DEFAULT '',
				image_link VARCHAR(500) NULL,
				facebook_link VARCHAR(500) NULL,
				CONSTRAINT chk_venues_name CHECK (name <> '')
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
			SQLite: {`CREATE TABLE venues (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL CHECK (name <> ''),
				city TEXT NOT NULL,
				state TEXT NOT NULL,
				address TEXT NOT NULL DEFAULT '',
				phone TEXT NOT NULL DEFAULT '',
				image_link TEXT NULL,
				facebook_link TEXT NULL
			)`},
		},
		Down: map[Dialect][]string{
			MySQL:  {`DROP TABLE venues`},
			SQLite: {`DROP TABLE venues`},
		},
	},
	{
		Version: 2,
		Name:    "create_artists",
		Up: map[Dialect][]string{
			MySQL: {`CREATE TABLE artists (
				id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
				name VARCHAR(120) NOT NULL,
				city VARCHAR(120) NOT NULL DEFAULT '',
				state VARCHAR(120) NOT NULL DEFAULT '',
				phone VARCHAR(120) NOT NULL DEFAULT '',
				image_link VARCHAR(500) NULL,
				facebook_link VARCHAR(500) NULL,
				CONSTRAINT chk_artists_name CHECK (name <> '')
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
			SQLite: {`CREATE TABLE artists (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL CHECK (name <> ''),
				city TEXT NOT NULL DEFAULT '',
				state TEXT NOT NULL DEFAULT '',
				phone TEXT NOT NULL DEFAULT '',
				image_link TEXT NULL,
				facebook_link TEXT NULL
			)`},
		},
		Down: map[Dialect][]string{
			MySQL:  {`DROP TABLE artists`},
			SQLite: {`DROP TABLE artists`},
		},
	},
	{
		Version: 3,
		Name:    "create_shows",
		Up: map[Dialect][]string{
			MySQL: {`CREATE TABLE shows (
				id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
				artist_id BIGINT NOT NULL,
				venue_id BIGINT NOT NULL,
				start_time DATETIME NOT NULL,
				CONSTRAINT fk_shows_artist FOREIGN KEY (artist_id) REFERENCES artists (id) ON DELETE RESTRICT,
				CONSTRAINT fk_shows_venue FOREIGN KEY (venue_id) REFERENCES venues (id) ON DELETE RESTRICT,
				KEY idx_shows_venue_start (venue_id, start_time),
				KEY idx_shows_artist_start (artist_id, start_time),
				KEY idx_shows_start (start_time)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
			SQLite: {
				`CREATE TABLE shows (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					artist_id INTEGER NOT NULL REFERENCES artists (id) ON DELETE RESTRICT,
					venue_id INTEGER NOT NULL REFERENCES venues (id) ON DELETE RESTRICT,
					start_time DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_shows_venue_start ON shows (venue_id, start_time)`,
				`CREATE INDEX idx_shows_artist_start ON shows (artist_id, start_time)`,
				`CREATE INDEX idx_shows_start ON shows (start_time)`,
			},
		},
		Down: map[Dialect][]string{
			MySQL:  {`DROP TABLE shows`},
			SQLite: {`DROP TABLE shows`},
		},
	},
	{
		Version: 4,
		Name:    "add_venue_genres_and_seeking",
		Up: map[Dialect][]string{
			MySQL: {`ALTER TABLE venues
				ADD COLUMN genres JSON NULL,
				ADD COLUMN website VARCHAR(500) NULL,
				ADD COLUMN seeking_talent BOOLEAN NOT NULL DEFAULT FALSE,
				ADD COLUMN seeking_description VARCHAR(500) NULL`},
			SQLite: {
				`ALTER TABLE venues ADD COLUMN genres TEXT NULL`,
				`ALTER TABLE venues ADD COLUMN website TEXT NULL`,
				`ALTER TABLE venues ADD COLUMN seeking_talent BOOLEAN NOT NULL DEFAULT 0`,
				`ALTER TABLE venues ADD COLUMN seeking_description TEXT NULL`,
			},
		},
		Down: map[Dialect][]string{
			MySQL: {`ALTER TABLE venues
				DROP COLUMN seeking_description,
				DROP COLUMN seeking_talent,
				DROP COLUMN website,
				DROP COLUMN genres`},
			SQLite: {
				`ALTER TABLE venues DROP COLUMN seeking_description`,
				`ALTER TABLE venues DROP COLUMN seeking_talent`,
				`ALTER TABLE venues DROP COLUMN website`,
				`ALTER TABLE venues DROP COLUMN genres`,
			},
		},
	},
	{
		Version: 5,
		Name:    "add_artist_genres_and_seeking",
		Up: map[Dialect][]string{
			MySQL: {`ALTER TABLE artists
				ADD COLUMN genres JSON NULL,
				ADD COLUMN website VARCHAR(500) NULL,
				ADD COLUMN seeking_venues BOOLEAN NOT NULL DEFAULT FALSE,
				ADD COLUMN seeking_description VARCHAR(500) NULL`},
			SQLite: {
				`ALTER TABLE artists ADD COLUMN genres TEXT NULL`,
				`ALTER TABLE artists ADD COLUMN website TEXT NULL`,
				`ALTER TABLE artists ADD COLUMN seeking_venues BOOLEAN NOT NULL DEFAULT 0`,
				`ALTER TABLE artists ADD COLUMN seeking_description TEXT NULL`,
			},
		},
		Down: map[Dialect][]string{
			MySQL: {`ALTER TABLE artists
				DROP COLUMN seeking_description,
				DROP COLUMN seeking_venues,
				DROP COLUMN website,
				DROP COLUMN genres`},
			SQLite: {
				`ALTER TABLE artists DROP COLUMN seeking_description`,
				`ALTER TABLE artists DROP COLUMN seeking_venues`,
				`ALTER TABLE artists DROP COLUMN website`,
				`ALTER TABLE artists DROP COLUMN genres`,
			},
		},
	},
}

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER NOT NULL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at DATETIME NOT NULL
)`

// Migrator applies and reverts Migrations against one database.
type Migrator struct {
	db         *sql.DB
	dialect    Dialect
	migrations []Migration
	log        logrus.FieldLogger
}

// NewMigrator returns a Migrator over the built-in Migrations.
func NewMigrator(db *sql.DB, d Dialect, log logrus.FieldLogger) *Migrator {
	return &Migrator{db: db, dialect: d, migrations: Migrations, log: log}
}

// Init creates the schema_migrations table if it doesn't exist.
func (m *Migrator) Init(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]time.Time, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT version, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}
	defer rows.Close()

	out := make(map[int]time.Time)
	for rows.Next() {
		var v int
		var at time.Time
		if err := rows.Scan(&v, &at); err != nil {
			return nil, err
		}
		out[v] = at
	}
	return out, rows.Err()
}

// Up applies up to steps pending migrations in version order; steps <= 0
// applies all of them. It returns the number applied.
func (m *Migrator) Up(ctx context.Context, steps int) (int, error) {
	if err := m.Init(ctx); err != nil {
		return 0, err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, mig := range m.migrations {
		if steps > 0 && n == steps {
			break
		}
		if _, ok := done[mig.Version]; ok {
			continue
		}
		stmts, ok := mig.Up[m.dialect]
		if !ok {
			return n, fmt.Errorf("migration %d %s: no statements for %s", mig.Version, mig.Name, m.dialect)
		}
		err := m.run(ctx, stmts, "INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			mig.Version, mig.Name, time.Now().UTC().Truncate(time.Second))
		if err != nil {
			return n, fmt.Errorf("migration %d %s up: %w", mig.Version, mig.Name, err)
		}
		m.log.WithFields(logrus.Fields{"version": mig.Version, "name": mig.Name}).Info("migration applied")
		n++
	}
	return n, nil
}

// Down reverts the most recent steps applied migrations; steps <= 0
// reverts all of them. It returns the number reverted.
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	if err := m.Init(ctx); err != nil {
		return 0, err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for i := len(m.migrations) - 1; i >= 0; i-- {
		if steps > 0 && n == steps {
			break
		}
		mig := m.migrations[i]
		if _, ok := done[mig.Version]; !ok {
			continue
		}
		stmts, ok := mig.Down[m.dialect]
		if !ok {
			return n, fmt.Errorf("migration %d %s: no statements for %s", mig.Version, mig.Name, m.dialect)
		}
		if err := m.run(ctx, stmts, "DELETE FROM schema_migrations WHERE version = ?", mig.Version); err != nil {
			return n, fmt.Errorf("migration %d %s down: %w", mig.Version, mig.Name, err)
		}
		m.log.WithFields(logrus.Fields{"version": mig.Version, "name": mig.Name}).Info("migration reverted")
		n++
	}
	return n, nil
}

// Status lists every known migration with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := m.Init(ctx); err != nil {
		return nil, err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MigrationStatus, 0, len(m.migrations))
	for _, mig := range m.migrations {
		st := MigrationStatus{Version: mig.Version, Name: mig.Name}
		if at, ok := done[mig.Version]; ok {
			at := at
			st.Applied = true
			st.AppliedAt = &at
		}
		out = append(out, st)
	}
	return out, nil
}

// run executes stmts and the bookkeeping statement in one transaction.
// MySQL commits DDL implicitly, so there a failed step can leave the
// statements before it applied.
func (m *Migrator) run(ctx context.Context, stmts []string, record string, args ...any) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, s := range stmts {
		if _, err = tx.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, record, args...); err != nil {
		return err
	}
	return tx.Commit()
}
