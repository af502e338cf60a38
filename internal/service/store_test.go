package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-directory/internal/database"
	"github.com/iliyamo/venue-directory/internal/queue"
)

// hookDriver is the directory's SQLite driver plus a commit hook that
// aborts every COMMIT while failCommits is set.
const hookDriver = "sqlite3_commit_hook"

var (
	registerOnce sync.Once
	failCommits  atomic.Bool
)

func registerHookDriver() {
	registerOnce.Do(func() {
		sql.Register(hookDriver, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				if err := database.RegisterSQLiteFuncs(conn); err != nil {
					return err
				}
				conn.RegisterCommitHook(func() int {
					if failCommits.Load() {
						return 1
					}
					return 0
				})
				return nil
			},
		})
	})
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []string{}
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	dir  *Directory
	db   *sql.DB
	pub  *recordingPublisher
	logs *logtest.Hook
	now  time.Time
}

// newFixture opens a migrated SQLite file database in a temp dir and a
// Directory over it whose clock is frozen at now.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	registerHookDriver()

	path := filepath.Join(t.TempDir(), "directory.db")
	db, err := sql.Open(hookDriver, database.SQLiteDSN(path))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	_, err = database.NewMigrator(db, database.SQLite, logger).Up(context.Background(), 0)
	require.NoError(t, err)
	hook.Reset()

	pub := &recordingPublisher{}
	dir := NewDirectory(db, logger, pub)
	dir.Now = func() time.Time { return now }

	return &fixture{dir: dir, db: db, pub: pub, logs: hook, now: now}
}

// failNextCommits makes every COMMIT fail until the test ends or the
// returned func is called.
func failNextCommits(t *testing.T) func() {
	failCommits.Store(true)
	stop := func() { failCommits.Store(false) }
	t.Cleanup(stop)
	return stop
}

func strPtr(s string) *string { return &s }

func kindOf(t *testing.T, err error, want error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errors.Is(err, want), "want %v, got %v", want, err)
}
