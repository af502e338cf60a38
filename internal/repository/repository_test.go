package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-directory/internal/database"
	"github.com/iliyamo/venue-directory/internal/model"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%%", containsPattern(""))
	assert.Equal(t, "%hop%", containsPattern("HoP"))
	assert.Equal(t, "%100!%%", containsPattern("100%"))
	assert.Equal(t, "%a!_b%", containsPattern("a_b"))
	assert.Equal(t, "%wow!!%", containsPattern("wow!"))
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	err := classify(&mysql.MySQLError{Number: 1452, Message: "cannot add or update a child row"})
	assert.ErrorIs(t, err, ErrForeignKey)
	var myErr *mysql.MySQLError
	assert.True(t, errors.As(err, &myErr))

	assert.ErrorIs(t, classify(&mysql.MySQLError{Number: 1048}), ErrNotNull)
	assert.False(t, errors.Is(classify(&mysql.MySQLError{Number: 1062}), ErrForeignKey))

	assert.ErrorIs(t, classify(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}), ErrForeignKey)
	assert.ErrorIs(t, classify(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}), ErrNotNull)

	plain := errors.New("boom")
	assert.Equal(t, plain, classify(plain))
}

func newRepos(t *testing.T) (*VenueRepo, *ArtistRepo, *ShowRepo) {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.SQLite, database.SQLiteDSN(filepath.Join(t.TempDir(), "repo.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	logger, _ := logtest.NewNullLogger()
	_, err = database.NewMigrator(db, database.SQLite, logger).Up(ctx, 0)
	require.NoError(t, err)
	return NewVenueRepo(db), NewArtistRepo(db), NewShowRepo(db)
}

func TestShowInsertWithMissingReferenceIsForeignKeyError(t *testing.T) {
	ctx := context.Background()
	venues, _, shows := newRepos(t)

	v := &model.Venue{Name: "V", City: "C", State: "S"}
	require.NoError(t, venues.Create(ctx, v))

	tx, err := venues.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	err = shows.CreateTx(ctx, tx, &model.Show{ArtistID: 42, VenueID: v.ID, StartTime: time.Now()})
	assert.ErrorIs(t, err, ErrForeignKey)
}

func TestEmptyNameRejectedByStore(t *testing.T) {
	ctx := context.Background()
	venues, artists, _ := newRepos(t)

	assert.ErrorIs(t, venues.Create(ctx, &model.Venue{City: "C", State: "S"}), ErrNotNull)
	assert.ErrorIs(t, artists.Create(ctx, &model.Artist{}), ErrNotNull)
}

func TestListingsJoinBothEndpoints(t *testing.T) {
	ctx := context.Background()
	venues, artists, shows := newRepos(t)

	v := &model.Venue{Name: "Hall", City: "C", State: "S", ImageLink: strPtr("https://img.example.com/hall.png")}
	require.NoError(t, venues.Create(ctx, v))
	a := &model.Artist{Name: "Band"}
	require.NoError(t, artists.Create(ctx, a))

	tx, err := venues.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	late := &model.Show{ArtistID: a.ID, VenueID: v.ID, StartTime: time.Date(2031, 3, 1, 20, 0, 0, 0, time.UTC)}
	early := &model.Show{ArtistID: a.ID, VenueID: v.ID, StartTime: time.Date(2029, 3, 1, 20, 0, 0, 0, time.UTC)}
	require.NoError(t, shows.CreateTx(ctx, tx, late))
	require.NoError(t, shows.CreateTx(ctx, tx, early))
	require.NoError(t, tx.Commit())

	got, err := shows.ListByVenue(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, early.ID, got[0].ID)
	assert.Equal(t, "Band", got[0].ArtistName)
	assert.Equal(t, "Hall", got[0].VenueName)
	assert.Equal(t, "https://img.example.com/hall.png", *got[0].VenueImageLink)
	assert.Nil(t, got[0].ArtistImageLink)

	byArtist, err := shows.ListByArtist(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, byArtist, 2)

	s, err := shows.GetByID(ctx, late.ID)
	require.NoError(t, err)
	assert.True(t, s.StartTime.Equal(late.StartTime))

	_, err = shows.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrShowNotFound)

	all, err := shows.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func strPtr(s string) *string { return &s }
