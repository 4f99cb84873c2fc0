package store

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"cinedex/internal/movie/models"
	id "cinedex/pkg/domain"
	"cinedex/pkg/platform/sentinel"
)

// movieStore is the contract every backend satisfies.
type movieStore interface {
	FindAll(ctx context.Context) ([]*models.Movie, error)
	FindByID(ctx context.Context, movieID id.MovieID) (*models.Movie, error)
	Insert(ctx context.Context, fields models.Fields, now time.Time) (*models.Movie, error)
	Replace(ctx context.Context, movieID id.MovieID, fields models.Fields, now time.Time) (*models.Movie, error)
	Remove(ctx context.Context, movieID id.MovieID) error
	Ping(ctx context.Context) error
}

var (
	_ movieStore = (*InMemory)(nil)
	_ movieStore = (*PostgresStore)(nil)
	_ movieStore = (*BadgerStore)(nil)
	_ movieStore = (*RedisStore)(nil)
)

// contractSuite holds the behavior shared by all backends. Backend suites
// embed it and assign store in SetupTest.
type contractSuite struct {
	suite.Suite
	store movieStore
	ctx   context.Context
}

// Postgres keeps microseconds, so fixtures do too.
func (s *contractSuite) now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func heat() models.Fields {
	return models.Fields{Title: "Heat", ReleaseYear: 1995, Actors: []string{"Al Pacino", "Robert De Niro"}}
}

func (s *contractSuite) TestInsertAndFind() {
	now := s.now()
	created, err := s.store.Insert(s.ctx, heat(), now)
	s.Require().NoError(err)
	s.False(created.ID.IsNil())
	s.True(now.Equal(created.CreatedAt))
	s.True(now.Equal(created.UpdatedAt))

	found, err := s.store.FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)
	s.Equal("Heat", found.Title)
	s.Equal(1995, found.ReleaseYear)
	s.Equal([]string{"Al Pacino", "Robert De Niro"}, found.Actors)
	s.True(now.Equal(found.CreatedAt))
}

func (s *contractSuite) TestFindByIDMissing() {
	_, err := s.store.FindByID(s.ctx, id.NewMovieID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *contractSuite) TestFindAllEmpty() {
	movies, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.NotNil(movies)
	s.Empty(movies)
}

func (s *contractSuite) TestFindAllNewestFirst() {
	base := s.now()
	first, err := s.store.Insert(s.ctx, models.Fields{Title: "First", ReleaseYear: 2001, Actors: []string{"A"}}, base)
	s.Require().NoError(err)
	second, err := s.store.Insert(s.ctx, models.Fields{Title: "Second", ReleaseYear: 2002, Actors: []string{"B"}}, base.Add(time.Second))
	s.Require().NoError(err)

	movies, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(movies, 2)
	s.Equal(second.ID, movies[0].ID)
	s.Equal(first.ID, movies[1].ID)
}

func (s *contractSuite) TestFindAllSameTimestampKeepsInsertOrder() {
	now := s.now()
	first, err := s.store.Insert(s.ctx, models.Fields{Title: "First", ReleaseYear: 2001, Actors: []string{"A"}}, now)
	s.Require().NoError(err)
	second, err := s.store.Insert(s.ctx, models.Fields{Title: "Second", ReleaseYear: 2002, Actors: []string{"B"}}, now)
	s.Require().NoError(err)

	movies, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(movies, 2)
	s.Equal(second.ID, movies[0].ID)
	s.Equal(first.ID, movies[1].ID)
}

func (s *contractSuite) TestReplace() {
	created, err := s.store.Insert(s.ctx, heat(), s.now())
	s.Require().NoError(err)

	later := created.CreatedAt.Add(time.Minute)
	updated, err := s.store.Replace(s.ctx, created.ID, models.Fields{Title: "Ronin", ReleaseYear: 1998, Actors: []string{"Jean Reno", ""}}, later)
	s.Require().NoError(err)
	s.Equal(created.ID, updated.ID)
	s.True(created.CreatedAt.Equal(updated.CreatedAt), "createdAt is immutable")
	s.True(later.Equal(updated.UpdatedAt))
	s.Equal("Ronin", updated.Title)
	s.Equal([]string{"Jean Reno", ""}, updated.Actors, "empty actor names are stored verbatim")

	found, err := s.store.FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Ronin", found.Title)
	s.Equal(1998, found.ReleaseYear)
}

func (s *contractSuite) TestReplaceMissing() {
	_, err := s.store.Replace(s.ctx, id.NewMovieID(), heat(), s.now())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	movies, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(movies, "replace must not create a record")
}

func (s *contractSuite) TestRemove() {
	created, err := s.store.Insert(s.ctx, heat(), s.now())
	s.Require().NoError(err)

	s.Require().NoError(s.store.Remove(s.ctx, created.ID))

	_, err = s.store.FindByID(s.ctx, created.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	movies, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(movies)

	s.Require().ErrorIs(s.store.Remove(s.ctx, created.ID), sentinel.ErrNotFound)
}

func (s *contractSuite) TestReturnedRecordsAreCopies() {
	created, err := s.store.Insert(s.ctx, heat(), s.now())
	s.Require().NoError(err)

	created.Actors[0] = "mutated"
	created.Title = "mutated"

	found, err := s.store.FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Heat", found.Title)
	s.Equal("Al Pacino", found.Actors[0])
}

func (s *contractSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}
