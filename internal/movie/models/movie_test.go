package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	id "cinedex/pkg/domain"
)

func TestNewMovie(t *testing.T) {
	now := time.Date(2025, 3, 30, 9, 0, 0, 0, time.UTC)
	actors := []string{"Al Pacino", "Robert De Niro"}
	movieID := id.NewMovieID()

	m := NewMovie(movieID, Fields{Title: "Heat", ReleaseYear: 1995, Actors: actors}, now)

	assert.Equal(t, movieID, m.ID)
	assert.Equal(t, now, m.CreatedAt)
	assert.Equal(t, now, m.UpdatedAt)

	actors[0] = "changed"
	assert.Equal(t, "Al Pacino", m.Actors[0], "movie must not share the caller's slice")
}

func TestApplyKeepsIdentity(t *testing.T) {
	created := time.Date(2025, 3, 30, 9, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)
	m := NewMovie(id.NewMovieID(), Fields{Title: "Heat", ReleaseYear: 1995, Actors: []string{"A"}}, created)
	originalID := m.ID

	m.Apply(Fields{Title: "Ronin", ReleaseYear: 1998, Actors: []string{"B", "C"}}, later)

	assert.Equal(t, originalID, m.ID)
	assert.Equal(t, created, m.CreatedAt)
	assert.Equal(t, later, m.UpdatedAt)
	assert.Equal(t, "Ronin", m.Title)
	assert.Equal(t, 1998, m.ReleaseYear)
	assert.Equal(t, []string{"B", "C"}, m.Actors)
}

func TestCloneIsDeep(t *testing.T) {
	m := NewMovie(id.NewMovieID(), Fields{Title: "Heat", ReleaseYear: 1995, Actors: []string{"A"}}, time.Now())
	c := m.Clone()
	c.Actors[0] = "Z"
	c.Title = "Other"

	assert.Equal(t, "A", m.Actors[0])
	assert.Equal(t, "Heat", m.Title)
}

func TestEmptyActorsMarshalAsArray(t *testing.T) {
	m := NewMovie(id.NewMovieID(), Fields{Title: "Heat", ReleaseYear: 1995}, time.Now())
	assert.NotNil(t, m.Actors)
	assert.Empty(t, m.Actors)
}
