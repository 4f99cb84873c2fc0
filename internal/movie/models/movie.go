package models

import (
	"time"

	id "cinedex/pkg/domain"
)

// Movie is the only persisted entity.
//
// Invariants:
//   - ID is assigned by the store at insert time and never changes
//   - CreatedAt is immutable after insert; it drives the default list order
//   - Actors is stored as a flat array; the same name in two movies shares
//     no identity
type Movie struct {
	ID          id.MovieID `json:"id"`
	Title       string     `json:"title"`
	ReleaseYear int        `json:"releaseYear"`
	Actors      []string   `json:"actors"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Fields are the replaceable business fields of a movie, already normalized.
type Fields struct {
	Title       string
	ReleaseYear int
	Actors      []string
}

// NewMovie builds a record from normalized fields. Stores call it on insert.
func NewMovie(movieID id.MovieID, fields Fields, now time.Time) *Movie {
	return &Movie{
		ID:          movieID,
		Title:       fields.Title,
		ReleaseYear: fields.ReleaseYear,
		Actors:      cloneActors(fields.Actors),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply replaces the business fields in place, leaving ID and CreatedAt alone.
func (m *Movie) Apply(fields Fields, now time.Time) {
	m.Title = fields.Title
	m.ReleaseYear = fields.ReleaseYear
	m.Actors = cloneActors(fields.Actors)
	m.UpdatedAt = now
}

// Clone returns a deep copy so callers never share the store's slice.
func (m *Movie) Clone() *Movie {
	c := *m
	c.Actors = cloneActors(m.Actors)
	return &c
}

func cloneActors(actors []string) []string {
	out := make([]string, len(actors))
	copy(out, actors)
	return out
}
