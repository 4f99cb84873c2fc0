package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"cinedex/internal/movie/models"
	id "cinedex/pkg/domain"
	"cinedex/pkg/platform/sentinel"
)

// InMemory keeps movies in a map guarded by a RWMutex. Records are cloned on
// the way in and out so callers never hold the store's copy.
type InMemory struct {
	mu     sync.RWMutex
	movies map[id.MovieID]memoryEntry
	seq    uint64
}

// seq breaks ties between inserts that share a timestamp.
type memoryEntry struct {
	movie *models.Movie
	seq   uint64
}

func NewInMemory() *InMemory {
	return &InMemory{movies: make(map[id.MovieID]memoryEntry)}
}

func (s *InMemory) FindAll(_ context.Context) ([]*models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]memoryEntry, 0, len(s.movies))
	for _, e := range s.movies {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.movie.CreatedAt.Equal(b.movie.CreatedAt) {
			return a.movie.CreatedAt.After(b.movie.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]*models.Movie, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.movie.Clone())
	}
	return out, nil
}

func (s *InMemory) FindByID(_ context.Context, movieID id.MovieID) (*models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.movies[movieID]; ok {
		return e.movie.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Insert(_ context.Context, fields models.Fields, now time.Time) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	movie := models.NewMovie(id.NewMovieID(), fields, now)
	s.seq++
	s.movies[movie.ID] = memoryEntry{movie: movie, seq: s.seq}
	return movie.Clone(), nil
}

func (s *InMemory) Replace(_ context.Context, movieID id.MovieID, fields models.Fields, now time.Time) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.movies[movieID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	e.movie.Apply(fields, now)
	return e.movie.Clone(), nil
}

func (s *InMemory) Remove(_ context.Context, movieID id.MovieID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movies[movieID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.movies, movieID)
	return nil
}

// Ping always succeeds; it lets the health check treat every backend alike.
func (s *InMemory) Ping(_ context.Context) error {
	return nil
}
