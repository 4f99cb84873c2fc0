package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"cinedex/internal/movie/models"
	id "cinedex/pkg/domain"
	"cinedex/pkg/platform/sentinel"
)

const (
	badgerRecordPrefix = "movie:"
	badgerOrderPrefix  = "movie_created:"
	badgerSequenceKey  = "movie_seq"
)

// BadgerStore keeps movies in an embedded Badger database.
//
// Layout:
//   - "movie:{id}" holds the JSON record
//   - "movie_created:{unixnano:019}:{seq:020}:{id}" is an empty ordering key;
//     a reverse prefix scan yields newest first, seq breaks timestamp ties
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadger builds a store on an open database. Call Close to release the
// sequence lease; the database itself belongs to the caller.
func NewBadger(db *badger.DB) (*BadgerStore, error) {
	seq, err := db.GetSequence([]byte(badgerSequenceKey), 100)
	if err != nil {
		return nil, fmt.Errorf("lease movie sequence: %w", err)
	}
	return &BadgerStore{db: db, seq: seq}, nil
}

// badgerRecord adds the ordering key to the movie so replace and remove can
// find it without scanning the index.
type badgerRecord struct {
	Movie    *models.Movie `json:"movie"`
	OrderKey string        `json:"orderKey"`
}

func recordKey(movieID id.MovieID) []byte {
	return []byte(badgerRecordPrefix + movieID.String())
}

func orderKey(createdAt time.Time, seq uint64, movieID id.MovieID) string {
	return fmt.Sprintf("%s%019d:%020d:%s", badgerOrderPrefix, createdAt.UnixNano(), seq, movieID)
}

func (s *BadgerStore) FindAll(_ context.Context) ([]*models.Movie, error) {
	movies := make([]*models.Movie, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(badgerOrderPrefix)
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		// Seek past the last possible key under the prefix.
		seekKey := append([]byte(badgerOrderPrefix), 0xFF)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			movieID, err := movieIDFromOrderKey(key)
			if err != nil {
				return err
			}
			rec, err := getRecord(txn, movieID)
			if err != nil {
				return fmt.Errorf("load movie %s: %w", movieID, err)
			}
			movies = append(movies, rec.Movie)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

func (s *BadgerStore) FindByID(_ context.Context, movieID id.MovieID) (*models.Movie, error) {
	var movie *models.Movie
	err := s.db.View(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, movieID)
		if err != nil {
			return err
		}
		movie = rec.Movie
		return nil
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find movie by id: %w", err)
	}
	return movie, nil
}

func (s *BadgerStore) Insert(_ context.Context, fields models.Fields, now time.Time) (*models.Movie, error) {
	seq, err := s.seq.Next()
	if err != nil {
		return nil, fmt.Errorf("next movie sequence: %w", err)
	}
	movie := models.NewMovie(id.NewMovieID(), fields, now)
	rec := badgerRecord{Movie: movie, OrderKey: orderKey(now, seq, movie.ID)}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := putRecord(txn, rec); err != nil {
			return err
		}
		return txn.Set([]byte(rec.OrderKey), nil)
	})
	if err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	return movie.Clone(), nil
}

func (s *BadgerStore) Replace(_ context.Context, movieID id.MovieID, fields models.Fields, now time.Time) (*models.Movie, error) {
	var updated *models.Movie
	err := s.db.Update(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, movieID)
		if err != nil {
			return err
		}
		rec.Movie.Apply(fields, now)
		updated = rec.Movie
		return putRecord(txn, rec)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("replace movie: %w", err)
	}
	return updated.Clone(), nil
}

func (s *BadgerStore) Remove(_ context.Context, movieID id.MovieID) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, movieID)
		if err != nil {
			return err
		}
		if err := txn.Delete([]byte(rec.OrderKey)); err != nil {
			return err
		}
		return txn.Delete(recordKey(movieID))
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("remove movie: %w", err)
	}
	return nil
}

// Ping reports ErrUnavailable once the database has been closed.
func (s *BadgerStore) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return sentinel.ErrUnavailable
	}
	return nil
}

// Close returns unused sequence numbers to the database.
func (s *BadgerStore) Close() error {
	return s.seq.Release()
}

func getRecord(txn *badger.Txn, movieID id.MovieID) (badgerRecord, error) {
	item, err := txn.Get(recordKey(movieID))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return badgerRecord{}, sentinel.ErrNotFound
		}
		return badgerRecord{}, err
	}
	var rec badgerRecord
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	})
	if err != nil {
		return badgerRecord{}, fmt.Errorf("decode movie record: %w", err)
	}
	if rec.Movie == nil {
		return badgerRecord{}, fmt.Errorf("movie record %s has no body", movieID)
	}
	if rec.Movie.Actors == nil {
		rec.Movie.Actors = []string{}
	}
	return rec, nil
}

func putRecord(txn *badger.Txn, rec badgerRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode movie record: %w", err)
	}
	return txn.Set(recordKey(rec.Movie.ID), data)
}

// movieIDFromOrderKey takes the id after the last separator.
func movieIDFromOrderKey(key string) (id.MovieID, error) {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == ':' {
			return id.ParseMovieID(key[i+1:])
		}
	}
	return id.MovieID{}, fmt.Errorf("malformed order key %q", key)
}
