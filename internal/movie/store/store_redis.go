package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"cinedex/internal/movie/models"
	id "cinedex/pkg/domain"
	"cinedex/pkg/platform/sentinel"
)

const (
	redisRecordPrefix = "movie:"
	redisOrderKey     = "movies:by_created"
	redisSequenceKey  = "movies:seq"
)

// RedisStore keeps each movie as a JSON string and orders them with a sorted
// set scored by an insert counter, so newest-first is a ZREVRANGE.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedis(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(movieID id.MovieID) string {
	return redisRecordPrefix + movieID.String()
}

func (s *RedisStore) FindAll(ctx context.Context) ([]*models.Movie, error) {
	ids, err := s.client.ZRevRange(ctx, redisOrderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list movie ids: %w", err)
	}
	movies := make([]*models.Movie, 0, len(ids))
	if len(ids) == 0 {
		return movies, nil
	}

	keys := make([]string, len(ids))
	for i, raw := range ids {
		keys[i] = redisRecordPrefix + raw
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// removed between ZREVRANGE and MGET
			continue
		}
		m, err := decodeRedisMovie(str)
		if err != nil {
			return nil, fmt.Errorf("decode movie %s: %w", ids[i], err)
		}
		movies = append(movies, m)
	}
	return movies, nil
}

func (s *RedisStore) FindByID(ctx context.Context, movieID id.MovieID) (*models.Movie, error) {
	raw, err := s.client.Get(ctx, redisKey(movieID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find movie by id: %w", err)
	}
	m, err := decodeRedisMovie(raw)
	if err != nil {
		return nil, fmt.Errorf("decode movie: %w", err)
	}
	return m, nil
}

func (s *RedisStore) Insert(ctx context.Context, fields models.Fields, now time.Time) (*models.Movie, error) {
	seq, err := s.client.Incr(ctx, redisSequenceKey).Result()
	if err != nil {
		return nil, fmt.Errorf("next movie sequence: %w", err)
	}
	movie := models.NewMovie(id.NewMovieID(), fields, now)
	data, err := json.Marshal(movie)
	if err != nil {
		return nil, fmt.Errorf("encode movie: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKey(movie.ID), data, 0)
		pipe.ZAdd(ctx, redisOrderKey, redis.Z{Score: float64(seq), Member: movie.ID.String()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	return movie, nil
}

func (s *RedisStore) Replace(ctx context.Context, movieID id.MovieID, fields models.Fields, now time.Time) (*models.Movie, error) {
	movie, err := s.FindByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	movie.Apply(fields, now)
	data, err := json.Marshal(movie)
	if err != nil {
		return nil, fmt.Errorf("encode movie: %w", err)
	}

	// SET XX so a concurrent delete is not resurrected.
	ok, err := s.client.SetXX(ctx, redisKey(movieID), data, redis.KeepTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("replace movie: %w", err)
	}
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return movie, nil
}

func (s *RedisStore) Remove(ctx context.Context, movieID id.MovieID) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, redisKey(movieID))
		pipe.ZRem(ctx, redisOrderKey, movieID.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove movie: %w", err)
	}
	if del.Val() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func decodeRedisMovie(raw string) (*models.Movie, error) {
	var m models.Movie
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	if m.Actors == nil {
		m.Actors = []string{}
	}
	return &m, nil
}
