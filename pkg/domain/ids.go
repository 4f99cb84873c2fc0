package domain

import (
	"github.com/google/uuid"

	dErrors "cinedex/pkg/domain-errors"
)

// MovieID identifies a movie record. It is a distinct type so raw UUIDs from
// other sources cannot be passed where a movie id is expected.
type MovieID uuid.UUID

// NewMovieID generates a fresh random movie id.
func NewMovieID() MovieID {
	return MovieID(uuid.New())
}

// ParseMovieID parses a path or payload value into a MovieID.
// Empty, malformed, and nil UUIDs are rejected.
func ParseMovieID(s string) (MovieID, error) {
	if s == "" {
		return MovieID{}, dErrors.New(dErrors.CodeBadRequest, "movie id is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return MovieID{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid movie id")
	}
	if parsed == uuid.Nil {
		return MovieID{}, dErrors.New(dErrors.CodeBadRequest, "movie id is required")
	}
	return MovieID(parsed), nil
}

func (id MovieID) String() string {
	return uuid.UUID(id).String()
}

func (id MovieID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id MovieID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *MovieID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return err
	}
	*id = MovieID(u)
	return nil
}
