//go:build integration

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"cinedex/pkg/platform/tx"
	"cinedex/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	contractSuite
	postgres *containers.PostgresContainer
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	pg := NewPostgres(s.postgres.DB)
	s.Require().NoError(pg.Bootstrap(context.Background()))
	// Applying the schema twice must be harmless.
	s.Require().NoError(pg.Bootstrap(context.Background()))
	s.store = pg
}

func (s *PostgresStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "movies"))
}

func (s *PostgresStoreSuite) TestJoinsCallerTransaction() {
	pg := s.store.(*PostgresStore)
	abort := errors.New("abort")

	err := tx.RunInTx(s.ctx, s.postgres.DB, func(ctx context.Context) error {
		if _, err := pg.Insert(ctx, heat(), s.now()); err != nil {
			return err
		}
		movies, err := pg.FindAll(ctx)
		s.Require().NoError(err)
		s.Len(movies, 1, "insert is visible inside the transaction")
		return abort
	})
	s.Require().ErrorIs(err, abort)

	movies, err := pg.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(movies, "rolled back with the caller")
}
