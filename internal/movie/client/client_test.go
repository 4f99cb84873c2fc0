package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"cinedex/internal/movie/handler"
	"cinedex/internal/movie/models"
	"cinedex/internal/movie/service"
	"cinedex/internal/movie/store"
	id "cinedex/pkg/domain"
)

// ClientSuite runs the client against the real API on an httptest server.
type ClientSuite struct {
	suite.Suite
	server *httptest.Server
	client *Client
	ctx    context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	r := chi.NewRouter()
	handler.New(service.New(store.NewInMemory()), slog.New(slog.NewTextHandler(io.Discard, nil)), nil).Register(r)
	s.server = httptest.NewServer(r)
	s.client = New(s.server.URL, WithHTTPClient(s.server.Client()))
	s.ctx = context.Background()
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) TestLifecycle() {
	created, err := s.client.Create(s.ctx, models.Fields{Title: "Heat", ReleaseYear: 1995, Actors: []string{"Al Pacino", "Robert De Niro"}})
	s.Require().NoError(err)
	s.False(created.ID.IsNil())

	movies, err := s.client.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(movies, 1)
	s.Equal(created.ID, movies[0].ID)

	updated, err := s.client.Update(s.ctx, created.ID, models.Fields{Title: "Heat", ReleaseYear: 1995, Actors: []string{"Val Kilmer"}})
	s.Require().NoError(err)
	s.Equal([]string{"Val Kilmer"}, updated.Actors)

	got, err := s.client.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal([]string{"Val Kilmer"}, got.Actors)

	s.Require().NoError(s.client.Delete(s.ctx, created.ID))
	movies, err = s.client.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(movies)
}

func (s *ClientSuite) TestErrorsCarryAPIMessage() {
	_, err := s.client.Get(s.ctx, id.NewMovieID())
	var apiErr *APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusNotFound, apiErr.Status)
	s.Equal("Movie not found", apiErr.Message)

	err = s.client.Delete(s.ctx, id.NewMovieID())
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusInternalServerError, apiErr.Status)
	s.Equal("Failed to delete movie", apiErr.Message)

	_, err = s.client.Create(s.ctx, models.Fields{Title: "", ReleaseYear: 2024, Actors: []string{"A"}})
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusBadRequest, apiErr.Status)
	s.Equal("Missing required fields", apiErr.Message)
}

func (s *ClientSuite) TestNonJSONErrorBody() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).List(s.ctx)
	var apiErr *APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusBadGateway, apiErr.Status)
	s.Equal("Bad Gateway", apiErr.Message)
}
