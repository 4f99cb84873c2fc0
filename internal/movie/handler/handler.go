//go:generate mockgen -source=handler.go -destination=mocks/movie-mocks.go -package=mocks Service

package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"cinedex/internal/movie/models"
	"cinedex/internal/movie/validation"
	"cinedex/internal/platform/metrics"
	"cinedex/internal/platform/middleware"
	id "cinedex/pkg/domain"
	dErrors "cinedex/pkg/domain-errors"
	"cinedex/pkg/platform/httputil"
)

// Service defines the movie operations the HTTP layer needs.
type Service interface {
	List(ctx context.Context) ([]*models.Movie, error)
	Get(ctx context.Context, movieID id.MovieID) (*models.Movie, error)
	Create(ctx context.Context, payload validation.Payload) (*models.Movie, error)
	Update(ctx context.Context, movieID id.MovieID, payload validation.Payload) (*models.Movie, error)
	Delete(ctx context.Context, movieID id.MovieID) error
	Validate(payload validation.Payload) (models.Fields, error)
}

// Each route keeps the body key and wording its clients already parse.
const (
	keyMessage = "message"
	keyError   = "error"

	msgMissingFields = "Missing required fields"
	msgInvalidMovie  = "Invalid movie data"
	msgListFailed    = "Error fetching movies"
	msgCreateFailed  = "Error creating movie"
	msgNotFound      = "Movie not found"
	msgGetFailed     = "Failed to fetch movie"
	msgUpdateFailed  = "Failed to update movie"
	msgDeleteFailed  = "Failed to delete movie"
	msgDeleted       = "Movie deleted successfully"
)

// Handler serves the /movies resource.
type Handler struct {
	logger         *slog.Logger
	movies         Service
	metrics        *metrics.Metrics
	requestTimeout time.Duration
}

// New creates a movie Handler. metrics may be nil.
func New(movies Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		logger:         logger,
		movies:         movies,
		metrics:        metrics,
		requestTimeout: 30 * time.Second,
	}
}

// Register registers the movie routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/movies", func(movieRouter chi.Router) {
		movieRouter.Use(middleware.Recovery(h.logger))
		movieRouter.Use(middleware.RequestID)
		movieRouter.Use(middleware.RequestTime)
		movieRouter.Use(middleware.Logger(h.logger))
		movieRouter.Use(middleware.Timeout(h.requestTimeout))
		movieRouter.Use(middleware.ContentTypeJSON)
		movieRouter.Use(middleware.LatencyMiddleware(h.metrics))

		movieRouter.Get("/", h.handleList)
		movieRouter.Post("/", h.handleCreate)
		movieRouter.Get("/{id}", h.handleGet)
		movieRouter.Put("/{id}", h.handleUpdate)
		movieRouter.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movies, err := h.movies.List(ctx)
	if err != nil {
		h.logError(ctx, "failed to list movies", err)
		h.write(ctx, w, http.StatusInternalServerError, keyMessage, msgListFailed)
		return
	}
	h.writeJSON(ctx, w, http.StatusOK, movies)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID, err := id.ParseMovieID(chi.URLParam(r, "id"))
	if err != nil {
		h.write(ctx, w, http.StatusNotFound, keyError, msgNotFound)
		return
	}

	movie, err := h.movies.Get(ctx, movieID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.write(ctx, w, http.StatusNotFound, keyError, msgNotFound)
			return
		}
		h.logError(ctx, "failed to fetch movie", err, "movie_id", movieID.String())
		h.write(ctx, w, http.StatusInternalServerError, keyError, msgGetFailed)
		return
	}
	h.writeJSON(ctx, w, http.StatusOK, movie)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	payload, err := decodePayload(r.Body)
	if err != nil {
		h.logError(ctx, "invalid create movie body", err)
		h.write(ctx, w, http.StatusInternalServerError, keyMessage, msgCreateFailed)
		return
	}

	movie, err := h.movies.Create(ctx, payload)
	if err != nil {
		if h.writeClientError(ctx, w, err, keyMessage) {
			return
		}
		h.logError(ctx, "failed to create movie", err)
		h.write(ctx, w, http.StatusInternalServerError, keyMessage, msgCreateFailed)
		return
	}
	h.writeJSON(ctx, w, http.StatusCreated, movie)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	payload, err := decodePayload(r.Body)
	if err != nil {
		h.logError(ctx, "invalid update movie body", err)
		h.write(ctx, w, http.StatusInternalServerError, keyError, msgUpdateFailed)
		return
	}

	movieID, err := id.ParseMovieID(chi.URLParam(r, "id"))
	if err != nil {
		// Payload problems are reported before the id is looked at.
		if _, verr := h.movies.Validate(payload); verr != nil && h.writeClientError(ctx, w, verr, keyError) {
			return
		}
		h.logError(ctx, "failed to update movie", err, "movie_id", chi.URLParam(r, "id"))
		h.write(ctx, w, http.StatusInternalServerError, keyError, msgUpdateFailed)
		return
	}

	movie, err := h.movies.Update(ctx, movieID, payload)
	if err != nil {
		if h.writeClientError(ctx, w, err, keyError) {
			return
		}
		h.logError(ctx, "failed to update movie", err, "movie_id", movieID.String())
		h.write(ctx, w, http.StatusInternalServerError, keyError, msgUpdateFailed)
		return
	}
	h.writeJSON(ctx, w, http.StatusOK, movie)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID, err := id.ParseMovieID(chi.URLParam(r, "id"))
	if err == nil {
		err = h.movies.Delete(ctx, movieID)
	}
	if err != nil {
		h.logError(ctx, "failed to delete movie", err, "movie_id", chi.URLParam(r, "id"))
		h.write(ctx, w, http.StatusInternalServerError, keyError, msgDeleteFailed)
		return
	}
	h.write(ctx, w, http.StatusOK, keyMessage, msgDeleted)
}

// writeClientError writes the 400 body for payload errors and reports whether
// it did.
func (h *Handler) writeClientError(ctx context.Context, w http.ResponseWriter, err error, key string) bool {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeBadRequest:
		h.logger.WarnContext(ctx, "movie payload rejected",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		h.write(ctx, w, http.StatusBadRequest, key, msgMissingFields)
		return true
	case dErrors.CodeValidation:
		h.logger.WarnContext(ctx, "movie payload failed validation",
			"request_id", middleware.GetRequestID(ctx),
			"fields", dErrors.FieldsOf(err),
		)
		if werr := httputil.WriteMessageWithFields(w, http.StatusBadRequest, key, msgInvalidMovie, dErrors.FieldsOf(err)); werr != nil {
			h.logError(ctx, "failed to write response", werr)
		}
		return true
	}
	return false
}

func (h *Handler) write(ctx context.Context, w http.ResponseWriter, status int, key, message string) {
	if err := httputil.WriteMessage(w, status, key, message); err != nil {
		h.logError(ctx, "failed to write response", err)
	}
}

func (h *Handler) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	if err := httputil.WriteJSON(w, status, v); err != nil {
		h.logError(ctx, "failed to write response", err)
	}
}

func (h *Handler) logError(ctx context.Context, msg string, err error, args ...any) {
	args = append([]any{"request_id", middleware.GetRequestID(ctx), "error", err.Error()}, args...)
	h.logger.ErrorContext(ctx, msg, args...)
}

var errNullBody = errors.New("request body is null")

// decodePayload treats an empty body, or a JSON value that is not an object,
// as an empty payload so it falls through to the missing-fields check. A null
// body cannot be read as fields and is rejected.
func decodePayload(body io.Reader) (validation.Payload, error) {
	var payload validation.Payload
	if body == nil {
		return payload, nil
	}
	var raw json.RawMessage
	if err := httputil.DecodeJSON(body, &raw); err != nil {
		if errors.Is(err, io.EOF) {
			return payload, nil
		}
		return validation.Payload{}, err
	}
	raw = bytes.TrimSpace(raw)
	switch {
	case bytes.HasPrefix(raw, []byte("{")):
		if err := json.Unmarshal(raw, &payload); err != nil {
			return validation.Payload{}, err
		}
		return payload, nil
	case bytes.Equal(raw, []byte("null")):
		return validation.Payload{}, errNullBody
	default:
		return payload, nil
	}
}
