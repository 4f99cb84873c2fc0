//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cinedex/internal/movie/metrics"
	"cinedex/internal/movie/models"
	"cinedex/internal/movie/validation"
	id "cinedex/pkg/domain"
	dErrors "cinedex/pkg/domain-errors"
	"cinedex/pkg/platform/sentinel"
	"cinedex/pkg/requestcontext"
)

// Store is the persistence contract the service consumes.
type Store interface {
	FindAll(ctx context.Context) ([]*models.Movie, error)
	FindByID(ctx context.Context, movieID id.MovieID) (*models.Movie, error)
	Insert(ctx context.Context, fields models.Fields, now time.Time) (*models.Movie, error)
	Replace(ctx context.Context, movieID id.MovieID, fields models.Fields, now time.Time) (*models.Movie, error)
	Remove(ctx context.Context, movieID id.MovieID) error
}

// Service orchestrates movie validation and persistence.
type Service struct {
	movies  Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	strict  bool
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithStrictValidation makes create and update run the form rules (4-digit
// year, per-field messages) instead of the presence-only check.
func WithStrictValidation(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// New constructs a Service.
func New(movies Store, opts ...Option) *Service {
	s := &Service{
		movies: movies,
		tracer: otel.Tracer("cinedex/internal/movie/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every movie, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Movie, error) {
	ctx, span := s.tracer.Start(ctx, "movie.List")
	defer span.End()

	start := time.Now()
	movies, err := s.movies.FindAll(ctx)
	s.observeStore("find_all", start)
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list movies"))
	}
	if movies == nil {
		movies = []*models.Movie{}
	}
	span.SetAttributes(attribute.Int("movie.count", len(movies)))
	return movies, nil
}

// Get fetches one movie. Absence is the only not-found the API reports.
func (s *Service) Get(ctx context.Context, movieID id.MovieID) (*models.Movie, error) {
	ctx, span := s.tracer.Start(ctx, "movie.Get", trace.WithAttributes(attribute.String("movie.id", movieID.String())))
	defer span.End()

	start := time.Now()
	movie, err := s.movies.FindByID(ctx, movieID)
	s.observeStore("find_by_id", start)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "movie not found")
		}
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load movie"))
	}
	return movie, nil
}

// Create validates the payload and inserts a new movie.
func (s *Service) Create(ctx context.Context, payload validation.Payload) (*models.Movie, error) {
	ctx, span := s.tracer.Start(ctx, "movie.Create")
	defer span.End()

	fields, err := s.fields(payload)
	if err != nil {
		return nil, s.fail(span, err)
	}

	start := time.Now()
	movie, err := s.movies.Insert(ctx, fields, requestcontext.Now(ctx))
	s.observeStore("insert", start)
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create movie"))
	}

	span.SetAttributes(attribute.String("movie.id", movie.ID.String()))
	s.logInfo(ctx, "movie created", "movie_id", movie.ID.String())
	if s.metrics != nil {
		s.metrics.IncrementCreated()
	}
	return movie, nil
}

// Update replaces all business fields of a movie. A missing movie is reported
// as an internal failure, not as not-found.
func (s *Service) Update(ctx context.Context, movieID id.MovieID, payload validation.Payload) (*models.Movie, error) {
	ctx, span := s.tracer.Start(ctx, "movie.Update", trace.WithAttributes(attribute.String("movie.id", movieID.String())))
	defer span.End()

	fields, err := s.fields(payload)
	if err != nil {
		return nil, s.fail(span, err)
	}

	start := time.Now()
	movie, err := s.movies.Replace(ctx, movieID, fields, requestcontext.Now(ctx))
	s.observeStore("replace", start)
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update movie"))
	}

	s.logInfo(ctx, "movie updated", "movie_id", movieID.String())
	if s.metrics != nil {
		s.metrics.IncrementUpdated()
	}
	return movie, nil
}

// Delete hard-deletes a movie. A missing movie is an internal failure.
func (s *Service) Delete(ctx context.Context, movieID id.MovieID) error {
	ctx, span := s.tracer.Start(ctx, "movie.Delete", trace.WithAttributes(attribute.String("movie.id", movieID.String())))
	defer span.End()

	start := time.Now()
	err := s.movies.Remove(ctx, movieID)
	s.observeStore("remove", start)
	if err != nil {
		return s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete movie"))
	}

	s.logInfo(ctx, "movie deleted", "movie_id", movieID.String())
	if s.metrics != nil {
		s.metrics.IncrementDeleted()
	}
	return nil
}

func (s *Service) fields(payload validation.Payload) (models.Fields, error) {
	if s.strict {
		fields, fieldErrs := validation.Strict(payload)
		if len(fieldErrs) > 0 {
			return models.Fields{}, dErrors.WithFields(dErrors.CodeValidation, "invalid movie", fieldErrs)
		}
		return fields, nil
	}

	if err := validation.CheckPresence(payload); err != nil {
		return models.Fields{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "missing required fields")
	}
	fields, err := validation.Normalize(payload)
	if err != nil {
		// The table rejects these; they surface like any other store failure.
		return models.Fields{}, dErrors.Wrap(err, dErrors.CodeInternal, "invalid movie payload")
	}
	return fields, nil
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	return err
}

func (s *Service) observeStore(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStore(operation, start)
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger == nil {
		return
	}
	args = append(args, "request_id", requestcontext.RequestID(ctx))
	s.logger.InfoContext(ctx, msg, args...)
}

// Validate applies the configured payload rules without touching the store.
// Handlers use it to report payload problems ahead of a malformed id.
func (s *Service) Validate(payload validation.Payload) (models.Fields, error) {
	return s.fields(payload)
}
