package catalog

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PosterStore is the image-hosting collaborator. Satisfied by
// poster.Store.
type PosterStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// UserCounter feeds the users figure on the dashboard. Satisfied by
// users.Service.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

var ErrValidation = errors.New("validation failed")

// Service owns catalog business rules: field validation, poster upload
// and timestamps. Persistence stays behind Repository.
type Service struct {
	repo    Repository
	posters PosterStore

	now func() time.Time
}

func NewService(repo Repository, posters PosterStore) *Service {
	return &Service{
		repo:    repo,
		posters: posters,
		now:     time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) ListMovies(ctx context.Context) ([]Movie, error) {
	return s.repo.ListMovies(ctx)
}

func (s *Service) GetMovie(ctx context.Context, id string) (Movie, error) {
	return s.repo.GetMovie(ctx, id)
}

type CreateMovieInput struct {
	Title       string
	Description string
	ReleaseDate time.Time
	IsSeries    bool
	Categories  []string

	// PosterData is the raw image; PosterContentType its MIME type.
	PosterData        []byte
	PosterContentType string
}

func (s *Service) CreateMovie(ctx context.Context, in CreateMovieInput) (Movie, error) {
	if in.Title == "" || in.Description == "" || in.ReleaseDate.IsZero() || len(in.Categories) == 0 || len(in.PosterData) == 0 {
		return Movie{}, fmt.Errorf("%w: title, description, release date, categories and poster are required", ErrValidation)
	}

	posterURL, err := s.posters.Upload(ctx, in.PosterData, in.PosterContentType)
	if err != nil {
		return Movie{}, err
	}

	now := s.now().UTC()
	m := Movie{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		ReleaseDate: in.ReleaseDate,
		PosterURL:   posterURL,
		IsSeries:    in.IsSeries,
		Categories:  in.Categories,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertMovie(ctx, m); err != nil {
		return Movie{}, err
	}
	return m, nil
}

type UpdateMovieInput struct {
	Title       string
	Description string
	ReleaseDate time.Time
	IsSeries    bool
	Categories  []string

	// Poster replacement is optional on update.
	PosterData        []byte
	PosterContentType string
}

func (s *Service) UpdateMovie(ctx context.Context, id string, in UpdateMovieInput) (Movie, error) {
	if in.Title == "" || in.Description == "" || in.ReleaseDate.IsZero() || len(in.Categories) == 0 {
		return Movie{}, fmt.Errorf("%w: title, description, release date and categories are required", ErrValidation)
	}

	m, err := s.repo.GetMovie(ctx, id)
	if err != nil {
		return Movie{}, err
	}

	m.Title = in.Title
	m.Description = in.Description
	m.ReleaseDate = in.ReleaseDate
	m.IsSeries = in.IsSeries
	m.Categories = in.Categories
	m.UpdatedAt = s.now().UTC()

	if len(in.PosterData) > 0 {
		posterURL, err := s.posters.Upload(ctx, in.PosterData, in.PosterContentType)
		if err != nil {
			return Movie{}, err
		}
		m.PosterURL = posterURL
	}

	if err := s.repo.UpdateMovie(ctx, m); err != nil {
		return Movie{}, err
	}
	return m, nil
}

func (s *Service) DeleteMovie(ctx context.Context, id string) error {
	return s.repo.DeleteMovie(ctx, id)
}

func (s *Service) ListEpisodes(ctx context.Context, movieID string) ([]Episode, error) {
	if movieID == "" {
		return nil, fmt.Errorf("%w: movieId is required", ErrValidation)
	}
	return s.repo.ListEpisodesByMovie(ctx, movieID)
}

func (s *Service) GetEpisode(ctx context.Context, id string) (Episode, error) {
	return s.repo.GetEpisode(ctx, id)
}

type EpisodeInput struct {
	Title         string
	Description   string
	StreamingURLs []string
	MovieID       string
}

func (s *Service) CreateEpisode(ctx context.Context, in EpisodeInput) (Episode, error) {
	if in.Title == "" || in.Description == "" || len(in.StreamingURLs) == 0 || in.MovieID == "" {
		return Episode{}, fmt.Errorf("%w: title, description, streaming URLs and movieId are required", ErrValidation)
	}

	// Episodes must hang off an existing movie.
	if _, err := s.repo.GetMovie(ctx, in.MovieID); err != nil {
		return Episode{}, err
	}

	now := s.now().UTC()
	e := Episode{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Description:   in.Description,
		StreamingURLs: in.StreamingURLs,
		MovieID:       in.MovieID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.InsertEpisode(ctx, e); err != nil {
		return Episode{}, err
	}
	return e, nil
}

func (s *Service) UpdateEpisode(ctx context.Context, id string, in EpisodeInput) (Episode, error) {
	if in.Title == "" || in.Description == "" || len(in.StreamingURLs) == 0 {
		return Episode{}, fmt.Errorf("%w: title, description and streaming URLs are required", ErrValidation)
	}

	e, err := s.repo.GetEpisode(ctx, id)
	if err != nil {
		return Episode{}, err
	}

	e.Title = in.Title
	e.Description = in.Description
	e.StreamingURLs = in.StreamingURLs
	e.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateEpisode(ctx, e); err != nil {
		return Episode{}, err
	}
	return e, nil
}

// DeleteEpisode is idempotent; deleting an absent episode succeeds.
func (s *Service) DeleteEpisode(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	return s.repo.DeleteEpisode(ctx, id)
}

// Counts aggregates dashboard figures. users may be nil when the caller
// has no user store wired (counts then report zero users).
func (s *Service) Counts(ctx context.Context, users UserCounter) (Counts, error) {
	movies, series, err := s.repo.CountMovies(ctx)
	if err != nil {
		return Counts{}, err
	}
	episodes, err := s.repo.CountEpisodes(ctx)
	if err != nil {
		return Counts{}, err
	}

	c := Counts{Movies: movies, Series: series, Episodes: episodes}
	if users != nil {
		n, err := users.Count(ctx)
		if err != nil {
			return Counts{}, err
		}
		c.Users = n
	}
	return c, nil
}

// ParseDataURI decodes a base64 data URI ("data:image/png;base64,....").
// Bare base64 payloads are accepted with an empty content type.
func ParseDataURI(s string) ([]byte, string, error) {
	contentType := ""
	payload := s

	if strings.HasPrefix(s, "data:") {
		rest := strings.TrimPrefix(s, "data:")
		meta, data, ok := strings.Cut(rest, ",")
		if !ok {
			return nil, "", fmt.Errorf("%w: malformed data URI", ErrValidation)
		}
		contentType = strings.TrimSuffix(meta, ";base64")
		payload = data
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid base64 image payload", ErrValidation)
	}
	return raw, contentType, nil
}

// ParseReleaseDate accepts a bare date or a full RFC 3339 timestamp.
func ParseReleaseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: release date is required", ErrValidation)
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: release date must be YYYY-MM-DD or RFC 3339", ErrValidation)
	}
	return t, nil
}
