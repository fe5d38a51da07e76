package catalog

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRepo struct {
	movies   map[string]Movie
	episodes map[string]Episode

	inserted *Movie
	updated  *Movie

	insertedEpisode *Episode
	deletedEpisode  string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{movies: map[string]Movie{}, episodes: map[string]Episode{}}
}

func (r *fakeRepo) ListMovies(ctx context.Context) ([]Movie, error) {
	out := make([]Movie, 0, len(r.movies))
	for _, m := range r.movies {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeRepo) GetMovie(ctx context.Context, id string) (Movie, error) {
	m, ok := r.movies[id]
	if !ok {
		return Movie{}, ErrMovieNotFound
	}
	return m, nil
}

func (r *fakeRepo) InsertMovie(ctx context.Context, m Movie) error {
	r.inserted = &m
	r.movies[m.ID] = m
	return nil
}

func (r *fakeRepo) UpdateMovie(ctx context.Context, m Movie) error {
	if _, ok := r.movies[m.ID]; !ok {
		return ErrMovieNotFound
	}
	r.updated = &m
	r.movies[m.ID] = m
	return nil
}

func (r *fakeRepo) DeleteMovie(ctx context.Context, id string) error {
	if _, ok := r.movies[id]; !ok {
		return ErrMovieNotFound
	}
	delete(r.movies, id)
	return nil
}

func (r *fakeRepo) CountMovies(ctx context.Context) (int64, int64, error) {
	var movies, series int64
	for _, m := range r.movies {
		if m.IsSeries {
			series++
		} else {
			movies++
		}
	}
	return movies, series, nil
}

func (r *fakeRepo) ListEpisodesByMovie(ctx context.Context, movieID string) ([]Episode, error) {
	out := make([]Episode, 0)
	for _, e := range r.episodes {
		if e.MovieID == movieID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetEpisode(ctx context.Context, id string) (Episode, error) {
	e, ok := r.episodes[id]
	if !ok {
		return Episode{}, ErrEpisodeNotFound
	}
	return e, nil
}

func (r *fakeRepo) InsertEpisode(ctx context.Context, e Episode) error {
	r.insertedEpisode = &e
	r.episodes[e.ID] = e
	return nil
}

func (r *fakeRepo) UpdateEpisode(ctx context.Context, e Episode) error {
	if _, ok := r.episodes[e.ID]; !ok {
		return ErrEpisodeNotFound
	}
	r.episodes[e.ID] = e
	return nil
}

func (r *fakeRepo) DeleteEpisode(ctx context.Context, id string) error {
	r.deletedEpisode = id
	delete(r.episodes, id)
	return nil
}

func (r *fakeRepo) CountEpisodes(ctx context.Context) (int64, error) {
	return int64(len(r.episodes)), nil
}

type fakePosters struct {
	uploads int
	lastCT  string
	url     string
	err     error
}

func (p *fakePosters) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	p.uploads++
	p.lastCT = contentType
	if p.err != nil {
		return "", p.err
	}
	return p.url, nil
}

func fixedClock() func() time.Time {
	now := time.Unix(1700000000, 0).UTC()
	return func() time.Time { return now }
}

func validCreateInput() CreateMovieInput {
	return CreateMovieInput{
		Title:             "Deep Waters",
		Description:       "A diver finds something.",
		ReleaseDate:       time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		Categories:        []string{"thriller"},
		PosterData:        []byte("img"),
		PosterContentType: "image/png",
	}
}

func TestCreateMovie_UploadsPosterAndPersists(t *testing.T) {
	repo := newFakeRepo()
	posters := &fakePosters{url: "https://cdn.example.com/p.png"}
	svc := NewService(repo, posters).WithClock(fixedClock())

	m, err := svc.CreateMovie(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.ID == "" {
		t.Fatalf("expected generated id")
	}
	if m.PosterURL != "https://cdn.example.com/p.png" {
		t.Fatalf("unexpected poster url: %q", m.PosterURL)
	}
	if posters.uploads != 1 || posters.lastCT != "image/png" {
		t.Fatalf("expected one upload with content type, got %d %q", posters.uploads, posters.lastCT)
	}
	if repo.inserted == nil || repo.inserted.Title != "Deep Waters" {
		t.Fatalf("expected movie persisted")
	}
}

func TestCreateMovie_ValidatesRequiredFields(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakePosters{url: "u"})

	cases := map[string]func(*CreateMovieInput){
		"title":       func(in *CreateMovieInput) { in.Title = "" },
		"description": func(in *CreateMovieInput) { in.Description = "" },
		"releaseDate": func(in *CreateMovieInput) { in.ReleaseDate = time.Time{} },
		"categories":  func(in *CreateMovieInput) { in.Categories = nil },
		"poster":      func(in *CreateMovieInput) { in.PosterData = nil },
	}
	for name, mutate := range cases {
		in := validCreateInput()
		mutate(&in)
		if _, err := svc.CreateMovie(context.Background(), in); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestUpdateMovie_PosterOptional(t *testing.T) {
	repo := newFakeRepo()
	repo.movies["m-1"] = Movie{ID: "m-1", Title: "Old", Description: "old", ReleaseDate: time.Now(), PosterURL: "keep-me", Categories: []string{"drama"}}
	posters := &fakePosters{url: "new-url"}
	svc := NewService(repo, posters).WithClock(fixedClock())

	m, err := svc.UpdateMovie(context.Background(), "m-1", UpdateMovieInput{
		Title:       "New",
		Description: "new",
		ReleaseDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Categories:  []string{"drama"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if m.PosterURL != "keep-me" {
		t.Fatalf("poster should be kept when no file supplied, got %q", m.PosterURL)
	}
	if posters.uploads != 0 {
		t.Fatalf("unexpected upload")
	}

	m, err = svc.UpdateMovie(context.Background(), "m-1", UpdateMovieInput{
		Title:       "New",
		Description: "new",
		ReleaseDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Categories:  []string{"drama"},
		PosterData:  []byte("img"),
	})
	if err != nil {
		t.Fatalf("update with poster: %v", err)
	}
	if m.PosterURL != "new-url" {
		t.Fatalf("expected replaced poster url, got %q", m.PosterURL)
	}
}

func TestUpdateMovie_NotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakePosters{})
	_, err := svc.UpdateMovie(context.Background(), "ghost", UpdateMovieInput{
		Title: "x", Description: "y", ReleaseDate: time.Now(), Categories: []string{"z"},
	})
	if !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
}

func TestCreateEpisode_RequiresExistingMovie(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakePosters{}).WithClock(fixedClock())

	in := EpisodeInput{Title: "E1", Description: "pilot", StreamingURLs: []string{"https://s/1"}, MovieID: "ghost"}
	if _, err := svc.CreateEpisode(context.Background(), in); !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}

	repo.movies["m-1"] = Movie{ID: "m-1", IsSeries: true}
	in.MovieID = "m-1"
	e, err := svc.CreateEpisode(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.ID == "" || e.MovieID != "m-1" {
		t.Fatalf("unexpected episode: %+v", e)
	}
}

func TestListEpisodes_RequiresMovieID(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakePosters{})
	if _, err := svc.ListEpisodes(context.Background(), ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDeleteEpisode_IsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakePosters{})
	if err := svc.DeleteEpisode(context.Background(), "never-existed"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}

func TestCounts_AggregatesDashboardFigures(t *testing.T) {
	repo := newFakeRepo()
	repo.movies["m-1"] = Movie{ID: "m-1"}
	repo.movies["m-2"] = Movie{ID: "m-2", IsSeries: true}
	repo.episodes["e-1"] = Episode{ID: "e-1", MovieID: "m-2"}
	svc := NewService(repo, &fakePosters{})

	counts, err := svc.Counts(context.Background(), nil)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Movies != 1 || counts.Series != 1 || counts.Episodes != 1 || counts.Users != 0 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestParseDataURI(t *testing.T) {
	data, ct, err := ParseDataURI("data:image/png;base64,aW1n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if string(data) != "img" || ct != "image/png" {
		t.Fatalf("unexpected: %q %q", data, ct)
	}

	// bare base64 is accepted without a content type
	data, ct, err = ParseDataURI("aW1n")
	if err != nil {
		t.Fatalf("parse bare: %v", err)
	}
	if string(data) != "img" || ct != "" {
		t.Fatalf("unexpected: %q %q", data, ct)
	}

	if _, _, err := ParseDataURI("data:image/png;base64"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing payload, got %v", err)
	}
	if _, _, err := ParseDataURI("!!not base64!!"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad base64, got %v", err)
	}
}

func TestParseReleaseDate(t *testing.T) {
	d, err := ParseReleaseDate("2023-05-01")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if d.Year() != 2023 || d.Month() != time.May {
		t.Fatalf("unexpected date: %v", d)
	}

	if _, err := ParseReleaseDate("May 1st 2023"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if _, err := ParseReleaseDate(""); err == nil {
		t.Fatalf("expected error for empty date")
	}
}
