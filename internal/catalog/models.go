package catalog

import (
	"errors"
	"time"
)

// Movie is a catalog title. A movie with IsSeries set groups episodes;
// playback for plain movies goes through a single implicit episode.
type Movie struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	ReleaseDate time.Time `json:"releaseDate" db:"release_date"`
	PosterURL   string    `json:"posterUrl" db:"poster_url"`
	IsSeries    bool      `json:"isSeries" db:"is_series"`
	Categories  []string  `json:"categories" db:"categories"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Episode belongs to a movie and carries one or more streaming URLs
// (mirror sources for the same content).
type Episode struct {
	ID            string   `json:"id" db:"id"`
	Title         string   `json:"title" db:"title"`
	Description   string   `json:"description" db:"description"`
	StreamingURLs []string `json:"streamingUrls" db:"streaming_urls"`
	MovieID       string   `json:"movieId" db:"movie_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Counts feeds the admin dashboard.
type Counts struct {
	Movies   int64 `json:"movies"`
	Series   int64 `json:"series"`
	Episodes int64 `json:"episodes"`
	Users    int64 `json:"users"`
}

var (
	ErrMovieNotFound   = errors.New("movie not found")
	ErrEpisodeNotFound = errors.New("episode not found")
)
