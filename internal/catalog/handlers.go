package catalog

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"vod-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups catalog HTTP handlers for dependency injection.
// Browsing handlers are public; mutations sit behind the admin gate in
// the router.
type Handlers struct {
	Catalog *Service
	Users   UserCounter
}

func (h Handlers) ListMovies(c *gin.Context) {
	movies, err := h.Catalog.ListMovies(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("movie list failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movies"})
		return
	}
	c.JSON(http.StatusOK, movies)
}

func (h Handlers) GetMovie(c *gin.Context) {
	m, err := h.Catalog.GetMovie(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, m)
	case errors.Is(err, ErrMovieNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
	default:
		logger.FromGin(c).Error("movie fetch failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movie"})
	}
}

type createMovieRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ReleaseDate string   `json:"releaseDate"`
	IsSeries    bool     `json:"isSeries"`
	Categories  []string `json:"categories"`

	// File is a base64 data URI holding the poster image.
	File string `json:"file"`
}

func (h Handlers) CreateMovie(c *gin.Context) {
	var req createMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "All fields are required, including an image file."})
		return
	}
	if req.Title == "" || req.Description == "" || req.ReleaseDate == "" || len(req.Categories) == 0 || req.File == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "All fields are required, including an image file."})
		return
	}

	releaseDate, err := ParseReleaseDate(req.ReleaseDate)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid release date"})
		return
	}
	posterData, contentType, err := ParseDataURI(req.File)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid image file"})
		return
	}

	m, err := h.Catalog.CreateMovie(c.Request.Context(), CreateMovieInput{
		Title:             req.Title,
		Description:       req.Description,
		ReleaseDate:       releaseDate,
		IsSeries:          req.IsSeries,
		Categories:        req.Categories,
		PosterData:        posterData,
		PosterContentType: contentType,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, m)
	case errors.Is(err, ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "All fields are required, including an image file."})
	default:
		logger.FromGin(c).Error("movie create failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create movie."})
	}
}

// UpdateMovie accepts multipart form data; the poster file is optional.
func (h Handlers) UpdateMovie(c *gin.Context) {
	title := c.PostForm("title")
	description := c.PostForm("description")
	releaseDateRaw := c.PostForm("releaseDate")
	isSeries := c.PostForm("isSeries") == "true"

	var categories []string
	if raw := c.PostForm("categories"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &categories); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid categories"})
			return
		}
	}

	if title == "" || description == "" || releaseDateRaw == "" || len(categories) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "All fields are required, including categories."})
		return
	}

	releaseDate, err := ParseReleaseDate(releaseDateRaw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid release date"})
		return
	}

	in := UpdateMovieInput{
		Title:       title,
		Description: description,
		ReleaseDate: releaseDate,
		IsSeries:    isSeries,
		Categories:  categories,
	}

	if fh, err := c.FormFile("poster"); err == nil {
		f, err := fh.Open()
		if err != nil {
			logger.FromGin(c).Error("poster read failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update movie."})
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			logger.FromGin(c).Error("poster read failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update movie."})
			return
		}
		in.PosterData = data
		in.PosterContentType = fh.Header.Get("Content-Type")
	}

	m, err := h.Catalog.UpdateMovie(c.Request.Context(), c.Param("id"), in)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, m)
	case errors.Is(err, ErrMovieNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Movie not found."})
	case errors.Is(err, ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "All fields are required, including categories."})
	default:
		logger.FromGin(c).Error("movie update failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update movie."})
	}
}

func (h Handlers) DeleteMovie(c *gin.Context) {
	err := h.Catalog.DeleteMovie(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Movie deleted successfully"})
	case errors.Is(err, ErrMovieNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
	default:
		logger.FromGin(c).Error("movie delete failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete movie"})
	}
}

func (h Handlers) GetCounts(c *gin.Context) {
	counts, err := h.Catalog.Counts(c.Request.Context(), h.Users)
	if err != nil {
		logger.FromGin(c).Error("counts failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch counts"})
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h Handlers) ListEpisodes(c *gin.Context) {
	movieID := c.Query("movieId")
	if movieID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing movieId"})
		return
	}

	episodes, err := h.Catalog.ListEpisodes(c.Request.Context(), movieID)
	if err != nil {
		logger.FromGin(c).Error("episode list failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch episodes"})
		return
	}
	c.JSON(http.StatusOK, episodes)
}

func (h Handlers) GetEpisode(c *gin.Context) {
	e, err := h.Catalog.GetEpisode(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, e)
	case errors.Is(err, ErrEpisodeNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Episode not found"})
	default:
		logger.FromGin(c).Error("episode fetch failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch episode"})
	}
}

type episodeRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	StreamingURLs []string `json:"streamingUrls"`
	MovieID       string   `json:"movieId"`
}

func (h Handlers) CreateEpisode(c *gin.Context) {
	var req episodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	e, err := h.Catalog.CreateEpisode(c.Request.Context(), EpisodeInput{
		Title:         req.Title,
		Description:   req.Description,
		StreamingURLs: req.StreamingURLs,
		MovieID:       req.MovieID,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, e)
	case errors.Is(err, ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
	case errors.Is(err, ErrMovieNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
	default:
		logger.FromGin(c).Error("episode create failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create episode"})
	}
}

func (h Handlers) UpdateEpisode(c *gin.Context) {
	var req episodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	e, err := h.Catalog.UpdateEpisode(c.Request.Context(), c.Param("id"), EpisodeInput{
		Title:         req.Title,
		Description:   req.Description,
		StreamingURLs: req.StreamingURLs,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, e)
	case errors.Is(err, ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
	case errors.Is(err, ErrEpisodeNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Episode not found"})
	default:
		logger.FromGin(c).Error("episode update failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update episode"})
	}
}

func (h Handlers) DeleteEpisode(c *gin.Context) {
	if err := h.Catalog.DeleteEpisode(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrValidation) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing episodeId"})
			return
		}
		logger.FromGin(c).Error("episode delete failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete episode"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
