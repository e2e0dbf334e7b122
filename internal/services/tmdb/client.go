package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"streamlist/internal/config"
)

const (
	imageBaseURL = "https://image.tmdb.org/t/p"
	posterWidth  = "w342"
)

// ErrEmptyQuery reports a blank (post-trim) search query. No request is
// issued.
var ErrEmptyQuery = errors.New("empty query")

// ErrMissingAPIKey reports an unset TMDB credential. No request is issued.
var ErrMissingAPIKey = errors.New("missing TMDB API key")

// StatusError reports a non-success HTTP response from TMDB.
type StatusError struct {
	Code   int
	Reason string // reason phrase, e.g. "Not Found"
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("TMDB request failed: %d %s", e.Code, e.Reason)
}

// Hit is a single search result from the TMDB movie search API.
type Hit struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"` // "YYYY-MM-DD" or empty
	Overview    string `json:"overview"`
	PosterPath  string `json:"poster_path"`
}

type searchResponse struct {
	Results []Hit `json:"results"`
}

// Client wraps TMDB movie search HTTP calls.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new TMDB client. A missing API key is allowed here;
// Search reports it per call so the application can run without a
// credential until one is needed.
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    cfg.TMDBBaseURL,
		apiKey:     cfg.TMDBAPIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// HasKey reports whether a TMDB credential is configured.
func (c *Client) HasKey() bool {
	return c.apiKey != ""
}

// Search performs a movie title search. It issues exactly one GET against
// the first results page, adult content filtered, en-US locale. A success
// response whose results list is absent or malformed yields an empty slice,
// never a shape error. Context cancellation propagates unchanged so callers
// can drop stale requests silently.
func (c *Client) Search(ctx context.Context, query string) ([]Hit, error) {
	cleaned := strings.TrimSpace(query)
	if cleaned == "" {
		return nil, ErrEmptyQuery
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	apiURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid TMDB base URL: %w", err)
	}
	apiURL.Path = strings.TrimRight(apiURL.Path, "/") + "/search/movie"

	params := url.Values{}
	params.Add("api_key", c.apiKey)
	params.Add("query", cleaned)
	params.Add("include_adult", "false")
	params.Add("language", "en-US")
	params.Add("page", "1")
	apiURL.RawQuery = params.Encode()

	c.logger.WithField("query", cleaned).Debug("Performing TMDB search")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "streamlistd/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"status":      resp.Status,
		}).Error("TMDB returned non-success status")
		reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode)))
		return nil, &StatusError{Code: resp.StatusCode, Reason: reason}
	}

	// A malformed payload counts as an empty result set.
	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.WithError(err).Warn("TMDB response payload unparseable, treating as no results")
		return []Hit{}, nil
	}
	if parsed.Results == nil {
		return []Hit{}, nil
	}

	c.logger.WithField("count", len(parsed.Results)).Debug("TMDB search completed")
	return parsed.Results, nil
}

// PosterURL builds the image URL for a hit's poster path. An empty path
// yields an empty string; the consumer renders a placeholder.
func PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + "/" + posterWidth + path
}

// Year extracts the release year from a "YYYY-MM-DD" date, or "" if absent.
func Year(releaseDate string) string {
	if len(releaseDate) < 4 {
		return ""
	}
	return releaseDate[:4]
}
