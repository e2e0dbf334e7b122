package tmdb

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"streamlist/internal/config"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(baseURL, apiKey string) *Client {
	return NewClient(&config.Config{
		TMDBAPIKey:  apiKey,
		TMDBBaseURL: baseURL,
	}, newTestLogger())
}

func TestSearchSuccess(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": 1,
			"results": [
				{"id": 603, "title": "The Matrix", "release_date": "1999-03-31", "overview": "Neo", "poster_path": "/matrix.jpg"},
				{"id": 604, "title": "The Matrix Reloaded", "release_date": "", "overview": "", "poster_path": null}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	hits, err := client.Search(context.Background(), "  the matrix  ")
	require.NoError(t, err)

	require.Equal(t, "/search/movie", gotPath)
	require.Equal(t, "test-key", gotQuery["api_key"])
	require.Equal(t, "the matrix", gotQuery["query"], "query must be trimmed")
	require.Equal(t, "false", gotQuery["include_adult"])
	require.Equal(t, "en-US", gotQuery["language"])
	require.Equal(t, "1", gotQuery["page"])

	require.Len(t, hits, 2)
	require.Equal(t, int64(603), hits[0].ID)
	require.Equal(t, "The Matrix", hits[0].Title)
	require.Equal(t, "1999-03-31", hits[0].ReleaseDate)
	require.Equal(t, "/matrix.jpg", hits[0].PosterPath)
	require.Equal(t, "", hits[1].PosterPath, "null poster_path decodes to empty")
}

func TestSearchEmptyQueryIssuesNoRequest(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	_, err := client.Search(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyQuery)
	require.Zero(t, atomic.LoadInt32(&calls))
}

func TestSearchMissingKeyIssuesNoRequest(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	require.False(t, client.HasKey())

	_, err := client.Search(context.Background(), "the matrix")
	require.ErrorIs(t, err, ErrMissingAPIKey)
	require.Zero(t, atomic.LoadInt32(&calls))
}

func TestSearchNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "bad-key")
	_, err := client.Search(context.Background(), "the matrix")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnauthorized, statusErr.Code)
	require.Equal(t, "Unauthorized", statusErr.Reason)
	require.Contains(t, statusErr.Error(), "401 Unauthorized")
}

func TestSearchMalformedPayloadYieldsEmptyResults(t *testing.T) {
	cases := map[string]string{
		"not json":        "<html>gateway error</html>",
		"results missing": `{"page": 1}`,
		"results null":    `{"results": null}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			client := newTestClient(server.URL, "test-key")
			hits, err := client.Search(context.Background(), "the matrix")
			require.NoError(t, err)
			require.NotNil(t, hits)
			require.Empty(t, hits)
		})
	}
}

func TestSearchCanceledContext(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(server.URL, "test-key")

	ctx, cancel := context.WithCancel(context.Background())
	go cancel()

	_, err := client.Search(ctx, "the matrix")
	require.ErrorIs(t, err, context.Canceled)
}

func TestPosterURL(t *testing.T) {
	require.Equal(t, "https://image.tmdb.org/t/p/w342/matrix.jpg", PosterURL("/matrix.jpg"))
	require.Equal(t, "", PosterURL(""))
}

func TestYear(t *testing.T) {
	require.Equal(t, "1999", Year("1999-03-31"))
	require.Equal(t, "", Year(""))
	require.Equal(t, "", Year("19"))
}
