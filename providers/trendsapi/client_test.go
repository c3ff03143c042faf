package trendsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/marketscout/trends"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const series = `{"interest_over_time":{"timeline_data":[
  {"date":"Sep 1, 2025","values":[{"query":"NVDA","value":"40","extracted_value":40}]},
  {"date":"Sep 2, 2025","values":[{"query":"NVDA","value":"42","extracted_value":42}]},
  {"date":"Sep 3, 2025","values":[]}
]}}`

func newTestClient(url string) *Client {
	return NewClient("serp-key", WithBaseURL(url), WithRateLimit(rate.Inf, 1))
}

func TestInterestOverTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "google_trends", q.Get("engine"))
		assert.Equal(t, "TIMESERIES", q.Get("data_type"))
		assert.Equal(t, "NVDA", q.Get("q"))
		assert.Equal(t, "today 1-m", q.Get("date"))
		assert.Equal(t, "US", q.Get("geo"))
		assert.Equal(t, "serp-key", q.Get("api_key"))
		w.Write([]byte(series))
	}))
	defer srv.Close()

	points, err := newTestClient(srv.URL).InterestOverTime(context.Background(),
		trends.Request{Term: "NVDA", Timeframe: "today 1-m", Geo: "US"})
	require.NoError(t, err)
	assert.Equal(t, []trends.Point{{Label: "Sep 1, 2025", Value: 40}, {Label: "Sep 2, 2025", Value: 42}}, points)
}

func TestInterestOverTime_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).InterestOverTime(context.Background(), trends.Request{Term: "NVDA"})
	assert.ErrorIs(t, err, trends.ErrRateLimited)
}

func TestInterestOverTime_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Google Trends hasn't returned any results for this query."}`))
	}))
	defer srv.Close()

	points, err := newTestClient(srv.URL).InterestOverTime(context.Background(), trends.Request{Term: "zzzz"})
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestInterestOverTime_ErrorsDoNotLeakKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := newTestClient(srv.URL).InterestOverTime(context.Background(), trends.Request{Term: "NVDA"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, trends.ErrRateLimited)
	assert.NotContains(t, err.Error(), "serp-key")
}

func TestInterestOverTime_MissingKey(t *testing.T) {
	_, err := NewClient("").InterestOverTime(context.Background(), trends.Request{Term: "NVDA"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestInterestOverTime_WorksWithCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(series))
	}))
	defer srv.Close()

	repo := &memRepo{}
	c, err := trends.NewCache(repo, newTestClient(srv.URL))
	require.NoError(t, err)

	assert.Equal(t, []string{"NVDA: 40", "NVDA: 42"}, c.Get(context.Background(), "NVDA"))
}
