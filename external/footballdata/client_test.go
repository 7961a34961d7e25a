package footballdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/matchday/prediction-league/internal/platform/logging"
	"github.com/matchday/prediction-league/internal/platform/resilience"
	"github.com/matchday/prediction-league/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, maxRetries int) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "test-api-key",
		MaxRetries: maxRetries,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled: false,
		},
	})
	return client, server
}

func TestClient_FetchStandings(t *testing.T) {
	t.Parallel()

	var gotPath, gotSeason, gotToken string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSeason = r.URL.Query().Get("season")
		gotToken = r.Header.Get("X-Auth-Token")
		w.Write([]byte(`{
			"standings": [
				{"type": "HOME", "table": [{"position": 9, "team": {"id": 999, "name": "Home Only"}}]},
				{"type": "TOTAL", "table": [
					{"position": 1, "team": {"id": 57, "name": "Arsenal"}, "playedGames": 10, "won": 9, "draw": 1, "lost": 0, "points": 28, "goalsFor": 24, "goalsAgainst": 7, "goalDifference": 17},
					{"position": 2, "team": {"id": 61, "name": "Chelsea"}, "playedGames": 10, "won": 7, "draw": 2, "lost": 1, "points": 23, "goalsFor": 19, "goalsAgainst": 10, "goalDifference": 9}
				]}
			]
		}`))
	}, 0)

	rows, err := client.FetchStandings(context.Background(), 2021, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/competitions/2021/standings" {
		t.Fatalf("path: got=%q", gotPath)
	}
	if gotSeason != "2025" {
		t.Fatalf("season query: got=%q want=2025", gotSeason)
	}
	if gotToken != "test-api-key" {
		t.Fatalf("auth header: got=%q", gotToken)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got=%d want=2", len(rows))
	}
	if rows[0].TeamID != 57 || rows[0].TeamName != "Arsenal" || rows[0].GoalDifference != 17 {
		t.Fatalf("first row: got=%+v", rows[0])
	}
	if rows[1].Position != 2 || rows[1].Points != 23 {
		t.Fatalf("second row: got=%+v", rows[1])
	}
}

func TestClient_FetchTopScorers(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/competitions/2021/scorers" {
			t.Errorf("path: got=%q", r.URL.Path)
		}
		w.Write([]byte(`{
			"scorers": [
				{"player": {"id": 129011, "name": "Haaland"}, "team": {"id": 65, "name": "Manchester City"}, "goals": 14},
				{"player": {"id": 333, "name": "Salah"}, "team": {"id": 64, "name": "Liverpool"}, "goals": 14}
			]
		}`))
	}, 0)

	scorers, err := client.FetchTopScorers(context.Background(), 2021, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scorers) != 2 {
		t.Fatalf("scorers: got=%d want=2", len(scorers))
	}
	if scorers[0].PlayerID != 129011 || scorers[0].Goals != 14 || scorers[0].TeamID != 65 {
		t.Fatalf("first scorer: got=%+v", scorers[0])
	}
}

func TestClient_InvalidParams(t *testing.T) {
	t.Parallel()

	calls := int32(0)
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{}`))
	}, 0)

	if _, err := client.FetchStandings(context.Background(), 0, 2025); err == nil {
		t.Fatalf("expected error for zero competition id")
	}
	if _, err := client.FetchTopScorers(context.Background(), 2021, 0); err == nil {
		t.Fatalf("expected error for zero season")
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("invalid params must not reach the provider, calls=%d", calls)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	attempts := int32(0)
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"scorers": [{"player": {"id": 1, "name": "A"}, "team": {"id": 2}, "goals": 3}]}`))
	}, 1)

	scorers, err := client.FetchTopScorers(context.Background(), 2021, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scorers) != 1 {
		t.Fatalf("scorers after retry: got=%d want=1", len(scorers))
	}
	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Fatalf("attempts: got=%d want=2", got)
	}
}

func TestClient_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	attempts := int32(0)
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "competition not found"}`))
	}, 2)

	_, err := client.FetchStandings(context.Background(), 2021, 2025)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "status=404") {
		t.Fatalf("error must carry the provider status, got=%v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Fatalf("client errors must not retry, attempts=%d", got)
	}
}

func TestClient_CircuitOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	attempts := int32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
		},
	})

	if _, err := client.FetchStandings(context.Background(), 2021, 2025); err == nil {
		t.Fatalf("expected transport error")
	}
	before := atomic.LoadInt32(&attempts)

	_, err := client.FetchStandings(context.Background(), 2021, 2025)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("open circuit must map to ErrDependencyUnavailable, got=%v", err)
	}
	if atomic.LoadInt32(&attempts) != before {
		t.Fatalf("open circuit must not reach the provider")
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText("Get https://x: X-Auth-Token: secret123 refused", "secret123")
	if strings.Contains(got, "secret123") {
		t.Fatalf("api key leaked: %q", got)
	}
	if !strings.Contains(got, "REDACTED") {
		t.Fatalf("expected redaction marker, got=%q", got)
	}
}
