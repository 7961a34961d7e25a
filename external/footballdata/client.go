package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/matchday/prediction-league/internal/platform/logging"
	"github.com/matchday/prediction-league/internal/platform/resilience"
	"github.com/matchday/prediction-league/internal/usecase"
)

const (
	defaultBaseURL      = "https://api.football-data.org/v4"
	authHeader          = "X-Auth-Token"
	maxResponseBytes    = 4 << 20
	defaultFetchTimeout = 20 * time.Second
)

var authTokenHeaderRegex = regexp.MustCompile(`(?i)x-auth-token:\s*\S+`)
var errProviderTransient = crerr.New("football data transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads standings and top scorers from the external sports-data
// provider. It satisfies usecase.LeagueDataProvider. The provider is
// rate-limited; callers are expected to sit behind the aggregator's cache.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultFetchTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type standingsEnvelope struct {
	Standings []struct {
		Type  string          `json:"type"`
		Table []standingEntry `json:"table"`
	} `json:"standings"`
}

type standingEntry struct {
	Position int `json:"position"`
	Team     struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	PlayedGames    int     `json:"playedGames"`
	Won            int     `json:"won"`
	Draw           int     `json:"draw"`
	Lost           int     `json:"lost"`
	Points         int     `json:"points"`
	GoalsFor       int     `json:"goalsFor"`
	GoalsAgainst   int     `json:"goalsAgainst"`
	GoalDifference float64 `json:"goalDifference"`
}

type scorersEnvelope struct {
	Scorers []struct {
		Player struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"player"`
		Team struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"team"`
		Goals float64 `json:"goals"`
	} `json:"scorers"`
}

// FetchStandings returns the TOTAL table of the competition's season.
func (c *Client) FetchStandings(ctx context.Context, competitionID int64, seasonYear int) ([]usecase.ExternalStanding, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("competition id must be greater than zero")
	}
	if seasonYear <= 0 {
		return nil, fmt.Errorf("season year must be greater than zero")
	}

	path := fmt.Sprintf("/competitions/%d/standings", competitionID)
	query := map[string]string{"season": fmt.Sprintf("%d", seasonYear)}

	var envelope standingsEnvelope
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch standings competition_id=%d season=%d: %w", competitionID, seasonYear, err)
	}

	var table []standingEntry
	for _, block := range envelope.Standings {
		if strings.EqualFold(block.Type, "TOTAL") || block.Type == "" {
			table = block.Table
			break
		}
	}

	out := make([]usecase.ExternalStanding, 0, len(table))
	for _, entry := range table {
		out = append(out, usecase.ExternalStanding{
			TeamID:         entry.Team.ID,
			TeamName:       entry.Team.Name,
			Position:       entry.Position,
			Played:         entry.PlayedGames,
			Won:            entry.Won,
			Draw:           entry.Draw,
			Lost:           entry.Lost,
			GoalsFor:       entry.GoalsFor,
			GoalsAgainst:   entry.GoalsAgainst,
			GoalDifference: entry.GoalDifference,
			Points:         entry.Points,
		})
	}
	return out, nil
}

// FetchTopScorers returns the season's scorer table.
func (c *Client) FetchTopScorers(ctx context.Context, competitionID int64, seasonYear int) ([]usecase.ExternalScorer, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("competition id must be greater than zero")
	}
	if seasonYear <= 0 {
		return nil, fmt.Errorf("season year must be greater than zero")
	}

	path := fmt.Sprintf("/competitions/%d/scorers", competitionID)
	query := map[string]string{"season": fmt.Sprintf("%d", seasonYear)}

	var envelope scorersEnvelope
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch scorers competition_id=%d season=%d: %w", competitionID, seasonYear, err)
	}

	out := make([]usecase.ExternalScorer, 0, len(envelope.Scorers))
	for _, entry := range envelope.Scorers {
		out = append(out, usecase.ExternalScorer{
			PlayerID:   entry.Player.ID,
			PlayerName: entry.Player.Name,
			TeamID:     entry.Team.ID,
			Goals:      entry.Goals,
		})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football data circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sports data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errProviderTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set(authHeader, c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errProviderTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errProviderTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// readBody drains the response through a pooled buffer and returns an owned
// copy, so bodies of any size inside the limit reuse the same scratch space.
func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(body, maxResponseBytes)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return authTokenHeaderRegex.ReplaceAllString(value, "X-Auth-Token: REDACTED")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
