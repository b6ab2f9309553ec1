package riot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
	"github.com/riskibarqy/lol-dataset/internal/platform/resilience"
	"github.com/riskibarqy/lol-dataset/internal/usecase"
)

const (
	defaultPlatform = "br1"
	defaultRegion   = "americas"
	tokenHeader     = "X-Riot-Token"
	maxBodyBytes    = 8 << 20
)

var apiKeyRegex = regexp.MustCompile(`RGAPI-[0-9a-fA-F-]+`)
var errRiotTransient = crerr.New("riot transient failure")

var leagueTierPaths = map[string]string{
	"CHALLENGER":  "challengerleagues",
	"GRANDMASTER": "grandmasterleagues",
	"MASTER":      "masterleagues",
}

type ClientConfig struct {
	HTTPClient *http.Client
	APIKey     string
	Platform   string
	Region     string
	// PlatformBaseURL and RegionalBaseURL override the hosts derived from Platform and Region.
	PlatformBaseURL string
	RegionalBaseURL string
	Timeout         time.Duration
	MaxRetries      int
	Logger          *logging.Logger
	CircuitBreaker  resilience.CircuitBreakerConfig
}

// Client talks to the Riot Games REST API. It implements usecase.MatchDataProvider.
type Client struct {
	httpClient     *http.Client
	apiKey         string
	platformURL    string
	regionalURL    string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	platform := strings.ToLower(strings.TrimSpace(cfg.Platform))
	if platform == "" {
		platform = defaultPlatform
	}
	region := strings.ToLower(strings.TrimSpace(cfg.Region))
	if region == "" {
		region = defaultRegion
	}
	platformURL := strings.TrimRight(strings.TrimSpace(cfg.PlatformBaseURL), "/")
	if platformURL == "" {
		platformURL = "https://" + platform + ".api.riotgames.com"
	}
	regionalURL := strings.TrimRight(strings.TrimSpace(cfg.RegionalBaseURL), "/")
	if regionalURL == "" {
		regionalURL = "https://" + region + ".api.riotgames.com"
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	return &Client{
		httpClient:     httpClient,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		platformURL:    platformURL,
		regionalURL:    regionalURL,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logging.OrNop(cfg.Logger),
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) ListRecentMatches(ctx context.Context, puuid string, queue, count int) ([]string, error) {
	if strings.TrimSpace(puuid) == "" {
		return nil, fmt.Errorf("%w: puuid is required", usecase.ErrInvalidInput)
	}
	query := url.Values{}
	query.Set("start", "0")
	query.Set("count", strconv.Itoa(count))
	if queue > 0 {
		query.Set("queue", strconv.Itoa(queue))
	}

	var ids []string
	path := "/lol/match/v5/matches/by-puuid/" + url.PathEscape(puuid) + "/ids"
	if err := c.getJSON(ctx, c.regionalURL, path, query, &ids); err != nil {
		return nil, fmt.Errorf("list matches puuid=%s: %w", puuid, err)
	}
	return ids, nil
}

func (c *Client) GetMatch(ctx context.Context, matchID string) (usecase.RawMatch, error) {
	var payload usecase.RawMatch
	path := "/lol/match/v5/matches/" + url.PathEscape(matchID)
	if err := c.getJSON(ctx, c.regionalURL, path, nil, &payload); err != nil {
		return usecase.RawMatch{}, fmt.Errorf("get match %s: %w", matchID, err)
	}
	return payload, nil
}

func (c *Client) GetRankEntries(ctx context.Context, puuid string) ([]usecase.RawRankEntry, error) {
	var entries []usecase.RawRankEntry
	path := "/lol/league/v4/entries/by-puuid/" + url.PathEscape(puuid)
	if err := c.getJSON(ctx, c.platformURL, path, nil, &entries); err != nil {
		return nil, fmt.Errorf("get rank entries puuid=%s: %w", puuid, err)
	}
	return entries, nil
}

func (c *Client) GetChampionMastery(ctx context.Context, puuid string) ([]usecase.RawMastery, error) {
	var items []usecase.RawMastery
	path := "/lol/champion-mastery/v4/champion-masteries/by-puuid/" + url.PathEscape(puuid)
	if err := c.getJSON(ctx, c.platformURL, path, nil, &items); err != nil {
		return nil, fmt.Errorf("get champion mastery puuid=%s: %w", puuid, err)
	}
	return items, nil
}

type leagueListEnvelope struct {
	Tier    string                   `json:"tier"`
	Queue   string                   `json:"queue"`
	Entries []usecase.RawLeagueEntry `json:"entries"`
}

func (c *Client) GetLeagueStandings(ctx context.Context, queue, tier string) ([]usecase.RawLeagueEntry, error) {
	segment, ok := leagueTierPaths[strings.ToUpper(tier)]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported league tier %q", usecase.ErrInvalidInput, tier)
	}
	var envelope leagueListEnvelope
	path := "/lol/league/v4/" + segment + "/by-queue/" + url.PathEscape(queue)
	if err := c.getJSON(ctx, c.platformURL, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("get %s league: %w", tier, err)
	}
	return envelope.Entries, nil
}

func (c *Client) getJSON(ctx context.Context, baseURL, path string, query url.Values, target any) error {
	fullURL := baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	var raw []byte
	run := func() error {
		out, err, _ := c.flight.Do(fullURL, func() (any, error) {
			return c.executeRequest(ctx, fullURL)
		})
		if err != nil {
			return err
		}
		raw = out.([]byte)
		return nil
	}

	var err error
	if c.circuitEnabled {
		err = c.breaker.Execute(run, isCircuitFailure)
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "riot circuit breaker rejected request", "state", c.breaker.State())
			return crerr.Mark(fmt.Errorf("game data provider is temporarily unavailable: %w", err), usecase.ErrProviderUnavailable)
		}
	} else {
		err = run()
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode provider payload: %v", usecase.ErrInvalidInput, err)
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
		req.Header.Set(tokenHeader, c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Mark(fmt.Errorf("%w: send request: %s", errRiotTransient, c.redact(err.Error())), usecase.ErrProviderUnavailable)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Mark(fmt.Errorf("%w: read response body: %v", errRiotTransient, readErr), usecase.ErrProviderUnavailable)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			default:
				lastErr = statusError(resp.StatusCode, raw)
				if !isRetryableStatus(resp.StatusCode) {
					return nil, lastErr
				}
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
	c.logger.WarnContext(ctx, "riot request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// statusError maps an HTTP status to the usecase error taxonomy. Throttling is not
// retried here; callers skip the item and a later run picks it up.
func statusError(status int, body []byte) error {
	msg := fmt.Sprintf("provider status=%d body=%s", status, abbreviateBody(body))
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", usecase.ErrRateLimited, msg)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", usecase.ErrNotFound, msg)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", usecase.ErrDependencyUnavailable, msg)
	case status >= 500:
		return crerr.Mark(fmt.Errorf("%w: %s", errRiotTransient, msg), usecase.ErrProviderUnavailable)
	default:
		return fmt.Errorf("%w: %s", usecase.ErrInvalidInput, msg)
	}
}

func isRetryableStatus(status int) bool {
	return status >= 500
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errRiotTransient)
}

func (c *Client) redact(value string) string {
	if c.apiKey != "" {
		value = strings.ReplaceAll(value, c.apiKey, "REDACTED")
	}
	return apiKeyRegex.ReplaceAllString(value, "REDACTED")
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		return body[:256] + "..."
	}
	return body
}
