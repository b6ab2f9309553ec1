package ddragon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/lol-dataset/internal/platform/cache"
	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
	"github.com/riskibarqy/lol-dataset/internal/usecase"
)

const (
	defaultBaseURL  = "https://ddragon.leagueoflegends.com"
	defaultLanguage = "en_US"
	maxBodyBytes    = 16 << 20
)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	// Version pins a patch such as "14.20.1"; empty resolves the newest published version.
	Version  string
	Language string
	Timeout  time.Duration
	CacheTTL time.Duration
	Logger   *logging.Logger
}

// Client reads the static champion and rune catalogs. It implements usecase.StaticDataProvider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	version    string
	language   string
	champions  *cache.Store[[]usecase.Champion]
	runes      *cache.Store[usecase.RuneCatalog]
	versions   *cache.Store[string]
	logger     *logging.Logger
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
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		language = defaultLanguage
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		version:    strings.TrimSpace(cfg.Version),
		language:   language,
		champions:  cache.NewStore[[]usecase.Champion](ttl),
		runes:      cache.NewStore[usecase.RuneCatalog](ttl),
		versions:   cache.NewStore[string](ttl),
		logger:     logging.OrNop(cfg.Logger),
	}
}

type championListPayload struct {
	Version string                     `json:"version"`
	Data    map[string]championPayload `json:"data"`
}

type championPayload struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type runeTreePayload struct {
	ID    int    `json:"id"`
	Key   string `json:"key"`
	Slots []struct {
		Runes []struct {
			ID  int    `json:"id"`
			Key string `json:"key"`
		} `json:"runes"`
	} `json:"slots"`
}

// Champions lists every champion sorted by numeric id.
func (c *Client) Champions(ctx context.Context) ([]usecase.Champion, error) {
	return c.champions.GetOrLoad(ctx, "champions", func(ctx context.Context) ([]usecase.Champion, error) {
		version, err := c.resolveVersion(ctx)
		if err != nil {
			return nil, err
		}
		var payload championListPayload
		if err := c.getJSON(ctx, c.dataPath(version, "champion.json"), &payload); err != nil {
			return nil, fmt.Errorf("load champions: %w", err)
		}

		out := make([]usecase.Champion, 0, len(payload.Data))
		for _, item := range payload.Data {
			id, err := strconv.Atoi(item.Key)
			if err != nil {
				c.logger.WarnContext(ctx, "skip champion with non numeric key", "champion", item.ID, "key", item.Key)
				continue
			}
			out = append(out, usecase.Champion{ID: id, Key: item.ID, Name: item.Name})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out, nil
	})
}

// Runes splits runesReforged into keystones (first slot of every tree) and the remaining slots.
func (c *Client) Runes(ctx context.Context) (usecase.RuneCatalog, error) {
	return c.runes.GetOrLoad(ctx, "runes", func(ctx context.Context) (usecase.RuneCatalog, error) {
		version, err := c.resolveVersion(ctx)
		if err != nil {
			return usecase.RuneCatalog{}, err
		}
		var trees []runeTreePayload
		if err := c.getJSON(ctx, c.dataPath(version, "runesReforged.json"), &trees); err != nil {
			return usecase.RuneCatalog{}, fmt.Errorf("load runes: %w", err)
		}

		var catalog usecase.RuneCatalog
		for _, tree := range trees {
			for slotIdx, slot := range tree.Slots {
				for _, r := range slot.Runes {
					if slotIdx == 0 {
						catalog.Primary = append(catalog.Primary, r.ID)
						continue
					}
					catalog.Secondary = append(catalog.Secondary, r.ID)
				}
			}
		}
		return catalog, nil
	})
}

func (c *Client) resolveVersion(ctx context.Context) (string, error) {
	if c.version != "" {
		return c.version, nil
	}
	return c.versions.GetOrLoad(ctx, "latest", func(ctx context.Context) (string, error) {
		var versions []string
		if err := c.getJSON(ctx, "/api/versions.json", &versions); err != nil {
			return "", fmt.Errorf("load versions: %w", err)
		}
		if len(versions) == 0 {
			return "", fmt.Errorf("%w: no published versions", usecase.ErrNotFound)
		}
		return versions[0], nil
	})
}

func (c *Client) dataPath(version, file string) string {
	return fmt.Sprintf("/cdn/%s/data/%s/%s", version, c.language, file)
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: send request %s: %v", usecase.ErrProviderUnavailable, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read response body: %v", usecase.ErrProviderUnavailable, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", usecase.ErrNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: %s status=%d", usecase.ErrProviderUnavailable, path, resp.StatusCode)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode %s: %v", usecase.ErrInvalidInput, path, err)
	}
	return nil
}
