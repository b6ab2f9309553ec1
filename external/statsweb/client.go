package statsweb

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/lol-dataset/internal/platform/cache"
	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
	"github.com/riskibarqy/lol-dataset/internal/usecase"
)

const (
	defaultRuneStatsBaseURL = "https://leagueofitems.com"
	defaultLaneStatsBaseURL = "https://www.op.gg"
	defaultUserAgent        = "Mozilla/5.0 (X11; Linux x86_64) lol-dataset"
	compositionSize         = 10
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// ChampionCatalog resolves champion ids to display names.
type ChampionCatalog interface {
	Champions(ctx context.Context) ([]usecase.Champion, error)
}

type Config struct {
	RuneStatsBaseURL string
	LaneStatsBaseURL string
	// CompAnalyzerURL is the composition analyzer page; empty disables CompositionScore.
	CompAnalyzerURL string
	Region          string
	Tier            string
	Timeout         time.Duration
	CacheTTL        time.Duration
	Logger          *logging.Logger
}

// Client scrapes aggregate champion statistics from public pages. Pages are cached per URL,
// so one champion page serves every rune lookup of that champion.
type Client struct {
	http      *fasthttp.Client
	catalog   ChampionCatalog
	runeURL   string
	laneURL   string
	compURL   string
	region    string
	tier      string
	timeout   time.Duration
	pages     *cache.Store[[]byte]
	champions *cache.Store[map[int]string]
	logger    *logging.Logger
}

func NewClient(cfg Config, catalog ChampionCatalog) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	runeURL := strings.TrimRight(strings.TrimSpace(cfg.RuneStatsBaseURL), "/")
	if runeURL == "" {
		runeURL = defaultRuneStatsBaseURL
	}
	laneURL := strings.TrimRight(strings.TrimSpace(cfg.LaneStatsBaseURL), "/")
	if laneURL == "" {
		laneURL = defaultLaneStatsBaseURL
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "br"
	}
	tier := strings.TrimSpace(cfg.Tier)
	if tier == "" {
		tier = "diamond_plus"
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                defaultUserAgent,
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: time.Minute,
		},
		catalog:   catalog,
		runeURL:   runeURL,
		laneURL:   laneURL,
		compURL:   strings.TrimSpace(cfg.CompAnalyzerURL),
		region:    region,
		tier:      tier,
		timeout:   cfg.Timeout,
		pages:     cache.NewStore[[]byte](cfg.CacheTTL),
		champions: cache.NewStore[map[int]string](cfg.CacheTTL),
		logger:    logging.OrNop(cfg.Logger),
	}
}

// RuneStats reads the rune card linking to /runes/{runeID} on the champion page. The card's
// second paragraph is the win rate and its fourth the pick rate.
func (c *Client) RuneStats(ctx context.Context, championID, runeID int) (usecase.RateStat, error) {
	doc, err := c.document(ctx, fmt.Sprintf("%s/champions/%d", c.runeURL, championID))
	if err != nil {
		return usecase.RateStat{}, err
	}

	link := doc.Find(fmt.Sprintf(`a[href="/runes/%d"]`, runeID)).First()
	if link.Length() == 0 {
		return usecase.RateStat{}, fmt.Errorf("%w: rune %d not listed for champion %d", usecase.ErrLookupMiss, runeID, championID)
	}
	paragraphs := link.Find("p")
	if paragraphs.Length() < 4 {
		return usecase.RateStat{}, fmt.Errorf("%w: rune %d card has %d values", usecase.ErrLookupMiss, runeID, paragraphs.Length())
	}

	winRate, err := parsePercent(paragraphs.Eq(1).Text())
	if err != nil {
		return usecase.RateStat{}, err
	}
	pickRate, err := parsePercent(paragraphs.Eq(3).Text())
	if err != nil {
		return usecase.RateStat{}, err
	}
	return usecase.RateStat{WinRate: winRate, PickRate: pickRate}, nil
}

// LaneStats reads the first two rate containers of the champion build page for lane.
func (c *Client) LaneStats(ctx context.Context, championID int, lane string) (usecase.RateStat, error) {
	name, err := c.championName(ctx, championID)
	if err != nil {
		return usecase.RateStat{}, err
	}

	query := url.Values{}
	query.Set("region", c.region)
	query.Set("tier", c.tier)
	query.Set("type", "ranked")
	pageURL := fmt.Sprintf("%s/champions/%s/build/%s?%s", c.laneURL, url.PathEscape(slug(name)), url.PathEscape(lane), query.Encode())

	doc, err := c.document(ctx, pageURL)
	if err != nil {
		return usecase.RateStat{}, err
	}
	rates := doc.Find("div.rate-container strong")
	if rates.Length() < 2 {
		return usecase.RateStat{}, fmt.Errorf("%w: no lane rates for champion %d lane %s", usecase.ErrLookupMiss, championID, lane)
	}

	winRate, err := parsePercent(rates.Eq(0).Text())
	if err != nil {
		return usecase.RateStat{}, err
	}
	pickRate, err := parsePercent(rates.Eq(1).Text())
	if err != nil {
		return usecase.RateStat{}, err
	}
	return usecase.RateStat{WinRate: winRate, PickRate: pickRate}, nil
}

// CompositionScore asks the analyzer page for the ten champions in participant order.
func (c *Client) CompositionScore(ctx context.Context, championIDs []int) (usecase.CompositionScore, error) {
	if len(championIDs) != compositionSize {
		return usecase.CompositionScore{}, fmt.Errorf("%w: got %d", usecase.ErrInvalidComposition, len(championIDs))
	}
	if c.compURL == "" {
		return usecase.CompositionScore{}, fmt.Errorf("%w: composition analyzer is not configured", usecase.ErrDependencyUnavailable)
	}

	names := make([]string, 0, len(championIDs))
	for _, id := range championIDs {
		name, err := c.championName(ctx, id)
		if err != nil {
			return usecase.CompositionScore{}, err
		}
		names = append(names, name)
	}

	query := url.Values{}
	query.Set("champions", strings.Join(names, ","))
	separator := "?"
	if strings.Contains(c.compURL, "?") {
		separator = "&"
	}

	doc, err := c.document(ctx, c.compURL+separator+query.Encode())
	if err != nil {
		return usecase.CompositionScore{}, err
	}
	risk, err := parsePercent(doc.Find("span.risk").First().Text())
	if err != nil {
		return usecase.CompositionScore{}, fmt.Errorf("risk value: %w", err)
	}
	winRate, err := parsePercent(doc.Find("span.win-rate").First().Text())
	if err != nil {
		return usecase.CompositionScore{}, fmt.Errorf("win rate: %w", err)
	}
	return usecase.CompositionScore{Risk: risk, WinRate: winRate}, nil
}

func (c *Client) championName(ctx context.Context, championID int) (string, error) {
	if c.catalog == nil {
		return "", fmt.Errorf("%w: champion catalog is not configured", usecase.ErrDependencyUnavailable)
	}
	names, err := c.champions.GetOrLoad(ctx, "champions", func(ctx context.Context) (map[int]string, error) {
		items, err := c.catalog.Champions(ctx)
		if err != nil {
			return nil, fmt.Errorf("load champion catalog: %w", err)
		}
		out := make(map[int]string, len(items))
		for _, item := range items {
			out[item.ID] = item.Name
		}
		return out, nil
	})
	if err != nil {
		return "", err
	}
	name, ok := names[championID]
	if !ok {
		return "", fmt.Errorf("%w: unknown champion id %d", usecase.ErrLookupMiss, championID)
	}
	return name, nil
}

func (c *Client) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := c.pages.GetOrLoad(ctx, pageURL, func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, pageURL)
	})
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", pageURL, err)
	}
	return doc, nil
}

func (c *Client) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(pageURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "text/html")

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", usecase.ErrProviderUnavailable, pageURL, err)
	}

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: fetch %s", usecase.ErrRateLimited, pageURL)
	case status == fasthttp.StatusNotFound:
		return nil, fmt.Errorf("%w: fetch %s", usecase.ErrNotFound, pageURL)
	case status != fasthttp.StatusOK:
		return nil, fmt.Errorf("%w: fetch %s status=%d", usecase.ErrProviderUnavailable, pageURL, status)
	}

	c.logger.DebugContext(ctx, "stats page fetched", "url", pageURL, "bytes", len(resp.Body()))
	return append([]byte(nil), resp.Body()...), nil
}

// parsePercent accepts values such as "51.3%", " 4,2 % " or "12".
func parsePercent(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	value = strings.TrimSuffix(value, "%")
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	if value == "" {
		return 0, fmt.Errorf("%w: empty rate value", usecase.ErrLookupMiss)
	}
	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: rate value %q", usecase.ErrLookupMiss, raw)
	}
	return out, nil
}

func slug(name string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(name), "")
}
