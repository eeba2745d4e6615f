package steam

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"kit-inventory/internal/domain/steam"

	"github.com/goccy/go-json"
)

const defaultTimeout = 5 * time.Second

var (
	ErrGameNotFound = errors.New("steam: game not found")
	ErrUpstream     = errors.New("steam: upstream failure")
)

type Config struct {
	BaseURL  string
	Country  string
	Language string
}

// Client looks up store prices through the Steam appdetails endpoint. Answers are
// cached per app id.
type Client struct {
	client *http.Client
	cache  PriceCache
	config Config
}

func NewClient(cfg Config, cache PriceCache) *Client {
	return &Client{
		client: &http.Client{Timeout: defaultTimeout},
		cache:  cache,
		config: cfg,
	}
}

type appDetails struct {
	Success bool `json:"success"`
	Data    *struct {
		Name          string  `json:"name"`
		HeaderImage   *string `json:"header_image"`
		PriceOverview *struct {
			Currency        *string `json:"currency"`
			Final           *int    `json:"final"`
			DiscountPercent *int    `json:"discount_percent"`
		} `json:"price_overview"`
	} `json:"data"`
}

func (c *Client) Price(ctx context.Context, appID int64) (steam.Price, error) {
	if p, ok := c.cache.Get(ctx, appID); ok {
		return p, nil
	}

	p, err := c.fetch(ctx, appID)
	if err != nil {
		return steam.Price{}, err
	}
	c.cache.Set(ctx, appID, p)
	return p, nil
}

func (c *Client) fetch(ctx context.Context, appID int64) (steam.Price, error) {
	key := strconv.FormatInt(appID, 10)
	q := url.Values{}
	q.Set("appids", key)
	q.Set("cc", c.config.Country)
	q.Set("l", c.config.Language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return steam.Price{}, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return steam.Price{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return steam.Price{}, fmt.Errorf("%w: unexpected status code %d", ErrUpstream, resp.StatusCode)
	}

	var body map[string]appDetails
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return steam.Price{}, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	entry, ok := body[key]
	if !ok {
		return steam.Price{}, fmt.Errorf("%w: response missing app %s", ErrUpstream, key)
	}
	if !entry.Success || entry.Data == nil {
		return steam.Price{}, ErrGameNotFound
	}

	out := steam.Price{AppID: appID, Name: entry.Data.Name, Image: entry.Data.HeaderImage}
	if po := entry.Data.PriceOverview; po != nil {
		if po.Final != nil {
			v := float64(*po.Final) / 100
			out.Price = &v
		}
		out.Currency = po.Currency
		out.Discount = po.DiscountPercent
	}
	return out, nil
}
