package ghl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/retailpos/internal/metrics"
	"github.com/edvin/retailpos/internal/model"
)

const (
	productPageSize  = 100
	priceConcurrency = 8
)

// Client calls the GHL products API on behalf of the connected location.
// A request rejected with 401 is retried once after a token refresh.
type Client struct {
	baseURL    string
	version    string
	locationID string
	oauth      *OAuth
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client. An empty locationID uses the location stored with the token.
func NewClient(baseURL, version, locationID string, oauth *OAuth, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		version:    version,
		locationID: locationID,
		oauth:      oauth,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("component", "ghl").Logger(),
	}
}

func (c *Client) location(token *Token) (string, error) {
	if c.locationID != "" {
		return c.locationID, nil
	}
	if token.LocationID != "" {
		return token.LocationID, nil
	}
	return "", fmt.Errorf("ghl: no location id configured or stored with token")
}

// do sends the request with the stored access token, refreshing and retrying
// once when the API answers 401.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	token, err := c.oauth.Token()
	if err != nil {
		return err
	}

	status, err := c.send(ctx, method, path, payload, token.AccessToken, result)
	if status != http.StatusUnauthorized {
		return err
	}

	c.logger.Info().Str("path", path).Msg("access token rejected, refreshing")
	token, err = c.oauth.refreshIfStale(ctx, token.AccessToken)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	status, err = c.send(ctx, method, path, payload, token.AccessToken, result)
	if status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, accessToken string, result any) (int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Version", c.version)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.GHLRequestDuration.WithLabelValues(method, "error").Observe(time.Since(start).Seconds())
		return 0, fmt.Errorf("ghl API request: %w", err)
	}
	defer resp.Body.Close()
	metrics.GHLRequestDuration.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode >= 400 {
		return resp.StatusCode, fmt.Errorf("ghl API %s %s: status %d", method, path, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// ListProducts returns every product of the location, following pagination.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	token, err := c.oauth.Token()
	if err != nil {
		return nil, err
	}
	locationID, err := c.location(token)
	if err != nil {
		return nil, err
	}

	var all []Product
	for offset := 0; ; offset += productPageSize {
		q := url.Values{}
		q.Set("locationId", locationID)
		q.Set("limit", strconv.Itoa(productPageSize))
		q.Set("offset", strconv.Itoa(offset))

		var resp listProductsResponse
		if err := c.do(ctx, http.MethodGet, "/products/?"+q.Encode(), nil, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Products...)
		if len(resp.Products) < productPageSize {
			break
		}
	}
	return all, nil
}

// ListPrices returns the prices of one product.
func (c *Client) ListPrices(ctx context.Context, productID string) ([]Price, error) {
	token, err := c.oauth.Token()
	if err != nil {
		return nil, err
	}
	locationID, err := c.location(token)
	if err != nil {
		return nil, err
	}

	var resp listPricesResponse
	path := fmt.Sprintf("/products/%s/price?locationId=%s", url.PathEscape(productID), url.QueryEscape(locationID))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Prices, nil
}

// ListInventory returns one register item per product, priced by the
// product's first price. Prices are fetched concurrently.
func (c *Client) ListInventory(ctx context.Context) ([]model.InventoryItem, error) {
	products, err := c.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	prices := make([][]Price, len(products))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(priceConcurrency)

	for i, p := range products {
		i, p := i, p
		g.Go(func() error {
			ps, err := c.ListPrices(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("list prices for %s: %w", p.ID, err)
			}
			prices[i] = ps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]model.InventoryItem, 0, len(products))
	for i, p := range products {
		item := model.InventoryItem{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			ImageURL:    p.Image,
		}
		if len(prices[i]) > 0 {
			price := prices[i][0]
			item.PriceID = price.ID
			item.Price = price.Amount
			item.Quantity = price.AvailableQuantity
			item.Currency = strings.ToLower(price.Currency)
		}
		items = append(items, item)
	}
	return items, nil
}

// UpdateAvailableQuantity sets a price's tracked stock level.
func (c *Client) UpdateAvailableQuantity(ctx context.Context, productID, priceID string, quantity int) error {
	token, err := c.oauth.Token()
	if err != nil {
		return err
	}
	locationID, err := c.location(token)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/products/%s/price/%s", url.PathEscape(productID), url.PathEscape(priceID))
	return c.do(ctx, http.MethodPut, path, updatePriceRequest{
		LocationID:        locationID,
		AvailableQuantity: quantity,
		TrackInventory:    true,
	}, nil)
}
