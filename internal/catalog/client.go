package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shoppyglobe/internal/domain"
)

var (
	// ErrNotFound is returned when the catalog service has no product for the
	// requested id.
	ErrNotFound = errors.New("product not found")
)

// Client talks to the remote product service. Both endpoints are read-only
// GETs with no auth; every call hits the network, there is no caching layer.
type Client struct {
	baseURL    string
	limit      int
	httpClient *http.Client
}

// NewClient creates a catalog client. The timeout bounds each request; a
// timed-out fetch surfaces as an ordinary transport error.
func NewClient(baseURL string, limit int, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		limit:      limit,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// List fetches the product list, up to the configured limit, in the order the
// service returns it.
func (c *Client) List(ctx context.Context) ([]domain.Product, error) {
	url := fmt.Sprintf("%s/products?limit=%d", c.baseURL, c.limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("catalog service responded with status %d", resp.StatusCode)
	}

	var page domain.ProductPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode product list: %w", err)
	}

	return page.Products, nil
}

// Get fetches a single product by id. A 404 from the service maps to
// ErrNotFound.
func (c *Client) Get(ctx context.Context, id int) (*domain.Product, error) {
	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build detail request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("catalog service responded with status %d", resp.StatusCode)
	}

	var product domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode product %d: %w", id, err)
	}

	return &product, nil
}
