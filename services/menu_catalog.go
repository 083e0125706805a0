package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yeremiapane/burger-storefront/models"
	"github.com/yeremiapane/burger-storefront/utils"
)

var ErrProductNotFound = errors.New("product not found")

// feedRecord is one entry of the remote menu feed.
type feedRecord struct {
	ID      flexString `json:"id"`
	Dsc     string     `json:"dsc"`
	Name    string     `json:"name"`
	Img     string     `json:"img"`
	Price   flexNumber `json:"price"`
	Rate    flexNumber `json:"rate"`
	Country string     `json:"country"`
}

// flexNumber accepts a JSON number or a numeric string. Anything else leaves
// it invalid instead of failing the whole feed.
type flexNumber struct {
	Value float64
	Valid bool
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	n.Value, n.Valid = v, true
	return nil
}

type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	*f = flexString(strings.TrimSpace(string(b)))
	return nil
}

// Catalog is the in-memory product list, fetched once per process.
type Catalog struct {
	feedURL    string
	httpClient *http.Client

	mu        sync.RWMutex
	fetchMu   sync.Mutex
	attempted bool
	products  []models.MenuProduct
	err       error
}

func NewCatalog(feedURL string, client *http.Client) *Catalog {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Catalog{feedURL: feedURL, httpClient: client}
}

// FetchAll retrieves and normalizes the feed. Only the first call hits the
// network; later calls return the outcome of that attempt. A failed fetch
// leaves the catalog empty and is not retried.
func (c *Catalog) FetchAll(ctx context.Context) error {
	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()

	c.mu.RLock()
	attempted, err := c.attempted, c.err
	c.mu.RUnlock()
	if attempted {
		return err
	}

	products, err := c.fetch(ctx)

	c.mu.Lock()
	c.attempted = true
	c.err = err
	if err == nil {
		c.products = products
	}
	c.mu.Unlock()

	if err != nil {
		utils.Error().WithField("feed", c.feedURL).Errorf("Error fetching menu items: %v", err)
		return err
	}
	utils.Info().WithField("products", len(products)).Info("Menu catalog loaded")
	return nil
}

func (c *Catalog) fetch(ctx context.Context) ([]models.MenuProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menu feed returned status %d", resp.StatusCode)
	}

	var records []feedRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("error unmarshaling feed: %w", err)
	}

	products := make([]models.MenuProduct, 0, len(records))
	for _, r := range records {
		products = append(products, normalize(r))
	}
	return products, nil
}

func normalize(r feedRecord) models.MenuProduct {
	p := models.MenuProduct{
		ID:          string(r.ID),
		Name:        r.Dsc,
		Brand:       r.Name,
		Image:       strings.ReplaceAll(r.Img, `\u0026`, "&"),
		Country:     r.Country,
		Description: r.Dsc,
	}
	if r.Price.Valid && r.Price.Value >= 0 {
		p.Price = r.Price.Value
	}
	if r.Rate.Valid && r.Rate.Value >= 0 && r.Rate.Value <= 5 {
		rate := r.Rate.Value
		p.Rating = &rate
	}
	return p
}

// Loaded reports whether a fetch has been attempted.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.attempted
}

// Err is the error of the fetch attempt, if any.
func (c *Catalog) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Products returns the catalog in fetch order.
func (c *Catalog) Products() []models.MenuProduct {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.MenuProduct, len(c.products))
	copy(out, c.products)
	return out
}

// Categories lists the distinct countries, sorted.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return distinctCountries(c.products)
}

func distinctCountries(products []models.MenuProduct) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range products {
		if !seen[p.Country] {
			seen[p.Country] = true
			out = append(out, p.Country)
		}
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) Find(id string) (models.MenuProduct, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.MenuProduct{}, ErrProductNotFound
}
