// Package content holds the storefront's display strings and pricing constants.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultDocument []byte

// PlaceholderImage is shown for line items and products without an image.
const PlaceholderImage = "/static/img/placeholder-burger.svg"

type Offer struct {
	ID            string  `yaml:"id" json:"id"`
	Name          string  `yaml:"name" json:"name"`
	OriginalPrice float64 `yaml:"originalPrice" json:"originalPrice,omitempty"`
	Price         float64 `yaml:"price" json:"price"`
	Discount      string  `yaml:"discount" json:"discount,omitempty"`
	Image         string  `yaml:"img" json:"img"`
	Description   string  `yaml:"description" json:"description"`
}

type Benefit struct {
	Icon        string `yaml:"icon" json:"icon"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

type Constants struct {
	DeliveryFee      float64       `yaml:"deliveryFee"`
	TaxRate          float64       `yaml:"taxRate"`
	CarouselInterval time.Duration `yaml:"carouselInterval"`
	Currency         string        `yaml:"currency"`
}

// Store is the read-only content lookup shared by every page.
type Store struct {
	Texts         map[string]string `yaml:"texts"`
	SpecialOffers []Offer           `yaml:"specialOffers"`
	Benefits      []Benefit         `yaml:"benefits"`
	Constants     Constants         `yaml:"constants"`
}

// Default parses the embedded document.
func Default() (*Store, error) {
	return Parse(defaultDocument)
}

// MustDefault is Default for package init and tests.
func MustDefault() *Store {
	s, err := Default()
	if err != nil {
		panic(err)
	}
	return s
}

// LoadFile parses a content document from disk.
func LoadFile(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Store, error) {
	var s Store
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if s.Texts == nil {
		s.Texts = map[string]string{}
	}
	if s.Constants.Currency == "" {
		s.Constants.Currency = "JOD"
	}
	if s.Constants.CarouselInterval <= 0 {
		s.Constants.CarouselInterval = 2500 * time.Millisecond
	}
	return &s, nil
}

// Text returns the string stored under key, or "" when the key is unknown.
func (s *Store) Text(key string) string {
	return s.Texts[key]
}

// TextOr returns the string under key, falling back to def.
func (s *Store) TextOr(key, def string) string {
	if v, ok := s.Texts[key]; ok && v != "" {
		return v
	}
	return def
}

// Overrides are configured replacements for the constants. A nil fee or
// rate, a zero interval or an empty currency keeps the loaded value.
type Overrides struct {
	DeliveryFee      *float64
	TaxRate          *float64
	CarouselInterval time.Duration
	Currency         string
}

func (s *Store) Override(o Overrides) {
	if o.DeliveryFee != nil {
		s.Constants.DeliveryFee = *o.DeliveryFee
	}
	if o.TaxRate != nil {
		s.Constants.TaxRate = *o.TaxRate
	}
	if o.CarouselInterval > 0 {
		s.Constants.CarouselInterval = o.CarouselInterval
	}
	if o.Currency != "" {
		s.Constants.Currency = o.Currency
	}
}
