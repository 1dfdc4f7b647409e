package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SourceCode identifies the upstream catalog a product was ingested from.
type SourceCode string

const (
	SourceShopify SourceCode = "shopify"
	SourceAmazon  SourceCode = "amazon"
)

// Valid reports whether the source code is one of the known upstreams.
func (s SourceCode) Valid() bool {
	return s == SourceShopify || s == SourceAmazon
}

// Status enumerates the product publication states.
type Status string

const (
	StatusActive   Status = "active"
	StatusDraft    Status = "draft"
	StatusArchived Status = "archived"
)

// Valid reports whether the status is one of the known states.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusDraft || s == StatusArchived
}

// Image describes a product image. Stored as a JSONB column.
type Image struct {
	ID       string `json:"id,omitempty"`
	Src      string `json:"src,omitempty"`
	Alt      string `json:"alt,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Position int    `json:"position,omitempty"`
}

// Value serializes the image for storage. A zero image maps to NULL so the
// absent-image convention survives a round trip.
func (i Image) Value() (driver.Value, error) {
	if i == (Image{}) {
		return nil, nil
	}
	return json.Marshal(i)
}

// Scan deserializes the image from a JSONB column.
func (i *Image) Scan(src any) error {
	if src == nil {
		*i = Image{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported image column type %T", src)
	}
	return json.Unmarshal(b, i)
}

// ImageList is an ordered set of secondary images stored as JSONB.
type ImageList []Image

func (l ImageList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *ImageList) Scan(src any) error {
	return scanJSONList(src, l)
}

// Variant is a storefront product variant carried through verbatim.
type Variant struct {
	ID                string `json:"id,omitempty"`
	Title             string `json:"title,omitempty"`
	Price             string `json:"price,omitempty"`
	SKU               string `json:"sku,omitempty"`
	InventoryQuantity int    `json:"inventory_quantity,omitempty"`
	CompareAtPrice    string `json:"compare_at_price,omitempty"`
	ImageID           string `json:"image_id,omitempty"`
}

// VariantList is stored as JSONB.
type VariantList []Variant

func (l VariantList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *VariantList) Scan(src any) error {
	return scanJSONList(src, l)
}

// Option is a storefront product option (e.g. Size, Color).
type Option struct {
	ID     string   `json:"id,omitempty"`
	Name   string   `json:"name,omitempty"`
	Values []string `json:"values,omitempty"`
}

// OptionList is stored as JSONB.
type OptionList []Option

func (l OptionList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *OptionList) Scan(src any) error {
	return scanJSONList(src, l)
}

func scanJSONList(src, dst any) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported list column type %T", src)
	}
	return json.Unmarshal(b, dst)
}

// Product is the canonical record every source normalizes into.
// Exactly one of ShopifyID/AmazonID is populated, matching Source.
type Product struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description,omitempty"`
	BodyHTML    string     `db:"body_html" json:"body_html,omitempty"`
	Price       string     `db:"price" json:"price,omitempty"`
	Vendor      string     `db:"vendor" json:"vendor,omitempty"`
	ProductType string     `db:"product_type" json:"product_type,omitempty"`
	Status      Status     `db:"status" json:"status"`
	Source      SourceCode `db:"source" json:"source"`

	// Shopify extension fields
	ShopifyID         *string     `db:"shopify_id" json:"shopify_id,omitempty"`
	ShopDomain        string      `db:"shop_domain" json:"shop_domain,omitempty"`
	AdminGraphqlAPIID string      `db:"admin_graphql_api_id" json:"admin_graphql_api_id,omitempty"`
	Handle            string      `db:"handle" json:"handle,omitempty"`
	Image             Image       `db:"image" json:"image"`
	Images            ImageList   `db:"images" json:"images,omitempty"`
	Variants          VariantList `db:"variants" json:"variants,omitempty"`
	Options           OptionList  `db:"options" json:"options,omitempty"`

	// Amazon extension fields
	AmazonID     *string `db:"amazon_id" json:"amazon_id,omitempty"`
	ASIN         string  `db:"asin" json:"asin,omitempty"`
	Rating       float64 `db:"rating" json:"rating,omitempty"`
	ReviewsCount int     `db:"reviews_count" json:"reviews_count,omitempty"`

	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	SyncedAt    *time.Time `db:"synced_at" json:"synced_at,omitempty"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
}

// ExternalID returns the source-scoped external identifier. The pair
// (Source, ExternalID) is the upsert key.
func (p *Product) ExternalID() string {
	switch p.Source {
	case SourceShopify:
		if p.ShopifyID != nil {
			return *p.ShopifyID
		}
	case SourceAmazon:
		if p.AmazonID != nil {
			return *p.AmazonID
		}
	}
	return ""
}

// Clean trims free-text fields in place before validation or persistence.
func (p *Product) Clean() {
	p.Title = strings.TrimSpace(p.Title)
	p.Vendor = strings.TrimSpace(p.Vendor)
	p.Description = strings.TrimSpace(p.Description)
}

// Validate checks the record invariants: required non-empty title, a known
// source with its external identifier populated, a known status, and a
// well-formed non-negative price when one is present.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("title is required")
	}
	if !p.Source.Valid() {
		return fmt.Errorf("source must be %q or %q", SourceShopify, SourceAmazon)
	}
	if p.ShopifyID != nil && p.AmazonID != nil {
		return errors.New("shopify_id and amazon_id are mutually exclusive")
	}
	if p.ExternalID() == "" {
		return fmt.Errorf("%s product is missing its external identifier", p.Source)
	}
	if p.Status != "" && !p.Status.Valid() {
		return fmt.Errorf("invalid status %q", p.Status)
	}
	if p.Price != "" {
		d, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("price must be a valid decimal: %w", err)
		}
		if d.IsNegative() {
			return errors.New("price must not be negative")
		}
	}
	return nil
}

// FormatPrice normalizes a raw price string to two decimal places.
// Empty or unparseable input maps to "0.00", matching the contract for
// manually created records.
func FormatPrice(raw string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}
