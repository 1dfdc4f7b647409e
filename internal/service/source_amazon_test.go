package service

import (
	"errors"
	"testing"

	"github.com/namostri/catalog_api/internal/models"
	"github.com/namostri/catalog_api/internal/utils"
	"github.com/namostri/catalog_api/pkg/amazon"
)

func TestAmazonNormalize(t *testing.T) {
	raw := &amazon.Item{
		ASIN:         "B0DX1Y2Z3A4B",
		Title:        "Printed Rayon Ethnic Wear",
		Price:        amazon.Price{Value: "1299.00"},
		Rating:       4.3,
		ReviewsCount: 217,
		Description:  "Lightweight printed rayon.",
		Image:        "https://m.media-amazon.com/images/x.jpg",
		Brand:        "Artisan Wear",
		Category:     "Ethnic Wear",
	}

	p, err := normalizeAmazonItem(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if p.AmazonID == nil || *p.AmazonID != "B0DX1Y2Z3A4B" {
		t.Errorf("amazon_id = %v", p.AmazonID)
	}
	if p.ASIN != "B0DX1Y2Z3A4B" {
		t.Errorf("asin = %q, want the same value as amazon_id", p.ASIN)
	}
	if p.ShopifyID != nil {
		t.Error("shopify_id set on an amazon record")
	}
	if p.Source != models.SourceAmazon {
		t.Errorf("source = %q", p.Source)
	}
	if p.Price != "1299.00" {
		t.Errorf("price = %q", p.Price)
	}
	if p.Vendor != "Artisan Wear" || p.ProductType != "Ethnic Wear" {
		t.Errorf("vendor/type = %q/%q", p.Vendor, p.ProductType)
	}
	if p.Rating != 4.3 || p.ReviewsCount != 217 {
		t.Errorf("rating/reviews = %v/%d", p.Rating, p.ReviewsCount)
	}
	if p.Image.Src != raw.Image || p.Image.Alt != raw.Title {
		t.Errorf("image = %+v", p.Image)
	}
	if len(p.Images) != 1 {
		t.Errorf("images = %+v", p.Images)
	}
}

func TestAmazonNormalizeForcesActiveStatus(t *testing.T) {
	p, err := normalizeAmazonItem(&amazon.Item{ASIN: "B0DAAAAAAAA1", Title: "Minimal"})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if p.Status != models.StatusActive {
		t.Errorf("status = %q, want forced active", p.Status)
	}
}

func TestAmazonNormalizeDefaults(t *testing.T) {
	p, err := normalizeAmazonItem(&amazon.Item{ASIN: "B0DAAAAAAAA2", Title: "Minimal"})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if p.Vendor != "Amazon" {
		t.Errorf("vendor = %q, want Amazon default", p.Vendor)
	}
	if p.ProductType != "Product" {
		t.Errorf("product_type = %q, want Product default", p.ProductType)
	}
	if p.Image != (models.Image{}) || len(p.Images) != 0 {
		t.Errorf("image fields populated without an upstream image: %+v %+v", p.Image, p.Images)
	}
}

func TestAmazonNormalizeRejectsMissingTitle(t *testing.T) {
	_, err := normalizeAmazonItem(&amazon.Item{ASIN: "B0DAAAAAAAA3"})
	if !errors.Is(err, utils.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestAmazonNormalizeRejectsMissingASIN(t *testing.T) {
	_, err := normalizeAmazonItem(&amazon.Item{Title: "No Identifier"})
	if !errors.Is(err, utils.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}
