package service

import (
	"context"
	"fmt"

	"github.com/namostri/catalog_api/internal/models"
	"github.com/namostri/catalog_api/internal/utils"
	"github.com/namostri/catalog_api/pkg/amazon"
)

// AmazonSource adapts the Amazon product search client into a Source.
type AmazonSource struct {
	client   *amazon.Client
	keywords string
	country  string
}

// NewAmazonSource constructs an AmazonSource. The keyword set drives the
// search query that stands in for a catalog page.
func NewAmazonSource(client *amazon.Client, keywords, country string) *AmazonSource {
	return &AmazonSource{client: client, keywords: keywords, country: country}
}

// Code returns the source discriminator.
func (s *AmazonSource) Code() models.SourceCode {
	return models.SourceAmazon
}

// Fetch runs the configured search and normalizes each result into a
// canonical record. Records without a title are skipped individually.
func (s *AmazonSource) Fetch(ctx context.Context) ([]models.Product, []error, error) {
	raw, err := s.client.SearchProducts(ctx, s.keywords, s.country)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: amazon fetch: %v", utils.ErrUpstream, err)
	}

	products := make([]models.Product, 0, len(raw))
	var skipped []error
	for i := range raw {
		p, err := normalizeAmazonItem(&raw[i])
		if err != nil {
			skipped = append(skipped, fmt.Errorf("amazon product %s: %w", raw[i].ASIN, err))
			continue
		}
		products = append(products, *p)
	}
	return products, skipped, nil
}

// normalizeAmazonItem maps one raw search item to the canonical schema.
// The ASIN doubles as the external identifier and the native catalog id.
// Rating and review count default to zero when absent; the upstream carries
// no publication state, so status is always forced to active.
func normalizeAmazonItem(item *amazon.Item) (*models.Product, error) {
	externalID := item.ASIN

	vendor := item.Brand
	if vendor == "" {
		vendor = "Amazon"
	}
	productType := item.Category
	if productType == "" {
		productType = "Product"
	}

	p := &models.Product{
		Title:        item.Title,
		Description:  item.Description,
		Price:        item.Price.Value,
		Vendor:       vendor,
		ProductType:  productType,
		Status:       models.StatusActive,
		Source:       models.SourceAmazon,
		AmazonID:     &externalID,
		ASIN:         item.ASIN,
		Rating:       item.Rating,
		ReviewsCount: item.ReviewsCount,
	}
	if item.Image != "" {
		p.Image = models.Image{Src: item.Image, Alt: item.Title}
		p.Images = models.ImageList{{Src: item.Image, Alt: item.Title}}
	}

	p.Clean()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}
	return p, nil
}
