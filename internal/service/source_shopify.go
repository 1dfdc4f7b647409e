package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/namostri/catalog_api/internal/models"
	"github.com/namostri/catalog_api/internal/utils"
	"github.com/namostri/catalog_api/pkg/shopify"
)

// ShopifySource adapts the Shopify Admin API client into a Source.
type ShopifySource struct {
	client      *shopify.Client
	storeDomain string
}

// NewShopifySource constructs a ShopifySource.
func NewShopifySource(client *shopify.Client, storeDomain string) *ShopifySource {
	return &ShopifySource{client: client, storeDomain: storeDomain}
}

// Code returns the source discriminator.
func (s *ShopifySource) Code() models.SourceCode {
	return models.SourceShopify
}

// Fetch pulls one page of active products and normalizes each into a
// canonical record. Records without a title are skipped individually.
func (s *ShopifySource) Fetch(ctx context.Context) ([]models.Product, []error, error) {
	raw, err := s.client.GetProducts(ctx, 250, "active")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: shopify fetch: %v", utils.ErrUpstream, err)
	}

	products := make([]models.Product, 0, len(raw))
	var skipped []error
	for i := range raw {
		p, err := s.normalize(&raw[i])
		if err != nil {
			skipped = append(skipped, fmt.Errorf("shopify product %d: %w", raw[i].ID, err))
			continue
		}
		products = append(products, *p)
	}
	return products, skipped, nil
}

// normalize maps one raw Shopify product to the canonical schema. Identifiers
// are stringified, images and variants mapped field by field, options carried
// through verbatim, and the upstream status kept as-is.
func (s *ShopifySource) normalize(raw *shopify.Product) (*models.Product, error) {
	externalID := strconv.FormatInt(raw.ID, 10)

	p := &models.Product{
		Title:             raw.Title,
		BodyHTML:          raw.BodyHTML,
		Vendor:            raw.Vendor,
		ProductType:       raw.ProductType,
		Status:            models.Status(raw.Status),
		Source:            models.SourceShopify,
		ShopifyID:         &externalID,
		ShopDomain:        s.storeDomain,
		AdminGraphqlAPIID: raw.AdminGraphqlAPIID,
		Handle:            raw.Handle,
		CreatedAt:         raw.CreatedAt,
		UpdatedAt:         raw.UpdatedAt,
		PublishedAt:       raw.PublishedAt,
	}
	if p.Status == "" {
		p.Status = models.StatusActive
	}

	if raw.Image != nil {
		p.Image = mapShopifyImage(raw.Image)
	}
	for i := range raw.Images {
		p.Images = append(p.Images, mapShopifyImage(&raw.Images[i]))
	}
	for _, v := range raw.Variants {
		variant := models.Variant{
			ID:                strconv.FormatInt(v.ID, 10),
			Title:             v.Title,
			Price:             v.Price,
			SKU:               v.SKU,
			InventoryQuantity: v.InventoryQuantity,
			CompareAtPrice:    v.CompareAtPrice,
		}
		if v.ImageID != nil {
			variant.ImageID = strconv.FormatInt(*v.ImageID, 10)
		}
		p.Variants = append(p.Variants, variant)
	}
	for _, o := range raw.Options {
		p.Options = append(p.Options, models.Option{
			ID:     strconv.FormatInt(o.ID, 10),
			Name:   o.Name,
			Values: o.Values,
		})
	}

	p.Clean()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}
	return p, nil
}

func mapShopifyImage(img *shopify.Image) models.Image {
	return models.Image{
		ID:       strconv.FormatInt(img.ID, 10),
		Src:      img.Src,
		Alt:      img.Alt,
		Width:    img.Width,
		Height:   img.Height,
		Position: img.Position,
	}
}
