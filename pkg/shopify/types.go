package shopify

import "time"

// Product is a raw product as returned by the Shopify Admin REST API.
type Product struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	BodyHTML          string     `json:"body_html"`
	Vendor            string     `json:"vendor"`
	ProductType       string     `json:"product_type"`
	Handle            string     `json:"handle"`
	Status            string     `json:"status"`
	AdminGraphqlAPIID string     `json:"admin_graphql_api_id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	PublishedAt       *time.Time `json:"published_at"`
	Image             *Image     `json:"image"`
	Images            []Image    `json:"images"`
	Variants          []Variant  `json:"variants"`
	Options           []Option   `json:"options"`
}

// Image is a raw product image.
type Image struct {
	ID       int64  `json:"id"`
	Src      string `json:"src"`
	Alt      string `json:"alt"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Position int    `json:"position"`
}

// Variant is a raw product variant.
type Variant struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	SKU               string `json:"sku"`
	InventoryQuantity int    `json:"inventory_quantity"`
	CompareAtPrice    string `json:"compare_at_price"`
	ImageID           *int64 `json:"image_id"`
}

// Option is a raw product option.
type Option struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// ProductsResponse wraps the products.json payload.
type ProductsResponse struct {
	Products []Product `json:"products"`
}

// ProductResponse wraps the single-product payload.
type ProductResponse struct {
	Product Product `json:"product"`
}
