package service

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/namostri/catalog_api/internal/models"
)

// Fixed title pool: generation cycles through it so the structural shape of
// a fallback corpus is stable across calls while numeric fields vary.
var fallbackTitles = []string{
	"Almond Cream Kota Doriya Printed Knot Work Unstitched Suit Set",
	"Chanderi Cotton Ethnic Wear Dress Material",
	"Traditional Printed Cotton Kurta",
	"Silk Blend Unstitched Suit Material",
	"Organic Cotton Ethnic Dress Material",
	"Embroidered Kota Doriya Saree Material",
	"Chikankari Cotton Kurta Set",
	"Printed Rayon Ethnic Wear",
	"Handloom Unstitched Dress Material",
	"Cotton Blend Ethnic Wear Suit",
}

var fallbackVendors = []string{
	"Namostri",
	"Ethnic Collections",
	"Traditional Textiles",
	"Artisan Wear",
	"Heritage Fashion",
}

const fallbackDescription = "Beautiful ethnic wear made with premium materials. Perfect for celebrations and everyday wear."

// Fallback corpus sizes used when the store is unavailable.
const (
	FallbackListCount         = 60
	FallbackListSourceCount   = 30
	FallbackExportCount       = 100
	FallbackExportSourceCount = 50
)

// FallbackGenerator produces synthetic canonical records when the persistent
// store is unreachable. Titles and structure are deterministic per
// (count, source); price, vendor choice, rating, review count, and synthetic
// external identifiers come from the injected random source.
//
// One generator is shared by every request-serving goroutine, and *rand.Rand
// is not safe for concurrent use, so draws are serialized by a mutex.
type FallbackGenerator struct {
	mu   sync.Mutex
	rand *rand.Rand
	now  func() time.Time
}

// NewFallbackGenerator constructs a generator. Passing a nil *rand.Rand uses
// a time-seeded source; tests pass a fixed seed.
func NewFallbackGenerator(r *rand.Rand) *FallbackGenerator {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &FallbackGenerator{rand: r, now: time.Now}
}

// Generate returns count synthetic records. An empty source defaults to the
// storefront. Every record satisfies the canonical invariants so downstream
// consumers need no special-casing against live data.
func (g *FallbackGenerator) Generate(count int, source models.SourceCode) []models.Product {
	if source == "" {
		source = models.SourceShopify
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	products := make([]models.Product, 0, count)
	for i := 0; i < count; i++ {
		title := fallbackTitles[i%len(fallbackTitles)]
		now := g.now()

		p := models.Product{
			ID:          uuid.New().String(),
			Title:       fmt.Sprintf("%s - Variant %d", title, i+1),
			Description: fallbackDescription,
			Price:       fmt.Sprintf("%.2f", g.rand.Float64()*3000+1000),
			Vendor:      fallbackVendors[g.rand.Intn(len(fallbackVendors))],
			ProductType: "Dress material",
			Status:      models.StatusActive,
			Source:      source,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		switch source {
		case models.SourceShopify:
			id := fmt.Sprintf("%d", 8210932007082+i)
			p.ShopifyID = &id
			p.Handle = strings.ReplaceAll(strings.ToLower(title), " ", "-")
		case models.SourceAmazon:
			id := "B0D" + g.randBase36(9)
			p.AmazonID = &id
			p.ASIN = id
			p.Rating = math.Round((g.rand.Float64()*2+3)*10) / 10
			p.ReviewsCount = g.rand.Intn(500) + 50
		}

		products = append(products, p)
	}
	return products
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func (g *FallbackGenerator) randBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36Alphabet[g.rand.Intn(len(base36Alphabet))]
	}
	return string(b)
}
