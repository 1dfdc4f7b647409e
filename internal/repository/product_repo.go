package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/namostri/catalog_api/internal/models"
)

// ListFilter holds filters for product list queries. Empty fields are
// ignored. Page begins at 1.
type ListFilter struct {
	Search string
	Source string
	Status string
	Page   int
	Limit  int
}

// Normalize coerces page and limit to positive values.
func (f *ListFilter) Normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
}

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Text search matches title, description, and vendor case-insensitively;
// source and status are exact matches. All predicates are AND-combined.
const listWhere = `WHERE ($1 = '' OR title ILIKE '%' || $1 || '%'
            OR description ILIKE '%' || $1 || '%'
            OR vendor ILIKE '%' || $1 || '%')
        AND ($2 = '' OR source = $2)
        AND ($3 = '' OR status = $3)`

// ListPaged returns products matching the filter plus the total count of
// matches regardless of page.
func (r *ProductRepository) ListPaged(filter ListFilter) ([]models.Product, int, error) {
	filter.Normalize()
	offset := (filter.Page - 1) * filter.Limit

	countQuery := `SELECT COUNT(1) FROM products ` + listWhere
	var total int
	if err := r.db.Get(&total, countQuery, filter.Search, filter.Source, filter.Status); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT * FROM products ` + listWhere + `
        ORDER BY created_at DESC LIMIT $4 OFFSET $5`
	products := []models.Product{}
	if err := r.db.Select(&products, listQuery, filter.Search, filter.Source, filter.Status, filter.Limit, offset); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListAll returns every product matching the filter, unpaginated, for export.
func (r *ProductRepository) ListAll(filter ListFilter) ([]models.Product, error) {
	q := `SELECT * FROM products ` + listWhere + ` ORDER BY created_at DESC`
	products := []models.Product{}
	if err := r.db.Select(&products, q, filter.Search, filter.Source, filter.Status); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID returns a single product by internal id.
func (r *ProductRepository) GetByID(id string) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 LIMIT 1`
	var p models.Product
	if err := r.db.Get(&p, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetBySourceExternalID returns the product matching the compound upsert key
// (source, external identifier), or sql.ErrNoRows.
func (r *ProductRepository) GetBySourceExternalID(source models.SourceCode, externalID string) (*models.Product, error) {
	const q = `SELECT * FROM products
        WHERE source = $1 AND (shopify_id = $2 OR amazon_id = $2) LIMIT 1`
	var p models.Product
	if err := r.db.Get(&p, q, source, externalID); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new product, assigning its internal id. Upstream
// timestamps mapped by the source adapters are persisted as-is; zero values
// fall back to the database clock.
func (r *ProductRepository) Create(p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	const q = `
        INSERT INTO products (
            id, title, description, body_html, price, vendor, product_type,
            status, source, shopify_id, shop_domain, admin_graphql_api_id,
            handle, image, images, variants, options, amazon_id, asin,
            rating, reviews_count, synced_at, published_at,
            created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
            $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23,
            COALESCE($24, NOW()), COALESCE($25, NOW())
        )
        RETURNING created_at, updated_at`

	return r.db.QueryRowx(q,
		p.ID, p.Title, p.Description, p.BodyHTML, p.Price, p.Vendor, p.ProductType,
		p.Status, p.Source, p.ShopifyID, p.ShopDomain, p.AdminGraphqlAPIID,
		p.Handle, p.Image, p.Images, p.Variants, p.Options, p.AmazonID, p.ASIN,
		p.Rating, p.ReviewsCount, p.SyncedAt, p.PublishedAt,
		nullableTime(p.CreatedAt), nullableTime(p.UpdatedAt),
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// nullableTime maps a zero time to SQL NULL.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Update replaces all mutable fields of an existing product. The internal id,
// source, and creation timestamp are never touched.
func (r *ProductRepository) Update(p *models.Product) error {
	const q = `
        UPDATE products SET
            title = $2, description = $3, body_html = $4, price = $5,
            vendor = $6, product_type = $7, status = $8, shopify_id = $9,
            shop_domain = $10, admin_graphql_api_id = $11, handle = $12,
            image = $13, images = $14, variants = $15, options = $16,
            amazon_id = $17, asin = $18, rating = $19, reviews_count = $20,
            synced_at = $21, published_at = $22, updated_at = NOW()
        WHERE id = $1
        RETURNING created_at, updated_at`

	return r.db.QueryRowx(q,
		p.ID, p.Title, p.Description, p.BodyHTML, p.Price,
		p.Vendor, p.ProductType, p.Status, p.ShopifyID,
		p.ShopDomain, p.AdminGraphqlAPIID, p.Handle,
		p.Image, p.Images, p.Variants, p.Options,
		p.AmazonID, p.ASIN, p.Rating, p.ReviewsCount,
		p.SyncedAt, p.PublishedAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Delete removes a product by internal id. Returns sql.ErrNoRows when the id
// does not exist.
func (r *ProductRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
