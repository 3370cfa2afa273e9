// This file defines the Product model and repository methods for catalog
// CRUD, browsing and search. Prices are stored in cents to avoid floating
// point drift; the handler layer converts for presentation.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Product represents a record (album) for sale. CategoryName is populated
// from a join on reads and is never written directly.
type Product struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	PriceCents   uint64    `json:"price_cents"`
	CategoryID   uint64    `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	Quantity     uint32    `json:"quantity"`
	Artists      string    `json:"artists"`
	Shipping     bool      `json:"shipping"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductFilter carries the optional constraints of the catalog filter
// endpoint: a set of category ids and an inclusive price range in cents.
type ProductFilter struct {
	CategoryIDs []uint64
	MinCents    *uint64
	MaxCents    *uint64
}

// ErrProductNotFound is returned when a product cannot be found in the DB.
var ErrProductNotFound = errors.New("product not found")

// ProductRepo encapsulates all database queries related to products.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo constructs a ProductRepo with the provided DB handle.
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productCols = `p.id, p.name, p.slug, p.description, p.price_cents,
	COALESCE(p.category_id, 0), COALESCE(c.name, ''), p.quantity, p.artists, p.shipping,
	p.created_at, p.updated_at`

const productFrom = ` FROM products p LEFT JOIN categories c ON c.id = p.category_id `

// Create inserts a new product and populates its ID and timestamps.
func (r *ProductRepo) Create(ctx context.Context, p *Product) error {
	const qInsert = `INSERT INTO products
		(name, slug, description, price_cents, category_id, quantity, artists, shipping)
		VALUES (?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		p.Name, p.Slug, p.Description, p.PriceCents, p.CategoryID, p.Quantity, p.Artists, p.Shipping)
	if err != nil {
		if isDup(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	const qSelect = "SELECT created_at, updated_at FROM products WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID fetches a product by id with its category name joined in.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*Product, error) {
	q := "SELECT " + productCols + productFrom + "WHERE p.id = ?"
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetBySlug fetches a product by its URL slug.
func (r *ProductRepo) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	q := "SELECT " + productCols + productFrom + "WHERE p.slug = ?"
	return r.scanOne(r.db.QueryRowContext(ctx, q, slug))
}

func (r *ProductRepo) scanOne(row *sql.Row) (*Product, error) {
	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.PriceCents,
		&p.CategoryID, &p.CategoryName, &p.Quantity, &p.Artists, &p.Shipping,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListLatest returns the newest products up to limit, for the storefront
// landing page.
func (r *ProductRepo) ListLatest(ctx context.Context, limit int) ([]*Product, error) {
	q := "SELECT " + productCols + productFrom + "ORDER BY p.created_at DESC LIMIT ?"
	return r.queryMany(ctx, q, limit)
}

// ListPage returns one page of products, newest first.
func (r *ProductRepo) ListPage(ctx context.Context, page, perPage int) ([]*Product, error) {
	if page < 1 {
		page = 1
	}
	q := "SELECT " + productCols + productFrom + "ORDER BY p.created_at DESC LIMIT ? OFFSET ?"
	return r.queryMany(ctx, q, perPage, (page-1)*perPage)
}

// Count returns the total number of products.
func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n)
	return n, err
}

// Search performs a case-insensitive substring match on product name,
// description and artists.
func (r *ProductRepo) Search(ctx context.Context, keyword string) ([]*Product, error) {
	kw := "%" + strings.ToLower(keyword) + "%"
	q := "SELECT " + productCols + productFrom +
		`WHERE LOWER(p.name) LIKE ? OR LOWER(p.description) LIKE ? OR LOWER(p.artists) LIKE ?
		 ORDER BY p.created_at DESC`
	return r.queryMany(ctx, q, kw, kw, kw)
}

// Filter returns products matching the given category set and price range.
// Empty filters return the whole catalog.
func (r *ProductRepo) Filter(ctx context.Context, f ProductFilter) ([]*Product, error) {
	where := []string{}
	args := []any{}

	if len(f.CategoryIDs) > 0 {
		ph := strings.TrimSuffix(strings.Repeat("?,", len(f.CategoryIDs)), ",")
		where = append(where, "p.category_id IN ("+ph+")")
		for _, id := range f.CategoryIDs {
			args = append(args, id)
		}
	}
	if f.MinCents != nil {
		where = append(where, "p.price_cents >= ?")
		args = append(args, *f.MinCents)
	}
	if f.MaxCents != nil {
		where = append(where, "p.price_cents <= ?")
		args = append(args, *f.MaxCents)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	q := "SELECT " + productCols + productFrom + "WHERE " + cond + " ORDER BY p.created_at DESC"
	return r.queryMany(ctx, q, args...)
}

// Related returns up to limit products sharing a category with the given
// product, excluding the product itself.
func (r *ProductRepo) Related(ctx context.Context, productID, categoryID uint64, limit int) ([]*Product, error) {
	q := "SELECT " + productCols + productFrom +
		"WHERE p.category_id = ? AND p.id <> ? ORDER BY p.created_at DESC LIMIT ?"
	return r.queryMany(ctx, q, categoryID, productID, limit)
}

// ListByCategory returns all products in a category.
func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID uint64) ([]*Product, error) {
	q := "SELECT " + productCols + productFrom + "WHERE p.category_id = ? ORDER BY p.created_at DESC"
	return r.queryMany(ctx, q, categoryID)
}

func (r *ProductRepo) queryMany(ctx context.Context, q string, args ...any) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Product
	for rows.Next() {
		p := new(Product)
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.PriceCents,
			&p.CategoryID, &p.CategoryName, &p.Quantity, &p.Artists, &p.Shipping,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update replaces the mutable fields of a product. It returns
// ErrProductNotFound when no row matches.
func (r *ProductRepo) Update(ctx context.Context, p *Product) error {
	const q = `UPDATE products
	           SET name = ?, slug = ?, description = ?, price_cents = ?, category_id = ?,
	               quantity = ?, artists = ?, shipping = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		p.Name, p.Slug, p.Description, p.PriceCents, p.CategoryID, p.Quantity, p.Artists, p.Shipping, p.ID)
	if err != nil {
		if isDup(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product by id.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}
