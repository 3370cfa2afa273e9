// This file defines the Category model and repository methods for CRUD and
// lookup operations. A category groups products in the catalog; its slug is
// derived from the name and used in public URLs.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Category represents a catalog category persisted in the database.
type Category struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrCategoryNotFound is returned when a category cannot be found in the DB.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepo encapsulates all database queries related to categories.
type CategoryRepo struct {
	db *sql.DB
}

// NewCategoryRepo constructs a CategoryRepo with the provided DB handle.
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create inserts a new category. On success the ID, CreatedAt and UpdatedAt
// fields are populated. The name column carries a unique index, so a
// duplicate insert surfaces as ErrConflict.
func (r *CategoryRepo) Create(ctx context.Context, c *Category) error {
	const qInsert = "INSERT INTO categories (name, slug) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, c.Name, c.Slug)
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
	c.ID = uint64(id)

	const qSelect = "SELECT created_at, updated_at FROM categories WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a category by its ID. It returns ErrCategoryNotFound if
// no row is found.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*Category, error) {
	const q = "SELECT id, name, slug, created_at, updated_at FROM categories WHERE id = ?"
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetBySlug fetches a category by its slug.
func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	const q = "SELECT id, name, slug, created_at, updated_at FROM categories WHERE slug = ?"
	return r.scanOne(r.db.QueryRowContext(ctx, q, slug))
}

// GetByName fetches a category by its exact name. Used at creation time to
// report "already exists" before attempting the insert.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*Category, error) {
	const q = "SELECT id, name, slug, created_at, updated_at FROM categories WHERE name = ?"
	return r.scanOne(r.db.QueryRowContext(ctx, q, name))
}

func (r *CategoryRepo) scanOne(row *sql.Row) (*Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by id.
func (r *CategoryRepo) List(ctx context.Context) ([]*Category, error) {
	const q = "SELECT id, name, slug, created_at, updated_at FROM categories ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Category
	for rows.Next() {
		c := new(Category)
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update renames a category and refreshes its slug. It returns
// ErrCategoryNotFound when no row is affected.
func (r *CategoryRepo) Update(ctx context.Context, id uint64, name, slug string) error {
	const q = `UPDATE categories
	           SET name = ?, slug = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, slug, id)
	if err != nil {
		if isDup(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category. Products referencing it keep their rows; the
// foreign key is declared ON DELETE SET NULL so the catalog never loses
// products when a category is retired.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
