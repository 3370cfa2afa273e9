// This file defines the Order model and repository methods for order status
// tracking. Orders move through a linear status lifecycle managed by
// administrators; customers can only create orders and read their own.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Order statuses. Stored as strings so the audit trail in the table stays
// readable without a lookup table.
const (
	OrderPending    = "PENDING"
	OrderProcessing = "PROCESSING"
	OrderShipped    = "SHIPPED"
	OrderDelivered  = "DELIVERED"
	OrderCancelled  = "CANCELLED"
)

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order represents a customer order for a single product. ProductName and
// UserEmail are joined in on reads for notification and display purposes.
type Order struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	ProductID   uint64    `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	UserEmail   string    `json:"-"`
	UserName    string    `json:"-"`
	Quantity    uint32    `json:"quantity"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ErrOrderNotFound is returned when an order cannot be found in the DB.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepo encapsulates all database queries related to orders.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo constructs an OrderRepo with the provided DB handle.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderCols = `o.id, o.user_id, o.product_id, p.name, u.email, u.name,
	o.quantity, o.status, o.created_at, o.updated_at`

const orderFrom = ` FROM orders o
	JOIN products p ON p.id = o.product_id
	JOIN users u ON u.id = o.user_id `

// Create inserts a new order in PENDING state and populates its ID.
func (r *OrderRepo) Create(ctx context.Context, o *Order) error {
	const q = "INSERT INTO orders (user_id, product_id, quantity, status) VALUES (?,?,?,?)"
	o.Status = OrderPending
	res, err := r.db.ExecContext(ctx, q, o.UserID, o.ProductID, o.Quantity, o.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}

// GetByID fetches an order with product and user details joined in.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*Order, error) {
	q := "SELECT " + orderCols + orderFrom + "WHERE o.id = ?"
	var o Order
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&o.ID, &o.UserID, &o.ProductID, &o.ProductName, &o.UserEmail, &o.UserName,
		&o.Quantity, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByUser returns all orders placed by one user, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]*Order, error) {
	q := "SELECT " + orderCols + orderFrom + "WHERE o.user_id = ? ORDER BY o.created_at DESC"
	return r.queryMany(ctx, q, userID)
}

// ListAll returns every order, newest first. Admin only.
func (r *OrderRepo) ListAll(ctx context.Context) ([]*Order, error) {
	q := "SELECT " + orderCols + orderFrom + "ORDER BY o.created_at DESC"
	return r.queryMany(ctx, q)
}

func (r *OrderRepo) queryMany(ctx context.Context, q string, args ...any) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		o := new(Order)
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductID, &o.ProductName, &o.UserEmail, &o.UserName,
			&o.Quantity, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus moves an order to the given status. It returns
// ErrOrderNotFound when no row matches.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	const q = "UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}
