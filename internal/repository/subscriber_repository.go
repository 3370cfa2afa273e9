// This file defines the Subscriber model and repository for the newsletter
// feature. Email uniqueness is enforced by the storage layer; subscribing
// twice surfaces as ErrSubscriberExists.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Subscriber represents a newsletter subscription.
type Subscriber struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrSubscriberExists is returned when the email is already subscribed.
var ErrSubscriberExists = errors.New("email already subscribed")

// SubscriberRepo encapsulates all database queries related to subscribers.
type SubscriberRepo struct {
	db *sql.DB
}

// NewSubscriberRepo constructs a SubscriberRepo with the provided DB handle.
func NewSubscriberRepo(db *sql.DB) *SubscriberRepo {
	return &SubscriberRepo{db: db}
}

// Create inserts a new subscriber and populates its ID.
func (r *SubscriberRepo) Create(ctx context.Context, s *Subscriber) error {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO subscribers (name, email) VALUES (?, ?)", s.Name, s.Email)
	if err != nil {
		if isDup(err) {
			return ErrSubscriberExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// List returns all subscribers ordered by id.
func (r *SubscriberRepo) List(ctx context.Context) ([]*Subscriber, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, email, created_at FROM subscribers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Subscriber
	for rows.Next() {
		s := new(Subscriber)
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
