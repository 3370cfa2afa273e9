package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/record-store/internal/utils"
)

// User mirrors the 'users' table. The password and the password-reset
// security answer are stored only as salted PBKDF2 digests; plaintext never
// reaches the database. Role is an integer flag: 0 is a standard user,
// anything else is an administrator.
type User struct {
	ID             uint64
	Name           string
	DOB            string
	Gender         string
	Contact        string
	Email          string
	Address        string
	Username       string
	PasswordDigest string
	Role           int
	AnswerDigest   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

const userCols = "id,name,dob,gender,contact,email,address,username,password_digest,role,answer_digest,created_at,updated_at"

// Create hashes the password and security answer, inserts the user and
// returns its ID. Email, username and contact are protected by unique
// indexes; a duplicate-key error from any of them maps to ErrEmailExists,
// so concurrent registrations resolve in the database, not in Go.
func (r *UserRepo) Create(ctx context.Context, u *User, password, answer string) (uint64, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	digest, err := utils.HashPassword(password)
	if err != nil {
		return 0, err
	}
	answerDigest, err := utils.HashPassword(answer)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name,dob,gender,contact,email,address,username,password_digest,role,answer_digest) VALUES (?,?,?,?,?,?,?,?,0,?)",
		u.Name, u.DOB, u.Gender, u.Contact, u.Email, u.Address, u.Username, digest, answerDigest)
	if err != nil {
		if isDup(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByUsername fetches a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	return r.getOne(ctx, "SELECT "+userCols+" FROM users WHERE username=? LIMIT 1", username)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	return r.getOne(ctx, "SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.Name, &u.DOB, &u.Gender, &u.Contact, &u.Email, &u.Address,
		&u.Username, &u.PasswordDigest, &u.Role, &u.AnswerDigest, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userCols+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.DOB, &u.Gender, &u.Contact, &u.Email, &u.Address,
			&u.Username, &u.PasswordDigest, &u.Role, &u.AnswerDigest, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateProfile updates the mutable profile fields of a user. It returns
// ErrUserNotFound when no row matches. Role is intentionally not part of
// this method; see UpdateRole.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, dob, gender, contact, address string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, dob=?, gender=?, contact=?, address=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		name, dob, gender, contact, address, id)
	if err != nil {
		if isDup(err) {
			return ErrEmailExists
		}
		return err
	}
	return noneAffected(res)
}

// UpdateRole sets the admin flag. This is a trusted administrative action;
// the route layer must gate it behind the admin guard.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role int) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", role, id)
	if err != nil {
		return err
	}
	return noneAffected(res)
}

// UpdatePasswordDigest re-hashes the given plaintext and replaces the stored
// digest. Used by the password-reset flow after the security answer check.
func (r *UserRepo) UpdatePasswordDigest(ctx context.Context, id uint64, newPassword string) error {
	digest, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_digest=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", digest, id)
	if err != nil {
		return err
	}
	return noneAffected(res)
}

// Delete removes a user by id.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	return noneAffected(res)
}

func noneAffected(res sql.Result) error {
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
