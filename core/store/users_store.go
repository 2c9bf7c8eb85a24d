package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicate = errors.New("duplicate")

type User struct {
	ID           int64     `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	StationID    *int64    `json:"station_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type UsersStore interface {
	CreateUser(ctx context.Context, user *User) (int64, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	ListUsersByRole(ctx context.Context, role string) ([]User, error)
}

type usersStore struct {
	db *sql.DB
}

func NewUsersStore(db *sql.DB) UsersStore {
	return &usersStore{db: db}
}

const userColumns = `user_id, name, email, password_hash, role, station_id, created_at`

// CreateUser relies on the UNIQUE index on email for duplicate
// detection, so concurrent creates with the same address cannot race
// past an application-level check.
func (s *usersStore) CreateUser(ctx context.Context, user *User) (int64, error) {
	email := strings.ToLower(strings.TrimSpace(user.Email))
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users(name, email, password_hash, role, station_id, created_at)
		VALUES(?,?,?,?,?,?)`,
		strings.TrimSpace(user.Name), email, user.PasswordHash, strings.TrimSpace(user.Role), nullableID(user.StationID), now)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, _ := res.LastInsertId()
	user.ID = id
	user.Email = email
	user.CreatedAt = now
	return id, nil
}

// isUniqueViolation matches unique-constraint errors from both drivers:
// SQLSTATE 23505 for postgres, the constraint message for sqlite.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *usersStore) GetUser(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_id=?`, id)
	return scanUser(row)
}

func (s *usersStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email=?`,
		strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

func (s *usersStore) ListUsers(ctx context.Context) ([]User, error) {
	return s.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY name ASC`)
}

func (s *usersStore) ListUsersByRole(ctx context.Context, role string) ([]User, error) {
	return s.list(ctx, `SELECT `+userColumns+` FROM users WHERE role=? ORDER BY name ASC`, strings.TrimSpace(role))
}

func (s *usersStore) list(ctx context.Context, query string, args ...any) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []User
	for rows.Next() {
		var u User
		var stationID sql.NullInt64
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &stationID, &u.CreatedAt); err != nil {
			return nil, err
		}
		if stationID.Valid {
			u.StationID = &stationID.Int64
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var stationID sql.NullInt64
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &stationID, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if stationID.Valid {
		u.StationID = &stationID.Int64
	}
	return &u, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
