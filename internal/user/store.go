package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/libbyyosef/team-availability/internal/db"
)

// ErrEmailExists is returned when creating a user whose email is already
// taken.
var ErrEmailExists = errors.New("email already exists")

const pqUniqueViolation = "23505"

type Store struct {
	db *db.DB
}

func NewStore(db *db.DB) *Store {
	return &Store{db: db}
}

// FindByID returns (nil, nil) when no user has this id.
func (s *Store) FindByID(ctx context.Context, id int64) (*User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, first_name, last_name
		FROM users
		WHERE id = $1
	`, id))
}

// FindByEmail matches the email exactly, case-sensitively, and returns
// (nil, nil) when no user matches.
func (s *Store) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, first_name, last_name
		FROM users
		WHERE email = $1
	`, email))
}

func (s *Store) scanOne(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user and returns it with the generated id. The email
// unique constraint surfaces as ErrEmailExists.
func (s *Store) Create(ctx context.Context, email, passwordHash, firstName, lastName string) (*User, error) {
	u := User{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, email, passwordHash, firstName, lastName).Scan(&u.ID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return nil, ErrEmailExists
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// UpdateNames changes a user's first and/or last name. Empty arguments
// leave the current value in place. Returns (nil, nil) when no user has
// this id.
func (s *Store) UpdateNames(ctx context.Context, id int64, firstName, lastName string) (*User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		UPDATE users
		SET first_name = COALESCE(NULLIF($2, ''), first_name),
		    last_name  = COALESCE(NULLIF($3, ''), last_name)
		WHERE id = $1
		RETURNING id, email, password_hash, first_name, last_name
	`, id, firstName, lastName))
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, password_hash, first_name, last_name
		FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListWithStatuses returns every user joined with their current status;
// users without a status row get an empty status.
func (s *Store) ListWithStatuses(ctx context.Context) ([]NameStatus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.first_name, u.last_name, COALESCE(st.status, '')
		FROM users u
		LEFT JOIN user_statuses st ON st.user_id = u.id
		ORDER BY u.first_name ASC, u.last_name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []NameStatus
	for rows.Next() {
		var ns NameStatus
		if err := rows.Scan(&ns.ID, &ns.FirstName, &ns.LastName, &ns.Status); err != nil {
			return nil, err
		}
		items = append(items, ns)
	}
	return items, rows.Err()
}

// NameStatusByID returns one user's names and current status, or
// (nil, nil) when the user does not exist.
func (s *Store) NameStatusByID(ctx context.Context, id int64) (*NameStatus, error) {
	var ns NameStatus
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.first_name, u.last_name, COALESCE(st.status, '')
		FROM users u
		LEFT JOIN user_statuses st ON st.user_id = u.id
		WHERE u.id = $1
	`, id).Scan(&ns.ID, &ns.FirstName, &ns.LastName, &ns.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ns, nil
}
