package auth

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, email, password_hash, name, role, is_active, created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.db.QueryRowContext(ctx, q, email))
}

func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRowContext(ctx, q, id))
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
			&u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) Create(ctx context.Context, email, password, name string, role Role) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO users (email, password_hash, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	u, err := scanUser(s.db.QueryRowContext(ctx, q, email, string(hash), name, role))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

// UpdateParams carries the optional fields of a partial update; nil means
// keep the stored value.
type UpdateParams struct {
	Name     *string
	Role     *Role
	IsActive *bool
}

func (s *Store) Update(ctx context.Context, id int64, p UpdateParams) (*User, error) {
	const q = `
		UPDATE users
		SET name = COALESCE($2, name),
		    role = COALESCE($3, role),
		    is_active = COALESCE($4, is_active),
		    updated_at = $5
		WHERE id = $1
		RETURNING ` + userColumns

	var role interface{}
	if p.Role != nil {
		role = string(*p.Role)
	}
	return scanUser(s.db.QueryRowContext(ctx, q, id, p.Name, role, p.IsActive, time.Now().UTC()))
}

// Disable is the soft delete: the row stays, the account stops working.
func (s *Store) Disable(ctx context.Context, id int64) error {
	const q = `UPDATE users SET is_active = FALSE, updated_at = $2 WHERE id = $1`
	res, err := s.db.ExecContext(ctx, q, id, time.Now().UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

type usersFile struct {
	Users []struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		Role     Role   `yaml:"role"`
	} `yaml:"users"`
}

// SeedFromFile creates any users listed in the yaml file that do not exist
// yet. Existing accounts are left untouched.
func (s *Store) SeedFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var uf usersFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return err
	}
	for _, u := range uf.Users {
		if u.Email == "" || u.Password == "" {
			continue
		}
		role := u.Role
		if !role.Valid() {
			role = RoleViewer
		}
		if _, err := s.GetByEmail(ctx, u.Email); err == nil {
			continue
		} else if !errors.Is(err, ErrUserNotFound) {
			return err
		}
		if _, err := s.Create(ctx, u.Email, u.Password, u.Name, role); err != nil {
			return err
		}
	}
	return nil
}

// EnsureAdmin bootstraps the default admin account when none exists, so a
// fresh deployment is never locked out.
func (s *Store) EnsureAdmin(ctx context.Context, email, password string) error {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1`, RoleAdmin).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := s.Create(ctx, email, password, "Administrator", RoleAdmin)
	if errors.Is(err, ErrDuplicateEmail) {
		return nil
	}
	return err
}
