package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("service not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const columns = `id, name, description, price, category, duration, features, created_at, updated_at, is_active`

func scan(row *sql.Row) (*Service, error) {
	s := &Service{}
	var features []byte
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.Category,
		&s.Duration, &features, &s.CreatedAt, &s.UpdatedAt, &s.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := unmarshalFeatures(features, s); err != nil {
		return nil, err
	}
	return s, nil
}

func unmarshalFeatures(data []byte, s *Service) error {
	s.Features = []string{}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, &s.Features)
}

// ListActive returns active services ordered by price, highest first.
func (s *Store) ListActive(ctx context.Context) ([]Service, error) {
	const q = `SELECT ` + columns + ` FROM services WHERE is_active = TRUE ORDER BY price DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Service{}
	for rows.Next() {
		var svc Service
		var features []byte
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Description, &svc.Price, &svc.Category,
			&svc.Duration, &features, &svc.CreatedAt, &svc.UpdatedAt, &svc.IsActive); err != nil {
			return nil, err
		}
		if err := unmarshalFeatures(features, &svc); err != nil {
			return nil, err
		}
		result = append(result, svc)
	}
	return result, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (*Service, error) {
	return scan(s.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM services WHERE id = $1`, id))
}

func (s *Store) Create(ctx context.Context, svc *Service) (*Service, error) {
	features, err := json.Marshal(svc.Features)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO services (name, description, price, category, duration, features)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + columns
	return scan(s.db.QueryRowContext(ctx, q,
		svc.Name, svc.Description, svc.Price, svc.Category, svc.Duration, features))
}

type UpdateParams struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Duration    *string
	Features    []string
	IsActive    *bool
}

func (s *Store) Update(ctx context.Context, id int64, p UpdateParams) (*Service, error) {
	var features interface{}
	if p.Features != nil {
		data, err := json.Marshal(p.Features)
		if err != nil {
			return nil, err
		}
		features = data
	}
	const q = `
		UPDATE services
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    price = COALESCE($4, price),
		    category = COALESCE($5, category),
		    duration = COALESCE($6, duration),
		    features = COALESCE($7, features),
		    is_active = COALESCE($8, is_active),
		    updated_at = $9
		WHERE id = $1
		RETURNING ` + columns
	return scan(s.db.QueryRowContext(ctx, q, id,
		p.Name, p.Description, p.Price, p.Category, p.Duration, features, p.IsActive,
		time.Now().UTC()))
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
