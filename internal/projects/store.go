package projects

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("project not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const columns = `id, name, type, status, description, tech_stack, budget, client_id, is_demo, created_at, updated_at`

func scan(row *sql.Row) (*Project, error) {
	p := &Project{}
	err := row.Scan(&p.ID, &p.Name, &p.Type, &p.Status, &p.Description,
		&p.TechStack, &p.Budget, &p.ClientID, &p.IsDemo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func collect(rows *sql.Rows) ([]Project, error) {
	defer rows.Close()
	projects := []Project{}
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Status, &p.Description,
			&p.TechStack, &p.Budget, &p.ClientID, &p.IsDemo, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) List(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+columns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListDemos returns the publicly showcased projects.
func (s *Store) ListDemos(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+columns+` FROM projects WHERE is_demo = TRUE ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) ListByClient(ctx context.Context, clientID int64) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+columns+` FROM projects WHERE client_id = $1 ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) Get(ctx context.Context, id int64) (*Project, error) {
	return scan(s.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM projects WHERE id = $1`, id))
}

func (s *Store) Create(ctx context.Context, p *Project) (*Project, error) {
	const q = `
		INSERT INTO projects (name, type, status, description, tech_stack, budget, client_id, is_demo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + columns
	return scan(s.db.QueryRowContext(ctx, q,
		p.Name, p.Type, p.Status, p.Description, p.TechStack, p.Budget, p.ClientID, p.IsDemo))
}

// UpdateParams carries a partial update; nil keeps the stored value.
type UpdateParams struct {
	Name        *string
	Type        *Type
	Status      *Status
	Description *string
	TechStack   *string
	Budget      *float64
	ClientID    *int64
	IsDemo      *bool
}

func (s *Store) Update(ctx context.Context, id int64, p UpdateParams) (*Project, error) {
	const q = `
		UPDATE projects
		SET name = COALESCE($2, name),
		    type = COALESCE($3, type),
		    status = COALESCE($4, status),
		    description = COALESCE($5, description),
		    tech_stack = COALESCE($6, tech_stack),
		    budget = COALESCE($7, budget),
		    client_id = COALESCE($8, client_id),
		    is_demo = COALESCE($9, is_demo),
		    updated_at = $10
		WHERE id = $1
		RETURNING ` + columns

	var typ, status interface{}
	if p.Type != nil {
		typ = string(*p.Type)
	}
	if p.Status != nil {
		status = string(*p.Status)
	}
	return scan(s.db.QueryRowContext(ctx, q, id,
		p.Name, typ, status, p.Description, p.TechStack, p.Budget, p.ClientID, p.IsDemo,
		time.Now().UTC()))
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
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
