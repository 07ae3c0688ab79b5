package clients

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("client not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const columns = `id, name, email, phone, company, industry, status, address, notes, created_at, updated_at`

func scan(row *sql.Row) (*Client, error) {
	c := &Client{}
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Industry,
		&c.Status, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns all clients with their project counts.
func (s *Store) List(ctx context.Context) ([]Client, error) {
	const q = `
		SELECT c.id, c.name, c.email, c.phone, c.company, c.industry, c.status,
		       c.address, c.notes, c.created_at, c.updated_at,
		       COUNT(DISTINCT p.id) AS project_count,
		       COUNT(DISTINCT p.id) FILTER (WHERE p.status = 'Active') AS active_projects
		FROM clients c
		LEFT JOIN projects p ON c.id = p.client_id
		GROUP BY c.id
		ORDER BY c.created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []Client{}
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Industry,
			&c.Status, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
			&c.ProjectCount, &c.ActiveProjects); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (*Client, error) {
	return scan(s.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM clients WHERE id = $1`, id))
}

// querier is the row-returning slice shared by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (s *Store) Create(ctx context.Context, c *Client) (*Client, error) {
	return createIn(ctx, s.db, c)
}

// CreateTx inserts within a caller-owned transaction, for flows that must
// commit a client together with changes in other tables.
func (s *Store) CreateTx(ctx context.Context, tx *sql.Tx, c *Client) (*Client, error) {
	return createIn(ctx, tx, c)
}

func createIn(ctx context.Context, q querier, c *Client) (*Client, error) {
	const query = `
		INSERT INTO clients (name, email, phone, company, industry, status, address, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + columns
	return scan(q.QueryRowContext(ctx, query,
		c.Name, c.Email, c.Phone, c.Company, c.Industry, c.Status, c.Address, c.Notes))
}

type UpdateParams struct {
	Name     *string
	Email    *string
	Phone    *string
	Company  *string
	Industry *string
	Status   *Status
	Address  *string
	Notes    *string
}

func (s *Store) Update(ctx context.Context, id int64, p UpdateParams) (*Client, error) {
	const q = `
		UPDATE clients
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    phone = COALESCE($4, phone),
		    company = COALESCE($5, company),
		    industry = COALESCE($6, industry),
		    status = COALESCE($7, status),
		    address = COALESCE($8, address),
		    notes = COALESCE($9, notes),
		    updated_at = $10
		WHERE id = $1
		RETURNING ` + columns

	var status interface{}
	if p.Status != nil {
		status = string(*p.Status)
	}
	return scan(s.db.QueryRowContext(ctx, q, id,
		p.Name, p.Email, p.Phone, p.Company, p.Industry, status, p.Address, p.Notes,
		time.Now().UTC()))
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
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
