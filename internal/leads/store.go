package leads

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/MishalHQ/aevon-console/internal/clients"
)

var ErrNotFound = errors.New("lead not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const columns = `id, name, email, phone, company, source, stage, potential_value, notes, created_at, updated_at`

func scan(row *sql.Row) (*Lead, error) {
	l := &Lead{}
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Source,
		&l.Stage, &l.PotentialValue, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *Store) List(ctx context.Context, stage string) ([]Lead, error) {
	query := `SELECT ` + columns + ` FROM leads`
	args := []interface{}{}
	if stage != "" {
		query += ` WHERE stage = $1`
		args = append(args, stage)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []Lead{}
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Source,
			&l.Stage, &l.PotentialValue, &l.Notes, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (*Lead, error) {
	return scan(s.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM leads WHERE id = $1`, id))
}

func (s *Store) Create(ctx context.Context, l *Lead) (*Lead, error) {
	const q = `
		INSERT INTO leads (name, email, phone, company, source, stage, potential_value, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + columns
	return scan(s.db.QueryRowContext(ctx, q,
		l.Name, l.Email, l.Phone, l.Company, l.Source, l.Stage, l.PotentialValue, l.Notes))
}

type UpdateParams struct {
	Name           *string
	Email          *string
	Phone          *string
	Company        *string
	Source         *string
	Stage          *Stage
	PotentialValue *float64
	Notes          *string
}

func (s *Store) Update(ctx context.Context, id int64, p UpdateParams) (*Lead, error) {
	const q = `
		UPDATE leads
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    phone = COALESCE($4, phone),
		    company = COALESCE($5, company),
		    source = COALESCE($6, source),
		    stage = COALESCE($7, stage),
		    potential_value = COALESCE($8, potential_value),
		    notes = COALESCE($9, notes),
		    updated_at = $10
		WHERE id = $1
		RETURNING ` + columns

	var stage interface{}
	if p.Stage != nil {
		stage = string(*p.Stage)
	}
	return scan(s.db.QueryRowContext(ctx, q, id,
		p.Name, p.Email, p.Phone, p.Company, p.Source, stage, p.PotentialValue, p.Notes,
		time.Now().UTC()))
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
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

// execer is the statement-running slice shared by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SetStage moves a lead to a new pipeline stage.
func (s *Store) SetStage(ctx context.Context, id int64, stage Stage) error {
	return setStageIn(ctx, s.db, id, stage)
}

func setStageIn(ctx context.Context, e execer, id int64, stage Stage) error {
	const q = `UPDATE leads SET stage = $2, updated_at = $3 WHERE id = $1`
	res, err := e.ExecContext(ctx, q, id, stage, time.Now().UTC())
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

// Convert creates the client and closes the lead as Closed Won in a single
// transaction, so a failure cannot leave a new client behind with the lead
// still open.
func (s *Store) Convert(ctx context.Context, id int64, c *clients.Client, clientStore *clients.Store) (*clients.Client, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	created, err := clientStore.CreateTx(ctx, tx, c)
	if err != nil {
		return nil, err
	}
	if err := setStageIn(ctx, tx, id, StageClosedWon); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}
