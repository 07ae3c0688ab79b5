package tasks

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrNotFound = errors.New("task not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectJoined = `
	SELECT t.id, t.title, t.description, t.project_id, t.assigned_to,
	       t.status, t.priority, t.due_date, t.created_at, t.updated_at,
	       COALESCE(p.name, '') AS project_name,
	       COALESCE(u.name, '') AS assigned_to_name
	FROM tasks t
	LEFT JOIN projects p ON t.project_id = p.id
	LEFT JOIN users u ON t.assigned_to = u.id
`

func scanJoined(rows *sql.Rows) ([]Task, error) {
	defer rows.Close()
	tasks := []Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.AssignedTo,
			&t.Status, &t.Priority, &t.DueDate, &t.CreatedAt, &t.UpdatedAt,
			&t.ProjectName, &t.AssignedToName); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) List(ctx context.Context, f Filter) ([]Task, error) {
	clauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if f.ProjectID != 0 {
		clauses = append(clauses, "t.project_id = $"+strconv.Itoa(argIdx))
		args = append(args, f.ProjectID)
		argIdx++
	}
	if f.Status != "" {
		clauses = append(clauses, "t.status = $"+strconv.Itoa(argIdx))
		args = append(args, f.Status)
		argIdx++
	}

	query := selectJoined + " WHERE " + strings.Join(clauses, " AND ") +
		" ORDER BY t.due_date ASC NULLS LAST, t.priority DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanJoined(rows)
}

func (s *Store) Get(ctx context.Context, id int64) (*Task, error) {
	rows, err := s.db.QueryContext(ctx, selectJoined+" WHERE t.id = $1", id)
	if err != nil {
		return nil, err
	}
	tasks, err := scanJoined(rows)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrNotFound
	}
	return &tasks[0], nil
}

const columns = `id, title, description, project_id, assigned_to, status, priority, due_date, created_at, updated_at`

func scanOne(row *sql.Row) (*Task, error) {
	t := &Task{}
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.AssignedTo,
		&t.Status, &t.Priority, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *Store) Create(ctx context.Context, t *Task) (*Task, error) {
	const q = `
		INSERT INTO tasks (title, description, project_id, assigned_to, status, priority, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + columns
	return scanOne(s.db.QueryRowContext(ctx, q,
		t.Title, t.Description, t.ProjectID, t.AssignedTo, t.Status, t.Priority, t.DueDate))
}

type UpdateParams struct {
	Title       *string
	Description *string
	AssignedTo  *int64
	Status      *Status
	Priority    *Priority
	DueDate     *time.Time
}

func (s *Store) Update(ctx context.Context, id int64, p UpdateParams) (*Task, error) {
	const q = `
		UPDATE tasks
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    assigned_to = COALESCE($4, assigned_to),
		    status = COALESCE($5, status),
		    priority = COALESCE($6, priority),
		    due_date = COALESCE($7, due_date),
		    updated_at = $8
		WHERE id = $1
		RETURNING ` + columns

	var status, priority interface{}
	if p.Status != nil {
		status = string(*p.Status)
	}
	if p.Priority != nil {
		priority = string(*p.Priority)
	}
	return scanOne(s.db.QueryRowContext(ctx, q, id,
		p.Title, p.Description, p.AssignedTo, status, priority, p.DueDate,
		time.Now().UTC()))
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
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
