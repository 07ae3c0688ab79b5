package audit

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	var userID interface{}
	if e.UserID != 0 {
		userID = e.UserID
	}
	const q = `
		INSERT INTO audit_logs (action, user_id, user_email, details, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return s.db.QueryRowContext(ctx, q,
		string(e.Action),
		userID,
		e.UserEmail,
		e.Detail,
		e.IPAddress,
		e.CreatedAt,
	).Scan(&e.ID)
}

func buildWhere(f Filter) (string, []interface{}) {
	clauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if f.Action != "" {
		clauses = append(clauses, "al.action = $"+strconv.Itoa(argIdx))
		args = append(args, f.Action)
		argIdx++
	}
	if f.UserID != 0 {
		clauses = append(clauses, "al.user_id = $"+strconv.Itoa(argIdx))
		args = append(args, f.UserID)
		argIdx++
	}
	return strings.Join(clauses, " AND "), args
}

func (s *Store) List(ctx context.Context, f Filter) ([]Event, error) {
	where, args := buildWhere(f)

	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT al.id, al.action, al.user_id, al.user_email, COALESCE(u.name, ''),
		       al.details, al.ip_address, al.created_at
		FROM audit_logs al
		LEFT JOIN users u ON al.user_id = u.id
		WHERE ` + where + `
		ORDER BY al.created_at DESC
		LIMIT ` + strconv.Itoa(limit) + ` OFFSET ` + strconv.Itoa(offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var e Event
		var userID sql.NullInt64
		if err := rows.Scan(&e.ID, &e.Action, &userID, &e.UserEmail, &e.UserName,
			&e.Detail, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.UserID = userID.Int64
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) Count(ctx context.Context, f Filter) (int, error) {
	where, args := buildWhere(f)
	query := "SELECT COUNT(*) FROM audit_logs al WHERE " + where

	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Actions returns the distinct action tags present in the log, for filter UIs.
func (s *Store) Actions(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT action FROM audit_logs ORDER BY action`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actions := []string{}
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByAction: []ActionCount{}}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&stats.Total); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT action, COUNT(*) AS count
		FROM audit_logs
		GROUP BY action
		ORDER BY count DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ac ActionCount
		if err := rows.Scan(&ac.Action, &ac.Count); err != nil {
			return nil, err
		}
		stats.ByAction = append(stats.ByAction, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recent, err := s.List(ctx, Filter{Limit: 10})
	if err != nil {
		return nil, err
	}
	stats.RecentActivity = recent
	return stats, nil
}
