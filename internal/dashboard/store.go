package dashboard

import (
	"context"
	"database/sql"
	"math"

	"github.com/MishalHQ/aevon-console/internal/projects"
	"github.com/MishalHQ/aevon-console/internal/tasks"
)

// Store aggregates across every table for the dashboard views. Reads only.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

func (s *Store) sum(ctx context.Context, query string, args ...interface{}) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&total)
	return total, err
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	var err error

	type countTarget struct {
		dst   *int
		query string
		args  []interface{}
	}
	counts := []countTarget{
		{&stats.Projects.Total, `SELECT COUNT(*) FROM projects`, nil},
		{&stats.Projects.Active, `SELECT COUNT(*) FROM projects WHERE status = $1`, []interface{}{projects.StatusActive}},
		{&stats.Projects.Completed, `SELECT COUNT(*) FROM projects WHERE status = $1`, []interface{}{projects.StatusCompleted}},
		{&stats.Projects.Planned, `SELECT COUNT(*) FROM projects WHERE status = $1`, []interface{}{projects.StatusPlanned}},
		{&stats.Projects.Demo, `SELECT COUNT(*) FROM projects WHERE is_demo = TRUE`, nil},
		{&stats.Projects.ByType.Business, `SELECT COUNT(*) FROM projects WHERE type = $1`, []interface{}{projects.TypeBusiness}},
		{&stats.Projects.ByType.Student, `SELECT COUNT(*) FROM projects WHERE type = $1`, []interface{}{projects.TypeStudent}},
		{&stats.Projects.ByType.Internal, `SELECT COUNT(*) FROM projects WHERE type = $1`, []interface{}{projects.TypeInternal}},
		{&stats.Clients.Total, `SELECT COUNT(*) FROM clients`, nil},
		{&stats.Clients.Active, `SELECT COUNT(*) FROM clients WHERE status = 'Active'`, nil},
		{&stats.Clients.Inactive, `SELECT COUNT(*) FROM clients WHERE status = 'Inactive'`, nil},
		{&stats.Tasks.Total, `SELECT COUNT(*) FROM tasks`, nil},
		{&stats.Tasks.Todo, `SELECT COUNT(*) FROM tasks WHERE status = $1`, []interface{}{tasks.StatusTodo}},
		{&stats.Tasks.InProgress, `SELECT COUNT(*) FROM tasks WHERE status = $1`, []interface{}{tasks.StatusInProgress}},
		{&stats.Tasks.Done, `SELECT COUNT(*) FROM tasks WHERE status = $1`, []interface{}{tasks.StatusDone}},
		{&stats.Leads.Total, `SELECT COUNT(*) FROM leads`, nil},
		{&stats.Leads.Contacted, `SELECT COUNT(*) FROM leads WHERE stage = 'Contacted'`, nil},
		{&stats.Leads.Negotiation, `SELECT COUNT(*) FROM leads WHERE stage = 'Negotiation'`, nil},
		{&stats.Leads.ClosedWon, `SELECT COUNT(*) FROM leads WHERE stage = 'Closed Won'`, nil},
		{&stats.Services.Total, `SELECT COUNT(*) FROM services WHERE is_active = TRUE`, nil},
	}
	for _, c := range counts {
		n, err := s.count(ctx, c.query, c.args...)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	stats.Leads.TotalValue, err = s.sum(ctx, `SELECT COALESCE(SUM(potential_value), 0) FROM leads`)
	if err != nil {
		return nil, err
	}
	stats.Revenue.Completed, err = s.sum(ctx, `SELECT COALESCE(SUM(budget), 0) FROM projects WHERE status = 'Completed'`)
	if err != nil {
		return nil, err
	}
	stats.Revenue.Active, err = s.sum(ctx, `SELECT COALESCE(SUM(budget), 0) FROM projects WHERE status = 'Active'`)
	if err != nil {
		return nil, err
	}
	stats.Revenue.Projected, err = s.sum(ctx, `SELECT COALESCE(SUM(budget), 0) FROM projects WHERE status = 'Planned'`)
	if err != nil {
		return nil, err
	}
	stats.Revenue.Total = stats.Revenue.Completed + stats.Revenue.Active + stats.Revenue.Projected

	stats.Tasks.CompletionRate = percent(stats.Tasks.Done, stats.Tasks.Total)
	stats.Leads.ConversionRate = percent(stats.Leads.ClosedWon, stats.Leads.Total)

	stats.Clients.ByIndustry, err = s.clientsByIndustry(ctx)
	if err != nil {
		return nil, err
	}
	stats.RecentActivity.Projects, err = s.recentProjects(ctx)
	if err != nil {
		return nil, err
	}
	stats.RecentActivity.Tasks, err = s.recentTasks(ctx)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) clientsByIndustry(ctx context.Context) ([]IndustryCount, error) {
	const q = `
		SELECT industry, COUNT(*) AS count
		FROM clients
		WHERE industry <> ''
		GROUP BY industry
		ORDER BY count DESC
	`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []IndustryCount{}
	for rows.Next() {
		var ic IndustryCount
		if err := rows.Scan(&ic.Industry, &ic.Count); err != nil {
			return nil, err
		}
		result = append(result, ic)
	}
	return result, rows.Err()
}

func (s *Store) recentProjects(ctx context.Context) ([]projects.Project, error) {
	const q = `
		SELECT id, name, type, status, description, tech_stack, budget, client_id, is_demo, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
		LIMIT 5
	`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []projects.Project{}
	for rows.Next() {
		var p projects.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Status, &p.Description,
			&p.TechStack, &p.Budget, &p.ClientID, &p.IsDemo, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *Store) recentTasks(ctx context.Context) ([]tasks.Task, error) {
	const q = `
		SELECT t.id, t.title, t.description, t.project_id, t.assigned_to,
		       t.status, t.priority, t.due_date, t.created_at, t.updated_at,
		       COALESCE(p.name, '')
		FROM tasks t
		LEFT JOIN projects p ON t.project_id = p.id
		ORDER BY t.created_at DESC
		LIMIT 5
	`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []tasks.Task{}
	for rows.Next() {
		var t tasks.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.AssignedTo,
			&t.Status, &t.Priority, &t.DueDate, &t.CreatedAt, &t.UpdatedAt,
			&t.ProjectName); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (s *Store) Charts(ctx context.Context) (*Charts, error) {
	charts := &Charts{
		ProjectsByStatus: []StatusCount{},
		TasksByPriority:  []PriorityCount{},
		LeadsByStage:     []StageValue{},
		MonthlyProjects:  []MonthCount{},
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM projects GROUP BY status`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			rows.Close()
			return nil, err
		}
		charts.ProjectsByStatus = append(charts.ProjectsByStatus, sc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT priority, COUNT(*) FROM tasks GROUP BY priority`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var pc PriorityCount
		if err := rows.Scan(&pc.Priority, &pc.Count); err != nil {
			rows.Close()
			return nil, err
		}
		charts.TasksByPriority = append(charts.TasksByPriority, pc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT stage, COUNT(*), COALESCE(SUM(potential_value), 0) FROM leads GROUP BY stage`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var sv StageValue
		if err := rows.Scan(&sv.Stage, &sv.Count, &sv.Value); err != nil {
			rows.Close()
			return nil, err
		}
		charts.LeadsByStage = append(charts.LeadsByStage, sv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT to_char(created_at, 'YYYY-MM') AS month, COUNT(*)
		FROM projects
		WHERE created_at >= now() - INTERVAL '6 months'
		GROUP BY month
		ORDER BY month
	`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			rows.Close()
			return nil, err
		}
		charts.MonthlyProjects = append(charts.MonthlyProjects, mc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return charts, nil
}
