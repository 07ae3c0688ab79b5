package httpserver

import (
	"net/http"

	"log/slog"

	"github.com/MishalHQ/aevon-console/internal/audit"
	"github.com/MishalHQ/aevon-console/internal/auth"
	"github.com/MishalHQ/aevon-console/internal/clients"
	"github.com/MishalHQ/aevon-console/internal/dashboard"
	"github.com/MishalHQ/aevon-console/internal/leads"
	"github.com/MishalHQ/aevon-console/internal/projects"
	"github.com/MishalHQ/aevon-console/internal/respond"
	"github.com/MishalHQ/aevon-console/internal/services"
	"github.com/MishalHQ/aevon-console/internal/tasks"
	"github.com/MishalHQ/aevon-console/internal/users"
)

// Deps carries everything the router wires together.
type Deps struct {
	Logger    *slog.Logger
	Tokens    *auth.TokenService
	UserStore *auth.Store
	AuthSvc   *auth.Service
	Recorder  *audit.Recorder

	AuditStore    *audit.Store
	ProjectStore  *projects.Store
	ClientStore   *clients.Store
	TaskStore     *tasks.Store
	LeadStore     *leads.Store
	ServiceStore  *services.Store
	DashboardData *dashboard.Store
}

func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	secured := auth.Middleware(d.Tokens, d.UserStore, d.Logger)
	admin := func(h http.HandlerFunc) http.Handler {
		return secured(auth.RequireAdmin(h))
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return secured(h)
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"message": "AEVON Console API is running",
		})
	})

	// Auth
	authHandler := &auth.Handler{
		Service: d.AuthSvc,
		Store:   d.UserStore,
		Audit:   d.Recorder,
		Logger:  d.Logger,
	}
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("POST /api/auth/logout", authed(authHandler.Logout))
	mux.Handle("GET /api/auth/me", authed(authHandler.Me))

	// Audit logs (read-only, any authenticated user)
	auditHandler := &audit.Handler{Source: d.AuditStore, Logger: d.Logger}
	mux.Handle("GET /api/audit-logs", authed(auditHandler.List))
	mux.Handle("GET /api/audit-logs/actions", authed(auditHandler.ListActions))
	mux.Handle("GET /api/audit-logs/stats", authed(auditHandler.GetStats))

	// Users (ADMIN only)
	userHandler := &users.Handler{Store: d.UserStore, Audit: d.Recorder, Logger: d.Logger}
	mux.Handle("GET /api/users", admin(userHandler.List))
	mux.Handle("GET /api/users/{id}", admin(userHandler.Get))
	mux.Handle("POST /api/users", admin(userHandler.Create))
	mux.Handle("PUT /api/users/{id}", admin(userHandler.Update))
	mux.Handle("DELETE /api/users/{id}", admin(userHandler.Disable))

	// Projects. Reads are any-authenticated (demos fully public), mutations
	// are ADMIN only, same as user management.
	projectHandler := &projects.Handler{Store: d.ProjectStore, Audit: d.Recorder, Logger: d.Logger}
	mux.HandleFunc("GET /api/projects/demos", projectHandler.ListDemos)
	mux.Handle("GET /api/projects", authed(projectHandler.List))
	mux.Handle("GET /api/projects/{id}", authed(projectHandler.Get))
	mux.Handle("POST /api/projects", admin(projectHandler.Create))
	mux.Handle("PUT /api/projects/{id}", admin(projectHandler.Update))
	mux.Handle("DELETE /api/projects/{id}", admin(projectHandler.Delete))

	// Clients
	clientHandler := &clients.Handler{Store: d.ClientStore, Projects: d.ProjectStore, Logger: d.Logger}
	mux.Handle("GET /api/clients", authed(clientHandler.List))
	mux.Handle("GET /api/clients/{id}", authed(clientHandler.Get))
	mux.Handle("POST /api/clients", authed(clientHandler.Create))
	mux.Handle("PUT /api/clients/{id}", authed(clientHandler.Update))
	mux.Handle("DELETE /api/clients/{id}", authed(clientHandler.Delete))

	// Tasks
	taskHandler := &tasks.Handler{Store: d.TaskStore, Logger: d.Logger}
	mux.Handle("GET /api/tasks", authed(taskHandler.List))
	mux.Handle("GET /api/tasks/{id}", authed(taskHandler.Get))
	mux.Handle("POST /api/tasks", authed(taskHandler.Create))
	mux.Handle("PUT /api/tasks/{id}", authed(taskHandler.Update))
	mux.Handle("DELETE /api/tasks/{id}", authed(taskHandler.Delete))

	// Leads
	leadHandler := &leads.Handler{Store: d.LeadStore, Clients: d.ClientStore, Logger: d.Logger}
	mux.Handle("GET /api/leads", authed(leadHandler.List))
	mux.Handle("GET /api/leads/{id}", authed(leadHandler.Get))
	mux.Handle("POST /api/leads", authed(leadHandler.Create))
	mux.Handle("PUT /api/leads/{id}", authed(leadHandler.Update))
	mux.Handle("DELETE /api/leads/{id}", authed(leadHandler.Delete))
	mux.Handle("POST /api/leads/{id}/convert", authed(leadHandler.Convert))

	// Services
	serviceHandler := &services.Handler{Store: d.ServiceStore, Logger: d.Logger}
	mux.Handle("GET /api/services", authed(serviceHandler.List))
	mux.Handle("GET /api/services/{id}", authed(serviceHandler.Get))
	mux.Handle("POST /api/services", authed(serviceHandler.Create))
	mux.Handle("PUT /api/services/{id}", authed(serviceHandler.Update))
	mux.Handle("DELETE /api/services/{id}", authed(serviceHandler.Delete))

	// Dashboard
	dashHandler := &dashboard.Handler{Store: d.DashboardData, Logger: d.Logger}
	mux.Handle("GET /api/dashboard/stats", authed(dashHandler.GetStats))
	mux.Handle("GET /api/dashboard/charts", authed(dashHandler.GetCharts))

	return withCORS(withRequestLog(d.Logger)(mux))
}
