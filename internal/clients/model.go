package clients

import (
	"time"

	"github.com/MishalHQ/aevon-console/internal/projects"
)

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Industry  string    `json:"industry"`
	Status    Status    `json:"status"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Aggregates populated on list reads only.
	ProjectCount   int `json:"project_count,omitempty"`
	ActiveProjects int `json:"active_projects,omitempty"`
}

// Detail is the single-client view with the client's projects embedded.
type Detail struct {
	Client
	Projects []projects.Project `json:"projects"`
}
