package projects

import "time"

type Type string

const (
	TypeBusiness Type = "Business"
	TypeStudent  Type = "Student"
	TypeInternal Type = "Internal Demo"
)

func (t Type) Valid() bool {
	return t == TypeBusiness || t == TypeStudent || t == TypeInternal
}

type Status string

const (
	StatusPlanned   Status = "Planned"
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
)

func (s Status) Valid() bool {
	return s == StatusPlanned || s == StatusActive || s == StatusCompleted
}

type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        Type      `json:"type"`
	Status      Status    `json:"status"`
	Description string    `json:"description"`
	TechStack   string    `json:"tech_stack"`
	Budget      float64   `json:"budget"`
	ClientID    *int64    `json:"client_id"`
	IsDemo      bool      `json:"is_demo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
