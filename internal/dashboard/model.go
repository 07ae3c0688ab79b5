package dashboard

import (
	"github.com/MishalHQ/aevon-console/internal/projects"
	"github.com/MishalHQ/aevon-console/internal/tasks"
)

type ProjectStats struct {
	Total     int            `json:"total"`
	Active    int            `json:"active"`
	Completed int            `json:"completed"`
	Planned   int            `json:"planned"`
	Demo      int            `json:"demo"`
	ByType    ProjectsByType `json:"byType"`
}

type ProjectsByType struct {
	Business int `json:"business"`
	Student  int `json:"student"`
	Internal int `json:"internal"`
}

type IndustryCount struct {
	Industry string `json:"industry"`
	Count    int    `json:"count"`
}

type ClientStats struct {
	Total      int             `json:"total"`
	Active     int             `json:"active"`
	Inactive   int             `json:"inactive"`
	ByIndustry []IndustryCount `json:"byIndustry"`
}

type TaskStats struct {
	Total          int `json:"total"`
	Todo           int `json:"todo"`
	InProgress     int `json:"inProgress"`
	Done           int `json:"done"`
	CompletionRate int `json:"completionRate"`
}

type LeadStats struct {
	Total          int     `json:"total"`
	Contacted      int     `json:"contacted"`
	Negotiation    int     `json:"negotiation"`
	ClosedWon      int     `json:"closedWon"`
	TotalValue     float64 `json:"totalValue"`
	ConversionRate int     `json:"conversionRate"`
}

type ServiceStats struct {
	Total int `json:"total"`
}

type RevenueStats struct {
	Completed float64 `json:"completed"`
	Active    float64 `json:"active"`
	Projected float64 `json:"projected"`
	Total     float64 `json:"total"`
}

type RecentActivity struct {
	Projects []projects.Project `json:"projects"`
	Tasks    []tasks.Task       `json:"tasks"`
}

type Stats struct {
	Projects       ProjectStats   `json:"projects"`
	Clients        ClientStats    `json:"clients"`
	Tasks          TaskStats      `json:"tasks"`
	Leads          LeadStats      `json:"leads"`
	Services       ServiceStats   `json:"services"`
	Revenue        RevenueStats   `json:"revenue"`
	RecentActivity RecentActivity `json:"recentActivity"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

type StageValue struct {
	Stage string  `json:"stage"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type Charts struct {
	ProjectsByStatus []StatusCount   `json:"projectsByStatus"`
	TasksByPriority  []PriorityCount `json:"tasksByPriority"`
	LeadsByStage     []StageValue    `json:"leadsByStage"`
	MonthlyProjects  []MonthCount    `json:"monthlyProjects"`
}
