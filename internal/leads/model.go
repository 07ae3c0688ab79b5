package leads

import "time"

type Stage string

const (
	StageContacted   Stage = "Contacted"
	StageNegotiation Stage = "Negotiation"
	StageClosedWon   Stage = "Closed Won"
	StageClosedLost  Stage = "Closed Lost"
)

func (s Stage) Valid() bool {
	switch s {
	case StageContacted, StageNegotiation, StageClosedWon, StageClosedLost:
		return true
	}
	return false
}

type Lead struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Company        string    `json:"company"`
	Source         string    `json:"source"`
	Stage          Stage     `json:"stage"`
	PotentialValue float64   `json:"potential_value"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
