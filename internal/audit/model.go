package audit

import "time"

// Action tags the kind of security- or business-relevant event being
// recorded. The set is closed; anything outside it goes in as ActionOther.
type Action string

const (
	ActionUserLogin      Action = "USER_LOGIN"
	ActionUserLogout     Action = "USER_LOGOUT"
	ActionLoginFailed    Action = "LOGIN_FAILED"
	ActionUserCreated    Action = "USER_CREATED"
	ActionUserUpdated    Action = "USER_UPDATED"
	ActionUserDisabled   Action = "USER_DISABLED"
	ActionProjectCreated Action = "PROJECT_CREATED"
	ActionProjectUpdated Action = "PROJECT_UPDATED"
	ActionProjectDeleted Action = "PROJECT_DELETED"
	ActionOther          Action = "OTHER"
)

var knownActions = map[Action]struct{}{
	ActionUserLogin:      {},
	ActionUserLogout:     {},
	ActionLoginFailed:    {},
	ActionUserCreated:    {},
	ActionUserUpdated:    {},
	ActionUserDisabled:   {},
	ActionProjectCreated: {},
	ActionProjectUpdated: {},
	ActionProjectDeleted: {},
	ActionOther:          {},
}

func (a Action) Known() bool {
	_, ok := knownActions[a]
	return ok
}

// Event is one append-only audit row. UserEmail is snapshotted at event time
// so later user mutations do not rewrite history; UserID is zero for
// pre-authentication failures.
type Event struct {
	ID        int64     `json:"id"`
	Action    Action    `json:"action"`
	UserID    int64     `json:"user_id"`
	UserEmail string    `json:"user_email"`
	UserName  string    `json:"user_name,omitempty"`
	Detail    string    `json:"details"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"timestamp"`
}

type Filter struct {
	Action string
	UserID int64
	Limit  int
	Offset int
}

type ActionCount struct {
	Action Action `json:"action"`
	Count  int    `json:"count"`
}

type Stats struct {
	Total          int           `json:"total"`
	ByAction       []ActionCount `json:"byAction"`
	RecentActivity []Event       `json:"recentActivity"`
}
