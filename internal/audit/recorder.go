package audit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"
)

// Appender is the slice of the store the recorder needs; tests substitute
// an in-memory implementation.
type Appender interface {
	Insert(ctx context.Context, e *Event) error
}

// Entry is what callers supply when recording. UserID zero means the actor
// was not (yet) authenticated; UserEmail then carries the attempted input.
type Entry struct {
	Action    Action
	UserID    int64
	UserEmail string
	Detail    string
	IPAddress string
}

// Recorder appends audit events. It is best-effort: a persistence failure is
// logged and swallowed so the triggering business operation never fails or
// rolls back because of audit.
type Recorder struct {
	store  Appender
	logger *slog.Logger
}

func NewRecorder(store Appender, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

func (r *Recorder) Record(ctx context.Context, entry Entry) {
	action := entry.Action
	if !action.Known() {
		action = ActionOther
	}
	e := &Event{
		Action:    action,
		UserID:    entry.UserID,
		UserEmail: entry.UserEmail,
		Detail:    entry.Detail,
		IPAddress: entry.IPAddress,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.store.Insert(ctx, e); err != nil {
		r.logger.Error("record audit event", "action", action, "err", err)
	}
}

// ClientIP extracts the originating address, preferring the proxy header.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop in the comma-separated chain.
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
