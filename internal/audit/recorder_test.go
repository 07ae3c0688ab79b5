package audit

import (
	"context"
	"errors"
	"io"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAppender struct {
	events  []Event
	failErr error
}

func (m *memAppender) Insert(_ context.Context, e *Event) error {
	if m.failErr != nil {
		return m.failErr
	}
	e.ID = int64(len(m.events) + 1)
	m.events = append(m.events, *e)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecorderAppends(t *testing.T) {
	store := &memAppender{}
	rec := NewRecorder(store, testLogger())

	rec.Record(context.Background(), Entry{
		Action:    ActionUserLogin,
		UserID:    1,
		UserEmail: "a@x.com",
		Detail:    "Login successful",
		IPAddress: "10.0.0.1",
	})

	require.Len(t, store.events, 1)
	got := store.events[0]
	assert.Equal(t, ActionUserLogin, got.Action)
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, "a@x.com", got.UserEmail)
	assert.Equal(t, "10.0.0.1", got.IPAddress)
	assert.False(t, got.CreatedAt.IsZero())
}

// A failing insert must be swallowed; audit never breaks the caller.
func TestRecorderSwallowsFailures(t *testing.T) {
	store := &memAppender{failErr: errors.New("connection refused")}
	rec := NewRecorder(store, testLogger())

	assert.NotPanics(t, func() {
		rec.Record(context.Background(), Entry{Action: ActionProjectCreated, UserID: 1})
	})
	assert.Empty(t, store.events)
}

func TestRecorderUnknownActionFallsBack(t *testing.T) {
	store := &memAppender{}
	rec := NewRecorder(store, testLogger())

	rec.Record(context.Background(), Entry{Action: Action("SOMETHING_NEW"), UserID: 1})

	require.Len(t, store.events, 1)
	assert.Equal(t, ActionOther, store.events[0].Action)
}
