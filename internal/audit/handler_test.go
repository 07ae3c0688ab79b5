package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves a fixed log, applying limit/offset the way the real
// store does.
type fakeSource struct {
	events []Event
}

func (f *fakeSource) matching(flt Filter) []Event {
	out := []Event{}
	for _, e := range f.events {
		if flt.Action != "" && string(e.Action) != flt.Action {
			continue
		}
		if flt.UserID != 0 && e.UserID != flt.UserID {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (f *fakeSource) List(_ context.Context, flt Filter) ([]Event, error) {
	m := f.matching(flt)
	if flt.Offset >= len(m) {
		return []Event{}, nil
	}
	m = m[flt.Offset:]
	if flt.Limit > 0 && flt.Limit < len(m) {
		m = m[:flt.Limit]
	}
	return m, nil
}

func (f *fakeSource) Count(_ context.Context, flt Filter) (int, error) {
	return len(f.matching(flt)), nil
}

func (f *fakeSource) Actions(_ context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	actions := []string{}
	for _, e := range f.events {
		if _, ok := seen[string(e.Action)]; !ok {
			seen[string(e.Action)] = struct{}{}
			actions = append(actions, string(e.Action))
		}
	}
	return actions, nil
}

func (f *fakeSource) Stats(_ context.Context) (*Stats, error) {
	return &Stats{Total: len(f.events)}, nil
}

func seededSource(n int) *fakeSource {
	f := &fakeSource{}
	for i := 0; i < n; i++ {
		f.events = append(f.events, Event{
			ID:        int64(i + 1),
			Action:    ActionUserLogin,
			UserID:    1,
			UserEmail: "a@x.com",
			CreatedAt: time.Now().UTC(),
		})
	}
	return f
}

func getLogs(t *testing.T, h *Handler, query string) listResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/audit-logs"+query, nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// hasMore = offset + returned < total, including past-the-end requests.
func TestListPaginationContract(t *testing.T) {
	h := &Handler{Source: seededSource(25), Logger: testLogger()}

	cases := []struct {
		query     string
		wantCount int
		wantMore  bool
	}{
		{"?limit=10&offset=0", 10, true},
		{"?limit=10&offset=10", 10, true},
		{"?limit=10&offset=20", 5, false},
		{"?limit=10&offset=25", 0, false},
		{"?limit=10&offset=100", 0, false},
		{"?limit=50&offset=0", 25, false},
	}
	for _, tc := range cases {
		body := getLogs(t, h, tc.query)
		assert.Len(t, body.Logs, tc.wantCount, tc.query)
		assert.Equal(t, tc.wantMore, body.Pagination.HasMore, tc.query)
		assert.Equal(t, 25, body.Pagination.Total, tc.query)
	}
}

func TestListFiltersByActionAndUser(t *testing.T) {
	src := seededSource(3)
	src.events = append(src.events, Event{ID: 4, Action: ActionProjectDeleted, UserID: 2, UserEmail: "b@x.com"})
	h := &Handler{Source: src, Logger: testLogger()}

	body := getLogs(t, h, "?action=PROJECT_DELETED")
	require.Len(t, body.Logs, 1)
	assert.Equal(t, ActionProjectDeleted, body.Logs[0].Action)
	assert.Equal(t, 1, body.Pagination.Total)

	body = getLogs(t, h, "?user_id=1")
	assert.Len(t, body.Logs, 3)
	assert.Equal(t, 3, body.Pagination.Total)
}

func TestListClampsBadLimit(t *testing.T) {
	h := &Handler{Source: seededSource(5), Logger: testLogger()}

	for _, q := range []string{"?limit=-1", "?limit=0", "?limit=99999", "?limit=abc"} {
		body := getLogs(t, h, q)
		assert.Equal(t, 50, body.Pagination.Limit, q)
	}
}

func TestListActions(t *testing.T) {
	src := seededSource(2)
	src.events = append(src.events, Event{ID: 3, Action: ActionUserLogout, UserID: 1})
	h := &Handler{Source: src, Logger: testLogger()}

	req := httptest.NewRequest(http.MethodGet, "/api/audit-logs/actions", nil)
	rec := httptest.NewRecorder()
	h.ListActions(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var actions []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &actions))
	assert.ElementsMatch(t, []string{"USER_LOGIN", "USER_LOGOUT"}, actions)
}
