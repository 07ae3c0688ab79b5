package projects

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MishalHQ/aevon-console/internal/audit"
	"github.com/MishalHQ/aevon-console/internal/auth"
)

type fakeStore struct {
	projects map[int64]*Project
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{projects: map[int64]*Project{}, nextID: 1}
}

func (f *fakeStore) List(_ context.Context) ([]Project, error) {
	out := []Project{}
	for _, p := range f.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) ListDemos(_ context.Context) ([]Project, error) {
	out := []Project{}
	for _, p := range f.projects {
		if p.IsDemo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (*Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) Create(_ context.Context, p *Project) (*Project, error) {
	cp := *p
	cp.ID = f.nextID
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	f.projects[cp.ID] = &cp
	f.nextID++
	out := cp
	return &out, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, params UpdateParams) (*Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Type != nil {
		p.Type = *params.Type
	}
	if params.Status != nil {
		p.Status = *params.Status
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.projects[id]; !ok {
		return ErrNotFound
	}
	delete(f.projects, id)
	return nil
}

// failingAppender simulates a broken audit table.
type failingAppender struct{}

func (failingAppender) Insert(context.Context, *audit.Event) error {
	return errors.New("audit_logs: relation does not exist")
}

type memAppender struct {
	events []audit.Event
}

func (m *memAppender) Insert(_ context.Context, e *audit.Event) error {
	m.events = append(m.events, *e)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func adminRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	admin := &auth.User{ID: 1, Email: "a@x.com", Role: auth.RoleAdmin, IsActive: true}
	return r.WithContext(auth.WithUser(r.Context(), admin))
}

func TestCreateValidatesEnums(t *testing.T) {
	h := &Handler{
		Store:  newFakeStore(),
		Audit:  audit.NewRecorder(&memAppender{}, testLogger()),
		Logger: testLogger(),
	}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing required", `{"name":"P"}`, http.StatusBadRequest},
		{"bad type", `{"name":"P","type":"Enterprise","status":"Active"}`, http.StatusBadRequest},
		{"bad status", `{"name":"P","type":"Business","status":"Cancelled"}`, http.StatusBadRequest},
		{"ok", `{"name":"P","type":"Business","status":"Active"}`, http.StatusCreated},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h.Create(rec, adminRequest(http.MethodPost, "/api/projects", tc.body))
		assert.Equal(t, tc.want, rec.Code, tc.name)
	}
}

// A broken audit sink must not fail the business operation.
func TestCreateSucceedsWhenAuditFails(t *testing.T) {
	store := newFakeStore()
	h := &Handler{
		Store:  store,
		Audit:  audit.NewRecorder(failingAppender{}, testLogger()),
		Logger: testLogger(),
	}

	rec := httptest.NewRecorder()
	h.Create(rec, adminRequest(http.MethodPost, "/api/projects",
		`{"name":"P","type":"Business","status":"Planned"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, store.projects, 1)
}

func TestMutationsAreAudited(t *testing.T) {
	store := newFakeStore()
	sink := &memAppender{}
	h := &Handler{
		Store:  store,
		Audit:  audit.NewRecorder(sink, testLogger()),
		Logger: testLogger(),
	}

	rec := httptest.NewRecorder()
	h.Create(rec, adminRequest(http.MethodPost, "/api/projects",
		`{"name":"P","type":"Business","status":"Planned"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	req := adminRequest(http.MethodDelete, "/api/projects/1", "")
	req.SetPathValue("id", "1")
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, sink.events, 2)
	assert.Equal(t, audit.ActionProjectCreated, sink.events[0].Action)
	assert.Equal(t, audit.ActionProjectDeleted, sink.events[1].Action)
	// Creation detail defaults to the request payload.
	assert.Contains(t, sink.events[0].Detail, `"name":"P"`)
	assert.Equal(t, int64(1), sink.events[0].UserID)
	assert.Equal(t, "a@x.com", sink.events[0].UserEmail)
}

func TestGetUnknownProject(t *testing.T) {
	h := &Handler{
		Store:  newFakeStore(),
		Audit:  audit.NewRecorder(&memAppender{}, testLogger()),
		Logger: testLogger(),
	}

	req := adminRequest(http.MethodGet, "/api/projects/7", "")
	req.SetPathValue("id", "7")
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateValidatesEnumsWhenPresent(t *testing.T) {
	store := newFakeStore()
	h := &Handler{
		Store:  store,
		Audit:  audit.NewRecorder(&memAppender{}, testLogger()),
		Logger: testLogger(),
	}
	_, err := store.Create(context.Background(),
		&Project{Name: "P", Type: TypeBusiness, Status: StatusPlanned})
	require.NoError(t, err)

	req := adminRequest(http.MethodPut, "/api/projects/1", `{"status":"Nope"}`)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = adminRequest(http.MethodPut, "/api/projects/1", `{"status":"Completed"}`)
	req.SetPathValue("id", "1")
	rec = httptest.NewRecorder()
	h.Update(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, StatusCompleted, got.Status)
	// Fields absent from the payload keep their values.
	assert.Equal(t, "P", got.Name)
}
