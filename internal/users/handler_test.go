package users

import (
	"context"
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
	users map[int64]*auth.User
}

func newFakeStore(users ...*auth.User) *fakeStore {
	f := &fakeStore{users: map[int64]*auth.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeStore) List(_ context.Context) ([]auth.User, error) {
	out := []auth.User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*auth.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) Create(_ context.Context, email, password, name string, role auth.Role) (*auth.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return nil, auth.ErrDuplicateEmail
		}
	}
	u := &auth.User{
		ID: int64(len(f.users) + 1), Email: email, Name: name, Role: role,
		IsActive: true, CreatedAt: time.Now().UTC(),
	}
	f.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, p auth.UpdateParams) (*auth.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) Disable(_ context.Context, id int64) error {
	u, ok := f.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.IsActive = false
	return nil
}

type fakeRecorder struct {
	entries []audit.Entry
}

func (f *fakeRecorder) Record(_ context.Context, e audit.Entry) {
	f.entries = append(f.entries, e)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func asAdmin(req *http.Request, admin *auth.User) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), admin))
}

func TestCannotDisableOwnAccount(t *testing.T) {
	admin := &auth.User{ID: 1, Email: "a@x.com", Role: auth.RoleAdmin, IsActive: true}
	store := newFakeStore(admin)
	h := &Handler{Store: store, Audit: &fakeRecorder{}, Logger: testLogger()}

	// DELETE on self.
	req := asAdmin(httptest.NewRequest(http.MethodDelete, "/api/users/1", nil), admin)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.Disable(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, store.users[1].IsActive)

	// PUT with is_active=false on self.
	req = asAdmin(httptest.NewRequest(http.MethodPut, "/api/users/1",
		strings.NewReader(`{"is_active":false}`)), admin)
	req.SetPathValue("id", "1")
	rec = httptest.NewRecorder()
	h.Update(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, store.users[1].IsActive)
}

func TestCannotDemoteOwnAccount(t *testing.T) {
	admin := &auth.User{ID: 1, Email: "a@x.com", Role: auth.RoleAdmin, IsActive: true}
	store := newFakeStore(admin)
	h := &Handler{Store: store, Audit: &fakeRecorder{}, Logger: testLogger()}

	req := asAdmin(httptest.NewRequest(http.MethodPut, "/api/users/1",
		strings.NewReader(`{"role":"VIEWER"}`)), admin)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, auth.RoleAdmin, store.users[1].Role)
}

func TestAdminCanDisableOtherAccount(t *testing.T) {
	admin := &auth.User{ID: 1, Email: "a@x.com", Role: auth.RoleAdmin, IsActive: true}
	other := &auth.User{ID: 2, Email: "v@x.com", Role: auth.RoleViewer, IsActive: true}
	store := newFakeStore(admin, other)
	recorder := &fakeRecorder{}
	h := &Handler{Store: store, Audit: recorder, Logger: testLogger()}

	req := asAdmin(httptest.NewRequest(http.MethodDelete, "/api/users/2", nil), admin)
	req.SetPathValue("id", "2")
	rec := httptest.NewRecorder()
	h.Disable(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, store.users[2].IsActive)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, audit.ActionUserDisabled, recorder.entries[0].Action)
	assert.Equal(t, int64(1), recorder.entries[0].UserID)
}

func TestCreateUserValidation(t *testing.T) {
	admin := &auth.User{ID: 1, Email: "a@x.com", Role: auth.RoleAdmin, IsActive: true}
	h := &Handler{Store: newFakeStore(admin), Audit: &fakeRecorder{}, Logger: testLogger()}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing fields", `{"email":"n@x.com"}`, http.StatusBadRequest},
		{"bad role", `{"email":"n@x.com","password":"pw","name":"N","role":"ROOT"}`, http.StatusBadRequest},
		{"ok", `{"email":"n@x.com","password":"pw","name":"N","role":"VIEWER"}`, http.StatusCreated},
		{"duplicate email", `{"email":"a@x.com","password":"pw","name":"A","role":"VIEWER"}`, http.StatusConflict},
	}
	for _, tc := range cases {
		req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(tc.body)), admin)
		rec := httptest.NewRecorder()
		h.Create(rec, req)
		assert.Equal(t, tc.want, rec.Code, tc.name)
	}
}

func TestUpdateUnknownUser(t *testing.T) {
	admin := &auth.User{ID: 1, Email: "a@x.com", Role: auth.RoleAdmin, IsActive: true}
	h := &Handler{Store: newFakeStore(admin), Audit: &fakeRecorder{}, Logger: testLogger()}

	req := asAdmin(httptest.NewRequest(http.MethodPut, "/api/users/99",
		strings.NewReader(`{"name":"X"}`)), admin)
	req.SetPathValue("id", "99")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
