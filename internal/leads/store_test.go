package leads

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MishalHQ/aevon-console/internal/clients"
)

// convConnector backs both stores with a scripted connection that records
// transaction activity, so the conversion's commit and rollback paths are
// observable.
type convConnector struct {
	ops       *[]string
	failStage bool
}

func (c convConnector) Connect(context.Context) (driver.Conn, error) {
	return &convConn{ops: c.ops, failStage: c.failStage}, nil
}

func (c convConnector) Driver() driver.Driver { return nil }

type convConn struct {
	ops       *[]string
	failStage bool
}

func (*convConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (*convConn) Close() error                        { return nil }

func (c *convConn) Begin() (driver.Tx, error) {
	*c.ops = append(*c.ops, "begin")
	return convTx{ops: c.ops}, nil
}

func (c *convConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if strings.Contains(query, "INSERT INTO clients") {
		*c.ops = append(*c.ops, "insert client")
		return &clientRows{}, nil
	}
	return nil, fmt.Errorf("unexpected query: %s", query)
}

func (c *convConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	if strings.Contains(query, "UPDATE leads SET stage") {
		*c.ops = append(*c.ops, "set stage")
		if c.failStage {
			return nil, errors.New("connection reset")
		}
		return driver.RowsAffected(1), nil
	}
	return nil, fmt.Errorf("unexpected exec: %s", query)
}

type convTx struct{ ops *[]string }

func (t convTx) Commit() error {
	*t.ops = append(*t.ops, "commit")
	return nil
}

func (t convTx) Rollback() error {
	*t.ops = append(*t.ops, "rollback")
	return nil
}

type clientRows struct{ done bool }

func (*clientRows) Columns() []string {
	return []string{"id", "name", "email", "phone", "company", "industry", "status", "address", "notes", "created_at", "updated_at"}
}

func (*clientRows) Close() error { return nil }

func (r *clientRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	now := time.Now().UTC()
	copy(dest, []driver.Value{
		int64(10), "Acme", "a@acme.com", "", "", "", "Active", "", "Converted from lead.", now, now,
	})
	return nil
}

func convertHarness(t *testing.T, failStage bool) (*Store, *clients.Store, *[]string) {
	t.Helper()
	ops := []string{}
	db := sql.OpenDB(convConnector{ops: &ops, failStage: failStage})
	t.Cleanup(func() { db.Close() })
	return NewStore(db), clients.NewStore(db), &ops
}

func TestConvertCommitsBothWrites(t *testing.T) {
	store, clientStore, ops := convertHarness(t, false)

	created, err := store.Convert(context.Background(), 1,
		&clients.Client{Name: "Acme", Status: clients.StatusActive}, clientStore)
	require.NoError(t, err)
	assert.Equal(t, "Acme", created.Name)
	assert.Equal(t, []string{"begin", "insert client", "set stage", "commit"}, *ops)
}

// A failure after the client insert must roll the whole conversion back:
// no commit, no client row without the lead being closed.
func TestConvertRollsBackWhenStageUpdateFails(t *testing.T) {
	store, clientStore, ops := convertHarness(t, true)

	_, err := store.Convert(context.Background(), 1,
		&clients.Client{Name: "Acme", Status: clients.StatusActive}, clientStore)
	require.Error(t, err)
	assert.Contains(t, *ops, "rollback")
	assert.NotContains(t, *ops, "commit")
}
