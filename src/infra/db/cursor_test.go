package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"tdcweb/src/infra/logger"
)

func TestWithCursorCommitsOnSuccess(t *testing.T) {
	sess, mock, _ := newMockSession(t)
	defer sess.Release()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name FROM locations WHERE id = ?").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("main hall"))
	mock.ExpectCommit()

	var row Row
	err := sess.WithCursor(context.Background(), func(c *Cursor) error {
		var err error
		row, err = c.One(context.Background(), "SELECT name FROM locations WHERE id = ?", 7)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, Row{"name": "main hall"}, row)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithCursorRollsBackAndReturnsBodyErrorUnchanged(t *testing.T) {
	sess, mock, _ := newMockSession(t)
	defer sess.Release()

	errBoom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := sess.WithCursor(context.Background(), func(c *Cursor) error {
		return errBoom
	})

	// The body error comes back unchanged, not wrapped.
	require.Same(t, errBoom, err)
	// Rollback happened exactly once, no commit.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithCursorRollsBackOnStatementError(t *testing.T) {
	sess, mock, _ := newMockSession(t)
	defer sess.Release()

	cause := errors.New("syntax error near FROM")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT bogus").WillReturnError(cause)
	mock.ExpectRollback()

	err := sess.WithCursor(context.Background(), func(c *Cursor) error {
		_, err := c.One(context.Background(), "SELECT bogus")
		return err
	})

	require.True(t, IsStatementError(err))
	// The driver error is preserved through the wrapper.
	require.ErrorIs(t, err, cause)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithCursorRollsBackWhenBodyPanics(t *testing.T) {
	sess, mock, _ := newMockSession(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	require.PanicsWithValue(t, "boom", func() {
		_ = sess.WithCursor(context.Background(), func(c *Cursor) error {
			panic("boom")
		})
	})

	// The rollback fired while the panic unwound.
	require.NoError(t, mock.ExpectationsWereMet())

	// With no open transaction pinning the bound connection, teardown
	// returns promptly instead of blocking on the connection close.
	done := make(chan struct{})
	go func() {
		sess.Release()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("release blocked after a panic inside the cursor scope")
	}
}

func TestFetchOneZeroRows(t *testing.T) {
	sess, mock, _ := newMockSession(t)
	defer sess.Release()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT * FROM users WHERE id = ?").
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))
	mock.ExpectCommit()

	row, err := sess.FetchOne(context.Background(), "SELECT * FROM users WHERE id = ?", 999)
	require.NoError(t, err, "zero rows is an absent value, never an error")
	require.Nil(t, row)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchAllPreservesOrder(t *testing.T) {
	sess, mock, _ := newMockSession(t)
	defer sess.Release()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name FROM locations ORDER BY sort_order").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "stage").
			AddRow(int64(2), "bar").
			AddRow(int64(3), "garden"))
	mock.ExpectCommit()

	rows, err := sess.FetchAll(context.Background(), "SELECT id, name FROM locations ORDER BY sort_order")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "stage", rows[0]["name"])
	require.Equal(t, "bar", rows[1]["name"])
	require.Equal(t, "garden", rows[2]["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchAllEmpty(t *testing.T) {
	sess, mock, _ := newMockSession(t)
	defer sess.Release()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM tags").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	rows, err := sess.FetchAll(context.Background(), "SELECT id FROM tags")
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReturnsGeneratedID(t *testing.T) {
	sess, mock, _ := newMockSession(t)
	defer sess.Release()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users (email, username) VALUES (?, ?)").
		WithArgs("a@b.c", "dreamer").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	id, err := sess.Insert(context.Background(),
		"INSERT INTO users (email, username) VALUES (?, ?)", "a@b.c", "dreamer")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecReturnsAffectedCount(t *testing.T) {
	sess, mock, _ := newMockSession(t)
	defer sess.Release()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET last_login = NOW() WHERE id = ?").
		WithArgs(12345).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	affected, err := sess.Exec(context.Background(),
		"UPDATE users SET last_login = NOW() WHERE id = ?", 12345)
	require.NoError(t, err)
	require.Equal(t, int64(0), affected, "update of a missing row affects zero rows")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecBatchAggregatesAffectedRows(t *testing.T) {
	sess, mock, _ := newMockSession(t)
	defer sess.Release()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO tags (name) VALUES (?)").
		WithArgs("rock").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO tags (name) VALUES (?)").
		WithArgs("jazz").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO tags (name) VALUES (?)").
		WithArgs("electronic").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	total, err := sess.ExecBatch(context.Background(),
		"INSERT INTO tags (name) VALUES (?)",
		[][]any{{"rock"}, {"jazz"}, {"electronic"}})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecBatchRollsBackWholeBatchOnFailure(t *testing.T) {
	sess, mock, _ := newMockSession(t)
	defer sess.Release()

	cause := errors.New("duplicate entry")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO tags (name) VALUES (?)").
		WithArgs("rock").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO tags (name) VALUES (?)").
		WithArgs("rock").
		WillReturnError(cause)
	mock.ExpectRollback()

	total, err := sess.ExecBatch(context.Background(),
		"INSERT INTO tags (name) VALUES (?)",
		[][]any{{"rock"}, {"rock"}})
	require.ErrorIs(t, err, cause)
	require.Zero(t, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProbeAgainstLiveDatabase(t *testing.T) {
	sess, mock, _ := newMockSession(t)
	defer sess.Release()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(int64(1)))
	mock.ExpectCommit()

	require.True(t, sess.Probe(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProbeTextualSentinel(t *testing.T) {
	sess, mock, _ := newMockSession(t)
	defer sess.Release()

	// The MySQL text protocol returns []byte("1") for SELECT 1.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow([]byte("1")))
	mock.ExpectCommit()

	require.True(t, sess.Probe(context.Background()))
}

func TestProbeConvertsErrorsToFalse(t *testing.T) {
	sess, mock, _ := newMockSession(t)
	defer sess.Release()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("server has gone away"))
	mock.ExpectRollback()

	require.False(t, sess.Probe(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProbeAgainstUninitializedPool(t *testing.T) {
	pool := NewPool(testDBConfig(5, time.Second), logger.Discard())
	sess := NewSession(pool, logger.Discard())
	defer sess.Release()

	// No exception escapes; the probe is a pure boolean signal.
	require.False(t, sess.Probe(context.Background()))
}

func TestCursorPositionalRows(t *testing.T) {
	sess, mock, _ := newMockSession(t)
	defer sess.Release()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name FROM locations").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "stage").
			AddRow(int64(2), "bar"))
	mock.ExpectCommit()

	var all [][]any
	err := sess.WithCursor(context.Background(), func(c *Cursor) error {
		var err error
		all, err = c.AllValues(context.Background(), "SELECT id, name FROM locations")
		return err
	})
	require.NoError(t, err)
	require.Equal(t, [][]any{{int64(1), "stage"}, {int64(2), "bar"}}, all)
}

func TestCursorStreamingQuery(t *testing.T) {
	sess, mock, _ := newMockSession(t)
	defer sess.Release()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM big_table").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)))
	mock.ExpectCommit()

	var seen int
	err := sess.WithCursor(context.Background(), func(c *Cursor) error {
		rows, err := c.Query(context.Background(), "SELECT id FROM big_table")
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			seen++
		}
		return rows.Err()
	})
	require.NoError(t, err)
	require.Equal(t, 2, seen)
}
