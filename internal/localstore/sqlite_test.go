package localstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/unemployment-navigator/internal/session"
	"github.com/jonathan/unemployment-navigator/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func clockAt(base time.Time) session.Option {
	n := 0
	return session.WithClock(func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	})
}

func TestStore_RoundTrip(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	got, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)

	st := session.New("abc", clockAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)))
	st.AppendMessage("hello", types.SenderBot, "")
	st.SetStep(types.StepEmploymentStatus)
	want := st.Snapshot()
	require.NoError(t, s.Save(ctx, want))

	got, err = s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	st.SetStep(types.StepTimeline)
	require.NoError(t, s.Save(ctx, st.Snapshot()))
	got, err = s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, types.StepTimeline, got.CurrentStep)

	require.NoError(t, s.Delete(ctx, "abc"))
	got, err = s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Latest(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	id, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	older := session.New("older", clockAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	newer := session.New("newer", clockAt(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, s.Save(ctx, newer.Snapshot()))
	require.NoError(t, s.Save(ctx, older.Snapshot()))

	id, err = s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "newer", id)
}

func TestStore_CorruptRow(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, snapshot, current_step, complete, updated_at) VALUES ('bad', '{"id":1}', 'initial', 0, '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = s.Load(ctx, "bad")
	assert.ErrorIs(t, err, session.ErrCorrupt)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navigator.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), session.New("abc").Snapshot()))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	got, err := s.Load(context.Background(), "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.ID)
}
