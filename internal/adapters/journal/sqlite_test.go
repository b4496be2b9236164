package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-scheduler/internal/ports"
)

func openMemory(t *testing.T) *SQLiteJournal {
	t.Helper()

	j, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return j
}

func resolution(op ports.Operation, id int64, outcome ports.Outcome, at time.Time) ports.Resolution {
	return ports.Resolution{
		Operation: op,
		QuoteID:   id,
		Outcome:   outcome,
		Duration:  15 * time.Millisecond,
		At:        at,
	}
}

func TestSQLiteJournal_AppendAndHistory(t *testing.T) {
	j := openMemory(t)
	ctx := context.Background()
	base := time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, j.Append(ctx, resolution(ports.OpRefresh, 0, ports.OutcomeApplied, base)))
	require.NoError(t, j.Append(ctx, resolution(ports.OpCreate, 42, ports.OutcomeApplied, base.Add(time.Second))))

	failed := resolution(ports.OpRemove, 42, ports.OutcomeFailed, base.Add(2*time.Second))
	failed.Error = "quote-service unavailable"
	require.NoError(t, j.Append(ctx, failed))

	history, err := j.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, failed, history[0], "newest first")
	assert.Equal(t, ports.OpCreate, history[1].Operation)
	assert.Equal(t, ports.OpRefresh, history[2].Operation)

	limited, err := j.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, ports.OpRemove, limited[0].Operation)
}

func TestSQLiteJournal_ForQuote(t *testing.T) {
	j := openMemory(t)
	ctx := context.Background()
	base := time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, j.Append(ctx, resolution(ports.OpCreate, 7, ports.OutcomeApplied, base)))
	require.NoError(t, j.Append(ctx, resolution(ports.OpUpdate, 8, ports.OutcomeStale, base)))
	require.NoError(t, j.Append(ctx, resolution(ports.OpUpdate, 7, ports.OutcomeApplied, base)))

	got, err := j.ForQuote(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ports.OpCreate, got[0].Operation)
	assert.Equal(t, ports.OpUpdate, got[1].Operation)

	none, err := j.ForQuote(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteJournal_ZeroTimeIsStamped(t *testing.T) {
	j := openMemory(t)
	ctx := context.Background()

	require.NoError(t, j.Append(ctx, ports.Resolution{Operation: ports.OpRefresh, Outcome: ports.OutcomeApplied}))

	history, err := j.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.WithinDuration(t, time.Now(), history[0].At, time.Minute)
}

func TestSQLiteJournal_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	ctx := context.Background()

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Append(ctx, resolution(ports.OpCreate, 1, ports.OutcomeApplied, time.Now())))
	require.NoError(t, j.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	history, err := reopened.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSQLiteJournal_AppendAfterClose(t *testing.T) {
	j, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, j.Close())

	err = j.Append(context.Background(), resolution(ports.OpCreate, 1, ports.OutcomeApplied, time.Now()))
	require.Error(t, err)
}
