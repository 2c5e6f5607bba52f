package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

func TestNewDB_FileBackedRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "folio.db")

	db, err := NewDB(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path, db.Path())

	version, err := RunMigrations(db.Writer)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	// Second run is a no-op.
	version, err = RunMigrations(db.Writer)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	require.NoError(t, db.Ping(ctx))

	repo := NewSlotRepo(db)
	require.NoError(t, repo.Save(ctx, model.Slot{Name: "theme", Payload: []byte(`"dark"`)}))
	require.NoError(t, db.Close())

	reopened, err := NewDB(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := NewSlotRepo(reopened).Load(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, `"dark"`, string(got.Payload))
}
