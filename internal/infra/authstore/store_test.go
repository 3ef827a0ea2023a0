package authstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wagateway/internal/domain/session"
	"wagateway/internal/infra/authstore"
	"wagateway/pkg/logger"
)

func newTestStore(t *testing.T) *authstore.Store {
	t.Helper()
	dir := t.TempDir()
	store, err := authstore.New(dir, &logger.NoopLogger{})
	require.NoError(t, err)
	return store
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	id := session.NewSessionID()

	assert.False(t, store.Exists(id))

	err := store.Save(id, authstore.Blob{DeviceJID: "5511999999999.0:1@s.whatsapp.net", Payload: []byte("device-bytes")})
	require.NoError(t, err)

	assert.True(t, store.Exists(id))

	blob, err := store.Load(id)
	require.NoError(t, err)
	assert.Equal(t, id.String(), blob.InstanceID)
	assert.Equal(t, "5511999999999.0:1@s.whatsapp.net", blob.DeviceJID)
	assert.Equal(t, []byte("device-bytes"), blob.Payload)
	assert.False(t, blob.SavedAt.IsZero())
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	id := session.NewSessionID()

	require.NoError(t, store.Delete(context.Background(), id))

	require.NoError(t, store.Save(id, authstore.Blob{DeviceJID: "x"}))
	require.NoError(t, store.Delete(context.Background(), id))
	assert.False(t, store.Exists(id))

	require.NoError(t, store.Delete(context.Background(), id))
}

func TestStoreSaveDoesNotLeaveTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	store, err := authstore.New(dir, &logger.NoopLogger{})
	require.NoError(t, err)

	id := session.NewSessionID()
	require.NoError(t, store.Save(id, authstore.Blob{DeviceJID: "y"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id.String()+".gob", entries[0].Name())
	assert.Equal(t, filepath.Join(dir, id.String()+".gob"), filepath.Join(dir, entries[0].Name()))
}
