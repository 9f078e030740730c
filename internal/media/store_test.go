package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amcruz/storefront-backend/pkg/config"
	pkgerrors "github.com/amcruz/storefront-backend/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(config.UploadsConfig{
		Dir:         t.TempDir(),
		MaxUploadMB: 1,
		PublicBase:  "/uploads",
	})
	require.NoError(t, err)
	return store
}

func TestSaveAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key, err := store.Save(ctx, "banner.PNG", strings.NewReader("pretend png bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".png"))

	data, err := os.ReadFile(filepath.Join(store.Dir(), key))
	require.NoError(t, err)
	assert.Equal(t, "pretend png bytes", string(data))

	assert.Equal(t, "/uploads/"+key, store.PublicURL(key))
	assert.Equal(t, key, store.KeyFromURL("/uploads/"+key))
	assert.Empty(t, store.KeyFromURL("https://elsewhere/x.png"))

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(store.Dir(), key))
	assert.True(t, os.IsNotExist(err))

	// Deleting again is a no-op.
	require.NoError(t, store.Delete(ctx, key))
}

func TestSaveRejectsBadUploads(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, "malware.exe", strings.NewReader("nope"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = store.Save(ctx, "empty.png", strings.NewReader(""))
	require.Error(t, err)

	big := strings.Repeat("x", 1024*1024+1)
	_, err = store.Save(ctx, "big.png", strings.NewReader(big))
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDeleteRejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	for _, key := range []string{"../secret.png", "a/b.png", "", ".hidden"} {
		err := store.Delete(context.Background(), key)
		require.Error(t, err, "key %q", key)
	}
}

func TestListOlderThan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	oldKey, err := store.Save(ctx, "old.png", strings.NewReader("old"))
	require.NoError(t, err)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(store.Dir(), oldKey), past, past))

	freshKey, err := store.Save(ctx, "fresh.png", strings.NewReader("fresh"))
	require.NoError(t, err)

	keys, err := store.ListOlderThan(ctx, time.Hour)
	require.NoError(t, err)
	assert.Contains(t, keys, oldKey)
	assert.NotContains(t, keys, freshKey)
}
