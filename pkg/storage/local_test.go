package storage

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), "http://cdn.test", NewSigner("secret"))
	require.NoError(t, err)
	return store
}

func TestLocalStorePutRejectsOverwrite(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "media", "media/a.png", strings.NewReader("one"), PutOptions{}))
	err := store.Put(ctx, "media", "media/a.png", strings.NewReader("two"), PutOptions{})
	require.ErrorIs(t, err, ErrObjectExists)

	file, obj, err := store.Open("media", "media/a.png")
	require.NoError(t, err)
	defer file.Close()
	body, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "one", string(body))
	assert.Equal(t, int64(3), obj.Size)
	assert.Equal(t, "image/png", obj.ContentType)
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	store := newTestLocalStore(t)
	err := store.Put(context.Background(), "media", "../../etc/passwd", strings.NewReader("x"), PutOptions{})
	require.ErrorIs(t, err, ErrInvalidKey)
	err = store.Put(context.Background(), "media", "", strings.NewReader("x"), PutOptions{})
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestLocalStoreListAndRemove(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "media", "media/a.png", strings.NewReader("a"), PutOptions{}))
	require.NoError(t, store.Put(ctx, "media", "media/b.mp4", strings.NewReader("bb"), PutOptions{}))
	require.NoError(t, store.Put(ctx, "media", "media/nested/c.png", strings.NewReader("c"), PutOptions{}))

	objects, err := store.List(ctx, "media", "media")
	require.NoError(t, err)
	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		keys = append(keys, obj.Key)
	}
	assert.ElementsMatch(t, []string{"media/a.png", "media/b.mp4"}, keys)

	require.NoError(t, store.Remove(ctx, "media", "media/a.png", "media/missing.png"))
	objects, err = store.List(ctx, "media", "media")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "media/b.mp4", objects[0].Key)

	empty, err := store.List(ctx, "media", "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLocalStoreSignedURLRoundTrip(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "ebooks", "id-guide.pdf", strings.NewReader("%PDF-1.4"), PutOptions{}))

	signed, err := store.SignURL(ctx, "ebooks", "id-guide.pdf", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed.URL, "http://cdn.test/storage/v1/object/sign/ebooks/id-guide.pdf?token="))
	assert.WithinDuration(t, time.Now().Add(time.Minute), signed.ExpiresAt, 2*time.Second)

	parsed, err := url.Parse(signed.URL)
	require.NoError(t, err)
	token := parsed.Query().Get("token")

	file, _, err := store.OpenSigned("ebooks", "id-guide.pdf", token)
	require.NoError(t, err)
	file.Close()

	_, _, err = store.OpenSigned("ebooks", "other.pdf", token)
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = store.SignURL(ctx, "ebooks", "missing.pdf", time.Minute)
	require.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorePublicURL(t *testing.T) {
	store := newTestLocalStore(t)
	assert.Equal(t, "http://cdn.test/storage/v1/object/public/media/media/x.png", store.PublicURL("media", "media/x.png"))
}

func TestNewLocalStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "storage")
	_, err := NewLocalStore(dir, "", NewSigner("secret"))
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
