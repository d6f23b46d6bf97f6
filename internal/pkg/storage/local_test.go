package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadExistsDelete(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	obj, err := s.Upload(ctx, strings.NewReader("hello"), "avatars/emp-1.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "avatars/emp-1.jpg", obj.Key)
	assert.Equal(t, "http://localhost:8080/uploads/avatars/emp-1.jpg", obj.URL)

	raw, err := os.ReadFile(filepath.Join(s.BasePath(), "avatars", "emp-1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(raw))

	ok, err := s.Exists(ctx, obj.Key)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, obj.Key))
	require.NoError(t, s.Delete(ctx, obj.Key))

	ok, err = s.Exists(ctx, obj.Key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorage_UploadOverwrites(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://x")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Upload(ctx, strings.NewReader("v1"), "logos/acme.png", "image/png")
	require.NoError(t, err)
	_, err = s.Upload(ctx, strings.NewReader("v2"), "logos/acme.png", "image/png")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(s.BasePath(), "logos", "acme.png"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(raw))
}

func TestLocalStorage_TraversalStaysInsideBase(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://x")
	require.NoError(t, err)

	obj, err := s.Upload(context.Background(), strings.NewReader("x"), "../../etc/evil.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "etc/evil.txt", obj.Key)

	_, err = s.Upload(context.Background(), strings.NewReader("x"), "..", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestPublicID(t *testing.T) {
	assert.Equal(t, "avatars/emp-1", publicID("avatars/emp-1.jpg"))
	assert.Equal(t, "etc/passwd", publicID("../etc/passwd"))
}
