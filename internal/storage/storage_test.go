package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndPath(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(ProfileDir, strings.NewReader("image-bytes"), "me.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))
	// The client-supplied name never becomes the stored name.
	assert.NotContains(t, name, "me")

	path, err := store.Path(ProfileDir, name)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestPathRejectsTraversal(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../secret.png", "a/b.png"} {
		_, err := store.Path(ProfileDir, name)
		assert.Error(t, err, "name %q", name)
	}
}

func TestRemove(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(PostDir, strings.NewReader("x"), "a.jpg")
	require.NoError(t, err)

	require.NoError(t, store.Remove(PostDir, name))
	path, err := store.Path(PostDir, name)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Removing a missing file is not an error.
	require.NoError(t, store.Remove(PostDir, name))
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.png", "image/png"},
		{"a.jpg", "image/jpeg"},
		{"a.JPEG", "image/jpeg"},
		{"a.gif", "image/gif"},
		{"noext", "application/octet-stream"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ContentType(tt.name), tt.name)
	}
}
