package filesystem

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textdigest/pkg/contract"
)

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestOpenSingleFile(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(fp, []byte("hello"), 0o644))
	id, rc, err := New(nil).Open(context.Background(), fp)
	require.NoError(t, err)
	assert.Equal(t, contract.NormalizeFileID(fp), id)
	assert.Equal(t, "hello", readAll(t, rc))
}

func TestOpenStdin(t *testing.T) {
	r := New(&Options{BufSize: 16}).WithStdin(strings.NewReader("from stdin"))
	id, rc, err := r.Open(context.Background(), "-")
	require.NoError(t, err)
	assert.Equal(t, contract.StdinID, id)
	assert.Equal(t, "from stdin", readAll(t, rc))
}

func TestOpenMissing(t *testing.T) {
	_, _, err := New(nil).Open(context.Background(), filepath.Join(t.TempDir(), "nope.md"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenRejectsDirAndEmpty(t *testing.T) {
	_, _, err := New(nil).Open(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, contract.ErrInvalidInput)
	_, _, err = New(nil).Open(context.Background(), " ")
	assert.ErrorIs(t, err, contract.ErrInvalidInput)
}

func TestOpenSymlinkToFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink 需要额外权限")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "t.md")
	require.NoError(t, os.WriteFile(target, []byte("ok"), 0o644))
	link := filepath.Join(dir, "l.md")
	require.NoError(t, os.Symlink(target, link))
	id, rc, err := New(nil).Open(context.Background(), link)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(id), "l.md"), "FileID 保留链接路径")
	assert.Equal(t, "ok", readAll(t, rc))
}

func TestOpenCtxCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := New(nil).Open(ctx, "-")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBufferedCloserDefaultSize(t *testing.T) {
	bc := newBufferedCloser(io.NopCloser(strings.NewReader("x")), 0)
	assert.Equal(t, 64*1024, bc.Size())
	assert.NoError(t, bc.Close())
}
