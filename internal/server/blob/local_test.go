package blob

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkazarov/uploadgate/internal/common"
)

func newLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestLocalStore_SaveOpenDelete(t *testing.T) {
	t.Parallel()

	s := newLocalStore(t)
	ctx := context.Background()

	err := s.Save(ctx, "1700000000000_report.pdf", strings.NewReader("payload"))
	require.NoError(t, err)

	rc, err := s.Open(ctx, "1700000000000_report.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "payload", string(data))

	require.NoError(t, s.Delete(ctx, "1700000000000_report.pdf"))

	_, err = s.Open(ctx, "1700000000000_report.pdf")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestLocalStore_SaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "a.txt", strings.NewReader("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "a.txt", entries[0].Name())
}

func TestLocalStore_RejectsPathEscapingKeys(t *testing.T) {
	t.Parallel()

	s := newLocalStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "..", "a/b", `a\b`, "../../etc/passwd"} {
		err := s.Save(ctx, key, strings.NewReader("x"))
		require.ErrorIs(t, err, common.ErrBadRequest, "key %q", key)

		_, err = s.Open(ctx, key)
		require.ErrorIs(t, err, common.ErrBadRequest, "key %q", key)
	}
}

func TestLocalStore_DeleteMissing(t *testing.T) {
	t.Parallel()

	s := newLocalStore(t)
	err := s.Delete(context.Background(), "ghost.bin")
	require.True(t, errors.Is(err, common.ErrNotFound))
}
