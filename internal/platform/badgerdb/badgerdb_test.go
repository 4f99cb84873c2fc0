package badgerdb

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndReopen(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(dir, nil)
	require.NoError(t, err)
	require.False(t, db.IsClosed())
	require.NoError(t, db.Close())

	db, err = Open(dir, nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestOpenInMemory(t *testing.T) {
	db, err := OpenInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	assert.True(t, db.Opts().InMemory)
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	a := slogAdapter{logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	a.Warningf("value log %d is corrupt\n", 7)

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), `msg="value log 7 is corrupt"`)
	assert.Contains(t, buf.String(), "component=badger")
}
