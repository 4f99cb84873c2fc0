// Package badgerdb opens the embedded key-value database used by the Badger
// movie store.
package badgerdb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Open opens (or creates) the database at path. Badger's internal logging is
// routed to logger at warning level and above.
func Open(path string, logger *slog.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(slogAdapter{logger: logger}).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}
	return db, nil
}

// OpenInMemory opens a database that lives only in memory.
func OpenInMemory(logger *slog.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(slogAdapter{logger: logger}).
		WithLoggingLevel(badger.WARNING)
	return badger.Open(opts)
}

type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Errorf(format string, args ...any) {
	a.log(slog.LevelError, format, args...)
}

func (a slogAdapter) Warningf(format string, args ...any) {
	a.log(slog.LevelWarn, format, args...)
}

func (a slogAdapter) Infof(format string, args ...any) {
	a.log(slog.LevelInfo, format, args...)
}

func (a slogAdapter) Debugf(format string, args ...any) {
	a.log(slog.LevelDebug, format, args...)
}

func (a slogAdapter) log(level slog.Level, format string, args ...any) {
	if a.logger == nil {
		return
	}
	a.logger.Log(context.Background(), level, strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}
