package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

const (
	defaultSequenceBandwidth = 100
)

// Backend owns the BadgerDB instance that holds the chunk store and manifest.
type Backend struct {
	db     *badger.DB
	path   string
	logger *slog.Logger
}

// badgerLogger routes badger's printf-style logging into slog.
type badgerLogger struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLogger)(nil)

func (bl *badgerLogger) log(level slog.Level, msg string, items []any) {
	bl.logger.Log(context.Background(), level, strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

func (bl *badgerLogger) Errorf(msg string, items ...any) { bl.log(slog.LevelError, msg, items) }

func (bl *badgerLogger) Warningf(msg string, items ...any) { bl.log(slog.LevelWarn, msg, items) }

// Infof is demoted to debug; badger reports every compaction at info.
func (bl *badgerLogger) Infof(msg string, items ...any) { bl.log(slog.LevelDebug, msg, items) }

func (bl *badgerLogger) Debugf(msg string, items ...any) { bl.log(slog.LevelDebug, msg, items) }

// OpenBackend opens the index store at path, creating the directory when
// needed. With inMemory set the path is ignored and nothing touches disk.
func OpenBackend(path string, inMemory bool) (*Backend, error) {
	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
		path = ""
	} else {
		if err := ensureDir(path); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(path)
	}

	logger := slog.Default().With("component", "badger")
	opts.Logger = &badgerLogger{logger: logger}
	// Vectors are float32 noise to a compressor.
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening index store %q: %w", path, err)
	}
	logger.Debug("index store opened", "path", path, "in_memory", inMemory)

	return &Backend{
		db:     db,
		path:   path,
		logger: logger,
	}, nil
}

func ensureDir(path string) error {
	if path == "" {
		return fmt.Errorf("index store path is empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return os.MkdirAll(path, 0o755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// Path returns the store directory, or "" for an in-memory store.
func (b *Backend) Path() string {
	return b.path
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed reports whether Close has been called.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx runs fn inside a transaction that is discarded afterwards.
// Write transactions must be committed by fn.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// GetSequence returns a lease-based sequence used for chunk insertion order.
func (b *Backend) GetSequence(name string) (*badger.Sequence, error) {
	return b.db.GetSequence([]byte(name), defaultSequenceBandwidth)
}

// DropPrefix deletes every key starting with any of the given prefixes.
func (b *Backend) DropPrefix(prefixes ...[]byte) error {
	return b.db.DropPrefix(prefixes...)
}

// WithTransaction runs fn in a write transaction and commits when fn succeeds.
func (b *Backend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return b.WithTx(func(tx *badger.Txn) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
