package zombiezen

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// busyTimeout bounds the wait of a connection on a cache locked by another
// learnspacy process.
const busyTimeout = 5 * time.Second

// NewPool opens the cache database at dbPath in WAL mode, creating the file
// if needed. Each connection gets the busy timeout and the cache schema when
// it is first used.
func NewPool(dbPath string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool("file:"+dbPath, sqlitex.PoolOptions{
		PoolSize: runtime.NumCPU(),
		PrepareConn: func(conn *sqlite.Conn) error {
			pragma := fmt.Sprintf("PRAGMA busy_timeout = %d;", busyTimeout.Milliseconds())
			if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
				return err
			}
			return InitSchema(conn)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache at %s: %w", dbPath, err)
	}
	return pool, nil
}

// OpenPool is NewPool for a cache that must already exist.
func OpenPool(dbPath string) (*sqlitex.Pool, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		return nil, fmt.Errorf("cache not found: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("cache %s is a directory", dbPath)
	}

	return NewPool(dbPath)
}
