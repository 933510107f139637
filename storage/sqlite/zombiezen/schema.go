package zombiezen

import (
	_ "embed"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// cacheSchema creates the docs and scores tables.
//
//go:embed sql/cache.sql
var cacheSchema string

// InitSchema creates the cache tables on conn if they do not exist.
func InitSchema(conn *sqlite.Conn) error {
	if err := sqlitex.ExecuteScript(conn, cacheSchema, nil); err != nil {
		return fmt.Errorf("failed to create cache schema: %w", err)
	}
	return nil
}
