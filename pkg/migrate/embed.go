package migrate

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedded embed.FS

const embeddedDir = "migrations"

// EmbeddedFS returns the migrations compiled into the binary, rooted at the
// migrations directory.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, embeddedDir)
	if err != nil {
		// embeddedDir is a compile-time constant
		panic(err)
	}
	return sub
}

// RunEmbedded runs a goose command against the compiled-in migrations.
func RunEmbedded(ctx context.Context, db *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(embedded)
	defer goose.SetBaseFS(nil)
	return Run(ctx, db, embeddedDir, command, args...)
}
