package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/JonMunkholm/contacts/internal/core"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded bootstrap schema to db. Already applied
// versions are skipped, so calling it on every start is safe.
func Migrate(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(printfLogger{log: log})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return core.NewStorageError("migrate", err)
	}
	return nil
}

// printfLogger adapts slog to the Printf-style loggers goose and gorm expect.
type printfLogger struct {
	log *slog.Logger
}

func (l printfLogger) Printf(format string, v ...interface{}) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l printfLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}
