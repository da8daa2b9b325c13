package pkg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/eduMindSolutions/platform-service/migrations"
)

// Migrate applies the embedded forward-only SQL migrations. It reuses the
// gorm connection, so it runs inside the same startup transaction budget as
// the rest of initialization.
func Migrate(ctx context.Context, db *gorm.DB, log *slog.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to unwrap sql.DB: %w", err)
	}

	// Route goose migration logs through the application logger.
	goose.SetLogger(newGooseSlogAdapter(log))
	goose.SetBaseFS(migrations.Files)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// gooseSlogAdapter bridges goose's Printf-style logging to slog.
type gooseSlogAdapter struct {
	log *slog.Logger
}

func newGooseSlogAdapter(log *slog.Logger) goose.Logger {
	return &gooseSlogAdapter{log: log}
}

func (a *gooseSlogAdapter) Fatalf(format string, v ...any) {
	a.log.Error(fmt.Sprintf(format, v...))
}

func (a *gooseSlogAdapter) Printf(format string, v ...any) {
	a.log.Info(fmt.Sprintf(format, v...))
}
