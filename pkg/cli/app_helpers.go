package cli

import (
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"visacrm/internal/app"
	"visacrm/internal/config"
	internaldb "visacrm/internal/db"
)

// openApp opens the database at dbPath, runs migrations, and wires the
// application. The returned close func releases both connection pools.
func openApp(dbPath string) (*app.App, func(), error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	writeDB, readDB, err := internaldb.OpenSQLitePair(dbPath, 2)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	closeFn := func() {
		_ = writeDB.Close()
		_ = readDB.Close()
	}

	if err := internaldb.RunMigrations(writeDB); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	cfg := &config.Config{
		DBPath:               dbPath,
		LeadRetentionDays:    730,
		StudentRetentionDays: 2555,
	}
	if v := os.Getenv("GDPR_LEAD_RETENTION_DAYS"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.LeadRetentionDays)
	}
	if v := os.Getenv("GDPR_STUDENT_RETENTION_DAYS"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.StudentRetentionDays)
	}

	application := app.New(app.Deps{
		Cfg:     cfg,
		WriteDB: writeDB,
		ReadDB:  readDB,
		Logger:  logger,
	})
	return application, closeFn, nil
}
