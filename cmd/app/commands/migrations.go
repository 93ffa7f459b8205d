package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/allisson/coursehook/internal/database"
)

// RunMigrations applies every pending migration of the configured driver.
// Migrations are embedded in the binary, so the working directory does not matter.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	db, err := database.Connect(database.Config{
		Driver:             driver,
		ConnectionString:   connectionString,
		MaxOpenConnections: 1,
		MaxIdleConnections: 1,
		ConnMaxLifetime:    time.Minute,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	if err := database.Migrate(db, driver); err != nil {
		return err
	}

	logger.Info("migrations completed successfully")
	return nil
}
