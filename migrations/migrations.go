// Package migrations embeds the SQL schema migrations for every supported database driver.
package migrations

import (
	"embed"
	"fmt"
)

//go:embed postgresql/*.sql mysql/*.sql sqlite3/*.sql
var FS embed.FS

// Dir returns the directory inside FS holding the migrations for the given driver.
func Dir(driver string) (string, error) {
	switch driver {
	case "postgres":
		return "postgresql", nil
	case "mysql":
		return "mysql", nil
	case "sqlite3":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}
