package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ApplyMigrations executes every .sql file in dir against the database,
// in lexical order. Migrations are expected to be idempotent
// (CREATE TABLE IF NOT EXISTS and friends).
func (d *DB) ApplyMigrations(dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}
		if _, err := d.Client.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}
	return nil
}
