package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CreateMigration creates an empty up/down migration file pair and
// returns their paths. Versions use a sortable timestamp prefix.
func CreateMigration(migrationsDir, name string) (upPath, downPath string, err error) {
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating migrations directory: %w", err)
	}

	version := time.Now().Format("20060102150405")
	baseName := fmt.Sprintf("%s_%s", version, sanitizeName(name))
	upPath = filepath.Join(migrationsDir, baseName+".up.sql")
	downPath = filepath.Join(migrationsDir, baseName+".down.sql")

	header := fmt.Sprintf("-- Migration: %s\n\n", name)
	if err := os.WriteFile(upPath, []byte(header), 0o644); err != nil {
		return "", "", fmt.Errorf("creating up migration: %w", err)
	}
	if err := os.WriteFile(downPath, []byte(header), 0o644); err != nil {
		_ = os.Remove(upPath)
		return "", "", fmt.Errorf("creating down migration: %w", err)
	}
	return upPath, downPath, nil
}

// sanitizeName lowercases a migration name and maps separators to
// single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + 'a' - 'A')
		case c == ' ' || c == '-' || c == '_':
			s := b.String()
			if len(s) > 0 && s[len(s)-1] != '_' {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ListMigrations returns the base names of the migrations in a directory
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	migrations := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			migrations = append(migrations, base)
		}
	}
	return migrations, nil
}
