package migration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const upTemplate = `-- %s
-- created %s
--
-- Keep schema changes and lookup seed data (return_item_type_maps,
-- status_valid_changes) in separate migrations so seeds can be re-run
-- independently.

`

const downTemplate = `-- Rollback: %s
-- created %s

`

// FilePair describes the up and down files of one migration
type FilePair struct {
	Version  string
	Name     string
	UpPath   string
	DownPath string
}

// Create writes a new up/down migration pair into dir. The version prefix is
// the creation timestamp so files sort in application order.
func Create(dir, name, description string) (*FilePair, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating migrations directory: %w", err)
	}

	now := time.Now()
	version := now.Format("20060102150405")
	base := fmt.Sprintf("%s_%s", version, sanitizeName(name))

	pair := &FilePair{
		Version:  version,
		Name:     name,
		UpPath:   filepath.Join(dir, base+".up.sql"),
		DownPath: filepath.Join(dir, base+".down.sql"),
	}

	header := description
	if header == "" {
		header = name
	}
	created := now.Format(time.RFC3339)

	up := fmt.Sprintf(upTemplate, header, created)
	if err := os.WriteFile(pair.UpPath, []byte(up), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", pair.UpPath, err)
	}

	down := fmt.Sprintf(downTemplate, header, created)
	if err := os.WriteFile(pair.DownPath, []byte(down), 0644); err != nil {
		// Do not leave a dangling up file behind
		_ = os.Remove(pair.UpPath)
		return nil, fmt.Errorf("writing %s: %w", pair.DownPath, err)
	}

	return pair, nil
}

// List returns the base names of the migration pairs in dir, sorted by
// version. A missing directory lists as empty.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}

	names := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".up.sql"))
	}
	sort.Strings(names)
	return names, nil
}

// sanitizeName lowercases a migration name and collapses separators into
// single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}
