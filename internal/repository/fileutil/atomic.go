// Package fileutil enthält Hilfsfunktionen für die dateibasierten Repositories.
package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteAtomic schreibt data über eine temporäre Datei und ein abschließendes
// Rename nach path, sodass Leser nie eine halb geschriebene Datei sehen.
func WriteAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("verzeichnis %s anlegen: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("temporäre datei anlegen: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("temporäre datei schreiben: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("temporäre datei sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("temporäre datei schließen: %w", err)
	}
	_ = os.Chmod(tmpPath, perm)

	// Unter Windows schlägt Rename fehl, wenn das Ziel existiert.
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(path)
		if err2 := os.Rename(tmpPath, path); err2 != nil {
			return fmt.Errorf("umbenennen: %v (nach entfernen: %v)", err, err2)
		}
	}
	return nil
}
