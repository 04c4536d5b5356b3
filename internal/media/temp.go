package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SaveTemp writes an uploaded part to a uniquely named file under dir and
// returns its path. The caller must remove the file once the upload
// attempt is over, whatever its outcome.
func SaveTemp(dir string, src io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("could not create temp upload dir: %w", err)
	}
	path := filepath.Join(dir, uuid.New().String()+filepath.Ext(originalName))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create temp upload file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("could not write temp upload file: %w", err)
	}
	return path, nil
}

// RemoveTemp deletes a temp upload file, logging rather than failing when
// the file is already gone.
func RemoveTemp(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("Failed to remove temp upload file")
	}
}
