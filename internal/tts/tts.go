// Package tts turns text into MP3 files on local disk.
package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Synthesizer writes speech for text into outputDir and returns the file name.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang, outputDir string) (string, error)
}

const (
	filenamePrefix = "tts_"
	filenameExt    = ".mp3"
)

// GenerateFilename returns a unique name such as tts_20251121093000_1a2b3c4d.mp3.
func GenerateFilename(now time.Time) string {
	rand := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s%s_%s%s", filenamePrefix, now.UTC().Format("20060102150405"), rand, filenameExt)
}

// EnsureDir creates dir (and parents) if missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create audio dir %q: %w", dir, err)
	}
	return nil
}

// Remove deletes a generated file; a missing file is not an error.
func Remove(outputDir, filename string) error {
	err := os.Remove(filepath.Join(outputDir, filepath.Base(filename)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
