package infra

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
)

// dotenvFiles are read in priority order: a value from .env.local beats
// .env, and the process environment beats both.
var dotenvFiles = []string{".env.local", ".env"}

// LoadDotEnv loads the dotenv files of the working directory. Missing files
// are skipped.
func LoadDotEnv() error {
	return loadDotEnv(".")
}

func loadDotEnv(dir string) error {
	for _, name := range dotenvFiles {
		path := filepath.Join(dir, name)
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}
