package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrConfigNotFound is returned when no config file exists up to the filesystem root.
var ErrConfigNotFound = errors.New("config not found")

// configNames are the files FindConfig looks for, in order.
var configNames = []string{"assistant.yaml", "assistant.yml", "assistant.json", filepath.Join(".assistant", "config.yaml")}

// FindConfig looks upwards from startDir for an assistant config file and
// returns its absolute path.
func FindConfig(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}
		dir = parent
	}
}
