package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/appetiteclub/apt"
)

// ClearCache removes every persisted local cache snapshot in the configured
// cache directory. The directory itself is kept.
func ClearCache(config *apt.Config, logger apt.Logger) error {
	cacheDir := config.GetStringOrDef("cache.dir", ".menuprog-cache")

	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("Cache directory does not exist, nothing to clear", "dir", cacheDir)
			return nil
		}
		return fmt.Errorf("read cache directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(cacheDir, entry.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
		removed++
	}

	logger.Info("Cache snapshots removed", "dir", cacheDir, "count", removed)
	return nil
}
