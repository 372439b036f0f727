package staging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LeonarddeR/ReaDaisy/internal/logging"
)

// CleanStaleResult contains the outcome of a stale staging cleanup.
type CleanStaleResult struct {
	Removed []string
	Errors  []error
}

// CleanStale removes staging directories under outputRoot that are older
// than maxAge, reclaiming space left behind by crashed runs. A maxAge of
// zero disables the cleanup.
func CleanStale(outputRoot string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}
	if maxAge <= 0 || strings.TrimSpace(outputRoot) == "" {
		return result
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	entries, err := os.ReadDir(outputRoot)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, err)
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), Prefix) {
			continue
		}
		path := filepath.Join(outputRoot, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			result.Errors = append(result.Errors, err)
			logger.Warn("failed to remove stale staging directory",
				logging.String("path", path),
				logging.Error(err),
			)
			continue
		}
		result.Removed = append(result.Removed, path)
		logger.Info("removed stale staging directory",
			logging.String("path", path),
			logging.Duration("age", time.Since(info.ModTime())),
		)
	}
	return result
}
