// Package sweepers runs the periodic background maintenance loops.
package sweepers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ExportSweeper periodically deletes aged export workbooks. Exports are
// one-shot downloads; anything older than the retention window is garbage.
type ExportSweeper struct {
	dir       string
	retention time.Duration
	logger    *zerolog.Logger
	interval  time.Duration
	stopChan  chan struct{}
}

// NewExportSweeper creates a sweeper over the export directory
func NewExportSweeper(dir string, retentionDays int, interval time.Duration, logger *zerolog.Logger) *ExportSweeper {
	return &ExportSweeper{
		dir:       dir,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the periodic cleanup sweep
func (s *ExportSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Str("dir", s.dir).
		Msg("Starting export sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Export sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Export sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			if err := s.Sweep(); err != nil {
				s.logger.Error().Err(err).Msg("Failed to sweep export directory")
			}
		}
	}
}

// Stop signals the sweeper to stop
func (s *ExportSweeper) Stop() {
	close(s.stopChan)
}

// Sweep deletes export workbooks older than the retention window
func (s *ExportSweeper) Sweep() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read export directory: %w", err)
	}

	cutoff := time.Now().Add(-s.retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xlsx") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("Failed to delete aged export")
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("Deleted aged export files")
	}
	return nil
}
