package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shareit/internal/config"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

const (
	backupPrefix    = "shareit_"
	backupSuffix    = ".db"
	defaultInterval = 24 * time.Hour
)

// BackupService periodically snapshots the catalog database into StoragePath
// and prunes snapshots older than RetentionDays.
type BackupService struct {
	db       *DB
	dir      string
	keep     time.Duration
	interval time.Duration
	enabled  bool
	logger   zerolog.Logger
	now      func() time.Time
}

func NewBackupService(db *DB, cfg config.BackupConfig, logger *zerolog.Logger) *BackupService {
	s := &BackupService{
		db:      db,
		dir:     cfg.StoragePath,
		keep:    time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		enabled: cfg.Enabled,
		logger:  logger.With().Str("component", "backup").Logger(),
		now:     time.Now,
	}
	s.interval = s.parseSchedule(cfg.Schedule)
	return s
}

func (s *BackupService) parseSchedule(raw string) time.Duration {
	if raw == "" {
		return defaultInterval
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		s.logger.Warn().Str("schedule", raw).Dur("fallback", defaultInterval).Msg("invalid backup schedule")
		return defaultInterval
	}
	return d
}

// Start blocks until ctx is cancelled. The first snapshot is taken immediately.
func (s *BackupService) Start(ctx context.Context) {
	if !s.enabled {
		s.logger.Info().Msg("snapshots disabled")
		return
	}
	s.logger.Info().Dur("interval", s.interval).Str("dir", s.dir).Msg("snapshot loop running")

	s.tick(ctx)

	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("snapshot loop stopped")
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *BackupService) tick(ctx context.Context) {
	if _, err := s.PerformBackup(ctx); err != nil {
		s.logger.Error().Err(err).Msg("snapshot failed")
	}
	if removed, err := s.CleanupOldBackups(); err != nil {
		s.logger.Error().Err(err).Msg("snapshot pruning failed")
	} else if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("expired snapshots pruned")
	}
}

// PerformBackup writes a consistent copy of the database and returns its path.
// VACUUM INTO is tried first; the SQLite online backup API is the fallback.
func (s *BackupService) PerformBackup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	target := filepath.Join(s.dir, backupPrefix+s.now().UTC().Format("20060102_150405.000000")+backupSuffix)
	started := s.now()

	_, err := s.db.ExecContext(ctx, "VACUUM INTO ?", target)
	if err != nil {
		s.logger.Warn().Err(err).Msg("vacuum into failed, using online backup")
		_ = os.Remove(target)
		if err := s.onlineBackup(ctx, target); err != nil {
			return "", fmt.Errorf("snapshot %s: %w", filepath.Base(target), err)
		}
	}

	s.logger.Info().
		Str("file", filepath.Base(target)).
		Dur("took", s.now().Sub(started)).
		Msg("snapshot written")
	return target, nil
}

// onlineBackup copies every page of the live connection into target.
func (s *BackupService) onlineBackup(ctx context.Context, target string) error {
	dst, err := sql.Open(driverName, target)
	if err != nil {
		return err
	}
	defer dst.Close()

	dstConn, err := dst.Conn(ctx)
	if err != nil {
		return err
	}
	defer dstConn.Close()

	srcConn, err := s.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer srcConn.Close()

	return srcConn.Raw(func(srcRaw any) error {
		return dstConn.Raw(func(dstRaw any) error {
			from, ok1 := srcRaw.(*sqlite3.SQLiteConn)
			to, ok2 := dstRaw.(*sqlite3.SQLiteConn)
			if !ok1 || !ok2 {
				return errors.New("unexpected driver connection type")
			}
			b, err := to.Backup("main", from, "main")
			if err != nil {
				return err
			}
			if _, err := b.Step(-1); err != nil {
				_ = b.Finish()
				return err
			}
			return b.Finish()
		})
	})
}

// CleanupOldBackups deletes snapshots past retention and reports how many went.
// Files without the snapshot prefix are never touched.
func (s *BackupService) CleanupOldBackups() (int, error) {
	if s.keep <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("list snapshots: %w", err)
	}

	cutoff := s.now().Add(-s.keep)
	removed := 0
	var errs []error
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
