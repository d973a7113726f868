package data

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bobmcallan/vire-picks/internal/cache"
	"github.com/bobmcallan/vire-picks/internal/common"
	"github.com/bobmcallan/vire-picks/internal/models"
)

// Store gives read access to the two input documents. With caching enabled,
// parsed documents are reused until the file on disk changes; without it
// every call re-reads the file.
type Store struct {
	snapshotPath string
	equityPath   string
	logger       *common.Logger

	snapshots *cache.FileCache[*models.Snapshot]
	curves    *cache.FileCache[[]models.EquityPoint]
}

// StoreOptions configures a Store.
type StoreOptions struct {
	SnapshotPath string
	EquityPath   string
	Cache        bool
	CacheEntries int
}

// NewStore creates a Store for the given file locations.
func NewStore(opts StoreOptions, logger *common.Logger) *Store {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	s := &Store{
		snapshotPath: opts.SnapshotPath,
		equityPath:   opts.EquityPath,
		logger:       logger,
	}
	if opts.Cache {
		s.snapshots = cache.New[*models.Snapshot](opts.CacheEntries)
		s.curves = cache.New[[]models.EquityPoint](opts.CacheEntries)
	}
	return s
}

// SnapshotPath returns the configured snapshot location.
func (s *Store) SnapshotPath() string { return s.snapshotPath }

// EquityPath returns the configured equity curve location.
func (s *Store) EquityPath() string { return s.equityPath }

// Snapshot returns the current recommendation snapshot.
func (s *Store) Snapshot() (*models.Snapshot, error) {
	if s.snapshots == nil {
		return LoadSnapshot(s.snapshotPath)
	}

	info, err := os.Stat(s.snapshotPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.snapshots.Invalidate(s.snapshotPath)
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, s.snapshotPath)
		}
		return nil, fmt.Errorf("stat snapshot %s: %w", s.snapshotPath, err)
	}
	if snap, ok := s.snapshots.Get(s.snapshotPath, info); ok {
		return snap, nil
	}

	snap, err := LoadSnapshot(s.snapshotPath)
	if err != nil {
		return nil, err
	}
	s.snapshots.Set(s.snapshotPath, info, snap)
	s.logger.Debug().
		Str("path", s.snapshotPath).
		Str("date", snap.Date).
		Int("top10", len(snap.Top10)).
		Msg("snapshot loaded")
	return snap, nil
}

// Equity returns the current equity curve.
func (s *Store) Equity() ([]models.EquityPoint, error) {
	if s.curves == nil {
		return LoadEquity(s.equityPath)
	}

	info, err := os.Stat(s.equityPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.curves.Invalidate(s.equityPath)
			return nil, fmt.Errorf("%w: %s", ErrEquityNotFound, s.equityPath)
		}
		return nil, fmt.Errorf("stat equity curve %s: %w", s.equityPath, err)
	}
	if points, ok := s.curves.Get(s.equityPath, info); ok {
		return points, nil
	}

	points, err := LoadEquity(s.equityPath)
	if err != nil {
		return nil, err
	}
	s.curves.Set(s.equityPath, info, points)
	s.logger.Debug().
		Str("path", s.equityPath).
		Int("points", len(points)).
		Msg("equity curve loaded")
	return points, nil
}
