// Package snapshots provides sources for the immutable ride/schedule data a
// planning request runs against. The file source is the default deployment
// shape: an external collector drops periodic JSON snapshots on disk and the
// engine reads the latest one.
package snapshots

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kerhervel/parkplan/core/model"
	"github.com/kerhervel/parkplan/infra/logger"
)

// Source fetches the current snapshot.
type Source interface {
	Fetch(ctx context.Context) (model.Snapshot, error)
}

// Config drives the file snapshot source.
type Config struct {
	Path          string `json:"path"`
	MaxAgeMinutes int    `json:"max_age_minutes"`
	TimeoutMS     int    `json:"timeout_ms"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MaxAgeMinutes <= 0 {
		c.MaxAgeMinutes = 120
	}
	if c.TimeoutMS <= 0 {
		c.TimeoutMS = 3000
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// FileSource reads snapshots from a JSON file on disk.
type FileSource struct {
	cfg Config
	log logger.Logger
	now func() time.Time
}

// NewFileSource returns a file-backed snapshot source.
func NewFileSource(cfg Config) (*FileSource, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &FileSource{cfg: cfg, log: logger.New("snapshots"), now: time.Now}, nil
}

// Fetch reads and decodes the snapshot file. A snapshot older than the
// configured maximum age is still returned, with a warning, so planning can
// degrade to estimated waits rather than fail outright.
func (s *FileSource) Fetch(ctx context.Context) (model.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutMS)*time.Millisecond)
	defer cancel()

	type result struct {
		snap model.Snapshot
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		var r result
		r.snap, r.err = s.read()
		ch <- r
	}()

	select {
	case <-ctx.Done():
		return model.Snapshot{}, &model.SnapshotError{Source: s.cfg.Path, Err: ctx.Err()}
	case r := <-ch:
		if r.err != nil {
			return model.Snapshot{}, &model.SnapshotError{Source: s.cfg.Path, Err: r.err}
		}
		if age := s.now().Sub(r.snap.TakenAt); age > time.Duration(s.cfg.MaxAgeMinutes)*time.Minute {
			s.log.Warnf("snapshot is %s old, waits will lean on estimates", age.Round(time.Minute))
		}
		return r.snap, nil
	}
}

func (s *FileSource) read() (model.Snapshot, error) {
	b, err := os.ReadFile(s.cfg.Path)
	if err != nil {
		return model.Snapshot{}, err
	}
	var snap model.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if len(snap.Rides) == 0 {
		return model.Snapshot{}, fmt.Errorf("snapshot has no rides")
	}
	return snap, nil
}

// StaticSource serves a fixed in-memory snapshot, for tests and one-shot runs.
type StaticSource struct {
	Snap model.Snapshot
	Err  error
}

// Fetch returns the fixed snapshot.
func (s StaticSource) Fetch(context.Context) (model.Snapshot, error) {
	if s.Err != nil {
		return model.Snapshot{}, s.Err
	}
	return s.Snap, nil
}
