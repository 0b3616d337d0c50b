package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"voxcredit/internal/logger"
	"voxcredit/internal/repository"
	"voxcredit/internal/tts"
)

// DefaultOrphanGrace is how old an unrecorded audio file must be before the
// janitor removes it. It has to outlive a synthesis plus its debit.
const DefaultOrphanGrace = 10 * time.Minute

// AudioJanitorService deletes generated files that never made it into the
// audio history, e.g. after a crash between synthesis and debit.
type AudioJanitorService struct {
	audio repository.Audio
	dir   string
	grace time.Duration
	log   *logger.Logger
	now   func() time.Time
}

func NewAudioJanitorService(audio repository.Audio, dir string, grace time.Duration, log *logger.Logger) *AudioJanitorService {
	if grace <= 0 {
		grace = DefaultOrphanGrace
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &AudioJanitorService{audio: audio, dir: dir, grace: grace, log: log, now: time.Now}
}

// Run sweeps at the given interval until ctx is canceled.
func (s *AudioJanitorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.log.Warnw("audio_sweep_failed", "dir", s.dir, "error", err)
			}
		}
	}
}

// Sweep removes stale orphaned files once and returns how many it deleted.
func (s *AudioJanitorService) Sweep(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0
	for _, e := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if !isGeneratedAudio(e) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		known, err := s.audio.HasFile(ctx, e.Name())
		if err != nil {
			return removed, err
		}
		if known {
			continue
		}
		if err := tts.Remove(s.dir, e.Name()); err != nil {
			s.log.Warnw("audio_orphan_remove_failed", "file", e.Name(), "error", err)
			continue
		}
		removed++
		s.log.Infow("audio_orphan_removed", "file", e.Name())
	}
	return removed, nil
}

func isGeneratedAudio(e os.DirEntry) bool {
	name := e.Name()
	return e.Type().IsRegular() && strings.HasPrefix(name, "tts_") && filepath.Ext(name) == ".mp3"
}
