package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"voxcredit/internal/logger"
	"voxcredit/internal/models"
	"voxcredit/internal/repository"
	"voxcredit/internal/tts"
)

const (
	defaultAudioCost     = 10
	defaultMaxTextLength = 5000
	defaultHistoryLimit  = 10
	defaultLang          = "en"
	previewRunes         = 80

	// AudioURLPrefix is where the HTTP layer serves the audio directory.
	AudioURLPrefix = "/audio/"
)

type AudioConfig struct {
	Dir           string
	Cost          int
	MaxTextLength int
	HistoryLimit  int
}

type AudioService struct {
	users repository.Users
	audio repository.Audio
	synth tts.Synthesizer
	log   *logger.Logger
	cfg   AudioConfig
}

func NewAudioService(users repository.Users, audio repository.Audio, synth tts.Synthesizer, log *logger.Logger, cfg AudioConfig) *AudioService {
	if cfg.Cost <= 0 {
		cfg.Cost = defaultAudioCost
	}
	if cfg.MaxTextLength <= 0 {
		cfg.MaxTextLength = defaultMaxTextLength
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &AudioService{users: users, audio: audio, synth: synth, log: log, cfg: cfg}
}

// Generate synthesizes text and charges the user for it. Nothing is charged
// when synthesis fails, and the file is discarded when the charge fails.
func (s *AudioService) Generate(ctx context.Context, userID int, text, lang string) (AudioResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return AudioResult{}, ErrEmptyText
	}
	if utf8.RuneCountInString(text) > s.cfg.MaxTextLength {
		return AudioResult{}, ErrTextTooLong
	}
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = defaultLang
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return AudioResult{}, fmt.Errorf("load user %d: %w", userID, err)
	}
	if u == nil {
		return AudioResult{}, ErrUserNotFound
	}
	if u.Credits < s.cfg.Cost {
		return AudioResult{}, ErrInsufficientCredits
	}

	filename, err := s.synth.Synthesize(ctx, text, lang, s.cfg.Dir)
	if err != nil {
		s.log.Errorw("tts_failed", "user_id", userID, "lang", lang, "error", err)
		return AudioResult{}, ErrSynthesisFailed
	}

	remaining, err := s.audio.DebitAndRecord(ctx, s.cfg.Cost, models.AudioHistory{
		UserID:        userID,
		TextPreview:   Preview(text),
		AudioFilename: filename,
		Lang:          lang,
	})
	if err != nil {
		if rmErr := tts.Remove(s.cfg.Dir, filename); rmErr != nil {
			s.log.Warnw("audio_cleanup_failed", "file", filename, "error", rmErr)
		}
		if errors.Is(err, repository.ErrInsufficientCredits) {
			return AudioResult{}, ErrInsufficientCredits
		}
		return AudioResult{}, fmt.Errorf("debit audio for user %d: %w", userID, err)
	}

	history, err := s.History(ctx, userID, s.cfg.HistoryLimit)
	if err != nil {
		// The charge is committed; still hand back the file.
		s.log.Errorw("history_load_failed", "user_id", userID, "error", err)
		history = []models.AudioHistory{}
	}

	s.log.Infow("audio_generated", "user_id", userID, "file", filename, "lang", lang, "remaining", remaining)
	return AudioResult{
		AudioURL:         AudioURLPrefix + filename,
		History:          history,
		RemainingCredits: remaining,
	}, nil
}

// History returns the user's most recent audio entries, newest first.
func (s *AudioService) History(ctx context.Context, userID, limit int) ([]models.AudioHistory, error) {
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}
	items, err := s.audio.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.AudioHistory{}
	}
	for i := range items {
		items[i].AudioURL = AudioURLPrefix + items[i].AudioFilename
	}
	return items, nil
}

// Preview shortens text to its first 80 runes, marking the cut with "...".
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	return string([]rune(text)[:previewRunes]) + "..."
}
