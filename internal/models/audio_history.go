package models

import "time"

// AudioHistory is one generated audio file owned by a user.
type AudioHistory struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	TextPreview   string    `json:"text_preview"`
	AudioFilename string    `json:"audio_filename"`
	AudioURL      string    `json:"audio_url"` // set on read, not stored
	Lang          string    `json:"lang"`
	CreatedAt     time.Time `json:"created_at"`
}
