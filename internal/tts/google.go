package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultTranslateURL = "https://translate.google.com/translate_tts"
	maxChunkRunes       = 200
	defaultHTTPTimeout  = 30 * time.Second
)

// GoogleTranslate synthesizes speech through the public translate TTS endpoint.
// Long text is split into chunks and the MP3 frames are concatenated.
type GoogleTranslate struct {
	BaseURL string
	Client  *http.Client
	Now     func() time.Time
}

var _ Synthesizer = (*GoogleTranslate)(nil)

func NewGoogleTranslate() *GoogleTranslate {
	return &GoogleTranslate{
		BaseURL: defaultTranslateURL,
		Client:  &http.Client{Timeout: defaultHTTPTimeout},
		Now:     time.Now,
	}
}

func (g *GoogleTranslate) Synthesize(ctx context.Context, text, lang, outputDir string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("tts: empty text")
	}
	if lang == "" {
		lang = "en"
	}
	if err := EnsureDir(outputDir); err != nil {
		return "", err
	}

	filename := GenerateFilename(g.Now())
	path := filepath.Join(outputDir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("tts: create %q: %w", path, err)
	}

	chunks := splitText(text, maxChunkRunes)
	for i, chunk := range chunks {
		if err := g.fetchChunk(ctx, f, chunk, lang, i, len(chunks)); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return "", err
		}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("tts: close %q: %w", path, err)
	}
	return filename, nil
}

func (g *GoogleTranslate) fetchChunk(ctx context.Context, w io.Writer, chunk, lang string, idx, total int) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", chunk)
	q.Set("idx", fmt.Sprint(idx))
	q.Set("total", fmt.Sprint(total))
	q.Set("textlen", fmt.Sprint(utf8.RuneCountInString(chunk)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("tts: build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("tts: request chunk %d: %w", idx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tts: chunk %d: unexpected status %d", idx, resp.StatusCode)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("tts: write chunk %d: %w", idx, err)
	}
	return nil
}

// splitText breaks text into pieces of at most max runes, preferring to cut
// at whitespace.
func splitText(text string, max int) []string {
	var out []string
	for utf8.RuneCountInString(text) > max {
		runes := []rune(text)
		cut := max
		for i := max; i > 0; i-- {
			if runes[i] == ' ' || runes[i] == '\n' {
				cut = i
				break
			}
		}
		if piece := strings.TrimSpace(string(runes[:cut])); piece != "" {
			out = append(out, piece)
		}
		text = strings.TrimSpace(string(runes[cut:]))
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}
