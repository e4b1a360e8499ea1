package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhillyerd/enmime"
)

// ReadMarkup drains r and returns everything it produced.
func ReadMarkup(r io.Reader) (string, error) {
	blob, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading markup: %w", err)
	}
	return string(blob), nil
}

// ReadMarkupFile loads markup from disk. Saved messages and web archives
// (.eml, .mht, .mhtml) are MIME-decoded and their HTML part is returned.
func ReadMarkupFile(path string) (string, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".eml", ".mht", ".mhtml":
		return markupFromMIME(blob)
	default:
		return string(blob), nil
	}
}

func markupFromMIME(raw []byte) (string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decoding MIME message: %w", err)
	}
	if strings.TrimSpace(env.HTML) != "" {
		return env.HTML, nil
	}
	for _, part := range env.Inlines {
		if strings.EqualFold(part.ContentType, "text/html") {
			return string(part.Content), nil
		}
	}
	return "", fmt.Errorf("MIME message has no HTML part")
}
