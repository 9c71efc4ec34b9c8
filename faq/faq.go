// Package faq loads the static question/answer list injected into every
// prompt. The list is read once at startup and never changes afterwards.
package faq

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultFAQ []byte

var ErrEmpty = errors.New("faq has no entries")

type Entry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Load reads the FAQ at path, or the bundled default when path is empty.
func Load(path string) ([]Entry, error) {
	if path == "" {
		return Parse("default.yaml", defaultFAQ)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read faq: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes data according to the extension of name.
func Parse(name string, data []byte) ([]Entry, error) {
	var (
		entries []Entry
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".json":
		err = json.Unmarshal(data, &entries)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &entries)
	case ".md", ".markdown":
		entries = parseMarkdown(data)
	case ".html", ".htm":
		var md string
		md, err = htmltomarkdown.ConvertString(string(data))
		if err == nil {
			entries = parseMarkdown([]byte(md))
		}
	default:
		return nil, fmt.Errorf("unsupported faq format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse faq %s: %w", name, err)
	}
	if err := validate(entries); err != nil {
		return nil, fmt.Errorf("invalid faq %s: %w", name, err)
	}
	return entries, nil
}

func validate(entries []Entry) error {
	if len(entries) == 0 {
		return ErrEmpty
	}
	for i := range entries {
		entries[i].Question = strings.TrimSpace(entries[i].Question)
		entries[i].Answer = strings.TrimSpace(entries[i].Answer)
		if entries[i].Question == "" || entries[i].Answer == "" {
			return fmt.Errorf("entry %d: question and answer are required", i)
		}
	}
	return nil
}
