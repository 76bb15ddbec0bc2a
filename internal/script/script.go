// Package script loads and saves annotation script files: the JSON documents
// hosts author annotation collections in.
package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Version is the script format version this build reads and writes.
const Version = 1

// ErrNotScript is returned when a file is not an overcue script at all
// (missing or wrong version sentinel).
var ErrNotScript = errors.New("not an overcue script")

// Script is the on-disk document: a version sentinel plus the annotation
// entries in authoring order.
type Script struct {
	Version     int     `json:"overcue_version"`
	Title       string  `json:"title,omitempty"`
	Annotations []Entry `json:"annotations"`
}

// Entry is one annotation record as authored. Times are in ticks (tenths of
// a second), geometry in percent of the video content box, colors as
// "#rrggbb" strings.
type Entry struct {
	Type string `json:"type"` // "text" | "bubble"

	Start int `json:"start"`
	End   int `json:"end"`

	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`

	Text     string `json:"text"`
	FontSize int    `json:"font_size,omitempty"`
	Link     string `json:"link,omitempty"`

	TextColor  string `json:"text_color,omitempty"`
	Background string `json:"background,omitempty"`
	Border     string `json:"border,omitempty"`

	BorderWidth  int `json:"border_width,omitempty"`
	BorderRadius int `json:"border_radius,omitempty"`
	Padding      int `json:"padding,omitempty"`

	PointerEdge   string  `json:"pointer_edge,omitempty"`
	PointerOffset float64 `json:"pointer_offset,omitempty"`
}

// Parse deserializes a script document and checks the version sentinel.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if s.Version != Version {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrNotScript, s.Version, Version)
	}
	return &s, nil
}

// Load reads and parses the script file at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Write marshals s and writes it atomically via a temp file + os.Rename.
func Write(s *Script, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "script-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write script: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}
	return nil
}
