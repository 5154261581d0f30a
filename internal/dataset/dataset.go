// Package dataset provides access to test sets of isolated word recordings.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
)

// Item is one recorded word: one or more feature sequences of the same
// word, each a list of frames.
type Item struct {
	Video     int           `json:"video"`
	Word      string        `json:"word"`
	Sequences [][][]float64 `json:"sequences"`
}

// fileJSON is the structure of a test set file.
type fileJSON struct {
	Features []string `json:"features"`
	Items    []Item   `json:"items"`
}

// Singles is a test set of isolated words. Items keep file order.
type Singles struct {
	features []string
	items    []Item
	words    []string
	x        [][][]float64
	lengths  [][]int
}

// New builds a test set from items, in the order given.
func New(features []string, items []Item) *Singles {
	s := &Singles{
		features: features,
		items:    items,
		words:    make([]string, len(items)),
		x:        make([][][]float64, len(items)),
		lengths:  make([][]int, len(items)),
	}
	for i, item := range items {
		s.words[i] = item.Word
		for _, seq := range item.Sequences {
			s.x[i] = append(s.x[i], seq...)
			s.lengths[i] = append(s.lengths[i], len(seq))
		}
	}
	return s
}

// NumItems returns the number of items.
func (s *Singles) NumItems() int {
	return len(s.items)
}

// ItemXLengths returns the concatenated frames of item i and the length of
// each sequence. The returned slices must not be modified.
func (s *Singles) ItemXLengths(i int) ([][]float64, []int) {
	return s.x[i], s.lengths[i]
}

// Wordlist returns the word of every item, in item order.
func (s *Singles) Wordlist() []string {
	return s.words
}

// Item returns item i.
func (s *Singles) Item(i int) Item {
	return s.items[i]
}

// Features returns the feature names of each frame column.
func (s *Singles) Features() []string {
	return s.features
}

// Videos returns the video id of every item, in item order.
func (s *Singles) Videos() []int {
	videos := make([]int, len(s.items))
	for i, item := range s.items {
		videos[i] = item.Video
	}
	return videos
}

// Parse decodes a test set file. Frames whose width differs from the
// feature list are kept and logged; the models decide whether they score.
func Parse(data []byte) (*Singles, error) {
	var f fileJSON
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	for i, item := range f.Items {
		if item.Word == "" {
			return nil, fmt.Errorf("item %d has no word", i)
		}
		if len(item.Sequences) == 0 {
			slog.Warn("Item has no sequences", "item", i, "word", item.Word)
		}
		if len(f.Features) == 0 {
			continue
		}
		for j, seq := range item.Sequences {
			for k, frame := range seq {
				if len(frame) != len(f.Features) {
					slog.Warn("Frame width differs from feature list",
						"item", i, "sequence", j, "frame", k, "width", len(frame), "features", len(f.Features))
					break
				}
			}
		}
	}
	return New(f.Features, f.Items), nil
}

// Load reads a test set from a file path or an http(s) URL.
func Load(source string) (*Singles, error) {
	data, err := fetch(source)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	slog.Debug("Test set loaded", "source", source, "items", s.NumItems())
	return s, nil
}

// IsURL reports whether source is fetched over http(s).
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func fetch(source string) ([]byte, error) {
	if IsURL(source) {
		resp, err := http.Get(source)
		if err != nil {
			return nil, fmt.Errorf("fetch URL: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch URL: HTTP %d", resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		return body, nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}
