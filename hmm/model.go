package hmm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Format is a model file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatMsgpack
)

// FormatFor picks the encoding from a file extension: ".mp" and ".msgpack"
// are MessagePack, anything else is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp", ".msgpack":
		return FormatMsgpack
	}
	return FormatJSON
}

// WordModel pairs a word with its model.
type WordModel struct {
	Word  string `json:"word" msgpack:"word"`
	Model *Model `json:"model" msgpack:"model"`
}

// Bundle is an ordered collection of word models stored in one file.
type Bundle struct {
	Models []WordModel `json:"models" msgpack:"models"`
}

// Marshal encodes v in the given format.
func Marshal(v any, f Format) ([]byte, error) {
	if f == FormatMsgpack {
		return msgpack.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

// Unmarshal decodes data in the given format into v.
func Unmarshal(data []byte, f Format, v any) error {
	if f == FormatMsgpack {
		return msgpack.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// SaveModel writes a model, encoded by file extension.
func SaveModel(model *Model, path string) error {
	return save(model, path)
}

// LoadModel reads a model, decoded by file extension. The parameters are
// not validated; an invalid model fails when it scores.
func LoadModel(path string) (*Model, error) {
	var model Model
	if err := load(path, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// SaveBundle writes a bundle, encoded by file extension.
func SaveBundle(b *Bundle, path string) error {
	return save(b, path)
}

// LoadBundle reads a bundle. Like LoadModel it does not validate the
// model parameters.
func LoadBundle(path string) (*Bundle, error) {
	var b Bundle
	if err := load(path, &b); err != nil {
		return nil, err
	}
	for i, wm := range b.Models {
		if wm.Word == "" {
			return nil, fmt.Errorf("%s: model %d has no word", path, i)
		}
		if wm.Model == nil {
			return nil, fmt.Errorf("%s: word %q has no model", path, wm.Word)
		}
	}
	return &b, nil
}

func save(v any, path string) error {
	data, err := Marshal(v, FormatFor(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := Unmarshal(data, FormatFor(path), v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
