// Package wordrec recognizes isolated words by scoring them against
// per-word hidden Markov models.
//
//	models, _ := wordrec.LoadModels(ctx, "models", 4)
//	testSet, _ := wordrec.LoadTestSet("data/test.json")
//	result, _ := wordrec.Evaluate(models, testSet, nil)
//	fmt.Println(result.WER)     // 0.3
//	fmt.Println(result.Guesses) // ["JOHN", "WRITE", ...]
package wordrec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/happyhackingspace/wordrec/hmm"
	"github.com/happyhackingspace/wordrec/internal/dataset"
	"github.com/happyhackingspace/wordrec/recognizer"
)

// LoadModels loads word models from a bundle file or from a directory of
// <WORD>.json / <WORD>.mp files. Directory models are decoded by up to jobs
// goroutines and ordered by word.
func LoadModels(ctx context.Context, path string, jobs int) (*recognizer.ModelSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("wordrec: %w", err)
	}

	var models []hmm.WordModel
	if info.IsDir() {
		models, err = loadModelDir(ctx, path, jobs)
	} else {
		var b *hmm.Bundle
		b, err = hmm.LoadBundle(path)
		if b != nil {
			models = b.Models
		}
	}
	if err != nil {
		return nil, fmt.Errorf("wordrec: %w", err)
	}

	set := recognizer.NewModelSet()
	for _, wm := range models {
		if err := wm.Model.Validate(); err != nil {
			slog.Warn("Invalid model, it will not score", "word", wm.Word, "error", err)
		}
		if _, dup := set.Get(wm.Word); dup {
			slog.Warn("Duplicate word model, keeping the last", "word", wm.Word)
		}
		set.Add(wm.Word, wm.Model)
	}
	slog.Debug("Models loaded", "path", path, "words", set.Len())
	return set, nil
}

func isModelFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".mp", ".msgpack":
		return true
	}
	return false
}

func loadModelDir(ctx context.Context, dir string, jobs int) ([]hmm.WordModel, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !isModelFile(e.Name()) {
			continue
		}
		word := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if prev, ok := seen[word]; ok {
			return nil, fmt.Errorf("word %q has two model files: %s and %s", word, prev, e.Name())
		}
		seen[word] = e.Name()
		files = append(files, e.Name())
	}
	sort.Slice(files, func(i, j int) bool {
		return strings.TrimSuffix(files[i], filepath.Ext(files[i])) <
			strings.TrimSuffix(files[j], filepath.Ext(files[j]))
	})

	if jobs <= 0 {
		jobs = 1
	}
	models := make([]hmm.WordModel, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := hmm.LoadModel(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			models[i] = hmm.WordModel{
				Word:  strings.TrimSuffix(name, filepath.Ext(name)),
				Model: m,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models, nil
}

// LoadTestSet loads a test set from a file path or an http(s) URL.
func LoadTestSet(source string) (*dataset.Singles, error) {
	ts, err := dataset.Load(source)
	if err != nil {
		return nil, fmt.Errorf("wordrec: %w", err)
	}
	return ts, nil
}

// Path is the most likely state path of one sequence.
type Path struct {
	States  []int
	LogProb float64
}

// DecodeItem returns the Viterbi state path of every sequence of item under
// the model of word.
func DecodeItem(models *recognizer.ModelSet, ts recognizer.TestSet, word string, item int) ([]Path, error) {
	s, ok := models.Get(word)
	if !ok {
		return nil, fmt.Errorf("wordrec: no model for %q", word)
	}
	m, ok := s.(*hmm.Model)
	if !ok {
		return nil, fmt.Errorf("wordrec: model for %q does not support decoding", word)
	}
	if item < 0 || item >= ts.NumItems() {
		return nil, fmt.Errorf("wordrec: item %d out of range [0, %d)", item, ts.NumItems())
	}

	X, lengths := ts.ItemXLengths(item)
	if len(lengths) == 0 {
		return nil, errors.New("wordrec: item has no sequences")
	}
	paths := make([]Path, 0, len(lengths))
	start := 0
	for _, l := range lengths {
		if l <= 0 || start+l > len(X) {
			return nil, fmt.Errorf("wordrec: %w", hmm.ErrLengths)
		}
		states, logProb, err := m.Decode(X[start : start+l])
		if err != nil {
			return nil, fmt.Errorf("wordrec: %w", err)
		}
		paths = append(paths, Path{States: states, LogProb: logProb})
		start += l
	}
	return paths, nil
}
