// Package recognizer picks the best-scoring word model for each test item
// and measures the word error rate of the result.
//
//	models := recognizer.NewModelSet()
//	models.Add("JOHN", johnHMM)
//	models.Add("MARY", maryHMM)
//	scores, guesses := recognizer.Recognize(models, testSet)
//	wer, err := recognizer.WER(guesses, testSet)
package recognizer

import (
	"fmt"
	"log/slog"
	"math"
)

// NoGuess is the guess recorded for an item when no models were supplied.
const NoGuess = "None"

// TestSet is the collection of items to recognize.
type TestSet interface {
	// NumItems returns the number of test items.
	NumItems() int
	// ItemXLengths returns the concatenated observations of item i and the
	// length of each sequence in them.
	ItemXLengths(i int) ([][]float64, []int)
	// Wordlist returns the ground-truth word of every item, in item order.
	Wordlist() []string
}

// ScoreMap holds the log-likelihood of one item under each model.
// A model that failed to score the item maps to negative infinity.
type ScoreMap map[string]float64

// Result is the outcome of one recognition pass.
type Result struct {
	Scores   []ScoreMap
	Guesses  []string
	Failures int // number of (item, model) pairs that could not be scored
}

// Recognizer scores test items against a model set.
type Recognizer struct {
	logger *slog.Logger
}

// New creates a Recognizer that writes diagnostics to logger.
// A nil logger discards them.
func New(logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Recognizer{logger: logger}
}

// Recognize scores every item of ts with the default logger.
func Recognize(models *ModelSet, ts TestSet) ([]ScoreMap, []string) {
	return New(slog.Default()).Recognize(models, ts)
}

// Recognize returns the score map and best guess of every item in ts,
// in item order.
func (r *Recognizer) Recognize(models *ModelSet, ts TestSet) ([]ScoreMap, []string) {
	res := r.Run(models, ts)
	return res.Scores, res.Guesses
}

// Run is Recognize with the failure count included.
func (r *Recognizer) Run(models *ModelSet, ts TestSet) Result {
	n := ts.NumItems()
	res := Result{
		Scores:  make([]ScoreMap, 0, n),
		Guesses: make([]string, 0, n),
	}

	for item := range n {
		X, lengths := ts.ItemXLengths(item)
		r.logger.Debug("Recognizing item", "item", item, "frames", len(X), "sequences", len(lengths))

		scores := make(ScoreMap, models.Len())
		best := NoGuess
		bestScore := math.Inf(-1)
		found := false

		models.Each(func(label string, s Scorer) {
			r.logger.Debug("Comparing", "item", item, "word", label)
			score, err := safeScore(s, X, lengths)
			if err != nil {
				r.logger.Warn("Scoring failed", "item", item, "word", label, "error", err)
				score = math.Inf(-1)
				res.Failures++
			} else {
				r.logger.Debug("Scored", "item", item, "word", label, "score", score)
			}
			scores[label] = score

			// Strict comparison keeps the earliest label on ties.
			if !found || score > bestScore {
				best = label
				bestScore = score
				found = true
			}
		})

		if !found {
			r.logger.Debug("No models to compare", "item", item)
		} else {
			r.logger.Debug("Best guess", "item", item, "word", best, "score", bestScore)
		}
		res.Scores = append(res.Scores, scores)
		res.Guesses = append(res.Guesses, best)
	}
	return res
}

// safeScore turns a panic or a NaN result inside a scorer into an error.
func safeScore(s Scorer, X [][]float64, lengths []int) (score float64, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("scorer panicked: %v", p)
		}
	}()
	if s == nil {
		return 0, fmt.Errorf("nil scorer")
	}
	score, err = s.Score(X, lengths)
	if err == nil && math.IsNaN(score) {
		return 0, fmt.Errorf("score is NaN")
	}
	return score, err
}
