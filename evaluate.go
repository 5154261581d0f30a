package wordrec

import (
	"fmt"
	"log/slog"

	"github.com/happyhackingspace/wordrec/recognizer"
)

// EvalConfig holds configuration for evaluation.
type EvalConfig struct {
	Policy recognizer.LengthPolicy
	Logger *slog.Logger // nil uses slog.Default()
}

// EvalResult holds the outcome of recognizing and scoring a test set.
type EvalResult struct {
	Labels   []string // model words in tie-break order
	Scores   []recognizer.ScoreMap
	Guesses  []string
	Words    []string
	Failures int
	WER      float64
	Correct  int
}

// Evaluate recognizes every item of ts and computes the word error rate.
func Evaluate(models *recognizer.ModelSet, ts recognizer.TestSet, config *EvalConfig) (*EvalResult, error) {
	policy := recognizer.LengthStrict
	logger := slog.Default()
	if config != nil {
		policy = config.Policy
		if config.Logger != nil {
			logger = config.Logger
		}
	}

	res := recognizer.New(logger).Run(models, ts)
	wer, err := recognizer.NewEvaluator(policy, logger).WER(res.Guesses, ts)
	if err != nil {
		return nil, fmt.Errorf("wordrec: %w", err)
	}

	words := ts.Wordlist()
	correct := 0
	for i, w := range words {
		if i < len(res.Guesses) && res.Guesses[i] == w {
			correct++
		}
	}

	return &EvalResult{
		Labels:   models.Labels(),
		Scores:   res.Scores,
		Guesses:  res.Guesses,
		Words:    words,
		Failures: res.Failures,
		WER:      wer,
		Correct:  correct,
	}, nil
}
