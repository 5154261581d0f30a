package recognizer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	// ErrLengthMismatch is returned when the number of guesses differs from
	// the number of test words under LengthStrict.
	ErrLengthMismatch = errors.New("number of guesses does not match number of test words")
	// ErrEmptyWordlist is returned when the test set has no words.
	ErrEmptyWordlist = errors.New("test set has no words")
)

// LengthPolicy decides how WER treats a guess list whose length differs
// from the wordlist.
type LengthPolicy int

const (
	// LengthStrict rejects mismatched lengths with ErrLengthMismatch.
	LengthStrict LengthPolicy = iota
	// LengthPad counts every word without a guess as a substitution and
	// ignores guesses past the end of the wordlist.
	LengthPad
)

// String returns the policy name used in configuration files.
func (p LengthPolicy) String() string {
	switch p {
	case LengthStrict:
		return "strict"
	case LengthPad:
		return "pad"
	}
	return fmt.Sprintf("LengthPolicy(%d)", int(p))
}

// ParseLengthPolicy parses "strict" or "pad". An empty string is strict.
func ParseLengthPolicy(s string) (LengthPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return LengthStrict, nil
	case "pad":
		return LengthPad, nil
	}
	return LengthStrict, fmt.Errorf("unknown length policy %q", s)
}

// Evaluator computes substitution-only word error rates.
type Evaluator struct {
	Policy LengthPolicy
	logger *slog.Logger
}

// NewEvaluator creates an Evaluator. A nil logger discards diagnostics.
func NewEvaluator(policy LengthPolicy, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Evaluator{Policy: policy, logger: logger}
}

// WER computes the word error rate with the strict length policy and the
// default logger.
func WER(guesses []string, ts TestSet) (float64, error) {
	return NewEvaluator(LengthStrict, slog.Default()).WER(guesses, ts)
}

// WER returns the fraction of test words whose guess differs.
// Isolated words have no insertions or deletions, so WER = S/N.
func (e *Evaluator) WER(guesses []string, ts TestSet) (float64, error) {
	words := ts.Wordlist()
	n := len(words)
	if n == 0 {
		return 0, ErrEmptyWordlist
	}

	if len(guesses) != n {
		if e.Policy == LengthStrict {
			return 0, fmt.Errorf("%w: %d guesses, %d words", ErrLengthMismatch, len(guesses), n)
		}
		e.logger.Warn("Guess count differs from test words", "guesses", len(guesses), "words", n)
	}

	s := 0
	for i, word := range words {
		if i >= len(guesses) || guesses[i] != word {
			s++
		}
	}
	return float64(s) / float64(n), nil
}
