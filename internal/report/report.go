// Package report renders recognition results as text or HTML.
package report

import (
	"sort"

	"github.com/happyhackingspace/wordrec/recognizer"
)

// Row is the outcome for one test item.
type Row struct {
	Item  int
	Video int
	Word  string
	Guess string
}

// Wrong reports whether the guess differs from the word.
func (r Row) Wrong() bool {
	return r.Guess != r.Word
}

// Summary collects what the reports show.
type Summary struct {
	WER       float64
	Correct   int
	Total     int
	Failures  int
	Rows      []Row
	Confusion map[string]map[string]int // word -> guess -> count
	Classes   []string                  // by support, descending
}

// New builds a summary. videos may be nil, in which case item indexes are
// shown. guesses shorter than words leave the missing guesses as NoGuess.
func New(words, guesses []string, videos []int, wer float64, failures int) *Summary {
	s := &Summary{
		WER:       wer,
		Total:     len(words),
		Failures:  failures,
		Rows:      make([]Row, len(words)),
		Confusion: make(map[string]map[string]int),
	}
	for i, word := range words {
		guess := recognizer.NoGuess
		if i < len(guesses) {
			guess = guesses[i]
		}
		video := i
		if i < len(videos) {
			video = videos[i]
		}
		s.Rows[i] = Row{Item: i, Video: video, Word: word, Guess: guess}
		if guess == word {
			s.Correct++
		}
		if s.Confusion[word] == nil {
			s.Confusion[word] = make(map[string]int)
		}
		s.Confusion[word][guess]++
	}
	s.Classes = classes(s.Confusion)
	return s
}

// Accuracy returns the fraction of correct guesses for word.
func (s *Summary) Accuracy(word string) float64 {
	total := 0
	for _, v := range s.Confusion[word] {
		total += v
	}
	if total == 0 {
		return 0
	}
	return float64(s.Confusion[word][word]) / float64(total)
}

func support(confusion map[string]map[string]int, word string) int {
	n := 0
	for _, v := range confusion[word] {
		n += v
	}
	return n
}

// classes lists every word and guess, most frequent true word first.
func classes(confusion map[string]map[string]int) []string {
	seen := make(map[string]bool)
	var out []string
	for word, row := range confusion {
		if !seen[word] {
			seen[word] = true
			out = append(out, word)
		}
		for guess := range row {
			if !seen[guess] {
				seen[guess] = true
				out = append(out, guess)
			}
		}
	}
	sort.Strings(out)
	sort.SliceStable(out, func(i, j int) bool {
		return support(confusion, out[i]) > support(confusion, out[j])
	})
	return out
}
