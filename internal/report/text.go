package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"

	"github.com/happyhackingspace/wordrec/recognizer"
)

// TextOptions controls the text report.
type TextOptions struct {
	Color     bool
	Confusion bool
}

// WriteText writes the error listing: WER, total correct, then one line per
// item with wrong guesses marked by '*'.
func WriteText(w io.Writer, s *Summary, opts TextOptions) {
	wrong := color.New(color.FgRed)
	bold := color.New(color.Bold)
	if !opts.Color {
		wrong.DisableColor()
		bold.DisableColor()
	}

	bold.Fprintf(w, "**** WER = %v\n", s.WER)
	fmt.Fprintf(w, "Total correct: %d out of %d\n", s.Correct, s.Total)
	if s.Failures > 0 {
		fmt.Fprintf(w, "Scoring failures: %d\n", s.Failures)
	}
	fmt.Fprintf(w, "%5s  %-30s %s\n", "Video", "Recognized", "Correct")
	fmt.Fprintln(w, strings.Repeat("=", 70))
	for _, r := range s.Rows {
		guess := r.Guess
		if r.Wrong() {
			guess = "*" + guess
			wrong.Fprintf(w, "%5d: %-30s %s\n", r.Video, guess, r.Word)
			continue
		}
		fmt.Fprintf(w, "%5d: %-30s %s\n", r.Video, guess, r.Word)
	}

	if opts.Confusion {
		writeConfusion(w, s)
	}
}

func writeConfusion(w io.Writer, s *Summary) {
	if len(s.Confusion) == 0 {
		return
	}

	fmt.Fprintf(w, "\nConfusion matrix (rows=true, cols=predicted):\n")
	fmt.Fprintf(w, "%8s", "")
	for _, c := range s.Classes {
		fmt.Fprintf(w, " %5s", truncate(c, 5))
	}
	fmt.Fprintf(w, "  total  acc%%\n")

	for _, trueClass := range s.Classes {
		total := support(s.Confusion, trueClass)
		if total == 0 {
			continue
		}
		fmt.Fprintf(w, "%8s", truncate(trueClass, 8))
		for _, predClass := range s.Classes {
			count := s.Confusion[trueClass][predClass]
			if count == 0 {
				fmt.Fprintf(w, " %5s", ".")
			} else {
				fmt.Fprintf(w, " %5d", count)
			}
		}
		fmt.Fprintf(w, "  %5d %5.1f\n", total, s.Accuracy(trueClass)*100)
	}
}

// WriteScores writes the log-likelihood of every item under every model,
// one line per item, labels in model order.
func WriteScores(w io.Writer, scores []recognizer.ScoreMap, guesses []string, labels []string) {
	for i, sm := range scores {
		fmt.Fprintf(w, "%5d:", i)
		for _, label := range labels {
			v, ok := sm[label]
			if !ok {
				continue
			}
			if math.IsInf(v, -1) {
				fmt.Fprintf(w, " %s=-inf", label)
			} else {
				fmt.Fprintf(w, " %s=%.3f", label, v)
			}
		}
		if i < len(guesses) {
			fmt.Fprintf(w, "  -> %s", guesses[i])
		}
		fmt.Fprintln(w)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
