package recognizer

import (
	"errors"
	"testing"
)

func words(w ...string) memTestSet {
	return memTestSet{words: w}
}

func TestWER(t *testing.T) {
	tests := []struct {
		name    string
		guesses []string
		words   []string
		want    float64
	}{
		{"all correct", []string{"A", "B", "C"}, []string{"A", "B", "C"}, 0},
		{"all wrong", []string{"B", "C", "A"}, []string{"A", "B", "C"}, 1},
		{"one of four", []string{"A", "B", "C", "X"}, []string{"A", "B", "C", "D"}, 0.25},
		{"no guess sentinel", []string{NoGuess, "B"}, []string{"A", "B"}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WER(tt.guesses, words(tt.words...))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("WER = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWERStrictMismatch(t *testing.T) {
	for _, guesses := range [][]string{{"A"}, {"A", "B", "C"}} {
		_, err := WER(guesses, words("A", "B"))
		if !errors.Is(err, ErrLengthMismatch) {
			t.Errorf("WER(%v) error = %v, want ErrLengthMismatch", guesses, err)
		}
	}
}

func TestWERPadMismatch(t *testing.T) {
	e := NewEvaluator(LengthPad, nil)

	got, err := e.WER([]string{"A"}, words("A", "B", "C", "D"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 0.75 {
		t.Errorf("short guesses: WER = %v, want 0.75", got)
	}

	got, err = e.WER([]string{"A", "X", "extra"}, words("A", "B"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 0.5 {
		t.Errorf("long guesses: WER = %v, want 0.5", got)
	}
}

func TestWEREmptyWordlist(t *testing.T) {
	for _, p := range []LengthPolicy{LengthStrict, LengthPad} {
		_, err := NewEvaluator(p, nil).WER(nil, words())
		if !errors.Is(err, ErrEmptyWordlist) {
			t.Errorf("%s: error = %v, want ErrEmptyWordlist", p, err)
		}
	}
}

func TestParseLengthPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    LengthPolicy
		wantErr bool
	}{
		{"", LengthStrict, false},
		{"strict", LengthStrict, false},
		{" PAD ", LengthPad, false},
		{"truncate", LengthStrict, true},
	}
	for _, tt := range tests {
		got, err := ParseLengthPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLengthPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLengthPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
