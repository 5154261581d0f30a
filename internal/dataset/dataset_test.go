package dataset

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const testSetJSON = `{
  "features": ["rx", "ry"],
  "items": [
    {"video": 2, "word": "JOHN", "sequences": [[[1, 2], [3, 4]], [[5, 6]]]},
    {"video": 7, "word": "MARY", "sequences": [[[7, 8]]]}
  ]
}`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(testSetJSON))
	if err != nil {
		t.Fatal(err)
	}
	if s.NumItems() != 2 {
		t.Fatalf("NumItems = %d, want 2", s.NumItems())
	}
	if !reflect.DeepEqual(s.Wordlist(), []string{"JOHN", "MARY"}) {
		t.Errorf("Wordlist = %v", s.Wordlist())
	}
	if !reflect.DeepEqual(s.Videos(), []int{2, 7}) {
		t.Errorf("Videos = %v", s.Videos())
	}

	X, lengths := s.ItemXLengths(0)
	wantX := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	if !reflect.DeepEqual(X, wantX) {
		t.Errorf("X = %v, want %v", X, wantX)
	}
	if !reflect.DeepEqual(lengths, []int{2, 1}) {
		t.Errorf("lengths = %v, want [2 1]", lengths)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad json", `{"items": [`},
		{"missing word", `{"items": [{"video": 1, "sequences": [[[1]]]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseKeepsRaggedFrames(t *testing.T) {
	s, err := Parse([]byte(`{"features": ["a", "b"], "items": [{"word": "X", "sequences": [[[1]]]}]}`))
	if err != nil {
		t.Fatal(err)
	}
	X, _ := s.ItemXLengths(0)
	if len(X) != 1 || len(X[0]) != 1 {
		t.Errorf("X = %v, want the ragged frame kept", X)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(path, []byte(testSetJSON), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.NumItems() != 2 {
		t.Errorf("NumItems = %d, want 2", s.NumItems())
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/test.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(testSetJSON))
	}))
	defer srv.Close()

	s, err := Load(srv.URL + "/test.json")
	if err != nil {
		t.Fatal(err)
	}
	if s.Item(1).Word != "MARY" {
		t.Errorf("Item(1).Word = %q, want MARY", s.Item(1).Word)
	}

	if _, err := Load(srv.URL + "/missing.json"); err == nil {
		t.Error("expected error for HTTP 404")
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.org/test.json", true},
		{"http://localhost:8080/t", true},
		{"data/test.json", false},
		{"ftp://host/file", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
