package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happyhackingspace/wordrec/recognizer"
)

func sampleSummary() *Summary {
	words := []string{"JOHN", "JOHN", "MARY", "GO"}
	guesses := []string{"JOHN", "MARY", "MARY", "None"}
	return New(words, guesses, []int{2, 7, 12, 21}, 0.5, 1)
}

func TestNew(t *testing.T) {
	s := sampleSummary()
	assert.Equal(t, 2, s.Correct)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Confusion["JOHN"]["MARY"])
	assert.Equal(t, 0.5, s.Accuracy("JOHN"))
	assert.Equal(t, 0.0, s.Accuracy("GO"))
	assert.Equal(t, 0.0, s.Accuracy("unknown"))
	assert.Equal(t, "JOHN", s.Classes[0], "most frequent word first")
	assert.ElementsMatch(t, []string{"JOHN", "MARY", "GO", "None"}, s.Classes)
}

func TestNewShortGuesses(t *testing.T) {
	s := New([]string{"A", "B"}, []string{"A"}, nil, 0.5, 0)
	require.Len(t, s.Rows, 2)
	assert.Equal(t, recognizer.NoGuess, s.Rows[1].Guess)
	assert.Equal(t, 1, s.Rows[1].Video, "item index when no videos")
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, sampleSummary(), TextOptions{Confusion: true})
	out := buf.String()

	assert.Contains(t, out, "**** WER = 0.5")
	assert.Contains(t, out, "Total correct: 2 out of 4")
	assert.Contains(t, out, "Scoring failures: 1")
	assert.Contains(t, out, "*MARY")
	assert.Contains(t, out, "*None")
	assert.NotContains(t, out, "*JOHN")
	assert.Contains(t, out, "Confusion matrix")
	assert.NotContains(t, out, "\x1b[", "no color escapes when disabled")
}

func TestWriteScores(t *testing.T) {
	var buf bytes.Buffer
	scores := []recognizer.ScoreMap{{"A": 1.5, "B": math.Inf(-1)}}
	WriteScores(&buf, scores, []string{"A"}, []string{"B", "A"})
	assert.Equal(t, "    0: B=-inf A=1.500  -> A\n", buf.String())
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sampleSummary(), "Run <1>"))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(buf.String()))
	require.NoError(t, err)

	assert.Equal(t, "Run <1>", doc.Find("title").Text())
	assert.Equal(t, "WER = 0.5", doc.Find("p.wer").Text())
	assert.Equal(t, 4, doc.Find("table.results tbody tr").Length())
	assert.Equal(t, 2, doc.Find("table.results tr.error").Length())

	first := doc.Find("table.results tbody tr").First().Find("td")
	assert.Equal(t, []string{"2", "JOHN", "JOHN"}, first.Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	}))

	// one row per true word
	assert.Equal(t, 3, doc.Find("table.confusion tbody tr").Length())
}
