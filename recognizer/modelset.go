package recognizer

// Scorer computes the log-likelihood of an observation sequence.
// X holds one or more sequences concatenated row-wise; lengths gives the
// number of rows of each sequence.
type Scorer interface {
	Score(X [][]float64, lengths []int) (float64, error)
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(X [][]float64, lengths []int) (float64, error)

// Score calls f(X, lengths).
func (f ScorerFunc) Score(X [][]float64, lengths []int) (float64, error) {
	return f(X, lengths)
}

// ModelSet maps labels to scorers and remembers insertion order.
// Iteration order decides ties during recognition.
type ModelSet struct {
	toID    map[string]int
	labels  []string
	scorers []Scorer
}

// NewModelSet creates an empty model set.
func NewModelSet() *ModelSet {
	return &ModelSet{
		toID: make(map[string]int),
	}
}

// Add registers a scorer for label. Re-adding a label replaces its scorer
// and keeps its original position.
func (m *ModelSet) Add(label string, s Scorer) {
	if id, ok := m.toID[label]; ok {
		m.scorers[id] = s
		return
	}
	m.toID[label] = len(m.labels)
	m.labels = append(m.labels, label)
	m.scorers = append(m.scorers, s)
}

// Get returns the scorer for label.
func (m *ModelSet) Get(label string) (Scorer, bool) {
	if m == nil {
		return nil, false
	}
	id, ok := m.toID[label]
	if !ok {
		return nil, false
	}
	return m.scorers[id], true
}

// Labels returns the labels in insertion order.
func (m *ModelSet) Labels() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.labels...)
}

// Len returns the number of models.
func (m *ModelSet) Len() int {
	if m == nil {
		return 0
	}
	return len(m.labels)
}

// Each calls fn for every model in insertion order.
func (m *ModelSet) Each(fn func(label string, s Scorer)) {
	if m == nil {
		return
	}
	for i, label := range m.labels {
		fn(label, m.scorers[i])
	}
}
