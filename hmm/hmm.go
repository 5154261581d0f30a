// Package hmm implements a Gaussian hidden Markov model with diagonal
// covariances, used as a per-word scorer.
package hmm

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidModel reports inconsistent or out-of-range parameters.
	ErrInvalidModel = errors.New("invalid model")
	// ErrDimension reports an observation with the wrong number of features.
	ErrDimension = errors.New("observation dimension mismatch")
	// ErrLengths reports lengths that do not partition the observations.
	ErrLengths = errors.New("invalid sequence lengths")
)

const probTolerance = 1e-6

// Model holds the HMM parameters.
type Model struct {
	StartProb []float64   `json:"startprob" msgpack:"startprob"`
	TransMat  [][]float64 `json:"transmat" msgpack:"transmat"`
	Means     [][]float64 `json:"means" msgpack:"means"`
	Covars    [][]float64 `json:"covars" msgpack:"covars"` // diagonal variances, [N][D]
}

// NumStates returns the number of hidden states.
func (m *Model) NumStates() int {
	return len(m.StartProb)
}

// NumFeatures returns the observation dimension.
func (m *Model) NumFeatures() int {
	if len(m.Means) == 0 {
		return 0
	}
	return len(m.Means[0])
}

// Validate checks that the parameters describe a usable model.
func (m *Model) Validate() error {
	n := m.NumStates()
	if n == 0 {
		return fmt.Errorf("%w: no states", ErrInvalidModel)
	}
	if len(m.TransMat) != n || len(m.Means) != n || len(m.Covars) != n {
		return fmt.Errorf("%w: %d states but transmat/means/covars have %d/%d/%d rows",
			ErrInvalidModel, n, len(m.TransMat), len(m.Means), len(m.Covars))
	}
	if err := checkDistribution(m.StartProb); err != nil {
		return fmt.Errorf("%w: startprob: %v", ErrInvalidModel, err)
	}
	d := m.NumFeatures()
	if d == 0 {
		return fmt.Errorf("%w: no features", ErrInvalidModel)
	}
	for i := range n {
		if len(m.TransMat[i]) != n {
			return fmt.Errorf("%w: transmat row %d has %d columns", ErrInvalidModel, i, len(m.TransMat[i]))
		}
		if err := checkDistribution(m.TransMat[i]); err != nil {
			return fmt.Errorf("%w: transmat row %d: %v", ErrInvalidModel, i, err)
		}
		if len(m.Means[i]) != d || len(m.Covars[i]) != d {
			return fmt.Errorf("%w: state %d has %d means and %d covars, want %d",
				ErrInvalidModel, i, len(m.Means[i]), len(m.Covars[i]), d)
		}
		for _, v := range m.Covars[i] {
			if !(v > 0) || math.IsInf(v, 1) {
				return fmt.Errorf("%w: state %d has non-positive variance %v", ErrInvalidModel, i, v)
			}
		}
	}
	return nil
}

func checkDistribution(p []float64) error {
	sum := 0.0
	for _, v := range p {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("negative or NaN probability %v", v)
		}
		sum += v
	}
	if math.Abs(sum-1) > probTolerance {
		return fmt.Errorf("probabilities sum to %v", sum)
	}
	return nil
}

// logEmissions returns the [T][N] Gaussian log densities of X.
func (m *Model) logEmissions(X [][]float64) ([][]float64, error) {
	n := m.NumStates()
	d := m.NumFeatures()

	// Per-state normalizer: -0.5 * (D*log(2*pi) + sum(log var))
	norm := make([]float64, n)
	for i := range n {
		s := float64(d) * math.Log(2*math.Pi)
		for _, v := range m.Covars[i] {
			s += math.Log(v)
		}
		norm[i] = -0.5 * s
	}

	out := make([][]float64, len(X))
	for t, x := range X {
		if len(x) != d {
			return nil, fmt.Errorf("%w: frame %d has %d features, model expects %d", ErrDimension, t, len(x), d)
		}
		out[t] = make([]float64, n)
		for i := range n {
			q := 0.0
			for k, v := range x {
				diff := v - m.Means[i][k]
				q += diff * diff / m.Covars[i][k]
			}
			out[t][i] = norm[i] - 0.5*q
		}
	}
	return out, nil
}

// split cuts X into the sequences described by lengths.
// nil lengths means X is a single sequence.
func split(X [][]float64, lengths []int) ([][][]float64, error) {
	if lengths == nil {
		if len(X) == 0 {
			return nil, fmt.Errorf("%w: empty observation sequence", ErrLengths)
		}
		return [][][]float64{X}, nil
	}
	if len(lengths) == 0 {
		return nil, fmt.Errorf("%w: no sequences", ErrLengths)
	}
	total := 0
	for i, l := range lengths {
		if l <= 0 {
			return nil, fmt.Errorf("%w: sequence %d has length %d", ErrLengths, i, l)
		}
		total += l
	}
	if total != len(X) {
		return nil, fmt.Errorf("%w: lengths sum to %d, have %d frames", ErrLengths, total, len(X))
	}
	seqs := make([][][]float64, len(lengths))
	start := 0
	for i, l := range lengths {
		seqs[i] = X[start : start+l]
		start += l
	}
	return seqs, nil
}
