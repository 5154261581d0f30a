package hmm

import "math"

// Score returns the total log-likelihood of the sequences in X.
// lengths partitions the rows of X into independent sequences; nil treats X
// as one sequence. A sequence the model cannot generate scores -Inf.
func (m *Model) Score(X [][]float64, lengths []int) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	seqs, err := split(X, lengths)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, seq := range seqs {
		logB, err := m.logEmissions(seq)
		if err != nil {
			return 0, err
		}
		total += m.forward(logB)
	}
	return total, nil
}

// forward runs the scaled forward pass and returns log P(seq).
// Each frame's emissions are shifted by their maximum before exponentiation
// and the shift is added back to the log-likelihood.
func (m *Model) forward(logB [][]float64) float64 {
	T := len(logB)
	N := m.NumStates()

	alpha := make([]float64, N)
	next := make([]float64, N)
	logL := 0.0

	for t := range T {
		shift := maxOf(logB[t])
		if math.IsInf(shift, -1) {
			return math.Inf(-1)
		}

		var sum float64
		for y := range N {
			var a float64
			if t == 0 {
				a = m.StartProb[y]
			} else {
				for yp := range N {
					a += alpha[yp] * m.TransMat[yp][y]
				}
			}
			next[y] = a * math.Exp(logB[t][y]-shift)
			sum += next[y]
		}
		if sum == 0 {
			return math.Inf(-1)
		}

		scale := 1.0 / sum
		for y := range N {
			alpha[y] = next[y] * scale
		}
		logL += math.Log(sum) + shift
	}
	return logL
}

func maxOf(v []float64) float64 {
	best := math.Inf(-1)
	for _, x := range v {
		if x > best {
			best = x
		}
	}
	return best
}
