package hmm

import "math"

// Viterbi finds the best state path using the Viterbi algorithm (log-domain).
// logStart: [N], logTrans: [N][N], logB: [T][N].
func Viterbi(logStart []float64, logTrans, logB [][]float64) ([]int, float64) {
	T := len(logB)
	if T == 0 {
		return nil, math.Inf(-1)
	}
	N := len(logStart)

	// delta[t][y] = best score ending at time t in state y
	delta := make([][]float64, T)
	// psi[t][y] = best previous state for backtracking
	psi := make([][]int, T)

	delta[0] = make([]float64, N)
	psi[0] = make([]int, N)
	for y := range N {
		delta[0][y] = logStart[y] + logB[0][y]
	}

	for t := 1; t < T; t++ {
		delta[t] = make([]float64, N)
		psi[t] = make([]int, N)
		for y := range N {
			bestScore := math.Inf(-1)
			bestPrev := 0
			for yp := range N {
				score := delta[t-1][yp] + logTrans[yp][y]
				if score > bestScore {
					bestScore = score
					bestPrev = yp
				}
			}
			delta[t][y] = bestScore + logB[t][y]
			psi[t][y] = bestPrev
		}
	}

	bestScore := math.Inf(-1)
	bestState := 0
	for y := range N {
		if delta[T-1][y] > bestScore {
			bestScore = delta[T-1][y]
			bestState = y
		}
	}

	path := make([]int, T)
	path[T-1] = bestState
	for t := T - 2; t >= 0; t-- {
		path[t] = psi[t+1][path[t+1]]
	}
	return path, bestScore
}

// Decode returns the most likely state path of a single sequence and its
// log probability.
func (m *Model) Decode(X [][]float64) ([]int, float64, error) {
	if err := m.Validate(); err != nil {
		return nil, 0, err
	}
	if _, err := split(X, nil); err != nil {
		return nil, 0, err
	}
	logB, err := m.logEmissions(X)
	if err != nil {
		return nil, 0, err
	}

	N := m.NumStates()
	logStart := make([]float64, N)
	logTrans := make([][]float64, N)
	for i := range N {
		logStart[i] = math.Log(m.StartProb[i])
		logTrans[i] = make([]float64, N)
		for j := range N {
			logTrans[i][j] = math.Log(m.TransMat[i][j])
		}
	}

	path, score := Viterbi(logStart, logTrans, logB)
	return path, score, nil
}
