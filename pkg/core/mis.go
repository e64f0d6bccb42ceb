package core

// misEpsilon is the smallest pdf sum for which a balance weight is computed
const misEpsilon = 1e-8

// BalanceHeuristic returns the balance-heuristic weight of strategy a against strategy b.
// The weight is zero when the pdf sum underflows.
func BalanceHeuristic(pdfA, pdfB float64) float64 {
	sum := pdfA + pdfB
	if sum <= misEpsilon {
		return 0
	}
	return pdfA / sum
}

// maxContinueProbability keeps Russian roulette from running forever on bright paths
const maxContinueProbability = 0.99

// RussianRoulette decides whether a path with the given throughput survives.
// It returns the survival decision and the continuation probability the caller
// must divide throughput by when the path continues.
func RussianRoulette(throughput Vec3, u float64) (bool, float64) {
	p := min(throughput.MaxComponent(), maxContinueProbability)
	if !(p > 0) || u > p {
		return false, p
	}
	return true, p
}
