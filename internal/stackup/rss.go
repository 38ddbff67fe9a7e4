package stackup

import "math"

// rssBand implements spec.md 4.4.2: each feature's tolerance band is
// treated as ±3σ of a Normal distribution; combined variance sums
// (sᵢ·σᵢ)², combined σ is its square root, and the reported band is
// μ ± 3σ.
func rssBand(links []resolvedLink, mu float64) (band ToleranceBand, sigma float64) {
	variance := 0.0
	for _, l := range links {
		sigmaI := rssSigma(l.feature)
		term := l.sign * sigmaI
		variance += term * term
	}
	sigma = math.Sqrt(variance)
	return ToleranceBand{Upper: mu + 3*sigma, Lower: mu - 3*sigma}, sigma
}
