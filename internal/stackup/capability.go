package stackup

import "math"

// capabilityMetrics implements spec.md 4.4.4. sigma is the method's
// reported standard deviation (RSS's combined σ, or the Monte Carlo
// sample σ); for the MC yield, samples (sorted or not) are required — pass
// nil outside Monte Carlo to fall back to the Normal CDF.
type capabilityMetrics struct {
	cp, cpu, cpl, cpk, sigmaLevel, yieldPct, ppm float64
}

func computeCapability(mu, sigma, usl, lsl float64, mcSamples []float64) capabilityMetrics {
	var m capabilityMetrics
	if sigma <= 0 {
		return m
	}

	m.cp = (usl - lsl) / (6 * sigma)
	m.cpu = (usl - mu) / (3 * sigma)
	m.cpl = (mu - lsl) / (3 * sigma)
	m.cpk = math.Min(m.cpu, m.cpl)
	m.sigmaLevel = 3 * m.cpk

	if mcSamples != nil {
		inside := 0
		for _, s := range mcSamples {
			if s >= lsl && s <= usl {
				inside++
			}
		}
		m.yieldPct = 100 * float64(inside) / float64(len(mcSamples))
	} else {
		m.yieldPct = 100 * (normalCDF(usl, mu, sigma) - normalCDF(lsl, mu, sigma))
	}
	m.ppm = 1e6 * (1 - m.yieldPct/100)

	return m
}

// normalCDF is the standard Normal cumulative distribution function,
// evaluated via the error function (math.Erf).
func normalCDF(x, mu, sigma float64) float64 {
	if sigma <= 0 {
		if x >= mu {
			return 1
		}
		return 0
	}
	z := (x - mu) / (sigma * math.Sqrt2)
	return 0.5 * (1 + math.Erf(z))
}
