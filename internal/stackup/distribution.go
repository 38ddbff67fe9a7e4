package stackup

import (
	"math"
	"math/rand"

	"tessera/internal/model"
)

// rssSigma is the Root-Sum-Square standard deviation for a feature's
// tolerance band, treated as ±3σ of a Normal distribution (spec.md 4.4.2).
func rssSigma(f model.Feature) float64 {
	return (f.Plus + f.Minus) / 6.0
}

// sensitivitySigma is the method-appropriate standard deviation used for
// sensitivity decomposition (spec.md 4.4.5): it depends on the feature's
// own sampling distribution kind, not on the analysis method in force.
func sensitivitySigma(f model.Feature) float64 {
	tol := f.Plus + f.Minus
	switch f.Distribution.Kind {
	case model.Uniform:
		return tol / math.Sqrt(12)
	case model.Triangular:
		return tol / math.Sqrt(24)
	default:
		return tol / 6.0
	}
}

// sampleFeature draws one Monte Carlo sample for f from its distribution
// (spec.md 4.4.3).
func sampleFeature(rng *rand.Rand, f model.Feature) float64 {
	lo := f.Nominal - f.Minus
	hi := f.Nominal + f.Plus

	switch f.Distribution.Kind {
	case model.Normal:
		mean := f.Nominal
		if f.CustomMean != nil {
			mean = *f.CustomMean
		}
		sigma := rssSigma(f)
		if f.CustomStdDev != nil {
			sigma = *f.CustomStdDev
		}
		return mean + rng.NormFloat64()*sigma

	case model.Uniform:
		return lo + rng.Float64()*(hi-lo)

	case model.Triangular:
		return sampleTriangular(rng, lo, f.Nominal, hi)

	case model.LogNormal:
		return sampleLogNormal(rng, f.Nominal, lo, hi)

	case model.Beta:
		return sampleBeta(rng, f.Distribution.Alpha, f.Distribution.Beta_, lo, hi)

	default:
		return f.Nominal
	}
}

// sampleTriangular draws from Triangular(min, mode, max) via inverse CDF.
func sampleTriangular(rng *rand.Rand, lo, mode, hi float64) float64 {
	if hi <= lo {
		return mode
	}
	u := rng.Float64()
	fc := (mode - lo) / (hi - lo)
	if u < fc {
		return lo + math.Sqrt(u*(hi-lo)*(mode-lo))
	}
	return hi - math.Sqrt((1-u)*(hi-lo)*(hi-mode))
}

// sampleLogNormal parameterizes a log-normal distribution over the
// tolerance span: the underlying normal's mean/σ are chosen so the
// resulting distribution is centered near nominal with a spread derived
// from the tolerance band, then clamped into [lo, hi] to stay physically
// meaningful for a dimensional feature.
func sampleLogNormal(rng *rand.Rand, nominal, lo, hi float64) float64 {
	if nominal <= 0 {
		return sampleTriangular(rng, lo, nominal, hi)
	}
	cv := (hi - lo) / (6.0 * nominal) // coefficient of variation
	if cv <= 0 {
		return nominal
	}
	sigmaLog := math.Sqrt(math.Log(1 + cv*cv))
	muLog := math.Log(nominal) - sigmaLog*sigmaLog/2

	v := math.Exp(muLog + rng.NormFloat64()*sigmaLog)
	return clamp(v, lo, hi)
}

// sampleBeta draws from Beta(alpha, beta) and rescales into [lo, hi].
func sampleBeta(rng *rand.Rand, alpha, beta, lo, hi float64) float64 {
	if alpha <= 0 {
		alpha = 2
	}
	if beta <= 0 {
		beta = 2
	}
	x := gammaSample(rng, alpha)
	y := gammaSample(rng, beta)
	frac := x / (x + y)
	return lo + frac*(hi-lo)
}

// gammaSample draws a Gamma(k, 1) variate via the Marsaglia-Tsang method,
// with Ahrens' boost for k < 1 (standard technique; math/rand has no
// built-in Gamma source).
func gammaSample(rng *rand.Rand, k float64) float64 {
	if k < 1 {
		u := rng.Float64()
		return gammaSample(rng, k+1) * math.Pow(u, 1/k)
	}

	d := k - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)

	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
