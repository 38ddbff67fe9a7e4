package stackup

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"tessera/internal/logging"
	"tessera/internal/model"
	"tessera/internal/tesseraerr"
)

// minMonteCarloSamples is the floor spec.md 4.4.3 mandates.
const minMonteCarloSamples = 1000

// monteCarloWorkers is fixed (not derived from runtime.NumCPU) so that the
// deterministic partition rule — sample index i assigned to worker i mod W
// — holds regardless of the machine the analysis runs on (spec.md 5).
const monteCarloWorkers = 4

type monteCarloOutcome struct {
	samples []float64
	mean    float64
	median  float64
	stdDev  float64
	band3   ToleranceBand
	bandCI  ToleranceBand
	quart   Quartiles
}

// runMonteCarlo implements spec.md 4.4.3. Work is fanned out across
// monteCarloWorkers goroutines, each owning every i-th sample index
// (i mod W == workerID); with a supplied seed each worker derives its own
// sub-stream deterministically, so the reduced statistics are reproducible
// run over run regardless of scheduling. logger may be nil.
func runMonteCarlo(links []resolvedLink, cfg Config, logger *logging.Logger) (monteCarloOutcome, error) {
	if cfg.Samples < minMonteCarloSamples {
		return monteCarloOutcome{}, &tesseraerr.TooFewSamplesError{
			Requested: int(cfg.Samples),
			Minimum:   minMonteCarloSamples,
		}
	}

	// A feature whose distribution cannot be parameterized aborts the run.
	for _, l := range links {
		f := l.feature
		sigma := rssSigma(f)
		if f.CustomStdDev != nil {
			sigma = *f.CustomStdDev
		}
		if f.Distribution.Kind == model.Normal && sigma <= 0 {
			return monteCarloOutcome{}, &tesseraerr.InvalidDistributionError{FeatureID: string(f.ID), Reason: "normal distribution needs a positive standard deviation"}
		}
		if f.Distribution.Kind == model.Triangular && f.Plus+f.Minus < 0 {
			return monteCarloOutcome{}, &tesseraerr.InvalidDistributionError{FeatureID: string(f.ID), Reason: "triangular minimum exceeds maximum"}
		}
	}

	n := int(cfg.Samples)
	samples := make([]float64, n)
	logger.WithField("samples", n).WithField("workers", monteCarloWorkers).Info("starting monte carlo batch")

	var wg sync.WaitGroup
	for w := 0; w < monteCarloWorkers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			batchLogger := logger.WithField("worker", w)
			rng := rand.New(rand.NewSource(workerSeed(cfg.Seed, w)))
			batchSize := 0
			for i := w; i < n; i += monteCarloWorkers {
				x := 0.0
				for _, l := range links {
					x += l.sign * sampleFeature(rng, l.feature)
				}
				samples[i] = x
				batchSize++
			}
			batchLogger.WithField("batch_size", batchSize).Debug("worker batch complete")
		}()
	}
	wg.Wait()

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	mean := meanOf(sorted)
	stdDev := stdDevOf(sorted, mean)
	median := percentile(sorted, 0.5)

	lower3 := percentile(sorted, 0.00135)
	upper3 := percentile(sorted, 0.99865)

	confAlpha := (1 - cfg.ConfidenceLevel) / 2
	lowerCI := percentile(sorted, confAlpha)
	upperCI := percentile(sorted, 1-confAlpha)

	q := Quartiles{
		Min:    sorted[0],
		P5:     percentile(sorted, 0.05),
		Q1:     percentile(sorted, 0.25),
		Median: median,
		Q3:     percentile(sorted, 0.75),
		P95:    percentile(sorted, 0.95),
		Max:    sorted[len(sorted)-1],
	}
	q.IQR = q.Q3 - q.Q1

	logger.WithField("mean", mean).WithField("std_dev", stdDev).Info("monte carlo batch complete")

	return monteCarloOutcome{
		samples: samples,
		mean:    mean,
		median:  median,
		stdDev:  stdDev,
		band3:   ToleranceBand{Upper: upper3, Lower: lower3},
		bandCI:  ToleranceBand{Upper: upperCI, Lower: lowerCI},
		quart:   q,
	}, nil
}

// workerSeed derives worker w's sub-stream seed from the user seed via a
// splitmix-style odd-constant multiply, or from the wall clock when no
// seed was supplied (spec.md 5: "without a seed, results differ only
// through sampling variance").
func workerSeed(seed *uint64, w int) int64 {
	if seed == nil {
		return time.Now().UnixNano() + int64(w)*2654435761
	}
	base := *seed
	mixed := (base+uint64(w)+1)*0x9E3779B97F4A7C15 + uint64(w)
	return int64(mixed)
}

func meanOf(sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range sorted {
		total += v
	}
	return total / float64(len(sorted))
}

func stdDevOf(sorted []float64, mean float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range sorted {
		d := v - mean
		total += d * d
	}
	return math.Sqrt(total / float64(len(sorted)))
}

// percentile returns the value at fraction p (0..1) of the sorted slice
// via linear interpolation between the two bracketing order statistics.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := p * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
