// Package stackup implements the Stackup Solver (spec.md component C5):
// Worst-Case, Root-Sum-Square, and Monte Carlo statistical tolerance
// analysis over a feature contribution chain, process capability metrics,
// sensitivity decomposition, and shaft/hole mate MMC/LMC analysis.
package stackup

import "tessera/internal/model"

// Method selects the analysis algorithm (spec.md 4.4).
type Method int

const (
	WorstCase Method = iota
	RSS
	MonteCarlo
)

// Config carries the analyze_stackup parameters (spec.md 6).
type Config struct {
	Method          Method
	Samples         uint32 // Monte Carlo only, minimum 1000
	Seed            *uint64 // Monte Carlo only; nil = nondeterministic
	ConfidenceLevel float64 // Monte Carlo only, (0,1), default 0.95
	EmitSamples     bool
}

// ToleranceBand is a symmetric-or-asymmetric band around the nominal.
type ToleranceBand struct {
	Upper float64
	Lower float64
}

// Quartiles summarizes the sorted Monte Carlo sample distribution
// (spec.md 4.4.3).
type Quartiles struct {
	Min    float64
	P5     float64
	Q1     float64
	Median float64
	Q3     float64
	P95    float64
	Max    float64
	IQR    float64
}

// ContributionResult carries one feature's resolved per-chain inputs.
type ContributionResult struct {
	FeatureID ID
	Sign      float64
	Sigma     float64 // method-appropriate standard deviation
}

// ID is a local alias so this package reads naturally without importing
// model in every signature that already carries model types.
type ID = model.ID

// SensitivityEntry is one feature's share of the combined variance,
// reported both with and without the geometric multiplier (spec.md 4.4.5).
type SensitivityEntry struct {
	FeatureID ID
	// SharePctWithSign ranks by stackup impact (the sᵢ multiplier applied).
	SharePctWithSign float64
	// SharePctMagnitudeOnly ranks by pure tolerance contribution, ignoring
	// the direction/half-count/contribution-type multiplier's magnitude.
	SharePctMagnitudeOnly float64
}

// Sensitivity bundles both descending-sorted sensitivity rankings.
type Sensitivity struct {
	WithMultiplier    []SensitivityEntry
	WithoutMultiplier []SensitivityEntry
}

// StackupResult is the full output of analyze_stackup (spec.md 6).
type StackupResult struct {
	Nominal float64

	// PredictedTolerance is method-defined per spec.md 9: Worst-Case's
	// band, RSS's 3σ band, or Monte Carlo's percentile band.
	PredictedTolerance ToleranceBand

	ThreeSigmaTolerance      *ToleranceBand // RSS and Monte Carlo only
	UserConfidenceTolerance  *ToleranceBand // Monte Carlo only

	// Capability metrics are nil when the stackup carries no spec limits
	// (spec.md 4.4.4): "must not appear as meaningful numbers."
	Cp             *float64
	Cpu            *float64
	Cpl            *float64
	Cpk            *float64
	SigmaLevel     *float64
	YieldPercentage *float64
	PPM            *float64

	Quartiles *Quartiles // Monte Carlo only

	FeatureContributions []ContributionResult
	Sensitivity           Sensitivity

	Samples []float64 // populated only when Config.EmitSamples is true
}
