package stackup

import (
	"tessera/internal/logging"
	"tessera/internal/model"
	"tessera/internal/store"
)

// Analyze implements analyze_stackup (spec.md 4.4, 6): resolve the chain,
// compute the nominal, dispatch to the configured method, and attach
// capability and sensitivity metrics uniformly. logger may be nil.
func Analyze(snap store.Snapshot, s model.Stackup, cfg Config, logger *logging.Logger) (*StackupResult, error) {
	logger = logger.WithField("stackup_id", s.ID).WithField("method", cfg.Method)
	logger.Info("analyzing stackup")

	links, err := resolveChain(snap, s)
	if err != nil {
		return nil, err
	}

	mu := nominalSum(links)
	result := &StackupResult{
		Nominal:               mu,
		FeatureContributions:  contributionResults(links),
		Sensitivity:           computeSensitivity(links),
	}

	var sigma float64
	var mcSamples []float64

	switch cfg.Method {
	case WorstCase:
		result.PredictedTolerance = worstCaseBand(links, mu)
		sigma = rssSigmaCombined(links)
		logger.Debug("worst-case band computed")

	case RSS:
		band, combinedSigma := rssBand(links, mu)
		result.PredictedTolerance = band
		result.ThreeSigmaTolerance = &band
		sigma = combinedSigma
		logger.Debug("RSS band computed")

	case MonteCarlo:
		outcome, err := runMonteCarlo(links, cfg, logger)
		if err != nil {
			return nil, err
		}
		result.PredictedTolerance = outcome.band3
		result.ThreeSigmaTolerance = &outcome.band3
		result.UserConfidenceTolerance = &outcome.bandCI
		q := outcome.quart
		result.Quartiles = &q
		sigma = outcome.stdDev
		mcSamples = outcome.samples
		if cfg.EmitSamples {
			result.Samples = outcome.samples
		}
	}

	if _, ok := s.TargetDimension(); ok {
		capability := computeCapability(mu, sigma, *s.USL, *s.LSL, mcSamples)
		result.Cp = &capability.cp
		result.Cpu = &capability.cpu
		result.Cpl = &capability.cpl
		result.Cpk = &capability.cpk
		result.SigmaLevel = &capability.sigmaLevel
		result.YieldPercentage = &capability.yieldPct
		result.PPM = &capability.ppm
	}

	return result, nil
}

func contributionResults(links []resolvedLink) []ContributionResult {
	out := make([]ContributionResult, len(links))
	for i, l := range links {
		out[i] = ContributionResult{
			FeatureID: l.feature.ID,
			Sign:      l.sign,
			Sigma:     sensitivitySigma(l.feature),
		}
	}
	return out
}

// rssSigmaCombined gives the Worst-Case path a σ figure to feed process
// capability, since Cp/Cpk are only meaningful against a σ — Worst-Case
// has no native σ of its own, so this borrows RSS's combined σ (spec.md
// 4.4.4 does not specify a Worst-Case-native σ; this is an implementer
// choice recorded in DESIGN.md).
func rssSigmaCombined(links []resolvedLink) float64 {
	_, sigma := rssBand(links, 0)
	return sigma
}
