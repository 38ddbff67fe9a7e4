package stackup

import (
	"tessera/internal/model"
	"tessera/internal/store"
	"tessera/internal/tesseraerr"
)

// resolvedLink pairs a chain contribution with its resolved feature.
type resolvedLink struct {
	contribution model.FeatureContribution
	feature      model.Feature
	sign         float64
}

// resolveChain fetches every feature referenced by the stackup's chain,
// failing fast on a missing feature (spec.md 4.4).
func resolveChain(snap store.Snapshot, s model.Stackup) ([]resolvedLink, error) {
	if len(s.Chain) == 0 {
		return nil, &tesseraerr.EmptyStackupError{StackupID: string(s.ID)}
	}

	links := make([]resolvedLink, 0, len(s.Chain))
	for _, c := range s.Chain {
		f, err := store.RequireFeature(snap, c.FeatureID)
		if err != nil {
			return nil, err
		}
		links = append(links, resolvedLink{contribution: c, feature: f, sign: c.Sign()})
	}
	return links, nil
}

// nominalSum computes μ = Σ sᵢ·nominalᵢ (spec.md 4.4).
func nominalSum(links []resolvedLink) float64 {
	total := 0.0
	for _, l := range links {
		total += l.sign * l.feature.Nominal
	}
	return total
}

// worstCaseBand implements spec.md 4.4.1: for each contribution, swap plus
// and minus when the sign is negative, then sum the signed extremes.
func worstCaseBand(links []resolvedLink, mu float64) ToleranceBand {
	upperSum, lowerSum := 0.0, 0.0
	for _, l := range links {
		if l.sign >= 0 {
			upperSum += l.feature.Plus
			lowerSum += l.feature.Minus
		} else {
			upperSum += l.feature.Minus
			lowerSum += l.feature.Plus
		}
	}
	return ToleranceBand{Upper: mu + upperSum, Lower: mu - lowerSum}
}
