package stackup

import (
	"tessera/internal/model"
	"tessera/internal/store"
	"tessera/internal/tesseraerr"
)

// MateResult is the output of AnalyzeMate (spec.md 4.4.6, 6).
type MateResult struct {
	ShaftMMC, ShaftLMC float64
	HoleMMC, HoleLMC   float64
	MinClearance       float64
	MaxClearance       float64
	Classification     model.MateType
}

// AnalyzeMate implements spec.md 4.4.6's shaft/hole MMC/LMC analysis.
// Mismatched feature categories fail with InvalidMate.
func AnalyzeMate(snap store.Snapshot, m model.Mate) (MateResult, error) {
	shaft, err := store.RequireFeature(snap, m.ShaftFeatureID)
	if err != nil {
		return MateResult{}, err
	}
	hole, err := store.RequireFeature(snap, m.HoleFeatureID)
	if err != nil {
		return MateResult{}, err
	}

	if shaft.FeatureCategory != model.External {
		return MateResult{}, &tesseraerr.InvalidMateError{
			ShaftFeatureID: string(m.ShaftFeatureID),
			HoleFeatureID:  string(m.HoleFeatureID),
			Reason:         "shaft feature must be External",
		}
	}
	if hole.FeatureCategory != model.Internal {
		return MateResult{}, &tesseraerr.InvalidMateError{
			ShaftFeatureID: string(m.ShaftFeatureID),
			HoleFeatureID:  string(m.HoleFeatureID),
			Reason:         "hole feature must be Internal",
		}
	}

	shaftMMC := shaft.Nominal + shaft.Plus
	shaftLMC := shaft.Nominal - shaft.Minus
	holeMMC := hole.Nominal - hole.Minus
	holeLMC := hole.Nominal + hole.Plus

	minClearance := holeMMC - shaftMMC
	maxClearance := holeLMC - shaftLMC

	var classification model.MateType
	switch {
	case minClearance < 0 && maxClearance < 0:
		classification = model.Interference
	case minClearance > 0 && maxClearance > 0:
		classification = model.Clearance
	default:
		classification = model.Transition
	}

	return MateResult{
		ShaftMMC:       shaftMMC,
		ShaftLMC:       shaftLMC,
		HoleMMC:        holeMMC,
		HoleLMC:        holeLMC,
		MinClearance:   minClearance,
		MaxClearance:   maxClearance,
		Classification: classification,
	}, nil
}
