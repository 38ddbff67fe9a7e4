package stackup

import "sort"

// computeSensitivity implements spec.md 4.4.5: each contribution's
// variance share (sᵢ·σᵢ)² is reported both with the geometric multiplier
// sᵢ applied (stackup impact ranking) and without it — i.e. ranked purely
// by the feature's own tolerance spread, ignoring direction/half-count/
// contribution-type sign and magnitude.
func computeSensitivity(links []resolvedLink) Sensitivity {
	type share struct {
		id       ID
		withMult float64
		withoutM float64
	}

	shares := make([]share, 0, len(links))
	totalWith := 0.0
	totalWithout := 0.0

	for _, l := range links {
		sigma := sensitivitySigma(l.feature)
		withMult := l.sign * sigma
		withMult = withMult * withMult
		withoutMult := sigma * sigma

		shares = append(shares, share{id: l.feature.ID, withMult: withMult, withoutM: withoutMult})
		totalWith += withMult
		totalWithout += withoutMult
	}

	withEntries := make([]SensitivityEntry, len(shares))
	withoutEntries := make([]SensitivityEntry, len(shares))
	for i, s := range shares {
		pctWith := 0.0
		if totalWith > 0 {
			pctWith = 100 * s.withMult / totalWith
		}
		pctWithout := 0.0
		if totalWithout > 0 {
			pctWithout = 100 * s.withoutM / totalWithout
		}
		withEntries[i] = SensitivityEntry{FeatureID: s.id, SharePctWithSign: pctWith}
		withoutEntries[i] = SensitivityEntry{FeatureID: s.id, SharePctMagnitudeOnly: pctWithout}
	}

	sort.Slice(withEntries, func(i, j int) bool { return withEntries[i].SharePctWithSign > withEntries[j].SharePctWithSign })
	sort.Slice(withoutEntries, func(i, j int) bool {
		return withoutEntries[i].SharePctMagnitudeOnly > withoutEntries[j].SharePctMagnitudeOnly
	})

	return Sensitivity{WithMultiplier: withEntries, WithoutMultiplier: withoutEntries}
}
