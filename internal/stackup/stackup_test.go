package stackup

import (
	"math"
	"testing"

	"tessera/internal/model"
	"tessera/internal/store"
)

func newFeature(nominal, plus, minus float64, kind model.DistributionKind) model.Feature {
	return model.Feature{
		ID:           model.NewID(),
		Nominal:      nominal,
		Plus:         plus,
		Minus:        minus,
		Distribution: model.Distribution{Kind: kind},
	}
}

func buildStackup(snap *store.InMemoryStore, features ...model.Feature) model.Stackup {
	chain := make([]model.FeatureContribution, len(features))
	for i, f := range features {
		snap.PutFeature(f)
		chain[i] = model.FeatureContribution{FeatureID: f.ID, Direction: 1, ContributionType: model.Additive}
	}
	return model.Stackup{ID: model.NewID(), Chain: chain}
}

// TestAnalyze_WorstCaseTwoFeature mirrors spec.md 8.2 scenario 3.
func TestAnalyze_WorstCaseTwoFeature(t *testing.T) {
	s := store.New()
	f1 := newFeature(100, 0.5, 0.5, model.Normal)
	f2 := newFeature(50, 0.3, 0.3, model.Normal)
	stk := buildStackup(s, f1, f2)
	snap := s.Snapshot()

	result, err := Analyze(snap, stk, Config{Method: WorstCase}, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if math.Abs(result.Nominal-150) > 1e-9 {
		t.Errorf("nominal = %v, want 150", result.Nominal)
	}
	if math.Abs(result.PredictedTolerance.Upper-150.8) > 1e-9 {
		t.Errorf("upper = %v, want 150.8", result.PredictedTolerance.Upper)
	}
	if math.Abs(result.PredictedTolerance.Lower-149.2) > 1e-9 {
		t.Errorf("lower = %v, want 149.2", result.PredictedTolerance.Lower)
	}
}

// TestAnalyze_RSSTwoFeature mirrors spec.md 8.2 scenario 4.
func TestAnalyze_RSSTwoFeature(t *testing.T) {
	s := store.New()
	f1 := newFeature(100, 0.5, 0.5, model.Normal)
	f2 := newFeature(50, 0.3, 0.3, model.Normal)
	stk := buildStackup(s, f1, f2)
	snap := s.Snapshot()

	result, err := Analyze(snap, stk, Config{Method: RSS}, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	wantSigma := math.Sqrt(math.Pow(0.5/3, 2) + math.Pow(0.3/3, 2))
	gotSigma := (result.PredictedTolerance.Upper - result.Nominal) / 3
	if math.Abs(gotSigma-wantSigma) > 1e-3 {
		t.Errorf("combined sigma = %v, want ~%v", gotSigma, wantSigma)
	}
	if math.Abs(result.PredictedTolerance.Upper-150.583) > 1e-2 {
		t.Errorf("upper = %v, want ~150.583", result.PredictedTolerance.Upper)
	}
	if math.Abs(result.PredictedTolerance.Lower-149.417) > 1e-2 {
		t.Errorf("lower = %v, want ~149.417", result.PredictedTolerance.Lower)
	}
}

// TestAnalyze_MonteCarloSymmetric mirrors spec.md 8.2 scenario 5.
func TestAnalyze_MonteCarloSymmetric(t *testing.T) {
	s := store.New()
	f := newFeature(10, 0.5, 0.5, model.Normal)
	stk := buildStackup(s, f)
	snap := s.Snapshot()

	seed := uint64(1)
	result, err := Analyze(snap, stk, Config{
		Method:          MonteCarlo,
		Samples:         10000,
		Seed:            &seed,
		ConfidenceLevel: 0.95,
	}, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if math.Abs(result.Nominal-10) > 0.01 {
		t.Errorf("mean-ish nominal = %v, want ~10", result.Nominal)
	}
	band := result.PredictedTolerance
	if sum := band.Upper + band.Lower; math.Abs(sum-20) > 0.05 {
		t.Errorf("upper+lower = %v, want ~20", sum)
	}
}

// TestAnalyze_MonteCarlo_TooFewSamples exercises the minimum-samples guard.
func TestAnalyze_MonteCarlo_TooFewSamples(t *testing.T) {
	s := store.New()
	f := newFeature(10, 0.5, 0.5, model.Normal)
	stk := buildStackup(s, f)
	snap := s.Snapshot()

	_, err := Analyze(snap, stk, Config{Method: MonteCarlo, Samples: 10}, nil)
	if err == nil {
		t.Fatal("expected TooFewSamplesError")
	}
}

// TestAnalyzeMate_Clearance mirrors spec.md 8.2 scenario 6.
func TestAnalyzeMate_Clearance(t *testing.T) {
	s := store.New()
	shaft := model.Feature{ID: model.NewID(), Nominal: 10.0, Plus: 0.0, Minus: 0.1, FeatureCategory: model.External}
	hole := model.Feature{ID: model.NewID(), Nominal: 10.2, Plus: 0.1, Minus: 0.0, FeatureCategory: model.Internal}
	s.PutFeature(shaft)
	s.PutFeature(hole)
	snap := s.Snapshot()

	mate := model.Mate{ID: model.NewID(), ShaftFeatureID: shaft.ID, HoleFeatureID: hole.ID}
	result, err := AnalyzeMate(snap, mate)
	if err != nil {
		t.Fatalf("AnalyzeMate: %v", err)
	}

	if math.Abs(result.ShaftMMC-10.0) > 1e-9 {
		t.Errorf("shaft_MMC = %v, want 10.0", result.ShaftMMC)
	}
	if math.Abs(result.HoleMMC-10.2) > 1e-9 {
		t.Errorf("hole_MMC = %v, want 10.2", result.HoleMMC)
	}
	if math.Abs(result.MinClearance-0.2) > 1e-9 {
		t.Errorf("min_clearance = %v, want 0.2", result.MinClearance)
	}
	if math.Abs(result.MaxClearance-0.4) > 1e-9 {
		t.Errorf("max_clearance = %v, want 0.4", result.MaxClearance)
	}
	if result.Classification != model.Clearance {
		t.Errorf("classification = %v, want Clearance", result.Classification)
	}
}

// TestAnalyzeMate_InvalidCategories exercises the two-External failure mode.
func TestAnalyzeMate_InvalidCategories(t *testing.T) {
	s := store.New()
	a := model.Feature{ID: model.NewID(), Nominal: 10, FeatureCategory: model.External}
	b := model.Feature{ID: model.NewID(), Nominal: 10, FeatureCategory: model.External}
	s.PutFeature(a)
	s.PutFeature(b)
	snap := s.Snapshot()

	_, err := AnalyzeMate(snap, model.Mate{ID: model.NewID(), ShaftFeatureID: a.ID, HoleFeatureID: b.ID})
	if err == nil {
		t.Fatal("expected InvalidMateError")
	}
}

// TestWorstCaseEnvelopesRSS covers the spec.md 8.1 WC ⊇ RSS invariant.
func TestWorstCaseEnvelopesRSS(t *testing.T) {
	s := store.New()
	f1 := newFeature(100, 0.5, 0.5, model.Normal)
	f2 := newFeature(50, 0.3, 0.3, model.Normal)
	stk := buildStackup(s, f1, f2)
	snap := s.Snapshot()

	wc, err := Analyze(snap, stk, Config{Method: WorstCase}, nil)
	if err != nil {
		t.Fatalf("Analyze WC: %v", err)
	}
	rss, err := Analyze(snap, stk, Config{Method: RSS}, nil)
	if err != nil {
		t.Fatalf("Analyze RSS: %v", err)
	}

	wcSpan := wc.PredictedTolerance.Upper - wc.PredictedTolerance.Lower
	rssSpan := rss.PredictedTolerance.Upper - rss.PredictedTolerance.Lower
	if wcSpan < rssSpan {
		t.Errorf("worst-case span %v should be >= RSS span %v", wcSpan, rssSpan)
	}
}
