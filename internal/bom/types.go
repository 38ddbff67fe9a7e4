// Package bom implements the BOM & Cost Interpolator (spec.md component
// C6): depth-first, cycle-safe assembly traversal with multiplier
// accumulation, quote linear interpolation with clamped extrapolation, and
// ordinary-least-squares R² over a quote's price curve.
package bom

import "tessera/internal/model"

// InterpolationKind tags how a line item's unit cost was resolved
// (spec.md 4.5.1, supplemented per SPEC_FULL.md §D).
type InterpolationKind int

const (
	// Exact means the requested volume matched one of the quote's
	// quantity points exactly.
	Exact InterpolationKind = iota
	// Interpolated means the unit cost was computed by bracketing
	// interpolation or clamped extrapolation.
	Interpolated
	// NoQuote means the component carries no quote at all; unit cost
	// resolves to 0.0 and this is not itself an error (spec.md 4.5, 7).
	NoQuote
)

func (k InterpolationKind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Interpolated:
		return "interpolated"
	case NoQuote:
		return "no quote"
	default:
		return "unknown"
	}
}

// LineItem is one folded BOM row.
type LineItem struct {
	ComponentID ID

	TotalQuantity uint32
	UnitCost      float64
	LineTotal     float64

	Kind InterpolationKind
	// RSquared is populated only when the resolving quote carried at
	// least 3 price points (spec.md 4.5.1).
	RSquared *float64
}

// ID is a local alias so signatures read naturally.
type ID = model.ID

// BomResult is the output of generate_bom (spec.md 4.5, 6).
type BomResult struct {
	AssemblyID ID
	Volume     uint32

	LineItems []LineItem
	TotalCost float64

	// HasInterpolatedCosts is true if any line item resolved via
	// interpolation or clamped extrapolation (spec.md 7: documented
	// partial-result behavior, not an error).
	HasInterpolatedCosts bool
}
