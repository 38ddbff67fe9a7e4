package bom

import "tessera/internal/model"

// resolveUnitCost implements spec.md 4.5.1: exact match on a quote
// quantity, clamped extrapolation below the first or above the last
// point, or bracketing linear interpolation in between. A component with
// no quotes at all resolves to 0.0, flagged NoQuote.
func resolveUnitCost(quotes []model.Quote, volume uint32) (float64, InterpolationKind, *float64) {
	quote := latestQuote(quotes)
	if quote == nil || len(quote.Prices) == 0 {
		return 0.0, NoQuote, nil
	}

	prices := quote.Prices
	var rSquared *float64
	if len(prices) >= 3 {
		r2 := ordinaryLeastSquaresR2(prices)
		rSquared = &r2
	}

	for _, p := range prices {
		if p.Quantity == volume {
			return p.UnitPrice, Exact, rSquared
		}
	}

	if volume < prices[0].Quantity {
		return prices[0].UnitPrice, Interpolated, rSquared
	}
	last := prices[len(prices)-1]
	if volume > last.Quantity {
		return last.UnitPrice, Interpolated, rSquared
	}

	for i := 0; i < len(prices)-1; i++ {
		lo, hi := prices[i], prices[i+1]
		if volume >= lo.Quantity && volume <= hi.Quantity {
			frac := float64(volume-lo.Quantity) / float64(hi.Quantity-lo.Quantity)
			unit := lo.UnitPrice + (hi.UnitPrice-lo.UnitPrice)*frac
			return unit, Interpolated, rSquared
		}
	}

	// Unreachable given sorted, strictly increasing quantities and the
	// bounds checks above.
	return last.UnitPrice, Interpolated, rSquared
}

// latestQuote picks the most recently dated quote for a component; ties
// broken by quote number (the higher number wins).
func latestQuote(quotes []model.Quote) *model.Quote {
	var best *model.Quote
	for i := range quotes {
		q := &quotes[i]
		if best == nil || q.QuoteDate.After(best.QuoteDate) ||
			(q.QuoteDate.Equal(best.QuoteDate) && q.QuoteNumber > best.QuoteNumber) {
			best = q
		}
	}
	return best
}

// ordinaryLeastSquaresR2 fits a straight line through the quote's price
// points and reports the coefficient of determination (spec.md 4.5.1).
func ordinaryLeastSquaresR2(prices []model.QuantityPrice) float64 {
	n := float64(len(prices))
	var sumX, sumY, sumXY, sumXX, sumYY float64
	for _, p := range prices {
		x := float64(p.Quantity)
		y := p.UnitPrice
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
		sumYY += y * y
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for _, p := range prices {
		x := float64(p.Quantity)
		y := p.UnitPrice
		predicted := intercept + slope*x
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - meanY) * (y - meanY)
	}
	if ssTot == 0 {
		return 1
	}
	return 1 - ssRes/ssTot
}
