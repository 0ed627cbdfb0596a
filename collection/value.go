/*
value.go - Collection value aggregation

PURPOSE:
  Sums manual and externally-sourced prices across a ledger. Manual and
  market values stay separate throughout; they may be denominated in
  different currencies and no conversion is performed here.
*/
package collection

import (
	"github.com/shopspring/decimal"

	"github.com/ashir876/Catch-Collect-sub001/catalog"
)

// =============================================================================
// VALUE SUMMARY
// =============================================================================

// ValueSummary aggregates prices over one ledger. Totals only include entries
// with a non-nil value for that field.
type ValueSummary struct {
	ManualTotal     decimal.Decimal
	MarketTotal     decimal.Decimal
	CardsWithManual int
	CardsWithMarket int
	CardsWithBoth   int
	ManualAverage   decimal.Decimal // per card with a manual price
	MarketAverage   decimal.Decimal // per card with a market price
}

// SummarizeOwnership aggregates a user's collection.
func SummarizeOwnership(entries []catalog.OwnershipEntry) ValueSummary {
	pairs := make([]pricePair, len(entries))
	for i, e := range entries {
		pairs[i] = pricePair{manual: e.Price, market: e.MarketPrice}
	}
	return summarize(pairs)
}

// SummarizeWishlist aggregates a user's wishlist, treating the desired price
// as the manual field.
func SummarizeWishlist(entries []catalog.WishlistEntry) ValueSummary {
	pairs := make([]pricePair, len(entries))
	for i, e := range entries {
		pairs[i] = pricePair{manual: e.DesiredPrice, market: e.MarketPrice}
	}
	return summarize(pairs)
}

type pricePair struct {
	manual *decimal.Decimal
	market *decimal.Decimal
}

func summarize(pairs []pricePair) ValueSummary {
	s := ValueSummary{}
	for _, p := range pairs {
		if p.manual != nil {
			s.ManualTotal = s.ManualTotal.Add(*p.manual)
			s.CardsWithManual++
		}
		if p.market != nil {
			s.MarketTotal = s.MarketTotal.Add(*p.market)
			s.CardsWithMarket++
		}
		if p.manual != nil && p.market != nil {
			s.CardsWithBoth++
		}
	}
	if s.CardsWithManual > 0 {
		s.ManualAverage = s.ManualTotal.Div(decimal.NewFromInt(int64(s.CardsWithManual)))
	}
	if s.CardsWithMarket > 0 {
		s.MarketAverage = s.MarketTotal.Div(decimal.NewFromInt(int64(s.CardsWithMarket)))
	}
	return s
}
