// Package shelflife holds the pure classification rules shared by the expiry
// tracker, inventory views, buy-back pricing and the restock sweep. Everything
// here is a stateless computation over plain inputs plus a caller-supplied
// "now", so results are safe to recompute or memoize anywhere.
package shelflife

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultShelfLifeMonths is assumed for drugs stored without a shelf life.
	DefaultShelfLifeMonths = 24

	// DefaultReorderThreshold applies when a lot has no threshold configured.
	DefaultReorderThreshold = 10

	// EligibilityMaxPct is the remaining-shelf ceiling for buy-back submission.
	EligibilityMaxPct = 30

	hoursPerDay  = 24
	daysPerMonth = 30 // fixed approximation, kept for compatibility with stored percentages
)

// Urgency buckets lots for expiry-tracker display, by days remaining.
type Urgency string

const (
	UrgencyCritical Urgency = "critical" // 1-30 days left
	UrgencyWarning  Urgency = "warning"  // 31-60 days left
	UrgencyCaution  Urgency = "caution"  // 61-90 days left
	UrgencyNone     Urgency = "none"     // expired or more than 90 days out
)

// StockStatus classifies a lot's stock level for list display.
type StockStatus string

const (
	OutOfStock StockStatus = "out_of_stock"
	LowStock   StockStatus = "low_stock"
	InStock    StockStatus = "in_stock"
)

// Buy-back price multipliers by remaining-shelf band, evaluated low to high.
var (
	tier1Multiplier = decimal.NewFromFloat(0.30) // pct <= 10
	tier2Multiplier = decimal.NewFromFloat(0.35) // pct 11-20
	tier3Multiplier = decimal.NewFromFloat(0.40) // pct 21-30
)

// DaysLeft returns the rounded number of days between now and expiry.
// Negative once the expiry date has passed.
func DaysLeft(expiry, now time.Time) int {
	return int(math.Round(expiry.Sub(now).Hours() / hoursPerDay))
}

// RemainingPercent computes the share of total shelf life still ahead of a
// lot, as an integer in [0, 100]. Total life uses a flat 30 days per month;
// a missing or zero shelf life falls back to 24 months so the division is
// always defined.
func RemainingPercent(shelfLifeMonths int, expiry, now time.Time) int {
	if shelfLifeMonths <= 0 {
		shelfLifeMonths = DefaultShelfLifeMonths
	}
	totalDays := float64(shelfLifeMonths * daysPerMonth)
	remainingDays := expiry.Sub(now).Hours() / hoursPerDay

	pct := int(math.Round(math.Max(0, remainingDays/totalDays) * 100))
	if pct > 100 {
		pct = 100
	}
	return pct
}

// UrgencyFor buckets a lot by days remaining. Lots already expired or more
// than 90 days out are outside the tracker window and classify as none.
func UrgencyFor(daysLeft int) Urgency {
	switch {
	case daysLeft <= 0:
		return UrgencyNone
	case daysLeft <= 30:
		return UrgencyCritical
	case daysLeft <= 60:
		return UrgencyWarning
	case daysLeft <= 90:
		return UrgencyCaution
	default:
		return UrgencyNone
	}
}

// BuybackEligible reports whether a lot with the given remaining-shelf
// percentage may be submitted for buy-back.
func BuybackEligible(remainingPct int) bool {
	return remainingPct <= EligibilityMaxPct
}

// BuybackUnitPrice derives the discounted unit price for a buy-back request.
// The multiplier comes from the remaining-shelf band; the result is rounded
// to 2 decimal places and is always strictly below the original price.
func BuybackUnitPrice(originalPrice decimal.Decimal, remainingPct int) decimal.Decimal {
	return originalPrice.Mul(buybackMultiplier(remainingPct)).Round(2)
}

func buybackMultiplier(remainingPct int) decimal.Decimal {
	switch {
	case remainingPct <= 10:
		return tier1Multiplier
	case remainingPct <= 20:
		return tier2Multiplier
	default:
		return tier3Multiplier
	}
}

// DiscountPercent reports how deep a buy-back price cuts into the original,
// as a rounded whole percentage.
func DiscountPercent(originalPrice, buybackPrice decimal.Decimal) int {
	if originalPrice.IsZero() {
		return 0
	}
	ratio := decimal.NewFromInt(1).Sub(buybackPrice.Div(originalPrice))
	return int(ratio.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// StockStatusFor classifies a stock level against its reorder threshold.
// A zero level always reads out of stock; the threshold boundary itself is
// low stock.
func StockStatusFor(stockLevel, reorderThreshold int) StockStatus {
	if reorderThreshold <= 0 {
		reorderThreshold = DefaultReorderThreshold
	}
	switch {
	case stockLevel == 0:
		return OutOfStock
	case stockLevel <= reorderThreshold:
		return LowStock
	default:
		return InStock
	}
}

// RestockDue reports whether a lot qualifies for an automatic purchase order.
// Manual lots never qualify regardless of flags.
func RestockDue(stockLevel, reorderThreshold int, autoRestock, isManual bool) bool {
	if isManual || !autoRestock {
		return false
	}
	if reorderThreshold <= 0 {
		reorderThreshold = DefaultReorderThreshold
	}
	return stockLevel <= reorderThreshold
}
