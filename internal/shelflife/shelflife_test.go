package shelflife_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajedamilola/pharmalink/internal/shelflife"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func days(n int) time.Time { return now.Add(time.Duration(n) * 24 * time.Hour) }

func TestRemainingPercent(t *testing.T) {
	tests := []struct {
		name   string
		months int
		expiry time.Time
		want   int
	}{
		{"24 months, 20 days out", 24, days(20), 3},   // 20/720
		{"36 months, 50 days out", 36, days(50), 5},   // 50/1080
		{"12 months, 180 days out", 12, days(180), 50},
		{"expired clamps to zero", 24, days(-10), 0},
		{"expiry beyond total life caps at 100", 6, days(400), 100},
		{"zero months falls back to 24", 0, days(72), 10},
		{"negative months falls back to 24", -3, days(72), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shelflife.RemainingPercent(tt.months, tt.expiry, now))
		})
	}
}

func TestRemainingPercentMonotonic(t *testing.T) {
	// As now advances toward the expiry date the percentage never increases.
	expiry := days(300)
	prev := 101
	for d := 0; d <= 320; d += 10 {
		at := now.Add(time.Duration(d) * 24 * time.Hour)
		pct := shelflife.RemainingPercent(24, expiry, at)
		require.LessOrEqual(t, pct, prev, "pct rose while approaching expiry at day %d", d)
		require.GreaterOrEqual(t, pct, 0)
		require.LessOrEqual(t, pct, 100)
		prev = pct
	}
	assert.Equal(t, 0, shelflife.RemainingPercent(24, expiry, expiry.Add(time.Hour)))
}

func TestDaysLeft(t *testing.T) {
	assert.Equal(t, 20, shelflife.DaysLeft(days(20), now))
	assert.Equal(t, 0, shelflife.DaysLeft(now, now))
	assert.Equal(t, -5, shelflife.DaysLeft(days(-5), now))
}

func TestUrgencyFor(t *testing.T) {
	tests := []struct {
		daysLeft int
		want     shelflife.Urgency
	}{
		{-1, shelflife.UrgencyNone},
		{0, shelflife.UrgencyNone},
		{1, shelflife.UrgencyCritical},
		{30, shelflife.UrgencyCritical},
		{31, shelflife.UrgencyWarning},
		{60, shelflife.UrgencyWarning},
		{61, shelflife.UrgencyCaution},
		{90, shelflife.UrgencyCaution},
		{91, shelflife.UrgencyNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shelflife.UrgencyFor(tt.daysLeft), "daysLeft=%d", tt.daysLeft)
	}
}

func TestBuybackEligible(t *testing.T) {
	for pct := 0; pct <= 100; pct++ {
		assert.Equal(t, pct <= 30, shelflife.BuybackEligible(pct), "pct=%d", pct)
	}
}

func TestBuybackUnitPrice(t *testing.T) {
	price := decimal.NewFromInt(1000)

	tests := []struct {
		pct  int
		want string
	}{
		{0, "300"},
		{10, "300"},
		{11, "350"},
		{20, "350"},
		{21, "400"},
		{30, "400"},
	}
	for _, tt := range tests {
		got := shelflife.BuybackUnitPrice(price, tt.pct)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "pct=%d got %s", tt.pct, got)
	}
}

func TestBuybackUnitPriceStrictDiscount(t *testing.T) {
	price := decimal.RequireFromString("149.99")
	for pct := 0; pct <= 30; pct++ {
		got := shelflife.BuybackUnitPrice(price, pct)
		require.True(t, got.LessThan(price), "pct=%d: %s not below %s", pct, got, price)
		require.True(t, got.GreaterThan(decimal.Zero))
	}
}

func TestBuybackUnitPriceRounding(t *testing.T) {
	// 33.33 * 0.35 = 11.6655 -> 11.67
	got := shelflife.BuybackUnitPrice(decimal.RequireFromString("33.33"), 15)
	assert.True(t, got.Equal(decimal.RequireFromString("11.67")), "got %s", got)
}

func TestDiscountPercent(t *testing.T) {
	original := decimal.NewFromInt(1000)
	assert.Equal(t, 70, shelflife.DiscountPercent(original, decimal.NewFromInt(300)))
	assert.Equal(t, 65, shelflife.DiscountPercent(original, decimal.NewFromInt(350)))
	assert.Equal(t, 60, shelflife.DiscountPercent(original, decimal.NewFromInt(400)))
	assert.Equal(t, 0, shelflife.DiscountPercent(decimal.Zero, decimal.NewFromInt(10)))
}

func TestStockStatusFor(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		threshold int
		want      shelflife.StockStatus
	}{
		{"zero stock beats any threshold", 0, 0, shelflife.OutOfStock},
		{"zero stock with large threshold", 0, 500, shelflife.OutOfStock},
		{"at threshold is low", 15, 15, shelflife.LowStock},
		{"below threshold is low", 3, 10, shelflife.LowStock},
		{"above threshold is in stock", 11, 10, shelflife.InStock},
		{"unset threshold defaults to 10", 10, 0, shelflife.LowStock},
		{"unset threshold, above default", 11, 0, shelflife.InStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shelflife.StockStatusFor(tt.stock, tt.threshold))
		})
	}
}

func TestRestockDue(t *testing.T) {
	assert.True(t, shelflife.RestockDue(5, 10, true, false))
	assert.True(t, shelflife.RestockDue(10, 10, true, false), "threshold boundary inclusive")
	assert.False(t, shelflife.RestockDue(11, 10, true, false))
	assert.False(t, shelflife.RestockDue(5, 10, false, false), "flag off")
	assert.False(t, shelflife.RestockDue(0, 10, true, true), "manual lots never restock")
	assert.True(t, shelflife.RestockDue(10, 0, true, false), "unset threshold defaults to 10")
}

// Percentage-based pricing and days-based urgency are independent axes: a lot
// can sit in the warning window yet price at the deepest discount tier.
func TestPricingAndUrgencyAreIndependent(t *testing.T) {
	expiry := days(50)

	pct := shelflife.RemainingPercent(36, expiry, now) // 50/1080 ≈ 5
	require.Equal(t, 5, pct)
	assert.Equal(t, shelflife.UrgencyWarning, shelflife.UrgencyFor(shelflife.DaysLeft(expiry, now)))
	assert.True(t, shelflife.BuybackEligible(pct))
	got := shelflife.BuybackUnitPrice(decimal.NewFromInt(200), pct)
	assert.True(t, got.Equal(decimal.NewFromInt(60)), "deepest tier applies, got %s", got)
}
