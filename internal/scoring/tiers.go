package scoring

// tier awards points when a value strictly exceeds its threshold. Tables
// are ordered highest threshold first and walked first-match, so only the
// single highest matching tier applies.
type tier struct {
	above  float64
	points float64
}

// tierPoints returns the points of the first tier the value exceeds.
func tierPoints(tiers []tier, value float64) float64 {
	for _, t := range tiers {
		if value > t.above {
			return t.points
		}
	}
	return 0
}

// Momentum: price change from initial price, percent.
var priceChangeTiers = []tier{
	{500, 40},
	{200, 35},
	{100, 30},
	{50, 20},
	{0, 10},
}

// Momentum: 24h volume, USD.
var volumeTiers = []tier{
	{5_000_000, 30},
	{1_000_000, 25},
	{500_000, 20},
	{100_000, 10},
}

// Momentum: buy share of 24h trade count, 0-1.
var buyRatioTiers = []tier{
	{0.7, 30},
	{0.6, 20},
	{0.5, 10},
}

// Community: twitter followers.
var twitterTiers = []tier{
	{100_000, 40},
	{50_000, 30},
	{10_000, 20},
	{1_000, 10},
}

// Community: telegram members.
var telegramTiers = []tier{
	{50_000, 30},
	{10_000, 20},
	{1_000, 10},
}

// Community: holder count.
var holderTiers = []tier{
	{10_000, 30},
	{5_000, 20},
	{1_000, 10},
}

// Liquidity: aggregate pool liquidity, USD.
var liquidityTiers = []tier{
	{1_000_000, 60},
	{500_000, 50},
	{100_000, 40},
	{50_000, 20},
}

// Virality: hourly holder growth rate, percent per hour.
var holderGrowthTiers = []tier{
	{10, 30},
	{5, 20},
	{1, 10},
}

// Virality: volume growth across the snapshot window, percent.
var volumeGrowthTiers = []tier{
	{100, 20},
	{50, 10},
}

// freshnessStep maps days since launch to a score band. Ordered youngest
// first; the first band the age falls under applies.
type freshnessStep struct {
	underDays float64
	points    float64
}

var freshnessSteps = []freshnessStep{
	{1, 100},
	{3, 80},
	{7, 60},
	{14, 40},
	{30, 20},
}

// freshnessPoints returns the step value for an age in days.
func freshnessPoints(daysOld float64) float64 {
	for _, s := range freshnessSteps {
		if daysOld < s.underDays {
			return s.points
		}
	}
	return 0
}

// clampScore bounds a sub-score to [0,100].
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
