// Package scoring computes the composite meme score and the risk profile
// for a token. All compute functions are pure: same inputs, same outputs.
package scoring

import (
	"math"

	"memescout/internal/domain"
)

// MaxSnapshotWindow caps how many recent snapshots feed the virality score.
const MaxSnapshotWindow = 24

// Weights defines the contribution of each sub-score to the composite.
type Weights struct {
	Momentum  float64
	Community float64
	Liquidity float64
	Virality  float64
	Safety    float64
	Freshness float64
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{
		Momentum:  0.25,
		Community: 0.25,
		Liquidity: 0.20,
		Virality:  0.15,
		Safety:    0.10,
		Freshness: 0.05,
	}
}

// ScoreInput bundles everything the composite score depends on.
// Snapshots are newest first and capped to MaxSnapshotWindow by the caller.
type ScoreInput struct {
	Token     *domain.Token
	Snapshots []*domain.Snapshot
	Pools     []*domain.LiquidityPool
	Risk      *domain.RiskAnalysis // nil when not computed yet
	Now       int64                // Unix ms
}

// Breakdown carries the composite score and its six sub-scores, each
// bounded to [0,100].
type Breakdown struct {
	Momentum  float64 `json:"momentum"`
	Community float64 `json:"community"`
	Liquidity float64 `json:"liquidity"`
	Virality  float64 `json:"virality"`
	Safety    float64 `json:"safety"`
	Freshness float64 `json:"freshness"`
	Total     float64 `json:"total"` // weighted sum, rounded to 2 decimals
}

// Engine computes meme scores under a fixed weighting.
type Engine struct {
	weights Weights
}

// NewEngine creates a scoring engine.
func NewEngine(w Weights) *Engine {
	return &Engine{weights: w}
}

// ComputeMemeScore computes the weighted composite score for a token.
// Missing optional inputs contribute zero (or their documented baseline)
// rather than failing.
func (e *Engine) ComputeMemeScore(in ScoreInput) Breakdown {
	b := Breakdown{
		Momentum:  momentumScore(in.Token),
		Community: communityScore(in.Token),
		Liquidity: liquidityScore(in.Token, in.Pools),
		Virality:  viralityScore(in.Snapshots),
		Safety:    safetyScore(in.Risk),
		Freshness: freshnessScore(in.Token, in.Now),
	}

	total := b.Momentum*e.weights.Momentum +
		b.Community*e.weights.Community +
		b.Liquidity*e.weights.Liquidity +
		b.Virality*e.weights.Virality +
		b.Safety*e.weights.Safety +
		b.Freshness*e.weights.Freshness

	b.Total = math.Round(total*100) / 100
	return b
}

// momentumScore rewards price appreciation, volume and buy pressure.
func momentumScore(t *domain.Token) float64 {
	var score float64

	if t.InitialPrice > 0 && t.PriceUsd > 0 {
		priceChange := (t.PriceUsd - t.InitialPrice) / t.InitialPrice * 100
		score += tierPoints(priceChangeTiers, priceChange)
	}

	score += tierPoints(volumeTiers, t.Volume24h)

	if t.BuyCount24h > 0 && t.SellCount24h > 0 {
		ratio := float64(t.BuyCount24h) / float64(t.BuyCount24h+t.SellCount24h)
		score += tierPoints(buyRatioTiers, ratio)
	}

	return clampScore(score)
}

// communityScore rewards social reach and holder base.
func communityScore(t *domain.Token) float64 {
	score := tierPoints(twitterTiers, float64(t.TwitterFollowers)) +
		tierPoints(telegramTiers, float64(t.TelegramMembers)) +
		tierPoints(holderTiers, float64(t.Holders))
	return clampScore(score)
}

// liquidityScore rewards pool depth and locked liquidity.
func liquidityScore(t *domain.Token, pools []*domain.LiquidityPool) float64 {
	score := tierPoints(liquidityTiers, domain.TotalLiquidityUsd(pools))
	if t.LiquidityLocked {
		score += 40
	}
	return clampScore(score)
}

// viralityScore measures holder and volume growth across the recent
// snapshot window. Baseline 50 when fewer than two snapshots exist.
// Snapshots are newest first.
func viralityScore(snapshots []*domain.Snapshot) float64 {
	if len(snapshots) < 2 {
		return 50
	}

	latest := snapshots[0]
	oldest := snapshots[len(snapshots)-1]
	elapsedHours := float64(latest.TimestampMs-oldest.TimestampMs) / (1000 * 60 * 60)

	score := 50.0

	if oldest.Holders > 0 && latest.Holders > 0 && elapsedHours > 0 {
		holderGrowth := float64(latest.Holders-oldest.Holders) / float64(oldest.Holders) * 100
		score += tierPoints(holderGrowthTiers, holderGrowth/elapsedHours)
	}

	if oldest.Volume24h > 0 && latest.Volume24h > 0 {
		volGrowth := (latest.Volume24h - oldest.Volume24h) / oldest.Volume24h * 100
		score += tierPoints(volumeGrowthTiers, volGrowth)
	}

	return clampScore(score)
}

// safetyScore inverts the overall risk score. Baseline 50 when no risk
// analysis exists yet.
func safetyScore(risk *domain.RiskAnalysis) float64 {
	if risk == nil {
		return 50
	}
	return clampScore(100 - risk.OverallRiskScore)
}

// freshnessScore is a step function of days since launch.
func freshnessScore(t *domain.Token, now int64) float64 {
	if t.LaunchDate <= 0 {
		return 0
	}
	return freshnessPoints(t.DaysSinceLaunch(now))
}
