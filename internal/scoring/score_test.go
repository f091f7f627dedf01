package scoring

import (
	"testing"
	"time"

	"memescout/internal/domain"
)

func msAgo(d time.Duration) int64 {
	return time.Now().Add(-d).UnixMilli()
}

func TestComputeMemeScore_TypicalToken(t *testing.T) {
	// Two days old, $2M volume, 5000 holders, locked liquidity with a
	// $600k pool, no risk analysis yet.
	now := time.Now().UnixMilli()
	tok := &domain.Token{
		ID:              "tok-1",
		Volume24h:       2_000_000,
		Holders:         5000,
		LiquidityLocked: true,
		LaunchDate:      now - 2*24*time.Hour.Milliseconds(),
	}
	pools := []*domain.LiquidityPool{{TokenID: "tok-1", LiquidityUsd: 600_000}}

	engine := NewEngine(DefaultWeights())
	b := engine.ComputeMemeScore(ScoreInput{Token: tok, Pools: pools, Now: now})

	if b.Momentum != 25 {
		t.Errorf("momentum: volume $2M alone should give 25, got %v", b.Momentum)
	}
	if b.Community != 10 {
		t.Errorf("community: 5000 holders should give 10, got %v", b.Community)
	}
	if b.Liquidity != 90 {
		t.Errorf("liquidity: $600k + locked should give 90, got %v", b.Liquidity)
	}
	if b.Virality != 50 {
		t.Errorf("virality baseline should be 50 with no snapshots, got %v", b.Virality)
	}
	if b.Safety != 50 {
		t.Errorf("safety baseline should be 50 with no risk record, got %v", b.Safety)
	}
	if b.Freshness != 80 {
		t.Errorf("freshness: 2 days old should give 80, got %v", b.Freshness)
	}

	// 25*.25 + 10*.25 + 90*.20 + 50*.15 + 50*.10 + 80*.05
	if b.Total != 43.25 {
		t.Errorf("total: expected 43.25, got %v", b.Total)
	}
}

func TestComputeMemeScore_BoundedTo100(t *testing.T) {
	now := time.Now().UnixMilli()
	tok := &domain.Token{
		ID:               "tok-max",
		PriceUsd:         100,
		InitialPrice:     1, // +9900%
		Volume24h:        50_000_000,
		BuyCount24h:      900,
		SellCount24h:     100,
		Holders:          50_000,
		TwitterFollowers: 500_000,
		TelegramMembers:  100_000,
		LiquidityLocked:  true,
		LaunchDate:       now - 1*time.Hour.Milliseconds(),
	}
	pools := []*domain.LiquidityPool{{LiquidityUsd: 5_000_000}}

	b := NewEngine(DefaultWeights()).ComputeMemeScore(ScoreInput{Token: tok, Pools: pools, Now: now})

	for name, v := range map[string]float64{
		"momentum": b.Momentum, "community": b.Community, "liquidity": b.Liquidity,
		"virality": b.Virality, "safety": b.Safety, "freshness": b.Freshness, "total": b.Total,
	} {
		if v < 0 || v > 100 {
			t.Errorf("%s out of [0,100]: %v", name, v)
		}
	}
	if b.Momentum != 100 {
		t.Errorf("momentum 40+30+30 should clamp at 100, got %v", b.Momentum)
	}
	if b.Freshness != 100 {
		t.Errorf("freshness under one day should be 100, got %v", b.Freshness)
	}
}

func TestMomentumScore_SkipsUnknownInitialPrice(t *testing.T) {
	tok := &domain.Token{PriceUsd: 5, InitialPrice: 0, Volume24h: 200_000}
	if got := momentumScore(tok); got != 10 {
		t.Errorf("price change must not contribute without an initial price, got %v", got)
	}
}

func TestMomentumScore_SkipsOneSidedFlow(t *testing.T) {
	// Buy ratio needs activity on both sides.
	tok := &domain.Token{BuyCount24h: 100, SellCount24h: 0}
	if got := momentumScore(tok); got != 0 {
		t.Errorf("buys without sells must not contribute, got %v", got)
	}
}

func TestTierPoints_StrictlyGreater(t *testing.T) {
	if got := tierPoints(volumeTiers, 100_000); got != 0 {
		t.Errorf("exactly 100k volume is not above the tier, got %v", got)
	}
	if got := tierPoints(volumeTiers, 100_001); got != 10 {
		t.Errorf("just above 100k should give 10, got %v", got)
	}
	if got := tierPoints(volumeTiers, 5_000_001); got != 30 {
		t.Errorf("top tier should give 30, got %v", got)
	}
}

func TestFreshnessPoints_Steps(t *testing.T) {
	cases := []struct {
		days float64
		want float64
	}{
		{0.5, 100},
		{1, 80},
		{2.9, 80},
		{3, 60},
		{6.9, 60},
		{7, 40},
		{13.9, 40},
		{14, 20},
		{29.9, 20},
		{30, 0},
		{400, 0},
	}
	for _, c := range cases {
		if got := freshnessPoints(c.days); got != c.want {
			t.Errorf("freshnessPoints(%v) = %v, want %v", c.days, got, c.want)
		}
	}
}

func TestViralityScore_HourlyHolderGrowth(t *testing.T) {
	// 100 -> 130 holders over 5 hours = 6%/h, second growth tier.
	newest := &domain.Snapshot{Holders: 130, Volume24h: 1000, TimestampMs: msAgo(0)}
	oldest := &domain.Snapshot{Holders: 100, Volume24h: 1000, TimestampMs: msAgo(5 * time.Hour)}

	got := viralityScore([]*domain.Snapshot{newest, oldest})
	if got != 70 {
		t.Errorf("expected 50 baseline + 20 growth = 70, got %v", got)
	}
}

func TestViralityScore_VolumeGrowth(t *testing.T) {
	newest := &domain.Snapshot{Holders: 100, Volume24h: 3000, TimestampMs: msAgo(0)}
	oldest := &domain.Snapshot{Holders: 100, Volume24h: 1000, TimestampMs: msAgo(2 * time.Hour)}

	// +200% volume, no holder growth.
	got := viralityScore([]*domain.Snapshot{newest, oldest})
	if got != 70 {
		t.Errorf("expected 50 baseline + 20 volume growth = 70, got %v", got)
	}
}

func TestViralityScore_SingleSnapshotBaseline(t *testing.T) {
	got := viralityScore([]*domain.Snapshot{{Holders: 100, TimestampMs: msAgo(time.Hour)}})
	if got != 50 {
		t.Errorf("fewer than two snapshots should give baseline 50, got %v", got)
	}
}

func TestSafetyScore_InvertsRisk(t *testing.T) {
	if got := safetyScore(&domain.RiskAnalysis{OverallRiskScore: 30}); got != 70 {
		t.Errorf("risk 30 should give safety 70, got %v", got)
	}
	if got := safetyScore(nil); got != 50 {
		t.Errorf("nil risk should give baseline 50, got %v", got)
	}
}

func TestClampScore(t *testing.T) {
	if clampScore(-5) != 0 {
		t.Error("negative should clamp to 0")
	}
	if clampScore(105) != 100 {
		t.Error("over 100 should clamp to 100")
	}
	if clampScore(55.5) != 55.5 {
		t.Error("in-range values pass through")
	}
}
