package domain

import "testing"

func TestRiskLevelFromScore_Boundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  RiskLevel
	}{
		{0, RiskLow},
		{29.9, RiskLow},
		{30, RiskMedium},
		{45, RiskMedium},
		{60, RiskMedium},
		{60.1, RiskHigh},
		{80, RiskHigh},
		{80.1, RiskCritical},
		{100, RiskCritical},
	}

	for _, c := range cases {
		if got := RiskLevelFromScore(c.score); got != c.want {
			t.Errorf("RiskLevelFromScore(%v) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestRiskLevel_Index_Ordering(t *testing.T) {
	if RiskLow.Index() >= RiskMedium.Index() {
		t.Error("LOW should rank below MEDIUM")
	}
	if RiskMedium.Index() >= RiskHigh.Index() {
		t.Error("MEDIUM should rank below HIGH")
	}
	if RiskHigh.Index() >= RiskCritical.Index() {
		t.Error("HIGH should rank below CRITICAL")
	}
}

func TestRiskLevel_Index_UnknownNeverPasses(t *testing.T) {
	// An unknown level must rank above CRITICAL so it fails any max-risk filter.
	if RiskLevel("BOGUS").Index() <= RiskCritical.Index() {
		t.Errorf("unknown level index %d should exceed CRITICAL %d",
			RiskLevel("BOGUS").Index(), RiskCritical.Index())
	}
}

func TestParseRiskLevel(t *testing.T) {
	if _, ok := ParseRiskLevel("HIGH"); !ok {
		t.Error("HIGH should parse")
	}
	if _, ok := ParseRiskLevel("high"); ok {
		t.Error("lowercase should not parse")
	}
	if _, ok := ParseRiskLevel(""); ok {
		t.Error("empty should not parse")
	}
}
