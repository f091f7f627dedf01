package domain

// RiskLevel is the categorical risk classification derived from the
// overall risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// riskOrder fixes the severity ordering used by discovery filters.
var riskOrder = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// Index returns the position of the level in [LOW, MEDIUM, HIGH, CRITICAL].
// Unknown levels rank above CRITICAL so they never pass a risk filter.
func (r RiskLevel) Index() int {
	if i, ok := riskOrder[r]; ok {
		return i
	}
	return len(riskOrder)
}

// ParseRiskLevel validates a risk level string.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	r := RiskLevel(s)
	_, ok := riskOrder[r]
	return r, ok
}

// RiskLevelFromScore maps an overall risk score to a level. CRITICAL is
// checked before HIGH: both thresholds are exceeded above 80 and the
// stricter band must win.
func RiskLevelFromScore(overall float64) RiskLevel {
	switch {
	case overall < 30:
		return RiskLow
	case overall > 80:
		return RiskCritical
	case overall > 60:
		return RiskHigh
	default:
		return RiskMedium
	}
}

// RiskAnalysis holds the computed risk profile for a token, one-to-one
// keyed by token ID. Corresponds to token_risk_analysis table in PostgreSQL.
// Recomputed (upserted) on every scoring run.
type RiskAnalysis struct {
	TokenID string

	// Sub-scores, each clamped to [0,100].
	RugPullRisk         float64
	VolatilityRisk      float64
	LiquidityRisk       float64
	HolderConcentration float64

	OverallRiskScore float64 // mean of the four sub-scores
	RiskLevel        RiskLevel

	RedFlags   []string // heuristics that raised risk
	GreenFlags []string // heuristics that lowered risk

	CreatedAt int64 // Unix timestamp in milliseconds
	UpdatedAt int64 // bumped on update only, not on create
}
