package domain

// SortKey selects the ranking order for discovery results.
type SortKey string

const (
	SortScore   SortKey = "score"
	SortVolume  SortKey = "volume"
	SortHolders SortKey = "holders"
	// SortMomentum currently falls back to volume-descending. A genuine
	// momentum composite (score trend + volume trend) is an open design
	// point; the sort key is the seam for it.
	SortMomentum SortKey = "momentum"
)

// ParseSortKey validates a sort key string.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortScore, SortVolume, SortHolders, SortMomentum:
		return SortKey(s), true
	}
	return "", false
}

// DiscoveryFilters parameterizes the trending-coins query. Zero values are
// replaced by defaults via Normalize.
type DiscoveryFilters struct {
	MinScore     float64
	MaxDaysOld   int
	MinLiquidity float64
	MinHolders   int
	MaxRiskLevel RiskLevel
	Tags         []string
	SortBy       SortKey
	Limit        int
}

// DefaultDiscoveryFilters returns the documented defaults.
func DefaultDiscoveryFilters() DiscoveryFilters {
	return DiscoveryFilters{
		MinScore:     50,
		MaxDaysOld:   30,
		MinLiquidity: 50000,
		MinHolders:   100,
		MaxRiskLevel: RiskHigh,
		SortBy:       SortScore,
		Limit:        50,
	}
}

// Normalize fills unset fields with defaults and bounds the limit.
func (f DiscoveryFilters) Normalize() DiscoveryFilters {
	def := DefaultDiscoveryFilters()
	if f.MinScore <= 0 {
		f.MinScore = def.MinScore
	}
	if f.MaxDaysOld <= 0 {
		f.MaxDaysOld = def.MaxDaysOld
	}
	if f.MinLiquidity <= 0 {
		f.MinLiquidity = def.MinLiquidity
	}
	if f.MinHolders <= 0 {
		f.MinHolders = def.MinHolders
	}
	if f.MaxRiskLevel == "" {
		f.MaxRiskLevel = def.MaxRiskLevel
	}
	if f.SortBy == "" {
		f.SortBy = def.SortBy
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = def.Limit
	}
	return f
}
