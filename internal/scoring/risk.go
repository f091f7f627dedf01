package scoring

import (
	"memescout/internal/domain"
)

// Flag names recorded in RiskAnalysis when a heuristic fires.
const (
	FlagUnverifiedContract      = "unverified_contract"
	FlagVerifiedContract        = "verified_contract"
	FlagRenouncedContract       = "renounced_contract"
	FlagLockedLiquidity         = "locked_liquidity"
	FlagUnlockedLiquidity       = "unlocked_liquidity"
	FlagHighHolderConcentration = "high_holder_concentration"
	FlagDistributedHolders      = "distributed_holders"
	FlagLowLiquidity            = "low_liquidity"
	FlagHighLiquidity           = "high_liquidity"
)

// ComputeRiskAnalysis derives the four risk sub-scores from contract and
// liquidity heuristics. All sub-scores start at the 50 baseline; each
// heuristic that fires is recorded as a red or green flag.
//
// The level thresholds are evaluated CRITICAL before HIGH. The system this
// derives from checked HIGH first, which made CRITICAL unreachable; that
// ordering was a bug, not a contract.
func ComputeRiskAnalysis(t *domain.Token, pools []*domain.LiquidityPool) *domain.RiskAnalysis {
	var redFlags, greenFlags []string
	rugPullRisk := 50.0
	volatilityRisk := 50.0
	liquidityRisk := 50.0
	holderConcentration := 50.0

	// Contract verification
	if !t.ContractVerified {
		redFlags = append(redFlags, FlagUnverifiedContract)
		rugPullRisk += 20
	} else {
		greenFlags = append(greenFlags, FlagVerifiedContract)
		rugPullRisk -= 10
	}

	// Contract renounced
	if t.ContractRenounced {
		greenFlags = append(greenFlags, FlagRenouncedContract)
		rugPullRisk -= 20
	}

	// Liquidity locked
	if t.LiquidityLocked {
		greenFlags = append(greenFlags, FlagLockedLiquidity)
		rugPullRisk -= 15
		liquidityRisk -= 20
	} else {
		redFlags = append(redFlags, FlagUnlockedLiquidity)
		rugPullRisk += 15
	}

	// Holder concentration
	if t.TopHoldersPercent > 50 {
		redFlags = append(redFlags, FlagHighHolderConcentration)
		holderConcentration = 80
		rugPullRisk += 15
	} else if t.TopHoldersPercent > 0 && t.TopHoldersPercent < 20 {
		greenFlags = append(greenFlags, FlagDistributedHolders)
		holderConcentration = 20
	}

	// Liquidity depth
	totalLiquidity := domain.TotalLiquidityUsd(pools)
	if totalLiquidity < 50000 {
		redFlags = append(redFlags, FlagLowLiquidity)
		liquidityRisk = 80
	} else if totalLiquidity > 500000 {
		greenFlags = append(greenFlags, FlagHighLiquidity)
		liquidityRisk = 20
	}

	rugPullRisk = clampScore(rugPullRisk)
	volatilityRisk = clampScore(volatilityRisk)
	liquidityRisk = clampScore(liquidityRisk)
	holderConcentration = clampScore(holderConcentration)

	overall := clampScore((rugPullRisk + volatilityRisk + liquidityRisk + holderConcentration) / 4)

	return &domain.RiskAnalysis{
		TokenID:             t.ID,
		RugPullRisk:         rugPullRisk,
		VolatilityRisk:      volatilityRisk,
		LiquidityRisk:       liquidityRisk,
		HolderConcentration: holderConcentration,
		OverallRiskScore:    overall,
		RiskLevel:           domain.RiskLevelFromScore(overall),
		RedFlags:            redFlags,
		GreenFlags:          greenFlags,
	}
}
